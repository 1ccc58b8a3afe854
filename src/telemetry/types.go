// Package telemetry turns the raw artifacts captured during a load-test run
// against the service mesh into canonical records: pod placement snapshots,
// service endpoint views, autoscaler snapshots, service-to-service latency
// probes and fortio burst results. Parsing tolerates partial and malformed
// inputs; one bad file or line never aborts a run.
package telemetry

// Unknown is the sentinel for any field the capture did not record.
const Unknown = "unknown"

// PodInfo is one pod observed in a placement snapshot.
type PodInfo struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Node      string `json:"node"`
	App       string `json:"app"`
}

// PodSnapshot is one point-in-time placement capture. Pod names are unique
// within a snapshot; the timestamp is the sortable id taken from the capture
// filename.
type PodSnapshot struct {
	Timestamp string    `json:"timestamp"`
	Pods      []PodInfo `json:"pods"`
}

// ServiceNodes maps a service name to the set of nodes hosting at least one
// endpoint address for it. The view is the union over every endpoint snapshot
// in the run: a node that ever hosted the service counts as known.
type ServiceNodes map[string]map[string]bool

// ReplicaCount is one autoscaler's desired/current status at an instant.
type ReplicaCount struct {
	Desired int32 `json:"desired"`
	Current int32 `json:"current"`
}

// ReplicaSnapshot is one autoscaler capture, keyed by autoscaler name.
type ReplicaSnapshot struct {
	Timestamp string                  `json:"timestamp"`
	Replicas  map[string]ReplicaCount `json:"replicas"`
}

// Probe is a single measured service-to-service call. Metrics holds whatever
// key=value tokens the probe string carried, normalized to milliseconds; the
// set varies by probe type, so it stays a sparse map rather than a fixed
// schema. Code is nil when the probe recorded no response code.
type Probe struct {
	Timestamp     string
	SourcePod     string
	SourceNode    string
	TargetService string
	Metrics       map[string]float64
	Code          *int
}

// Total returns the end-to-end latency in ms and whether the probe had one.
func (p *Probe) Total() (float64, bool) {
	v, ok := p.Metrics["total"]
	return v, ok
}

// Burst is one fortio run against one frontend endpoint. Index groups the
// parallel endpoint runs fired together in the same burst; it is -1 when the
// filename did not carry a numeric burst id.
type Burst struct {
	File        string
	Index       int
	Endpoint    string
	ActualQPS   float64
	Count       int64
	AvgMs       float64
	Percentiles map[float64]float64 // percentile -> latency ms
}
