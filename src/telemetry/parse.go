package telemetry

import (
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"

	autoscalingv1 "k8s.io/api/autoscaling/v1"
	corev1 "k8s.io/api/core/v1"
)

// TimestampFromFilename extracts the timestamp id from a capture filename:
// the stem (base name without extension) minus a known prefix. A stem that
// does not start with the prefix yields the unknown sentinel.
func TimestampFromFilename(path, prefix string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if strings.HasPrefix(stem, prefix) {
		return strings.TrimPrefix(stem, prefix)
	}
	return Unknown
}

// ParsePodSnapshot decodes one `kubectl get pods -o json` payload into a
// placement snapshot. Missing names, nodes or app labels default to the
// unknown sentinel; those gaps are expected in partial deployments.
func ParsePodSnapshot(data []byte, timestamp string) (PodSnapshot, error) {
	var list corev1.PodList
	if err := json.Unmarshal(data, &list); err != nil {
		return PodSnapshot{}, err
	}
	snap := PodSnapshot{Timestamp: timestamp}
	for i := range list.Items {
		pod := &list.Items[i]
		info := PodInfo{
			Name:      pod.Name,
			Namespace: pod.Namespace,
			Node:      pod.Spec.NodeName,
			App:       pod.Labels["app"],
		}
		if info.Name == "" {
			info.Name = Unknown
		}
		if info.Node == "" {
			info.Node = Unknown
		}
		if info.App == "" {
			info.App = Unknown
		}
		snap.Pods = append(snap.Pods, info)
	}
	return snap, nil
}

// MergeEndpoints decodes one `kubectl get endpoints -o json` payload and
// folds its node names into the running service->nodes view. Addresses
// without a node name are skipped.
func MergeEndpoints(data []byte, into ServiceNodes) error {
	var list corev1.EndpointsList
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	for i := range list.Items {
		ep := &list.Items[i]
		name := ep.Name
		if name == "" {
			name = Unknown
		}
		for _, subset := range ep.Subsets {
			for _, addr := range subset.Addresses {
				if addr.NodeName == nil || *addr.NodeName == "" {
					continue
				}
				set := into[name]
				if set == nil {
					set = make(map[string]bool)
					into[name] = set
				}
				set[*addr.NodeName] = true
			}
		}
	}
	return nil
}

// ValidSnapshotStamp reports whether an autoscaler timestamp token is a
// well-formed numeric/date id: only digits once "-" and "_" separators are
// removed. Snapshots named outside this convention are discarded.
func ValidSnapshotStamp(ts string) bool {
	cleaned := strings.NewReplacer("-", "", "_", "").Replace(ts)
	if cleaned == "" {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseReplicaSnapshot decodes one HPA list payload into per-autoscaler
// desired/current counts. Items without a name are skipped.
func ParseReplicaSnapshot(data []byte, timestamp string) (ReplicaSnapshot, error) {
	var list autoscalingv1.HorizontalPodAutoscalerList
	if err := json.Unmarshal(data, &list); err != nil {
		return ReplicaSnapshot{}, err
	}
	snap := ReplicaSnapshot{Timestamp: timestamp, Replicas: make(map[string]ReplicaCount)}
	for i := range list.Items {
		hpa := &list.Items[i]
		if hpa.Name == "" {
			continue
		}
		snap.Replicas[hpa.Name] = ReplicaCount{
			Desired: hpa.Status.DesiredReplicas,
			Current: hpa.Status.CurrentReplicas,
		}
	}
	return snap, nil
}

// probeLine is the wire form of one JSONL probe record.
type probeLine struct {
	Timestamp     string `json:"timestamp"`
	SourcePod     string `json:"source_pod"`
	SourceNode    string `json:"source_node"`
	TargetService string `json:"target_service"`
	Probe         string `json:"probe"`
}

// ParseProbeLine decodes one JSONL probe record. Identity fields default to
// the unknown sentinel; the metrics string is parsed with ParseProbeMetrics.
func ParseProbeLine(line []byte) (Probe, error) {
	var row probeLine
	if err := json.Unmarshal(line, &row); err != nil {
		return Probe{}, err
	}
	p := Probe{
		Timestamp:     row.Timestamp,
		SourcePod:     orUnknown(row.SourcePod),
		SourceNode:    orUnknown(row.SourceNode),
		TargetService: orUnknown(row.TargetService),
	}
	p.Metrics, p.Code = ParseProbeMetrics(row.Probe)
	return p, nil
}

// ParseProbeMetrics parses the free-form "key=value ..." metrics string.
// Tokens without "=" are ignored and a numeric parse failure drops that one
// token, never the record. Timing values arrive in seconds (curl -w output)
// and are returned in milliseconds; "code" parses as an integer response
// code.
func ParseProbeMetrics(raw string) (map[string]float64, *int) {
	metrics := make(map[string]float64)
	var code *int
	for _, token := range strings.Fields(raw) {
		k, v, found := strings.Cut(token, "=")
		if !found {
			continue
		}
		if k == "code" {
			n, err := strconv.Atoi(v)
			if err != nil {
				continue
			}
			code = &n
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		metrics[k] = f * 1000.0 // seconds -> ms
	}
	return metrics, code
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

// Subset of fortio's JSON output used here.
type fortioPercentileRow struct {
	Percentile float64 `json:"Percentile"`
	Value      float64 `json:"Value"`
}

type fortioHistogram struct {
	Count       int64                 `json:"Count"`
	Avg         float64               `json:"Avg"`
	Percentiles []fortioPercentileRow `json:"Percentiles"`
}

type fortioResult struct {
	ActualQPS         float64         `json:"ActualQPS"`
	DurationHistogram fortioHistogram `json:"DurationHistogram"`
}

// ParseBurst decodes one fortio burst payload. The filename carries the burst
// index and target endpoint (fortio-burst-<idx>-<endpoint>.json); histogram
// durations arrive in seconds and are normalized to milliseconds.
func ParseBurst(data []byte, filename string) (Burst, error) {
	var res fortioResult
	if err := json.Unmarshal(data, &res); err != nil {
		return Burst{}, err
	}
	b := Burst{File: filepath.Base(filename), ActualQPS: res.ActualQPS}
	b.Index, b.Endpoint = burstFileParts(b.File)
	b.Count = res.DurationHistogram.Count
	b.AvgMs = res.DurationHistogram.Avg * 1000.0
	b.Percentiles = make(map[float64]float64, len(res.DurationHistogram.Percentiles))
	for _, row := range res.DurationHistogram.Percentiles {
		b.Percentiles[row.Percentile] = row.Value * 1000.0
	}
	return b, nil
}

// burstFileParts parses fortio-burst-<idx>-<endpoint>.json. The endpoint is
// the last dash token; names with fewer than four tokens yield the unknown
// sentinel, and a non-numeric index token yields -1.
func burstFileParts(name string) (int, string) {
	stem := strings.TrimSuffix(name, ".json")
	parts := strings.Split(stem, "-")
	idx := -1
	endpoint := Unknown
	if len(parts) >= 4 {
		endpoint = parts[len(parts)-1]
		if n, err := strconv.Atoi(parts[2]); err == nil {
			idx = n
		}
	}
	return idx, endpoint
}
