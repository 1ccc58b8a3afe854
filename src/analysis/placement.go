package analysis

import (
	"sort"

	"github.com/Anirudh-R-1201/CSCI599/src/telemetry"
)

// PodObservation is one (timestamp, node) sighting of a pod.
type PodObservation struct {
	Timestamp string `json:"timestamp"`
	Node      string `json:"node"`
	App       string `json:"app"`
}

// ServiceSpread describes where one service's pods sat at the latest
// snapshot.
type ServiceSpread struct {
	NodesUsed      []string       `json:"nodes_used"`
	NodeCount      int            `json:"node_count"`
	PodCountByNode map[string]int `json:"pod_count_by_node"`
}

// ServiceSpreadAvg is the time-averaged spread over every snapshot in the
// run. Counts are rationals, not integers; NodesUsed lists every node seen in
// the run so all services share one node axis.
type ServiceSpreadAvg struct {
	NodesUsed      []string           `json:"nodes_used"`
	NodeCount      int                `json:"node_count"`
	PodCountByNode map[string]float64 `json:"pod_count_by_node"`
}

// PlacementSummary is the Placement Tracker output.
type PlacementSummary struct {
	LatestTimestamp      string                      `json:"latest_timestamp,omitempty"`
	LatestNodeToPods     map[string][]string         `json:"latest_node_to_pods"`
	PodMovements         map[string][]PodObservation `json:"pod_movements"`
	ServiceNodeSpread    map[string]ServiceSpread    `json:"service_node_spread"`
	ServiceNodeSpreadAvg map[string]ServiceSpreadAvg `json:"service_node_spread_avg"`
	SnapshotCount        int                         `json:"snapshot_count"`
}

// SummarizePlacement replays snapshots in the order given (callers supply
// chronological order; filename-sorted loads already are) and derives per-pod
// location history, relocations and service spread. Zero snapshots yield an
// empty summary, never an error.
func SummarizePlacement(snapshots []telemetry.PodSnapshot) PlacementSummary {
	summary := PlacementSummary{
		LatestNodeToPods:     map[string][]string{},
		PodMovements:         map[string][]PodObservation{},
		ServiceNodeSpread:    map[string]ServiceSpread{},
		ServiceNodeSpreadAvg: map[string]ServiceSpreadAvg{},
		SnapshotCount:        len(snapshots),
	}
	if len(snapshots) == 0 {
		return summary
	}

	history := map[string][]PodObservation{}
	latest := snapshots[0].Timestamp
	for _, snap := range snapshots {
		if snap.Timestamp > latest {
			latest = snap.Timestamp
		}
		for _, pod := range snap.Pods {
			history[pod.Name] = append(history[pod.Name], PodObservation{
				Timestamp: snap.Timestamp,
				Node:      pod.Node,
				App:       pod.App,
			})
		}
	}
	summary.LatestTimestamp = latest

	// A pod "moved" when its history holds more than one distinct node; the
	// report carries the full timeline, not just the endpoints.
	for name, entries := range history {
		distinct := map[string]bool{}
		for _, e := range entries {
			distinct[e.Node] = true
		}
		if len(distinct) > 1 {
			summary.PodMovements[name] = entries
		}
	}

	// Instantaneous spread comes from the latest snapshot only: that is the
	// actual current placement, not a blend.
	var latestSnap *telemetry.PodSnapshot
	for i := range snapshots {
		if snapshots[i].Timestamp == latest {
			latestSnap = &snapshots[i]
			break
		}
	}
	if latestSnap != nil {
		latestCounts := map[string]map[string]int{}
		for _, pod := range latestSnap.Pods {
			summary.LatestNodeToPods[pod.Node] = append(summary.LatestNodeToPods[pod.Node], pod.Name)
			if pod.Node == "" || pod.Node == telemetry.Unknown {
				continue
			}
			byNode := latestCounts[pod.App]
			if byNode == nil {
				byNode = map[string]int{}
				latestCounts[pod.App] = byNode
			}
			byNode[pod.Node]++
		}
		for _, pods := range summary.LatestNodeToPods {
			sort.Strings(pods)
		}
		for svc, byNode := range latestCounts {
			summary.ServiceNodeSpread[svc] = ServiceSpread{
				NodesUsed:      sortedKeys(byNode),
				NodeCount:      len(byNode),
				PodCountByNode: byNode,
			}
		}
	}

	// Time-averaged spread divides per-service per-node totals by the total
	// snapshot count: a pair absent from some snapshots contributes zero for
	// those, so the average reflects sustained presence rather than the
	// conditional average over snapshots where the pair existed. Accumulation
	// stays exact; any two-decimal rounding is presentation-only.
	totals := map[string]map[string]int{}
	allNodes := map[string]bool{}
	for _, snap := range snapshots {
		for _, pod := range snap.Pods {
			if pod.Node == "" || pod.Node == telemetry.Unknown {
				continue
			}
			byNode := totals[pod.App]
			if byNode == nil {
				byNode = map[string]int{}
				totals[pod.App] = byNode
			}
			byNode[pod.Node]++
			allNodes[pod.Node] = true
		}
	}
	nodes := sortedKeys(allNodes)
	n := float64(len(snapshots))
	for svc, byNode := range totals {
		avg := make(map[string]float64, len(nodes))
		for _, node := range nodes {
			avg[node] = float64(byNode[node]) / n
		}
		summary.ServiceNodeSpreadAvg[svc] = ServiceSpreadAvg{
			NodesUsed:      nodes,
			NodeCount:      len(nodes),
			PodCountByNode: avg,
		}
	}

	return summary
}
