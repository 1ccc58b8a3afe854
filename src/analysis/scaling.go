package analysis

import (
	"sort"

	"github.com/Anirudh-R-1201/CSCI599/src/telemetry"
)

// ReplicaStatus is one autoscaler's desired/current pair within a row. Nil
// pointers mean the autoscaler stream had no snapshot at that timestamp.
type ReplicaStatus struct {
	Desired *int32 `json:"desired"`
	Current *int32 `json:"current"`
}

// ReplicaLatencyRow joins autoscaler state with the latency percentiles of
// the probes recorded at the same timestamp. Percentile fields are nil when
// no probes share the timestamp: values are never interpolated across
// timestamps.
type ReplicaLatencyRow struct {
	Timestamp string                   `json:"timestamp"`
	Replicas  map[string]ReplicaStatus `json:"replicas"`
	P95Ms     *float64                 `json:"s2s_p95_ms"`
	P99Ms     *float64                 `json:"s2s_p99_ms"`
}

// CorrelateReplicas emits one row per timestamp in the union of the
// autoscaler and probe streams, sorted by timestamp. Timestamps only the
// probe stream saw still emit a row with empty replica fields: scaling
// visibility does not gate latency visibility. Every row carries a column for
// every autoscaler name seen anywhere in the run.
func CorrelateReplicas(snapshots []telemetry.ReplicaSnapshot, probes []telemetry.Probe) []ReplicaLatencyRow {
	totalsByTS := map[string][]float64{}
	for i := range probes {
		p := &probes[i]
		if p.Timestamp == "" {
			continue
		}
		if v, ok := p.Total(); ok {
			totalsByTS[p.Timestamp] = append(totalsByTS[p.Timestamp], v)
		}
	}

	names := map[string]bool{}
	for _, snap := range snapshots {
		for name := range snap.Replicas {
			names[name] = true
		}
	}

	var rows []ReplicaLatencyRow
	seen := map[string]bool{}
	for _, snap := range snapshots {
		row := ReplicaLatencyRow{Timestamp: snap.Timestamp, Replicas: map[string]ReplicaStatus{}}
		for name := range names {
			if rc, ok := snap.Replicas[name]; ok {
				desired, current := rc.Desired, rc.Current
				row.Replicas[name] = ReplicaStatus{Desired: &desired, Current: &current}
			} else {
				row.Replicas[name] = ReplicaStatus{}
			}
		}
		row.P95Ms, row.P99Ms = tailAt(totalsByTS[snap.Timestamp])
		rows = append(rows, row)
		seen[snap.Timestamp] = true
	}

	for ts, totals := range totalsByTS {
		if seen[ts] {
			continue
		}
		row := ReplicaLatencyRow{Timestamp: ts, Replicas: map[string]ReplicaStatus{}}
		for name := range names {
			row.Replicas[name] = ReplicaStatus{}
		}
		row.P95Ms, row.P99Ms = tailAt(totals)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Timestamp < rows[j].Timestamp })
	return rows
}

func tailAt(totals []float64) (p95, p99 *float64) {
	if len(totals) == 0 {
		return nil, nil
	}
	sorted := append([]float64(nil), totals...)
	sort.Float64s(sorted)
	return optPercentile(sorted, 95), optPercentile(sorted, 99)
}
