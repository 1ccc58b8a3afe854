package analysis

import (
	"sort"

	"github.com/Anirudh-R-1201/CSCI599/src/telemetry"
)

// EndpointSummary rolls up every burst run that targeted one frontend
// endpoint.
type EndpointSummary struct {
	Runs         int      `json:"runs"`
	AvgActualQPS *float64 `json:"avg_actual_qps"`
	MaxActualQPS *float64 `json:"max_actual_qps"`
	P95MsMedian  *float64 `json:"p95_ms_median"`
	P95MsMax     *float64 `json:"p95_ms_max"`
	P99MsMedian  *float64 `json:"p99_ms_median"`
	P99MsMax     *float64 `json:"p99_ms_max"`
}

// ClusterSummary describes whole-cluster burst throughput. A burst fires
// parallel runs against several endpoints at once, so per-burst combined QPS
// is the sum of the co-indexed runs: parallel throughput is additive, and
// averaging would understate it.
type ClusterSummary struct {
	BurstCount           int      `json:"burst_count"`
	CombinedActualQPSAvg *float64 `json:"combined_actual_qps_avg"`
	CombinedActualQPSP95 *float64 `json:"combined_actual_qps_p95"`
	CombinedActualQPSMax *float64 `json:"combined_actual_qps_max"`
}

// E2EReport summarizes the end-to-end latency and throughput of the fortio
// bursts.
type E2EReport struct {
	Endpoints map[string]EndpointSummary `json:"endpoint_summary"`
	Cluster   ClusterSummary             `json:"cluster_summary"`
}

// SummarizeE2E aggregates fortio burst results per endpoint and
// cluster-wide. Bursts without a numeric index (Index < 0) still count toward
// their endpoint but cannot join a combined-QPS group.
func SummarizeE2E(bursts []telemetry.Burst) E2EReport {
	perEndpoint := map[string][]telemetry.Burst{}
	combinedQPS := map[int]float64{}
	for _, b := range bursts {
		perEndpoint[b.Endpoint] = append(perEndpoint[b.Endpoint], b)
		if b.Index >= 0 {
			combinedQPS[b.Index] += b.ActualQPS
		}
	}

	report := E2EReport{Endpoints: map[string]EndpointSummary{}}
	for endpoint, runs := range perEndpoint {
		var p95s, p99s, qps []float64
		for _, b := range runs {
			if v, ok := b.Percentiles[95]; ok {
				p95s = append(p95s, v)
			}
			if v, ok := b.Percentiles[99]; ok {
				p99s = append(p99s, v)
			}
			qps = append(qps, b.ActualQPS)
		}
		sort.Float64s(p95s)
		sort.Float64s(p99s)
		report.Endpoints[endpoint] = EndpointSummary{
			Runs:         len(runs),
			AvgActualQPS: optMean(qps),
			MaxActualQPS: optMax(qps),
			P95MsMedian:  optPercentile(p95s, 50),
			P95MsMax:     optMax(p95s),
			P99MsMedian:  optPercentile(p99s, 50),
			P99MsMax:     optMax(p99s),
		}
	}

	sums := make([]float64, 0, len(combinedQPS))
	for _, v := range combinedQPS {
		sums = append(sums, v)
	}
	sort.Float64s(sums)
	report.Cluster = ClusterSummary{
		BurstCount:           len(sums),
		CombinedActualQPSAvg: optMean(sums),
		CombinedActualQPSP95: optPercentile(sums, 95),
		CombinedActualQPSMax: optMax(sums),
	}
	return report
}
