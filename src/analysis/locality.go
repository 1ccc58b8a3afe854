package analysis

import (
	"sort"
	"strings"

	"github.com/Anirudh-R-1201/CSCI599/src/stats"
	"github.com/Anirudh-R-1201/CSCI599/src/telemetry"
)

// NodePairKey identifies source node -> target service, one granularity
// coarser than PathKey.
type NodePairKey struct {
	SourceNode    string
	TargetService string
}

func (k NodePairKey) String() string { return k.SourceNode + " -> " + k.TargetService }

// PairRatio is the cross-node call share for one (source app, target
// service) pair, over the probes that could be classified.
type PairRatio struct {
	SourceApp     string  `json:"source_app"`
	TargetService string  `json:"target_service"`
	Total         int     `json:"total"`
	Cross         int     `json:"cross"`
	Ratio         float64 `json:"cross_node_ratio"`
}

// NodePairSummary aggregates total latency per node pair.
type NodePairSummary struct {
	SourceNode    string   `json:"source_node"`
	TargetService string   `json:"target_service"`
	Samples       int      `json:"samples"`
	TotalAvgMs    *float64 `json:"total_avg_ms"`
	TotalP95Ms    *float64 `json:"total_p95_ms"`
	TotalP99Ms    *float64 `json:"total_p99_ms"`
}

// LocalityReport is the Locality Correlator output: pair-level cross-node
// ratios, the same-node and cross-node latency pools with their CDFs, and
// tail latency per node pair.
type LocalityReport struct {
	CrossNodeRatioByPair map[string]PairRatio       `json:"cross_node_ratio_by_pair"`
	SameNodeLatencies    []float64                  `json:"same_node_latencies"`
	CrossNodeLatencies   []float64                  `json:"cross_node_latencies"`
	SameNodeCDF          []stats.CDFPoint           `json:"same_node_cdf"`
	CrossNodeCDF         []stats.CDFPoint           `json:"cross_node_cdf"`
	NodePairs            map[string]NodePairSummary `json:"node_pair_summary"`
	SameNodeCount        int                        `json:"same_node_count"`
	CrossNodeCount       int                        `json:"cross_node_count"`
	IntraNodeRatio       *float64                   `json:"intra_node_ratio"`
}

// AppFromPod derives a deployment-style app name by stripping the last two
// dash tokens from a pod name (replicaset hash plus pod hash). Best-effort
// heuristic: an app whose own name contains dashes keeps them, while a
// two-token name loses only its last token. This matches the capture
// pipeline's naming and is not made stricter here.
func AppFromPod(pod string) string {
	parts := strings.Split(pod, "-")
	switch {
	case len(parts) >= 3:
		return strings.Join(parts[:len(parts)-2], "-")
	case len(parts) == 2:
		return parts[0]
	default:
		return pod
	}
}

// CorrelateLocality joins each probe's source node against the target
// service's known node set. A probe classifies as same-node when its source
// node is in the set, cross-node otherwise. Probes with an unknown source
// node, or whose target service has no known node set, cannot be classified
// and are excluded from the counts entirely - not lumped into either side.
// Node-pair aggregation only needs a known source node and so keeps probes
// the classifier has to drop.
func CorrelateLocality(probes []telemetry.Probe, serviceNodes telemetry.ServiceNodes) LocalityReport {
	report := LocalityReport{
		CrossNodeRatioByPair: map[string]PairRatio{},
		NodePairs:            map[string]NodePairSummary{},
	}

	pairTotals := map[NodePairKey][]float64{}
	type pairCount struct{ total, cross int }
	ratioCounts := map[string]*pairCount{}
	apps := map[string]PairRatio{} // key -> identity fields

	for i := range probes {
		p := &probes[i]
		sourceKnown := p.SourceNode != "" && p.SourceNode != telemetry.Unknown
		total, hasTotal := p.Total()

		if sourceKnown && hasTotal {
			key := NodePairKey{SourceNode: p.SourceNode, TargetService: p.TargetService}
			pairTotals[key] = append(pairTotals[key], total)
		}

		nodes := serviceNodes[p.TargetService]
		if !sourceKnown || len(nodes) == 0 {
			continue
		}
		same := nodes[p.SourceNode]

		pairKey := AppFromPod(p.SourcePod) + "->" + p.TargetService
		pc := ratioCounts[pairKey]
		if pc == nil {
			pc = &pairCount{}
			ratioCounts[pairKey] = pc
			apps[pairKey] = PairRatio{SourceApp: AppFromPod(p.SourcePod), TargetService: p.TargetService}
		}
		pc.total++
		if same {
			report.SameNodeCount++
		} else {
			pc.cross++
			report.CrossNodeCount++
		}

		if hasTotal {
			if same {
				report.SameNodeLatencies = append(report.SameNodeLatencies, total)
			} else {
				report.CrossNodeLatencies = append(report.CrossNodeLatencies, total)
			}
		}
	}

	for key, pc := range ratioCounts {
		r := apps[key]
		r.Total = pc.total
		r.Cross = pc.cross
		if pc.total > 0 {
			r.Ratio = float64(pc.cross) / float64(pc.total)
		}
		report.CrossNodeRatioByPair[key] = r
	}

	for key, totals := range pairTotals {
		sort.Float64s(totals)
		report.NodePairs[key.String()] = NodePairSummary{
			SourceNode:    key.SourceNode,
			TargetService: key.TargetService,
			Samples:       len(totals),
			TotalAvgMs:    optMean(totals),
			TotalP95Ms:    optPercentile(totals, 95),
			TotalP99Ms:    optPercentile(totals, 99),
		}
	}

	report.SameNodeCDF = stats.CDF(report.SameNodeLatencies)
	report.CrossNodeCDF = stats.CDF(report.CrossNodeLatencies)

	if classified := report.SameNodeCount + report.CrossNodeCount; classified > 0 {
		ratio := float64(report.SameNodeCount) / float64(classified)
		report.IntraNodeRatio = &ratio
	}
	return report
}
