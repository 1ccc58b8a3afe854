package analysis

import (
	"sort"

	"github.com/Anirudh-R-1201/CSCI599/src/telemetry"
)

// PathKey identifies one logical call path at pod granularity.
type PathKey struct {
	SourcePod     string
	TargetService string
}

func (k PathKey) String() string { return k.SourcePod + "->" + k.TargetService }

// PathSummary aggregates the probes sharing one path. Nil fields mean no
// data: in particular a nil ErrorRate means the path recorded no response
// codes at all, which is different from observing zero errors.
type PathSummary struct {
	Samples       int      `json:"samples"`
	TotalAvgMs    *float64 `json:"total_avg_ms"`
	TotalP95Ms    *float64 `json:"total_p95_ms"`
	TotalP99Ms    *float64 `json:"total_p99_ms"`
	DNSAvgMs      *float64 `json:"dns_avg_ms"`
	ConnectAvgMs  *float64 `json:"connect_avg_ms"`
	TTFBAvgMs     *float64 `json:"ttfb_avg_ms"`
	QueueingAvgMs *float64 `json:"queueing_avg_ms"`
	ErrorRate     *float64 `json:"error_rate"`
}

// PathReport carries the per-path summaries plus the run-wide rollup.
type PathReport struct {
	Paths        map[string]PathSummary `json:"path_summary"`
	PathCount    int                    `json:"path_count"`
	TotalSamples int                    `json:"total_samples"`
}

// AggregatePaths groups probes by (source pod, target service) and summarizes
// each group. Paths that never recorded a total latency are dropped: there is
// nothing to report against.
func AggregatePaths(probes []telemetry.Probe) PathReport {
	type accum struct {
		totals, dns, connect, ttfb, queueing []float64
		codes                                []int
	}
	groups := map[PathKey]*accum{}
	for i := range probes {
		p := &probes[i]
		key := PathKey{SourcePod: p.SourcePod, TargetService: p.TargetService}
		acc := groups[key]
		if acc == nil {
			acc = &accum{}
			groups[key] = acc
		}
		if p.Code != nil {
			acc.codes = append(acc.codes, *p.Code)
		}
		if v, ok := p.Metrics["dns"]; ok {
			acc.dns = append(acc.dns, v)
		}
		connect, hasConnect := p.Metrics["connect"]
		if hasConnect {
			acc.connect = append(acc.connect, connect)
		}
		ttfb, hasTTFB := p.Metrics["ttfb"]
		if hasTTFB {
			acc.ttfb = append(acc.ttfb, ttfb)
		}
		if v, ok := p.Total(); ok {
			acc.totals = append(acc.totals, v)
		}
		// The queueing estimate ttfb-connect needs both halves of the
		// decomposition from the same probe. A negative difference is
		// measurement noise (connect occasionally overshoots ttfb) and is
		// dropped as invalid, not clamped to zero.
		if hasConnect && hasTTFB && ttfb-connect >= 0 {
			acc.queueing = append(acc.queueing, ttfb-connect)
		}
	}

	report := PathReport{Paths: map[string]PathSummary{}}
	for key, acc := range groups {
		if len(acc.totals) == 0 {
			continue
		}
		sort.Float64s(acc.totals)
		s := PathSummary{
			Samples:       len(acc.totals),
			TotalAvgMs:    optMean(acc.totals),
			TotalP95Ms:    optPercentile(acc.totals, 95),
			TotalP99Ms:    optPercentile(acc.totals, 99),
			DNSAvgMs:      optMean(acc.dns),
			ConnectAvgMs:  optMean(acc.connect),
			TTFBAvgMs:     optMean(acc.ttfb),
			QueueingAvgMs: optMean(acc.queueing),
		}
		if len(acc.codes) > 0 {
			errs := 0
			for _, c := range acc.codes {
				if c >= 400 {
					errs++
				}
			}
			rate := float64(errs) / float64(len(acc.codes))
			s.ErrorRate = &rate
		}
		report.TotalSamples += s.Samples
		report.Paths[key.String()] = s
	}
	report.PathCount = len(report.Paths)
	return report
}
