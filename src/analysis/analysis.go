// Package analysis derives the aligned statistical summaries for one
// load-test run: pod placement behaviour, per-path and per-node-pair latency,
// call locality, replica-count correlation and burst throughput. Each
// summarizer is a pure function of the record set handed to it; nothing here
// keeps state across invocations. All rank statistics go through src/stats so
// the estimators cannot drift apart between reports.
package analysis

import (
	"sort"

	"github.com/Anirudh-R-1201/CSCI599/src/stats"
)

// optMean, optPercentile and optMax adapt stats results onto the nullable
// JSON fields the summary structs carry: nil means "no data", which is
// distinct from zero.

func optMean(values []float64) *float64 {
	if v, ok := stats.Mean(values); ok {
		return &v
	}
	return nil
}

// optPercentile expects values pre-sorted ascending, per the stats contract.
func optPercentile(sorted []float64, q float64) *float64 {
	if v, ok := stats.Percentile(sorted, q); ok {
		return &v
	}
	return nil
}

func optMax(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return &m
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
