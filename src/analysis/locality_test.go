package analysis

import (
	"math"
	"testing"

	"github.com/Anirudh-R-1201/CSCI599/src/telemetry"
)

func nodeset(nodes ...string) map[string]bool {
	set := map[string]bool{}
	for _, n := range nodes {
		set[n] = true
	}
	return set
}

func TestAppFromPod(t *testing.T) {
	cases := map[string]string{
		"cart-5d4f7c9b8d-x2zvq":     "cart",
		"front-end-7f6b9c-abcde":    "front-end", // app dashes survive
		"cart-x2zvq":                "cart",
		"cart":                      "cart",
		"front-end-proxy-7f6b9c-ab": "front-end-proxy",
	}
	for pod, want := range cases {
		if got := AppFromPod(pod); got != want {
			t.Fatalf("AppFromPod(%q) = %q, want %q", pod, got, want)
		}
	}
}

func TestCorrelateLocalityClassification(t *testing.T) {
	serviceNodes := telemetry.ServiceNodes{"checkout": nodeset("A", "B")}
	probes := []telemetry.Probe{
		probe("cart-x-y", "A", "checkout", map[string]float64{"total": 10}, nil), // same
		probe("cart-x-y", "C", "checkout", map[string]float64{"total": 90}, nil), // cross
		probe("cart-x-y", telemetry.Unknown, "checkout", map[string]float64{"total": 50}, nil), // unclassifiable
		probe("cart-x-y", "A", "mystery", map[string]float64{"total": 70}, nil),                // no known node set
	}
	report := CorrelateLocality(probes, serviceNodes)
	if report.SameNodeCount != 1 || report.CrossNodeCount != 1 {
		t.Fatalf("counts = %d same, %d cross; want 1 and 1", report.SameNodeCount, report.CrossNodeCount)
	}
	// Classified counts account for every classifiable probe, nothing more.
	if report.SameNodeCount+report.CrossNodeCount != 2 {
		t.Fatalf("double-counting or silent loss in classification")
	}
	if report.IntraNodeRatio == nil || *report.IntraNodeRatio != 0.5 {
		t.Fatalf("intra-node ratio = %v, want 0.5", report.IntraNodeRatio)
	}
	if len(report.SameNodeLatencies) != 1 || report.SameNodeLatencies[0] != 10 {
		t.Fatalf("same-node pool: %v", report.SameNodeLatencies)
	}
	if len(report.CrossNodeLatencies) != 1 || report.CrossNodeLatencies[0] != 90 {
		t.Fatalf("cross-node pool: %v", report.CrossNodeLatencies)
	}
}

func TestCorrelateLocalityPairRatios(t *testing.T) {
	serviceNodes := telemetry.ServiceNodes{"checkout": nodeset("A")}
	probes := []telemetry.Probe{
		probe("cart-5d4f7c9b8d-x1", "A", "checkout", map[string]float64{"total": 10}, nil),
		probe("cart-5d4f7c9b8d-x2", "B", "checkout", map[string]float64{"total": 20}, nil),
		probe("cart-5d4f7c9b8d-x3", "B", "checkout", map[string]float64{"total": 30}, nil),
		// Target without a node set never reaches the pair counts.
		probe("cart-5d4f7c9b8d-x4", "B", "mystery", map[string]float64{"total": 40}, nil),
	}
	report := CorrelateLocality(probes, serviceNodes)
	pair, ok := report.CrossNodeRatioByPair["cart->checkout"]
	if !ok {
		t.Fatalf("pair missing: %+v", report.CrossNodeRatioByPair)
	}
	if pair.Total != 3 || pair.Cross != 2 {
		t.Fatalf("pair counts = %+v, want total 3 cross 2", pair)
	}
	if math.Abs(pair.Ratio-2.0/3.0) > 1e-9 {
		t.Fatalf("ratio = %v, want 2/3", pair.Ratio)
	}
	if pair.SourceApp != "cart" || pair.TargetService != "checkout" {
		t.Fatalf("pair identity wrong: %+v", pair)
	}
	if len(report.CrossNodeRatioByPair) != 1 {
		t.Fatalf("unclassifiable probes must not create pairs: %+v", report.CrossNodeRatioByPair)
	}
}

func TestCorrelateLocalityNodePairs(t *testing.T) {
	// Node-pair aggregation is coarser than path aggregation and keeps
	// probes the locality classifier has to drop (no known node set).
	probes := []telemetry.Probe{
		probe("cart-a-b", "A", "checkout", map[string]float64{"total": 100}, nil),
		probe("front-a-b", "A", "checkout", map[string]float64{"total": 200}, nil),
		probe("cart-a-b", "A", "checkout", map[string]float64{"total": 300}, nil),
		probe("cart-a-b", telemetry.Unknown, "checkout", map[string]float64{"total": 900}, nil),
	}
	report := CorrelateLocality(probes, telemetry.ServiceNodes{})
	pair, ok := report.NodePairs["A -> checkout"]
	if !ok {
		t.Fatalf("node pair missing: %+v", report.NodePairs)
	}
	if pair.Samples != 3 {
		t.Fatalf("samples = %d, want 3 (pods collapse into one node pair, unknown source dropped)", pair.Samples)
	}
	if pair.TotalAvgMs == nil || *pair.TotalAvgMs != 200 {
		t.Fatalf("avg = %v, want 200", pair.TotalAvgMs)
	}
	if pair.TotalP95Ms == nil || math.Abs(*pair.TotalP95Ms-290) > 1e-9 {
		t.Fatalf("p95 = %v, want 290", pair.TotalP95Ms)
	}
}

func TestCorrelateLocalityCDF(t *testing.T) {
	serviceNodes := telemetry.ServiceNodes{"svc": nodeset("A")}
	probes := []telemetry.Probe{
		probe("a-b-c", "A", "svc", map[string]float64{"total": 30}, nil),
		probe("a-b-c", "A", "svc", map[string]float64{"total": 10}, nil),
	}
	report := CorrelateLocality(probes, serviceNodes)
	cdf := report.SameNodeCDF
	if len(cdf) != 2 {
		t.Fatalf("expected 2 CDF points, got %d", len(cdf))
	}
	if cdf[0].Value != 10 || cdf[0].Fraction != 0.5 || cdf[1].Value != 30 || cdf[1].Fraction != 1 {
		t.Fatalf("CDF wrong: %+v", cdf)
	}
	if report.CrossNodeCDF != nil {
		t.Fatalf("no cross-node samples: CDF should be nil")
	}
}

func TestCorrelateLocalityEmpty(t *testing.T) {
	report := CorrelateLocality(nil, nil)
	if report.IntraNodeRatio != nil {
		t.Fatalf("no classifiable probes: ratio must be nil, not zero")
	}
	if len(report.CrossNodeRatioByPair) != 0 || len(report.NodePairs) != 0 {
		t.Fatalf("empty input should yield empty maps")
	}
}
