package analysis

import (
	"math"
	"testing"

	"github.com/Anirudh-R-1201/CSCI599/src/telemetry"
)

func snap(ts string, pods ...telemetry.PodInfo) telemetry.PodSnapshot {
	return telemetry.PodSnapshot{Timestamp: ts, Pods: pods}
}

func pod(name, app, node string) telemetry.PodInfo {
	return telemetry.PodInfo{Name: name, Namespace: "default", App: app, Node: node}
}

func TestSummarizePlacementMovements(t *testing.T) {
	summary := SummarizePlacement([]telemetry.PodSnapshot{
		snap("t1", pod("p1", "cart", "A"), pod("p2", "cart", "A")),
		snap("t2", pod("p1", "cart", "B"), pod("p2", "cart", "A")),
	})
	moves, ok := summary.PodMovements["p1"]
	if !ok {
		t.Fatalf("p1 moved A->B and should be reported")
	}
	if len(moves) != 2 || moves[0].Node != "A" || moves[1].Node != "B" {
		t.Fatalf("movement should carry the full timeline: %+v", moves)
	}
	if _, ok := summary.PodMovements["p2"]; ok {
		t.Fatalf("p2 never moved and should not be reported")
	}
}

func TestSummarizePlacementLatestSpread(t *testing.T) {
	summary := SummarizePlacement([]telemetry.PodSnapshot{
		snap("t1", pod("p1", "cart", "A"), pod("p2", "cart", "A")),
		snap("t2", pod("p1", "cart", "B"), pod("p3", "checkout", telemetry.Unknown)),
	})
	if summary.LatestTimestamp != "t2" {
		t.Fatalf("latest timestamp = %q, want t2", summary.LatestTimestamp)
	}
	spread, ok := summary.ServiceNodeSpread["cart"]
	if !ok {
		t.Fatalf("cart missing from latest spread")
	}
	// Only the latest snapshot counts: one cart pod, on node B.
	if spread.PodCountByNode["B"] != 1 || spread.PodCountByNode["A"] != 0 {
		t.Fatalf("latest spread should come from t2 only: %+v", spread.PodCountByNode)
	}
	// checkout's only pod sits on an unknown node and is excluded.
	if _, ok := summary.ServiceNodeSpread["checkout"]; ok {
		t.Fatalf("unknown-node pods should not produce spread entries")
	}
}

func TestSummarizePlacementAveragedSpread(t *testing.T) {
	// cart: 2 pods on A in every one of 4 snapshots -> average 2.
	// checkout: 1 pod on B in 1 of 4 snapshots -> average 0.25.
	snaps := []telemetry.PodSnapshot{
		snap("t1", pod("c1", "cart", "A"), pod("c2", "cart", "A"), pod("k1", "checkout", "B")),
		snap("t2", pod("c1", "cart", "A"), pod("c2", "cart", "A")),
		snap("t3", pod("c1", "cart", "A"), pod("c2", "cart", "A")),
		snap("t4", pod("c1", "cart", "A"), pod("c2", "cart", "A")),
	}
	summary := SummarizePlacement(snaps)
	cart := summary.ServiceNodeSpreadAvg["cart"]
	if math.Abs(cart.PodCountByNode["A"]-2) > 1e-9 {
		t.Fatalf("cart avg on A = %v, want 2", cart.PodCountByNode["A"])
	}
	checkout := summary.ServiceNodeSpreadAvg["checkout"]
	if math.Abs(checkout.PodCountByNode["B"]-0.25) > 1e-9 {
		t.Fatalf("checkout avg on B = %v, want 0.25 (divide by all snapshots)", checkout.PodCountByNode["B"])
	}
	// Every service shares the full node axis.
	if len(cart.NodesUsed) != 2 || len(checkout.NodesUsed) != 2 {
		t.Fatalf("averaged spread should list every node seen in the run")
	}
}

func TestSummarizePlacementEmpty(t *testing.T) {
	summary := SummarizePlacement(nil)
	if summary.SnapshotCount != 0 || summary.LatestTimestamp != "" {
		t.Fatalf("empty input should yield empty summary: %+v", summary)
	}
	if len(summary.PodMovements) != 0 || len(summary.ServiceNodeSpread) != 0 || len(summary.ServiceNodeSpreadAvg) != 0 {
		t.Fatalf("empty input should yield empty maps: %+v", summary)
	}
}

func TestSummarizePlacementLatestNodeToPods(t *testing.T) {
	summary := SummarizePlacement([]telemetry.PodSnapshot{
		snap("t1", pod("b1", "b", "A")),
		snap("t2", pod("b1", "b", "A"), pod("a1", "a", "A"), pod("c1", "c", "B")),
	})
	if got := summary.LatestNodeToPods["A"]; len(got) != 2 || got[0] != "a1" || got[1] != "b1" {
		t.Fatalf("node A pods should be sorted from latest snapshot: %v", got)
	}
	if got := summary.LatestNodeToPods["B"]; len(got) != 1 || got[0] != "c1" {
		t.Fatalf("node B pods: %v", got)
	}
}
