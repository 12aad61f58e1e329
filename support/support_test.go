package support

import (
	"testing"

	"github.com/mobius-scheduler/ctsp-sync/feaslp"
	"github.com/mobius-scheduler/ctsp-sync/instance"
	"github.com/mobius-scheduler/ctsp-sync/opgraph"
)

func twoDepotOneCustomerGraph() *opgraph.Graph {
	dist := [][]float64{
		{0, 1},
		{1, 0},
	}
	inst := &instance.Instance{
		Type:         instance.ProblemType1,
		NumDepots:    2,
		NumCustomers: 1,
		Dist:         dist,
		TravelTime:   dist,
		MaxDistance:  100,
		T:            []float64{10},
		Demands:      [][]bool{{true, true}},
	}
	return opgraph.Build(inst)
}

// TestBuildOnlyKeepsArcsAboveTolerance checks that Build filters by
// the tol threshold on both partitions independently.
func TestBuildOnlyKeepsArcsAboveTolerance(t *testing.T) {
	g := twoDepotOneCustomerGraph()
	res := feaslp.Result{
		Alpha: make([]float64, len(g.RoutingArcs)),
		Gamma: make([]float64, len(g.SyncArcs)),
	}
	// Activate exactly one routing arc and one sync arc.
	res.Alpha[0] = 1
	res.Gamma[0] = 1

	sg := Build(g, res, 1e-3)
	if sg.NumVertices != g.NumOps {
		t.Fatalf("NumVertices = %d, want %d", sg.NumVertices, g.NumOps)
	}

	from := g.RoutingArcs[0].From
	edges := sg.outEdges(from)
	found := false
	for _, e := range edges {
		if e.Ref.Kind == RoutingStep && e.Ref.Index == 0 {
			found = true
		}
	}
	if !found {
		t.Error("the active routing arc should appear in the support graph's adjacency")
	}

	total := 0
	for v := 0; v < sg.NumVertices; v++ {
		total += len(sg.outEdges(v))
	}
	if total != 2 {
		t.Errorf("support graph has %d edges, want 2 (one routing, one sync)", total)
	}
}

// TestBuildSeedsNonDepotSyncArcReversed exercises the customer-sync
// seed rule: a sync arc touching a non-depot (visit) operation is
// always a seed, stored reversed, closed by the same arc.
func TestBuildSeedsNonDepotSyncArcReversed(t *testing.T) {
	g := twoDepotOneCustomerGraph()

	// Find the customer-sync arc (both endpoints are visits, not
	// departures/returns).
	var customerArcIdx = -1
	for a, arc := range g.SyncArcs {
		if !g.IsDepotOp(arc.From) && !g.IsDepotOp(arc.To) {
			customerArcIdx = a
			break
		}
	}
	if customerArcIdx == -1 {
		t.Fatal("expected at least one customer-to-customer sync arc in this graph")
	}
	arc := g.SyncArcs[customerArcIdx]

	res := feaslp.Result{
		Alpha: make([]float64, len(g.RoutingArcs)),
		Gamma: make([]float64, len(g.SyncArcs)),
	}
	res.Gamma[customerArcIdx] = 1

	sg := Build(g, res, 1e-3)
	if len(sg.ActiveSeeds) != 1 {
		t.Fatalf("len(ActiveSeeds) = %d, want 1", len(sg.ActiveSeeds))
	}
	seed := sg.ActiveSeeds[0]
	if seed.From != arc.To || seed.To != arc.From {
		t.Errorf("seed = {From:%d To:%d}, want reversed {From:%d To:%d}", seed.From, seed.To, arc.To, arc.From)
	}
	if seed.ClosingArc.Kind != SyncStep || seed.ClosingArc.Index != customerArcIdx {
		t.Errorf("ClosingArc = %+v, want the same sync arc (index %d)", seed.ClosingArc, customerArcIdx)
	}
}

// TestBuildSeedsDepotToDepotOnlyWhenBothSidesActive exercises the
// depot-subset seed rule: a depot-to-depot sync arc only seeds a
// search when both endpoint depots carry at least one active routing
// arc, and it is stored forward with the reverse arc as its closer.
func TestBuildSeedsDepotToDepotOnlyWhenBothSidesActive(t *testing.T) {
	g := twoDepotOneCustomerGraph()

	var depotArcIdx = -1
	for a, arc := range g.SyncArcs {
		if g.IsDepotOp(arc.From) && g.IsDepotOp(arc.To) {
			depotArcIdx = a
			break
		}
	}
	if depotArcIdx == -1 {
		t.Fatal("expected at least one depot-to-depot sync arc (type-1 instance)")
	}
	arc := g.SyncArcs[depotArcIdx]

	// No active routing arcs at all: the depot-to-depot sync arc must
	// not seed a search.
	res := feaslp.Result{
		Alpha: make([]float64, len(g.RoutingArcs)),
		Gamma: make([]float64, len(g.SyncArcs)),
	}
	res.Gamma[depotArcIdx] = 1
	sg := Build(g, res, 1e-3)
	if len(sg.ActiveSeeds) != 0 {
		t.Fatalf("len(ActiveSeeds) = %d, want 0 when no routing arc is active", len(sg.ActiveSeeds))
	}

	// Activate one routing arc touching each endpoint depot.
	for e, rarc := range g.RoutingArcs {
		if rarc.From == arc.From || rarc.From == arc.To {
			res.Alpha[e] = 1
		}
	}
	sg = Build(g, res, 1e-3)

	var got *Seed
	for i := range sg.ActiveSeeds {
		if sg.ActiveSeeds[i].From == arc.From && sg.ActiveSeeds[i].To == arc.To {
			got = &sg.ActiveSeeds[i]
		}
	}
	if got == nil {
		t.Fatal("expected the depot-to-depot sync arc to seed a search once both depots are active")
	}
	reverseIdx := g.SyncArcIndex(arc.To, arc.From)
	if got.ClosingArc.Kind != SyncStep || got.ClosingArc.Index != reverseIdx {
		t.Errorf("ClosingArc = %+v, want the reverse sync arc (index %d)", got.ClosingArc, reverseIdx)
	}
}
