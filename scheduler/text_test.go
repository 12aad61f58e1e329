package scheduler

import (
	"os"
	"strings"
	"testing"

	"github.com/mobius-scheduler/ctsp-sync/support"
)

func TestWriteCyclesTextRendersRoutingAndSyncSteps(t *testing.T) {
	g := twoDepotOneCustomerGraph()
	dep, c1 := g.DepartureOp(0), g.OpOf(1, 0)

	routingIdx := g.RoutingArcIndex(dep, c1)
	if routingIdx == -1 {
		t.Fatal("expected a departure->visit routing arc to exist")
	}
	var syncIdx = -1
	for a := range g.SyncArcs {
		syncIdx = a
		break
	}
	if syncIdx == -1 {
		t.Fatal("expected at least one sync arc in this graph")
	}

	cycle := support.Cycle{
		{Kind: support.RoutingStep, Index: routingIdx},
		{Kind: support.SyncStep, Index: syncIdx},
	}

	path := t.TempDir() + "/cycles.txt"
	if err := writeCyclesText(path, g, []support.Cycle{cycle}); err != nil {
		t.Fatalf("writeCyclesText: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(data)

	wantRouting := "R(" + g.Operations[dep].Name() + " -> " + g.Operations[c1].Name() + ")"
	if !strings.Contains(text, wantRouting) {
		t.Errorf("output missing routing step %q:\n%s", wantRouting, text)
	}
	syncArc := g.SyncArcs[syncIdx]
	wantSync := "S(" + g.Operations[syncArc.From].Name() + " -> " + g.Operations[syncArc.To].Name() + ")"
	if !strings.Contains(text, wantSync) {
		t.Errorf("output missing sync step %q:\n%s", wantSync, text)
	}
	if !strings.HasPrefix(text, "Infeasible paths detected in the solution:\n") {
		t.Errorf("output missing header:\n%s", text)
	}
}

func TestWriteCyclesTextEmptyCyclesStillWritesHeader(t *testing.T) {
	g := oneDepotTwoCustomerGraph()
	path := t.TempDir() + "/cycles.txt"
	if err := writeCyclesText(path, g, nil); err != nil {
		t.Fatalf("writeCyclesText: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "Infeasible paths detected in the solution:\n" {
		t.Errorf("output = %q, want only the header for an empty cycle list", string(data))
	}
}
