package scheduler

import (
	"os"
	"strings"
	"testing"

	"github.com/mobius-scheduler/ctsp-sync/feaslp"
)

func TestWriteDotGreenWhenRoutingMatchesAlpha(t *testing.T) {
	g := oneDepotTwoCustomerGraph()
	dep, c1 := g.DepartureOp(0), g.OpOf(1, 0)
	idx := g.RoutingArcIndex(dep, c1)

	alpha := make([]float64, len(g.RoutingArcs))
	x := make([]float64, len(g.RoutingArcs))
	gamma := make([]float64, len(g.SyncArcs))
	alpha[idx] = 1
	x[idx] = 1

	cert := &Certificate{opGraph: g, x: x, result: feaslp.Result{Alpha: alpha, Gamma: gamma}, tol: 1e-3}
	path := t.TempDir() + "/g.dot"
	if err := writeDot(path, cert); err != nil {
		t.Fatalf("writeDot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "color=\"green\"") {
		t.Errorf("expected a green edge when x matches an active alpha:\n%s", text)
	}
	if !strings.Contains(text, "1.00 / 1.00") {
		t.Errorf("expected the x/alpha dual label:\n%s", text)
	}
}

func TestWriteDotBlueWhenLPWantsUnusedArc(t *testing.T) {
	g := oneDepotTwoCustomerGraph()
	dep, c1 := g.DepartureOp(0), g.OpOf(1, 0)
	idx := g.RoutingArcIndex(dep, c1)

	alpha := make([]float64, len(g.RoutingArcs))
	x := make([]float64, len(g.RoutingArcs))
	gamma := make([]float64, len(g.SyncArcs))
	alpha[idx] = 1 // LP wants this arc, but x stays 0 (routing didn't pick it)

	cert := &Certificate{opGraph: g, x: x, result: feaslp.Result{Alpha: alpha, Gamma: gamma}, tol: 1e-3}
	path := t.TempDir() + "/g.dot"
	if err := writeDot(path, cert); err != nil {
		t.Fatalf("writeDot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "color=\"blue\"") {
		t.Errorf("expected a blue edge for an LP-active, routing-unused arc:\n%s", string(data))
	}
}

func TestWriteDotGrayWhenRoutingUsesUnwantedArc(t *testing.T) {
	g := oneDepotTwoCustomerGraph()
	dep, c1 := g.DepartureOp(0), g.OpOf(1, 0)
	idx := g.RoutingArcIndex(dep, c1)

	alpha := make([]float64, len(g.RoutingArcs))
	x := make([]float64, len(g.RoutingArcs))
	gamma := make([]float64, len(g.SyncArcs))
	x[idx] = 1 // routing uses this arc, but the LP gives it no alpha activity

	cert := &Certificate{opGraph: g, x: x, result: feaslp.Result{Alpha: alpha, Gamma: gamma}, tol: 1e-3}
	path := t.TempDir() + "/g.dot"
	if err := writeDot(path, cert); err != nil {
		t.Fatalf("writeDot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "color=\"gray\"") {
		t.Errorf("expected a gray edge for a routing-only arc:\n%s", string(data))
	}
}

func TestWriteDotRedSyncArcAboveTol(t *testing.T) {
	g := twoDepotOneCustomerGraph()
	alpha := make([]float64, len(g.RoutingArcs))
	x := make([]float64, len(g.RoutingArcs))
	gamma := make([]float64, len(g.SyncArcs))
	gamma[0] = 1

	cert := &Certificate{opGraph: g, x: x, result: feaslp.Result{Alpha: alpha, Gamma: gamma}, tol: 1e-3}
	path := t.TempDir() + "/g.dot"
	if err := writeDot(path, cert); err != nil {
		t.Fatalf("writeDot: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "color=\"red\"") {
		t.Errorf("expected a red sync edge above tol:\n%s", string(data))
	}
}

func TestStyleForBins(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{0.95, "style=\"solid\""},
		{0.5, "style=\"dashed\""},
		{0.1, "style=\"dotted\""},
	}
	for _, c := range cases {
		if got := styleFor(c.v); got != c.want {
			t.Errorf("styleFor(%v) = %q, want %q", c.v, got, c.want)
		}
	}
}
