package feaslp

import (
	"errors"
	"testing"

	"github.com/mobius-scheduler/ctsp-sync/instance"
	"github.com/mobius-scheduler/ctsp-sync/opgraph"
)

// fakeBackend is a scripted Backend used to exercise Checker.Solve's
// branching logic without depending on the real simplex engine's
// pivot arithmetic.
type fakeBackend struct {
	numRows, numCols int

	status Status
	err    error
	obj    float64
	dual   []float64
	primal []float64
}

func (b *fakeBackend) Build(numRows, numCols int) { b.numRows, b.numCols = numRows, numCols }
func (b *fakeBackend) SetObjCoefs(coefs []float64)   {}
func (b *fakeBackend) SetRHS(rhs []float64)          {}
func (b *fakeBackend) SetCoefList(entries []CoefEntry) {}
func (b *fakeBackend) AddRow(coefs []float64, rhs float64) int { return b.numRows }
func (b *fakeBackend) DeleteRows(rowIdx []int)       {}
func (b *fakeBackend) Solve() (Status, error)        { return b.status, b.err }
func (b *fakeBackend) Objective() float64            { return b.obj }
func (b *fakeBackend) GetPrimal(out []float64)       { copy(out, b.primal) }
func (b *fakeBackend) GetDual(out []float64)         { copy(out, b.dual) }
func (b *fakeBackend) WriteModel(path string) error  { return nil }

// twoDepotOneCustomerGraph builds a graph with both a nontrivial
// routing partition and a nontrivial customer/depot sync partition,
// so column-index bookkeeping has something real to exercise.
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

func TestCheckerFeasibleReadsSlackFromDual(t *testing.T) {
	g := twoDepotOneCustomerGraph()
	m := BuildModel(g, LowerBound)
	fb := &fakeBackend{status: StatusOptimal, obj: 0.5, dual: make([]float64, m.NumRows)}
	for i := range fb.dual {
		fb.dual[i] = float64(i + 1)
	}

	c := NewChecker(m, fb)
	res, err := c.Solve(make([]float64, len(g.RoutingArcs)))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Feasible {
		t.Fatal("expected a feasible result when Objective() > -tol")
	}
	for i, v := range res.Slack {
		if v != fb.dual[i] {
			t.Errorf("Slack[%d] = %v, want %v", i, v, fb.dual[i])
		}
	}
}

func TestCheckerInfeasibleExtractsColumnsByArc(t *testing.T) {
	g := twoDepotOneCustomerGraph()
	m := BuildModel(g, Full)
	primal := make([]float64, len(m.Columns))
	for i := range primal {
		primal[i] = float64(i)
	}
	fb := &fakeBackend{status: StatusOptimal, obj: -5, primal: primal}

	c := NewChecker(m, fb)
	res, err := c.Solve(make([]float64, len(g.RoutingArcs)))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Feasible {
		t.Fatal("expected an infeasible result when Objective() <= -tol")
	}
	for e := range g.RoutingArcs {
		if want := primal[m.AlphaColOf[e]]; res.Alpha[e] != want {
			t.Errorf("Alpha[%d] = %v, want %v", e, res.Alpha[e], want)
		}
		if want := primal[m.BetaColOf[e]]; res.Beta[e] != want {
			t.Errorf("Beta[%d] = %v, want %v", e, res.Beta[e], want)
		}
	}
	for a := range g.SyncArcs {
		if want := primal[m.GammaColOf[a]]; res.Gamma[a] != want {
			t.Errorf("Gamma[%d] = %v, want %v", a, res.Gamma[a], want)
		}
	}
}

func TestCheckerLowerBoundVariantHasNoBetaColumns(t *testing.T) {
	g := twoDepotOneCustomerGraph()
	m := BuildModel(g, LowerBound)
	for e, col := range m.BetaColOf {
		if col != -1 {
			t.Errorf("BetaColOf[%d] = %d, want -1 in the LowerBound variant", e, col)
		}
	}

	primal := make([]float64, len(m.Columns))
	fb := &fakeBackend{status: StatusOptimal, obj: -5, primal: primal}
	c := NewChecker(m, fb)
	res, err := c.Solve(make([]float64, len(g.RoutingArcs)))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Beta != nil {
		t.Errorf("Beta = %v, want nil in the LowerBound variant", res.Beta)
	}
}

func TestCheckerUnboundedPropagatesError(t *testing.T) {
	g := twoDepotOneCustomerGraph()
	m := BuildModel(g, LowerBound)
	wantErr := errors.New("unbounded")
	fb := &fakeBackend{status: StatusUnbounded, err: wantErr}

	c := NewChecker(m, fb)
	_, err := c.Solve(make([]float64, len(g.RoutingArcs)))
	if err != wantErr {
		t.Fatalf("Solve err = %v, want %v", err, wantErr)
	}
}

func TestCheckerLegacyQuirkTreatsOtherStatusAsFeasible(t *testing.T) {
	g := twoDepotOneCustomerGraph()
	m := BuildModel(g, LowerBound)
	fb := &fakeBackend{status: StatusError}

	c := NewChecker(m, fb)
	res, err := c.Solve(make([]float64, len(g.RoutingArcs)))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !res.Feasible {
		t.Fatal("expected the legacy quirk to treat a non-optimal, non-unbounded status as feasible")
	}
	for i, v := range res.Slack {
		if v != 0 {
			t.Errorf("Slack[%d] = %v, want 0", i, v)
		}
	}
}

func TestTruncActivityZeroesBelowTolerance(t *testing.T) {
	if got := truncActivity(0.0005, 1e-3); got != 0 {
		t.Errorf("truncActivity(0.0005) = %v, want 0", got)
	}
	if got := truncActivity(0.5, 1e-3); got != 0.5 {
		t.Errorf("truncActivity(0.5) = %v, want 0.5", got)
	}
	if got := truncActivity(1.23456, 1e-3); got != 1.235 {
		t.Errorf("truncActivity(1.23456) = %v, want 1.235", got)
	}
}
