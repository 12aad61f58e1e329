// Package feaslp implements the feasibility LP (C5): a parametric
// linear program whose coefficients encode a candidate routing
// solution, built once per model and re-solved for every routing
// tried. The LP itself is reached only through the Backend interface,
// so the core is agnostic to which concrete solver realizes it (a
// dense gonum tableau by default, or a build-tag-gated gurobi backend).
package feaslp

// Status is the outcome of a Backend.Solve call.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	default:
		return "error"
	}
}

// CoefEntry is a single (row, col) -> value assignment in the
// constraint matrix.
type CoefEntry struct {
	Row, Col int
	Value    float64
}

// Backend is the abstract LP solver interface the core requires (§6):
// build from a row/column description, solve, and expose primal and
// dual values, with a mutation API (objective, RHS, coefficient list,
// row add/delete) so a production backend can reuse its factorization
// across the many re-solves a single checker run performs. Two
// implementations exist in this repository: a default one built on
// gonum's dense linear algebra (GonumBackend) and an optional one
// behind the "gurobi" build tag.
type Backend interface {
	// Build (re)initializes the backend for a problem with the given
	// row and column counts. Safe to call again to reset.
	Build(numRows, numCols int)

	SetObjCoefs(coefs []float64)
	SetRHS(rhs []float64)
	SetCoefList(entries []CoefEntry)
	AddRow(coefs []float64, rhs float64) int
	DeleteRows(rowIdx []int)

	Solve() (Status, error)

	// Objective returns the optimal objective value of the last
	// Solve call. Not part of the minimal §6 contract by name, but
	// required for any backend: the feasibility threshold test
	// (§4.3's "optimal -> feasible iff objective > -tol") has nowhere
	// else to read the value from.
	Objective() float64

	GetPrimal(out []float64)
	GetDual(out []float64)

	WriteModel(path string) error
}
