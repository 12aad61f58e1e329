package feaslp

import (
	"gonum.org/v1/gonum/mat"
)

// simplexTolerance governs pivot-column/ratio-test comparisons inside
// the tableau engine. It is a numerical-stability constant, distinct
// from the checker's economic-activity tol (1e-3) and the scheduler's
// assertion tol (1e-6).
const simplexTolerance = 1e-9

// tableau is a dense tableau-simplex engine over gonum/mat, built for
// the feasibility LP's shape: every row is a <= constraint with a
// non-negative RHS (each operation's own resource bound r1, always
// >= 0), so x=0 is always feasible and the per-row slack column can
// serve directly as that row's starting basic variable — no phase-1 /
// big-M is needed. After the maximize simplex reaches optimality, the
// final tableau's entries under slack column i are exactly the row-i
// dual (shadow price) value, since slack columns carry zero cost
// throughout.
//
// This mirrors the tableau/artificial-variable style of the
// felipends-revised-simplex reference (gonum-backed, AddArtificialVariables
// + Solve), adapted to a single maximize pass since feasibility here
// never needs phase 1.
type tableau struct {
	numRows int
	numCols int // structural columns only

	// tab is (numRows+1) x (numCols+numRows+1): structural columns,
	// then numRows tracking columns, then the RHS column. Row
	// numRows is the objective (reduced-cost) row.
	tab *mat.Dense

	basis []int // basis[i] = column index (into the full tab width) basic in row i

	unbounded bool
}

func newTableau(numRows, numCols int, obj []float64, coefs []CoefEntry, rhs []float64) *tableau {
	width := numCols + numRows + 1
	t := &tableau{
		numRows: numRows,
		numCols: numCols,
		tab:     mat.NewDense(numRows+1, width, nil),
		basis:   make([]int, numRows),
	}

	for _, e := range coefs {
		t.tab.Set(e.Row, e.Col, e.Value)
	}
	rhsCol := numCols + numRows
	for i := 0; i < numRows; i++ {
		t.tab.Set(i, numCols+i, 1)
		t.tab.Set(i, rhsCol, rhs[i])
		t.basis[i] = numCols + i
	}

	// Objective row stores reduced costs c_j - z_j; with the initial
	// all-zero-cost basis, z_j = 0 for every column, so the row is
	// simply the objective vector (slack columns get 0).
	for j := 0; j < numCols; j++ {
		t.tab.Set(numRows, j, obj[j])
	}

	return t
}

// solve runs a bounded number of Bland's-rule pivots (to guarantee
// termination even when the system is degenerate, e.g. a zero
// duration bound on some operation) and returns whether an optimum
// was reached.
func (t *tableau) solve() bool {
	width := t.numCols + t.numRows + 1
	rhsCol := width - 1
	maxIters := 200 * (t.numRows + t.numCols + 1)

	for iter := 0; iter < maxIters; iter++ {
		// Bland's rule: smallest-indexed column with positive reduced cost.
		enter := -1
		for j := 0; j < width-1; j++ {
			if t.tab.At(t.numRows, j) > simplexTolerance {
				enter = j
				break
			}
		}
		if enter == -1 {
			return true // optimal
		}

		leave := -1
		bestRatio := 0.0
		for i := 0; i < t.numRows; i++ {
			a := t.tab.At(i, enter)
			if a <= simplexTolerance {
				continue
			}
			ratio := t.tab.At(i, rhsCol) / a
			if leave == -1 || ratio < bestRatio ||
				(ratio == bestRatio && t.basis[i] < t.basis[leave]) {
				leave = i
				bestRatio = ratio
			}
		}
		if leave == -1 {
			t.unbounded = true
			return false
		}

		t.pivot(leave, enter)
		t.basis[leave] = enter
	}
	return false
}

func (t *tableau) pivot(row, col int) {
	width := t.numCols + t.numRows + 1
	piv := t.tab.At(row, col)
	for j := 0; j < width; j++ {
		t.tab.Set(row, j, t.tab.At(row, j)/piv)
	}
	for i := 0; i <= t.numRows; i++ {
		if i == row {
			continue
		}
		factor := t.tab.At(i, col)
		if factor == 0 {
			continue
		}
		for j := 0; j < width; j++ {
			t.tab.Set(i, j, t.tab.At(i, j)-factor*t.tab.At(row, j))
		}
	}
}

func (t *tableau) objectiveValue() float64 {
	rhsCol := t.numCols + t.numRows
	return -t.tab.At(t.numRows, rhsCol)
}

func (t *tableau) primal(out []float64) {
	for j := range out {
		out[j] = 0
	}
	rhsCol := t.numCols + t.numRows
	for i, b := range t.basis {
		if b < t.numCols {
			out[b] = t.tab.At(i, rhsCol)
		}
	}
}

func (t *tableau) dual(out []float64) {
	for i := 0; i < t.numRows; i++ {
		out[i] = t.tab.At(t.numRows, t.numCols+i)
	}
}
