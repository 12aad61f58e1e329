package feaslp

import (
	"github.com/mobius-scheduler/ctsp-sync/errs"
)

// GonumBackend is the default Backend: a dense tableau rebuilt from
// scratch on every Solve call. The feasibility LP is small enough
// (rows/columns bounded by the operation graph's size) that this is
// simpler and just as fast in practice as maintaining a revised-simplex
// factorization across calls, so Build/SetObjCoefs/SetRHS/SetCoefList
// only accumulate state; the actual tableau construction happens
// inside Solve.
type GonumBackend struct {
	numRows int
	numCols int

	obj     []float64
	rhs     []float64
	entries []CoefEntry

	extraRows [][]float64
	extraRHS  []float64

	last *tableau
}

func NewGonumBackend() *GonumBackend {
	return &GonumBackend{}
}

func (b *GonumBackend) Build(numRows, numCols int) {
	b.numRows = numRows
	b.numCols = numCols
	b.obj = make([]float64, numCols)
	b.rhs = make([]float64, numRows)
	b.entries = nil
	b.extraRows = nil
	b.extraRHS = nil
	b.last = nil
}

func (b *GonumBackend) SetObjCoefs(coefs []float64) {
	copy(b.obj, coefs)
}

func (b *GonumBackend) SetRHS(rhs []float64) {
	copy(b.rhs, rhs)
}

func (b *GonumBackend) SetCoefList(entries []CoefEntry) {
	b.entries = entries
}

// AddRow appends an extra row beyond the model's base numRows, used
// nowhere in the current checker (the operation-indexed row set is
// fixed) but kept to satisfy the §6 Backend contract for a solver that
// may need it.
func (b *GonumBackend) AddRow(coefs []float64, rhs float64) int {
	row := make([]float64, len(coefs))
	copy(row, coefs)
	b.extraRows = append(b.extraRows, row)
	b.extraRHS = append(b.extraRHS, rhs)
	return b.numRows + len(b.extraRows) - 1
}

// DeleteRows removes previously added extra rows by index (indices
// >= the base numRows only; the fixed per-operation rows are never
// deletable).
func (b *GonumBackend) DeleteRows(rowIdx []int) {
	drop := make(map[int]bool, len(rowIdx))
	for _, r := range rowIdx {
		drop[r-b.numRows] = true
	}
	var rows [][]float64
	var rhs []float64
	for i, row := range b.extraRows {
		if drop[i] {
			continue
		}
		rows = append(rows, row)
		rhs = append(rhs, b.extraRHS[i])
	}
	b.extraRows = rows
	b.extraRHS = rhs
}

func (b *GonumBackend) Solve() (Status, error) {
	totalRows := b.numRows + len(b.extraRows)
	rhs := make([]float64, totalRows)
	copy(rhs, b.rhs)
	for i, v := range b.extraRHS {
		rhs[b.numRows+i] = v
	}

	entries := make([]CoefEntry, len(b.entries), len(b.entries)+len(b.extraRows)*b.numCols)
	copy(entries, b.entries)
	for i, row := range b.extraRows {
		for col, v := range row {
			if v != 0 {
				entries = append(entries, CoefEntry{Row: b.numRows + i, Col: col, Value: v})
			}
		}
	}

	t := newTableau(totalRows, b.numCols, b.obj, entries, rhs)
	optimal := t.solve()
	b.last = t

	if t.unbounded {
		return StatusUnbounded, &errs.SolverError{Status: "unbounded", Msg: "feasibility LP is unbounded"}
	}
	if !optimal {
		return StatusError, &errs.SolverError{Status: "error", Msg: "simplex iteration cap exceeded"}
	}
	return StatusOptimal, nil
}

func (b *GonumBackend) Objective() float64 {
	if b.last == nil {
		return 0
	}
	return b.last.objectiveValue()
}

func (b *GonumBackend) GetPrimal(out []float64) {
	if b.last == nil {
		for i := range out {
			out[i] = 0
		}
		return
	}
	b.last.primal(out)
}

func (b *GonumBackend) GetDual(out []float64) {
	if b.last == nil {
		for i := range out {
			out[i] = 0
		}
		return
	}
	b.last.dual(out)
}

func (b *GonumBackend) WriteModel(path string) error {
	return writeLPFormat(path, b.numRows+len(b.extraRows), b.numCols, b.obj, b.entries, b.rhs)
}
