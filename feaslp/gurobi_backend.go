//go:build gurobi

package feaslp

import (
	"fmt"

	"git.solver4all.com/azaryc2s/gorobi/gurobi"

	"github.com/mobius-scheduler/ctsp-sync/errs"
)

// GurobiBackend realizes Backend with a commercial solver, for
// instances large enough that the dense gonum tableau's O(rows*cols)
// rebuild-per-solve becomes the bottleneck. Built only with
// `-tags gurobi`.
type GurobiBackend struct {
	env *gurobi.Env

	numRows int
	numCols int

	obj     []float64
	rhs     []float64
	entries []CoefEntry

	model *gurobi.Model
}

func NewGurobiBackend(env *gurobi.Env) *GurobiBackend {
	return &GurobiBackend{env: env}
}

func (b *GurobiBackend) Build(numRows, numCols int) {
	b.numRows = numRows
	b.numCols = numCols
	b.obj = make([]float64, numCols)
	b.rhs = make([]float64, numRows)
}

func (b *GurobiBackend) SetObjCoefs(coefs []float64) {
	copy(b.obj, coefs)
}

func (b *GurobiBackend) SetRHS(rhs []float64) {
	copy(b.rhs, rhs)
}

func (b *GurobiBackend) SetCoefList(entries []CoefEntry) {
	b.entries = entries
}

func (b *GurobiBackend) AddRow(coefs []float64, rhs float64) int {
	panic("feaslp: GurobiBackend.AddRow is unused by the checker and not implemented")
}

func (b *GurobiBackend) DeleteRows(rowIdx []int) {
	panic("feaslp: GurobiBackend.DeleteRows is unused by the checker and not implemented")
}

func (b *GurobiBackend) Solve() (Status, error) {
	varType := make([]int8, b.numCols)
	for i := range varType {
		varType[i] = gurobi.CONTINUOUS
	}
	varNames := make([]string, b.numCols)
	for i := range varNames {
		varNames[i] = fmt.Sprintf("x%d", i)
	}

	model, err := b.env.NewModel("feaslp", int32(b.numCols), b.obj, nil, nil, varType, varNames)
	if err != nil {
		return StatusError, &errs.SolverError{Status: "build", Msg: err.Error()}
	}
	if err := model.SetIntAttr(gurobi.INT_ATTR_MODELSENSE, gurobi.MAXIMIZE); err != nil {
		return StatusError, &errs.SolverError{Status: "build", Msg: err.Error()}
	}

	rows := make([][]float64, b.numRows)
	for i := range rows {
		rows[i] = make([]float64, b.numCols)
	}
	for _, e := range b.entries {
		rows[e.Row][e.Col] = e.Value
	}
	for i, row := range rows {
		var ind []int32
		var val []float64
		for j, v := range row {
			if v != 0 {
				ind = append(ind, int32(j))
				val = append(val, v)
			}
		}
		if err := model.AddConstr(ind, val, gurobi.LESS_EQUAL, b.rhs[i], fmt.Sprintf("op%d", i)); err != nil {
			return StatusError, &errs.SolverError{Status: "build", Msg: err.Error()}
		}
	}

	b.model = model
	if err := model.Optimize(); err != nil {
		return StatusError, &errs.SolverError{Status: "optimize", Msg: err.Error()}
	}

	status, err := model.GetIntAttr(gurobi.INT_ATTR_STATUS)
	if err != nil {
		return StatusError, &errs.SolverError{Status: "status", Msg: err.Error()}
	}
	switch status {
	case gurobi.OPTIMAL:
		return StatusOptimal, nil
	case gurobi.UNBOUNDED:
		return StatusUnbounded, &errs.SolverError{Status: "unbounded", Msg: "feasibility LP is unbounded"}
	case gurobi.INFEASIBLE:
		return StatusInfeasible, nil
	default:
		return StatusError, nil
	}
}

func (b *GurobiBackend) Objective() float64 {
	v, _ := b.model.GetDblAttr(gurobi.DBL_ATTR_OBJVAL)
	return v
}

func (b *GurobiBackend) GetPrimal(out []float64) {
	v, err := b.model.GetDblAttrArray(gurobi.DBL_ATTR_X, 0, int32(b.numCols))
	if err != nil {
		return
	}
	copy(out, v)
}

func (b *GurobiBackend) GetDual(out []float64) {
	v, err := b.model.GetDblAttrArray(gurobi.DBL_ATTR_PI, 0, int32(b.numRows))
	if err != nil {
		return
	}
	copy(out, v)
}

func (b *GurobiBackend) WriteModel(path string) error {
	if b.model == nil {
		return nil
	}
	return b.model.Write(path)
}
