package feaslp

import "github.com/mobius-scheduler/ctsp-sync/opgraph"

// Variant selects which column blocks the LP builder includes,
// replacing the reference source's class hierarchy (model ->
// primal_model -> lower-bound_primal) with a single parameterized
// builder per the redesign note.
type Variant int

const (
	// Full includes α, β, and γ columns.
	Full Variant = iota
	// LowerBound drops β entirely (n_beta_var_ = 0): used by the
	// scheduler to extract start times.
	LowerBound
)

// ColumnKind distinguishes the three variable blocks.
type ColumnKind int

const (
	AlphaCol ColumnKind = iota
	BetaCol
	GammaCol
)

// Column describes one LP variable: which block it belongs to and
// which arc (routing or sync) it corresponds to.
type Column struct {
	Kind     ColumnKind
	ArcIndex int // index into Graph.RoutingArcs (alpha/beta) or Graph.SyncArcs (gamma)
	From, To int // the arc's operation endpoints, cached for convenience
}

// infMaxDistance is the INF_MD threshold from §4.3's RHS rule: a
// sync-arc resource at or above this is treated as "no bound" and
// contributes 0 to the objective rather than its own (effectively
// infinite) value. It sits below the disabled-max-distance sentinel
// (999,999,999) and well above any real distance/time-window value.
const infMaxDistance = 1e8

// Model is the static LP structure built once from an operation
// graph: the column layout (which arcs back which variables) and the
// row count (one row per operation). Only the coefficient, objective,
// and RHS values a Checker pushes into a Backend ever change between
// solves; this struct itself is immutable after BuildModel.
type Model struct {
	Graph   *opgraph.Graph
	Variant Variant

	Columns []Column
	NumRows int

	// AlphaColOf[e] is the column index backing routing arc e's α
	// variable.
	AlphaColOf []int
	// BetaColOf[e] is the column index backing routing arc e's β
	// variable, or -1 when Variant == LowerBound.
	BetaColOf []int
	// GammaColOf[a] is the column index backing sync arc a's γ
	// variable.
	GammaColOf []int
}

// BuildModel lays out the LP's columns in the order α, β (if
// present), γ, and records the per-arc column indices the parametric
// re-solve needs.
func BuildModel(g *opgraph.Graph, variant Variant) *Model {
	m := &Model{Graph: g, Variant: variant, NumRows: g.NumOps}

	m.AlphaColOf = make([]int, len(g.RoutingArcs))
	for e, arc := range g.RoutingArcs {
		col := len(m.Columns)
		m.Columns = append(m.Columns, Column{Kind: AlphaCol, ArcIndex: e, From: arc.From, To: arc.To})
		m.AlphaColOf[e] = col
	}

	m.BetaColOf = make([]int, len(g.RoutingArcs))
	for e := range m.BetaColOf {
		m.BetaColOf[e] = -1
	}
	if variant == Full {
		for e, arc := range g.RoutingArcs {
			col := len(m.Columns)
			m.Columns = append(m.Columns, Column{Kind: BetaCol, ArcIndex: e, From: arc.From, To: arc.To})
			m.BetaColOf[e] = col
		}
	}

	m.GammaColOf = make([]int, len(g.SyncArcs))
	for a, arc := range g.SyncArcs {
		col := len(m.Columns)
		m.Columns = append(m.Columns, Column{Kind: GammaCol, ArcIndex: a, From: arc.From, To: arc.To})
		m.GammaColOf[a] = col
	}

	return m
}

// isReturnOp reports whether operation op is a depot return — the
// head condition that activates a β column's x-dependent objective
// coefficient (see DESIGN.md / SPEC_FULL.md §9 for why this reads the
// prose literally rather than the reference source's depot_thrld
// check).
func isReturnOp(g *opgraph.Graph, op int) bool {
	return g.Operations[op].Kind == opgraph.Return
}
