// Package support builds the support graph (C6) from a feasibility-LP
// certificate and enumerates the cycles that witness infeasibility.
package support

import (
	"github.com/mobius-scheduler/ctsp-sync/feaslp"
	"github.com/mobius-scheduler/ctsp-sync/opgraph"
)

// ArcKind distinguishes a cycle-step's origin: a routing arc or a
// sync arc, mirroring the reference source's single concatenated
// index space (routing arcs first, sync arcs offset after).
type ArcKind int

const (
	RoutingStep ArcKind = iota
	SyncStep
)

// ArcRef identifies one arc of either partition by its own dense
// index (not a global offset one, since Go lets the two stay typed
// separately).
type ArcRef struct {
	Kind  ArcKind
	Index int
}

// edge is one directed entry in the support graph's adjacency list.
type edge struct {
	To  int
	Ref ArcRef
}

// Graph is the directed support graph: vertices are operation ids,
// edges are the routing/sync arcs whose dual value cleared tol in the
// last feasibility check.
type Graph struct {
	NumVertices int
	adj         [][]edge

	// ActiveSeeds lists the sync arcs selected as DFS seeds per the
	// reference's depot-activity rule: every sync arc touching a
	// non-depot operation, plus depot-subset sync arcs whose both
	// endpoint depots carry at least one active routing arc.
	ActiveSeeds []Seed
}

// Seed is one DFS search to run: find all simple paths From -> To in
// the support graph, then close each with ClosingArc to form a cycle.
type Seed struct {
	From, To   int
	ClosingArc ArcRef
}

// Build constructs the support graph from one feaslp.Result (expected
// to be the infeasible branch: Alpha/Beta/Gamma populated).
func Build(g *opgraph.Graph, res feaslp.Result, tol float64) *Graph {
	sg := &Graph{NumVertices: g.NumOps, adj: make([][]edge, g.NumOps)}

	activeDepots := make(map[int]bool)
	for e, arc := range g.RoutingArcs {
		if res.Alpha[e] > tol {
			sg.adj[arc.From] = append(sg.adj[arc.From], edge{To: arc.To, Ref: ArcRef{RoutingStep, e}})
			activeDepots[g.Operations[arc.From].Depot] = true
		}
	}

	for a, arc := range g.SyncArcs {
		if res.Gamma[a] <= tol {
			continue
		}
		sg.adj[arc.From] = append(sg.adj[arc.From], edge{To: arc.To, Ref: ArcRef{SyncStep, a}})

		uIsDepot := g.IsDepotOp(arc.From)
		vIsDepot := g.IsDepotOp(arc.To)

		if !uIsDepot || !vIsDepot {
			sg.ActiveSeeds = append(sg.ActiveSeeds, Seed{
				From: arc.To, To: arc.From,
				ClosingArc: ArcRef{SyncStep, a},
			})
			continue
		}

		uDepot := g.Operations[arc.From].Depot
		vDepot := g.Operations[arc.To].Depot
		if activeDepots[uDepot] && activeDepots[vDepot] {
			closing := g.SyncArcIndex(arc.To, arc.From)
			if closing == opgraph.Empty {
				continue
			}
			sg.ActiveSeeds = append(sg.ActiveSeeds, Seed{
				From: arc.From, To: arc.To,
				ClosingArc: ArcRef{SyncStep, closing},
			})
		}
	}

	return sg
}

func (sg *Graph) outEdges(v int) []edge {
	return sg.adj[v]
}
