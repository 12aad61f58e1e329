// Package encode implements the routing<->Model-A arc encoder (C3)
// and the route-list<->arc-indicator-vector solution interface (C4).
package encode

import "github.com/mobius-scheduler/ctsp-sync/opgraph"

// Adjacency holds, per operation, the routing-arc indices leaving and
// entering it. Both tables are needed by the feasibility LP to locate
// which α/β columns touch a given operation's row.
type Adjacency struct {
	OutArcs [][]int
	InArcs  [][]int
}

// BuildAdjacency walks the graph's routing-arc list once, bucketing
// each arc's index by its endpoints.
func BuildAdjacency(g *opgraph.Graph) *Adjacency {
	adj := &Adjacency{
		OutArcs: make([][]int, g.NumOps),
		InArcs:  make([][]int, g.NumOps),
	}
	for idx, a := range g.RoutingArcs {
		adj.OutArcs[a.From] = append(adj.OutArcs[a.From], idx)
		adj.InArcs[a.To] = append(adj.InArcs[a.To], idx)
	}
	return adj
}
