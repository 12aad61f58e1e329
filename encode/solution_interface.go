package encode

import (
	"fmt"

	"github.com/mobius-scheduler/ctsp-sync/errs"
	"github.com/mobius-scheduler/ctsp-sync/instance"
	"github.com/mobius-scheduler/ctsp-sync/opgraph"
)

// X is the arc-indicator vector x in {0,1}^A_r: X[e] = 1 iff routing
// arc e is used by the routing.
type X []float64

// Encode converts a per-depot list of routes (routes[k] is depot k's
// visit sequence as 0-based node ids, depot-departure and
// depot-return already present at both ends) into the arc-indicator
// vector. Aborts with EncodingError if a consecutive pair has no
// routing arc in the model.
func Encode(g *opgraph.Graph, routes []instance.Route) (X, error) {
	x := make(X, len(g.RoutingArcs))
	for k, route := range routes {
		if len(route) < 2 {
			continue
		}
		ops, err := routeToOps(g, k, route)
		if err != nil {
			return nil, err
		}
		for i := 0; i+1 < len(ops); i++ {
			idx := g.RoutingArcIndex(ops[i], ops[i+1])
			if idx == opgraph.Empty {
				return nil, &errs.EncodingError{Msg: fmt.Sprintf(
					"no routing arc (%s -> %s) for depot %d",
					g.Operations[ops[i]].Name(), g.Operations[ops[i+1]].Name(), k,
				)}
			}
			x[idx] = 1
		}
	}
	return x, nil
}

// routeToOps maps a route's node-id sequence to operation ids for
// depot k: node 0 at the head/tail becomes departure/return, every
// other node (a customer id) becomes that customer's visit operation
// on depot k.
func routeToOps(g *opgraph.Graph, depot int, route instance.Route) ([]int, error) {
	ops := make([]int, len(route))
	for i, node := range route {
		switch {
		case i == 0:
			ops[i] = g.DepartureOp(depot)
		case i == len(route)-1:
			ops[i] = g.ReturnOp(depot)
		default:
			op := g.OpOf(node, depot)
			if op == opgraph.Empty {
				return nil, &errs.EncodingError{Msg: fmt.Sprintf(
					"customer %d has no visit operation on depot %d", node, depot,
				)}
			}
			ops[i] = op
		}
	}
	return ops, nil
}

// Decode reconstructs per-depot routes from an arc-indicator vector
// by walking out-edges from each departure until the matching return
// is reached. Aborts with EncodingError if a walk does not terminate
// at its depot's return operation (a malformed or cyclic x).
func Decode(g *opgraph.Graph, adj *Adjacency, x X) ([]instance.Route, error) {
	routes := make([]instance.Route, g.Instance.NumDepots)
	for k := 0; k < g.Instance.NumDepots; k++ {
		route, err := decodeRoute(g, adj, x, k)
		if err != nil {
			return nil, err
		}
		routes[k] = route
	}
	return routes, nil
}

func decodeRoute(g *opgraph.Graph, adj *Adjacency, x X, depot int) (instance.Route, error) {
	start := g.DepartureOp(depot)
	target := g.ReturnOp(depot)

	route := instance.Route{g.Operations[start].Node()}
	cur := start
	visited := make(map[int]bool)
	for cur != target {
		if visited[cur] {
			return nil, &errs.EncodingError{Msg: fmt.Sprintf(
				"decode walk for depot %d revisited %s without reaching its return",
				depot, g.Operations[cur].Name(),
			)}
		}
		visited[cur] = true

		next := -1
		for _, e := range adj.OutArcs[cur] {
			if x[e] > 0.5 {
				next = g.RoutingArcs[e].To
				break
			}
		}
		if next == -1 {
			return nil, &errs.EncodingError{Msg: fmt.Sprintf(
				"decode walk for depot %d stuck at %s without reaching its return",
				depot, g.Operations[cur].Name(),
			)}
		}
		route = append(route, g.Operations[next].Node())
		cur = next
	}
	return route, nil
}
