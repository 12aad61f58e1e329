package opgraph

import (
	"sort"

	"github.com/mobius-scheduler/ctsp-sync/instance"
)

// Graph is the immutable static model produced by Build: the dense
// operation list, routing partition, synchronization partition, and
// the two pair-maps. Nothing here is mutated after Build returns; the
// only mutable state in the core lives in the feaslp LP.
type Graph struct {
	Instance *instance.Instance

	Operations []Operation
	NumOps     int

	RoutingArcs []RoutingArc
	SyncArcs    []SyncArc

	RoutingMap map[arcKey]int
	SyncMap    map[arcKey]int

	// RoutingSubsets[k] lists, in ascending global operation id order,
	// the operations belonging to depot k's routing subset.
	RoutingSubsets [][]int

	// opOf[customer][depot] is the operation id for that (customer,
	// depot) cell, or Empty when no such operation exists. customer
	// ranges over 0 (departure sentinel) .. N+1 (return sentinel).
	opOf [][]int

	departureOf []int // depot -> operation id
	returnOf    []int // depot -> operation id
}

// OpOf returns the operation id for (customer, depot), or Empty if
// none exists. customer 0 means "departure", N+1 means "return".
func (g *Graph) OpOf(customer, depot int) int {
	return g.opOf[customer][depot]
}

// DepartureOp returns depot k's departure operation id.
func (g *Graph) DepartureOp(depot int) int { return g.departureOf[depot] }

// ReturnOp returns depot k's return operation id.
func (g *Graph) ReturnOp(depot int) int { return g.returnOf[depot] }

// IsDepotOp reports whether operation id op is a departure or return
// (as opposed to a customer-visit).
func (g *Graph) IsDepotOp(op int) bool {
	k := g.Operations[op].Kind
	return k == Departure || k == Return
}

// Build constructs the static operation/arc graph from a parsed
// instance, following the mandatory construction order of §4.1:
// operations first, then routing arcs per depot subset, then sync
// arcs (customer subsets, then depot subset per problem type), then
// the pair-maps.
func Build(inst *instance.Instance) *Graph {
	g := &Graph{Instance: inst}
	g.buildOperations(inst)
	g.buildRoutingArcs(inst)
	g.buildSyncArcs(inst)
	g.buildMaps()
	return g
}

func (g *Graph) buildOperations(inst *instance.Instance) {
	N := inst.NumCustomers
	D := inst.NumDepots
	returnCustomer := N + 1

	g.opOf = make([][]int, N+2)
	for c := range g.opOf {
		g.opOf[c] = make([]int, D)
		for k := range g.opOf[c] {
			g.opOf[c][k] = Empty
		}
	}
	g.departureOf = make([]int, D)
	g.returnOf = make([]int, D)

	var ops []Operation
	id := 0

	for k := 0; k < D; k++ {
		op := Operation{
			ID:            id,
			Kind:          Departure,
			Customer:      0,
			Depot:         k,
			Processing:    0,
			DurationBound: inst.MaxDistance,
		}
		ops = append(ops, op)
		g.opOf[0][k] = id
		g.departureOf[k] = id
		id++
	}

	for k := 0; k < D; k++ {
		op := Operation{
			ID:            id,
			Kind:          Return,
			Customer:      returnCustomer,
			Depot:         k,
			Processing:    0,
			DurationBound: inst.MaxDistance,
		}
		ops = append(ops, op)
		g.opOf[returnCustomer][k] = id
		g.returnOf[k] = id
		id++
	}

	for c := 1; c <= N; c++ {
		for k := 0; k < D; k++ {
			if !inst.HasDemand(c, k) {
				continue
			}
			op := Operation{
				ID:            id,
				Kind:          Visit,
				Customer:      c,
				Depot:         k,
				Processing:    1,
				DurationBound: inst.T[c-1],
			}
			ops = append(ops, op)
			g.opOf[c][k] = id
			id++
		}
	}

	g.Operations = ops
	g.NumOps = id
}

func (g *Graph) buildRoutingArcs(inst *instance.Instance) {
	D := inst.NumDepots
	g.RoutingSubsets = make([][]int, D)

	for k := 0; k < D; k++ {
		var subset []int
		subset = append(subset, g.departureOf[k], g.returnOf[k])
		for c := 1; c <= inst.NumCustomers; c++ {
			if op := g.opOf[c][k]; op != Empty {
				subset = append(subset, op)
			}
		}
		sort.Ints(subset)
		g.RoutingSubsets[k] = subset

		depOp := g.departureOf[k]
		retOp := g.returnOf[k]
		for _, i := range subset {
			for _, j := range subset {
				if i == j {
					continue
				}
				if j == depOp {
					continue
				}
				if i == retOp && j == depOp {
					continue
				}
				node1 := g.Operations[i].Node()
				node2 := g.Operations[j].Node()
				g.RoutingArcs = append(g.RoutingArcs, RoutingArc{
					From:       i,
					To:         j,
					Distance:   inst.Dist[node1][node2],
					TravelTime: inst.TravelTime[node1][node2],
				})
			}
		}
	}
}

func (g *Graph) buildSyncArcs(inst *instance.Instance) {
	N := inst.NumCustomers
	D := inst.NumDepots

	for c := 1; c <= N; c++ {
		var visits []int
		for k := 0; k < D; k++ {
			if op := g.opOf[c][k]; op != Empty {
				visits = append(visits, op)
			}
		}
		for _, u := range visits {
			for _, v := range visits {
				if u == v {
					continue
				}
				g.SyncArcs = append(g.SyncArcs, SyncArc{
					From:     u,
					To:       v,
					Resource: inst.T[c-1],
				})
			}
		}
	}

	switch inst.Type {
	case instance.ProblemType1:
		for k := 0; k < D; k++ {
			for l := 0; l < D; l++ {
				if k == l {
					continue
				}
				g.SyncArcs = append(g.SyncArcs, SyncArc{
					From:     g.departureOf[k],
					To:       g.departureOf[l],
					Resource: 0,
				})
			}
		}
	case instance.ProblemType2:
		for k := 0; k < D; k++ {
			for l := 0; l < D; l++ {
				g.SyncArcs = append(g.SyncArcs, SyncArc{
					From:     g.returnOf[k],
					To:       g.departureOf[l],
					Resource: inst.MaxDistance,
				})
			}
		}
	}
}

func (g *Graph) buildMaps() {
	g.RoutingMap = make(map[arcKey]int, len(g.RoutingArcs))
	for idx, a := range g.RoutingArcs {
		g.RoutingMap[arcKey{a.From, a.To}] = idx
	}
	g.SyncMap = make(map[arcKey]int, len(g.SyncArcs))
	for idx, a := range g.SyncArcs {
		g.SyncMap[arcKey{a.From, a.To}] = idx
	}
}

// RoutingArcIndex looks up the dense routing-arc index for (i,j), or
// Empty.
func (g *Graph) RoutingArcIndex(i, j int) int {
	if idx, ok := g.RoutingMap[arcKey{i, j}]; ok {
		return idx
	}
	return Empty
}

// SyncArcIndex looks up the dense sync-arc index for (i,j), or Empty.
func (g *Graph) SyncArcIndex(i, j int) int {
	if idx, ok := g.SyncMap[arcKey{i, j}]; ok {
		return idx
	}
	return Empty
}
