// Package scheduler orchestrates C5/C6 (C7): given a candidate
// routing's arc vector, it either reconstructs a feasible schedule or
// enumerates the cycles that certify infeasibility.
package scheduler

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/mobius-scheduler/ctsp-sync/errs"
	"github.com/mobius-scheduler/ctsp-sync/feaslp"
	"github.com/mobius-scheduler/ctsp-sync/opgraph"
	"github.com/mobius-scheduler/ctsp-sync/support"
)

// DefaultAssertTol bounds TimeWindow's visit-spread assertion (§4.5
// step 6), distinct from the checker's economic-activity tol.
const DefaultAssertTol = 1e-6

// Certificate is the scheduler's outcome: a feasible schedule, or the
// cycles that certify infeasibility.
type Certificate struct {
	InstanceName string
	Feasible     bool

	Schedule *Schedule

	Cycles []support.Cycle
	Graph  *support.Graph // support graph, for arc naming/dot rendering

	opGraph *opgraph.Graph
	x       []float64
	result  feaslp.Result
	tol     float64
}

// Run executes §4.5 against the lower-bound variant (β dropped) of
// the feasibility LP: it is the scheduler's job to extract start
// times, not route durations. The schedule it produces carries arrival
// and start times only; Run does not compute per-customer time windows
// (TimeWindow computes one on request).
func Run(g *opgraph.Graph, model *feaslp.Model, backend feaslp.Backend, instanceName string, x []float64, tol, assertTol float64) (*Certificate, error) {
	checker := feaslp.NewChecker(model, backend)
	checker.Tol = tol

	result, err := checker.Solve(x)
	if err != nil {
		return nil, err
	}

	cert := &Certificate{
		InstanceName: instanceName, Feasible: result.Feasible,
		opGraph: g, x: x, result: result, tol: tol,
	}

	if !result.Feasible {
		sg := support.Build(g, result, tol)
		cert.Graph = sg
		cert.Cycles = support.FindCycles(sg)
		log.Warnf("[scheduler] solution is infeasible in synchronization constraints")
		return cert, nil
	}

	sched, err := reconstruct(g, result.Slack, x, assertTol)
	if err != nil {
		return nil, err
	}
	sched.InstanceName = instanceName
	cert.Schedule = sched
	return cert, nil
}

// reconstruct implements §4.5 steps 2-5: normalize, partition, order,
// compute arrival/start times, and rename to customer ids. Step 6's
// time windows are not computed here.
//
// Step 3's ordering is read off the routing itself (x), not off the
// dual/slack vector s: an instance with no customer shared across
// depots gives every α column an objective coefficient <= 0, so the
// feasibility LP's optimum is the never-pivoted all-zero vertex and s
// carries no information to sort by. Walking x's active arcs recovers
// the true visit order regardless of how degenerate s is.
func reconstruct(g *opgraph.Graph, s []float64, x []float64, assertTol float64) (*Schedule, error) {
	s = append([]float64(nil), s...)

	sMin := math.Inf(1)
	for k := 0; k < g.Instance.NumDepots; k++ {
		if v := s[g.DepartureOp(k)]; v < sMin {
			sMin = v
		}
	}
	if math.IsInf(sMin, 1) {
		sMin = 0
	}
	for i := range s {
		s[i] -= sMin
	}

	sched := &Schedule{}
	for k := 0; k < g.Instance.NumDepots; k++ {
		partition, err := walkActiveRoute(g, x, k)
		if err != nil {
			return nil, err
		}

		route, err := buildRoute(g, partition, s, assertTol)
		if err != nil {
			return nil, err
		}
		sched.Routes = append(sched.Routes, RouteSchedule{Route: k, Tasks: route})
	}

	return sched, nil
}

// walkActiveRoute follows depot k's active routing arcs (x[e] > 0.5)
// from its departure to its return, giving the visit order the
// routing itself commits to rather than one inferred from a
// feasibility-LP slack vector that may never have been pivoted away
// from its zero default.
func walkActiveRoute(g *opgraph.Graph, x []float64, depot int) ([]int, error) {
	depOp := g.DepartureOp(depot)
	retOp := g.ReturnOp(depot)
	subset := g.RoutingSubsets[depot]

	partition := []int{depOp}
	cur := depOp
	visited := make(map[int]bool, len(subset))
	for cur != retOp {
		if visited[cur] {
			return nil, &errs.SchedulingAssertion{Msg: fmt.Sprintf(
				"depot %d: active routing arcs revisit %s without reaching its return",
				depot, g.Operations[cur].Name())}
		}
		visited[cur] = true

		next := opgraph.Empty
		for _, cand := range subset {
			if cand == cur {
				continue
			}
			if idx := g.RoutingArcIndex(cur, cand); idx != opgraph.Empty && x[idx] > 0.5 {
				next = cand
				break
			}
		}
		if next == opgraph.Empty {
			return nil, &errs.SchedulingAssertion{Msg: fmt.Sprintf(
				"depot %d: active routing arcs stop short of its return at %s",
				depot, g.Operations[cur].Name())}
		}
		partition = append(partition, next)
		cur = next
	}

	return partition, nil
}

// buildRoute walks partition (already in visit order) computing each
// stop's arrival and start time. The slack vector s seeds the
// departure's start time (carrying any genuine cross-depot
// synchronization offset) and is otherwise used as a floor: an
// interior operation's own slack is trusted when it is at least as
// large as the propagated arrival, and raised to the arrival
// otherwise. This tolerates a feasibility LP whose optimum never
// pivoted away from s=0 (every α column's objective coefficient is
// <= 0, so a fully disjoint-demand instance never forces a pivot)
// without discarding a real wait a non-degenerate dual reports.
func buildRoute(g *opgraph.Graph, partition []int, s []float64, assertTol float64) ([]Task, error) {
	tasks := make([]Task, len(partition))

	start := 0.0
	for i, op := range partition {
		var arrival float64
		if i == 0 {
			arrival = 0
			start = s[op]
		} else {
			prevOp := partition[i-1]
			idx := g.RoutingArcIndex(prevOp, op)
			if idx == opgraph.Empty {
				return nil, &errs.SchedulingAssertion{Msg: fmt.Sprintf(
					"no routing arc %s -> %s in reconstructed route",
					g.Operations[prevOp].Name(), g.Operations[op].Name())}
			}
			travelTime := g.RoutingArcs[idx].TravelTime
			arrival = start + travelTime
			start = math.Max(s[op], arrival)
		}

		customer := customerID(g, op)
		tasks[i] = Task{Customer: customer, ArrivalStarting: [2]float64{arrival, start}}
	}

	return tasks, nil
}

// customerID renames an operation to a customer id per §4.5 step 5:
// departure and return operations are renamed to customer 1.
func customerID(g *opgraph.Graph, op int) int {
	o := g.Operations[op]
	if o.Kind == opgraph.Visit {
		return o.Customer
	}
	return 1
}

// TimeWindow computes customer i's §4.5 step 6 window (1-based
// customer id) from the normalized slack vector, asserting the span
// stays within T[i].
func TimeWindow(g *opgraph.Graph, s []float64, customer int, assertTol float64) (lo, hi float64, err error) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for k := 0; k < g.Instance.NumDepots; k++ {
		op := g.OpOf(customer, k)
		if op == opgraph.Empty {
			continue
		}
		if s[op] < lo {
			lo = s[op]
		}
		if s[op] > hi {
			hi = s[op]
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0, nil
	}

	width := g.Instance.T[customer-1]
	if hi-lo > width+assertTol {
		return 0, 0, &errs.SchedulingAssertion{Msg: fmt.Sprintf(
			"customer %d visit spread %g exceeds time-window width %g", customer, hi-lo, width)}
	}

	center := 0.5 * (lo + hi)
	minStart := math.Max(0, center-0.5*width)
	maxStart := minStart + width
	return minStart, maxStart, nil
}
