// Package opgraph builds the static operation/arc graph (C2) from a
// parsed instance: the dense operation list, the routing partition (by
// depot), the synchronization partition (by customer, plus the depot
// subset), and the two pair-maps bridging arcs to dense variable
// indices used by the feasibility LP.
package opgraph

import "fmt"

// Kind distinguishes the three operation roles. Dense operation
// indices are ordered by kind first (all departures, then all
// returns, then visits), per the mandatory construction order.
type Kind int

const (
	Departure Kind = iota
	Return
	Visit
)

func (k Kind) String() string {
	switch k {
	case Departure:
		return "departure"
	case Return:
		return "return"
	case Visit:
		return "visit"
	default:
		return "unknown"
	}
}

// Operation is a single schedulable unit: a departure, return, or
// customer-visit, with its two-component resource vector
// (processing_time, duration_bound).
type Operation struct {
	ID       int
	Kind     Kind
	Customer int // 0 for a departure, N+1 sentinel for a return, else 1..N
	Depot    int // 0-based depot/day index

	Processing    float64 // r0
	DurationBound float64 // r1
}

// Name renders the operation the way the reference DOT/text writers
// name operations: D<k>+ for a departure, D<k>- for a return, C<i>@<k>
// for a customer-visit.
func (o Operation) Name() string {
	switch o.Kind {
	case Departure:
		return fmt.Sprintf("D%d+", o.Depot)
	case Return:
		return fmt.Sprintf("D%d-", o.Depot)
	default:
		return fmt.Sprintf("C%d@%d", o.Customer, o.Depot)
	}
}

// Node returns the distance-matrix row/column this operation maps to:
// 0 (the single physical depot location) for departures and returns,
// the customer id for visits.
func (o Operation) Node() int {
	if o.Kind == Visit {
		return o.Customer
	}
	return 0
}
