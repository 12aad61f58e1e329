// Package instance models a CTSP problem instance: customers, the
// days/depots they may be visited on, travel distances between depot
// and customer locations, per-customer time-window widths, and the
// maximum route duration. It is the static input the rest of the core
// (opgraph, encode, feaslp, support, scheduler) is built from.
package instance

import log "github.com/sirupsen/logrus"

// ProblemType distinguishes single-depot CTSP (type 1, depot-subset
// sync arcs wired as a complete graph among departures) from
// multi-depot CTSP (type 2, depot-subset sync arcs wired return->
// departure), per the synchronization-partition rule.
type ProblemType int

const (
	ProblemType1 ProblemType = 1
	ProblemType2 ProblemType = 2
)

func (p ProblemType) String() string {
	switch p {
	case ProblemType1:
		return "ctsp1"
	case ProblemType2:
		return "ctsp2"
	default:
		return "unknown"
	}
}

// ParseProblemType validates the CLI's problem_type positional.
func ParseProblemType(s string) (ProblemType, bool) {
	switch s {
	case "ctsp1":
		return ProblemType1, true
	case "ctsp2":
		return ProblemType2, true
	default:
		return 0, false
	}
}

// MaxDistanceForbidThreshold is the distance above which an entry is
// considered a forbidden (non-existent) edge and zeroed with a
// diagnostic, per the routing-partition invariant.
const MaxDistanceForbidThreshold = 10000.0

// DisabledMaxDistance is the sentinel max_distance value that disables
// route-duration bounding: a route may run arbitrarily long.
const DisabledMaxDistance = 999_999_999.0

// Instance is the fully parsed, validated CTSP instance.
type Instance struct {
	Name    string
	Comment string
	// OptimalValues holds the two comma-separated doubles carried by the
	// COMMENT header line, when present (known-optimum bookkeeping).
	OptimalValues [2]float64

	Type ProblemType

	// NumDepots is the number of depot-subsets in the operation graph
	// (one per scheduled day/vehicle route sharing the single physical
	// depot location named by Dist[0]).
	NumDepots int
	// NumCustomers is N: customers are numbered 1..NumCustomers.
	NumCustomers int

	// Dist is the (NumCustomers+1)x(NumCustomers+1) distance matrix.
	// Index 0 is the physical depot location; index i (1<=i<=N) is
	// customer i.
	Dist [][]float64
	// TravelTime mirrors Dist: this instance format carries no separate
	// speed parameter, so travel time equals distance.
	TravelTime [][]float64

	// MaxDistance bounds a single route's total duration.
	MaxDistance float64

	// T[i] (1-indexed conceptually, stored 0-indexed by customer-1) is
	// the time-window width within which all of a customer's visits
	// must fall.
	T []float64

	// Demands[i][k] is true iff customer i+1 has a demand on depot/day
	// k (0-indexed). len(Demands) == NumCustomers, len(Demands[i]) ==
	// NumDepots.
	Demands [][]bool
}

// HasDemand reports whether customer (1-indexed) has a demand on depot
// k (0-indexed).
func (in *Instance) HasDemand(customer, depot int) bool {
	return in.Demands[customer-1][depot]
}

// DisableMaxDistance forces MaxDistance to the sentinel value that
// removes route-duration bounding, reinstating the original
// implementation's disable_max_distance helper (used by the
// boundary-behavior test for invariant #13).
func (in *Instance) DisableMaxDistance() {
	in.MaxDistance = DisabledMaxDistance
}

// NCustomerOperations returns the number of customer-visit operations
// implied by the demand grid (one per (customer, depot) with a
// demand), matching CTSP_instance::get_n_customer_operations.
func (in *Instance) NCustomerOperations() int {
	n := 0
	for i := 0; i < in.NumCustomers; i++ {
		for k := 0; k < in.NumDepots; k++ {
			if in.Demands[i][k] {
				n++
			}
		}
	}
	return n
}

// Validate checks the non-fatal invariants from §3: distance-matrix
// symmetry and the triangle inequality. Violations are logged, not
// returned as errors, matching the original's cerr-warning behavior.
func (in *Instance) Validate() {
	n := len(in.Dist)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if in.Dist[i][j] != in.Dist[j][i] {
				log.Printf(
					"[instance] warning: distance matrix asymmetric at (%d,%d): %v != %v",
					i, j, in.Dist[i][j], in.Dist[j][i],
				)
			}
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				if in.Dist[i][j] > in.Dist[i][k]+in.Dist[k][j]+1e-6 {
					log.Printf(
						"[instance] warning: triangle inequality violated at (%d,%d,%d): %v > %v + %v",
						i, j, k, in.Dist[i][j], in.Dist[i][k], in.Dist[k][j],
					)
				}
			}
		}
	}
}
