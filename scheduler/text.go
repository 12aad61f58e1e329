package scheduler

import (
	"fmt"
	"os"
	"strings"

	"github.com/mobius-scheduler/ctsp-sync/errs"
	"github.com/mobius-scheduler/ctsp-sync/opgraph"
	"github.com/mobius-scheduler/ctsp-sync/support"
)

// writeCyclesText renders each violated cycle as a sequence of arc
// names, routing arcs as R(op_i -> op_j) and sync arcs as
// S(op_i -> op_j), following the naming convention this repository
// adopts in place of sync_infeasible.cpp's bare arc-name list.
func writeCyclesText(path string, g *opgraph.Graph, cycles []support.Cycle) error {
	var sb strings.Builder
	sb.WriteString("Infeasible paths detected in the solution:\n")

	for _, cycle := range cycles {
		writeCycleLine(&sb, g, cycle)
		sb.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return &errs.IOError{Path: path, Err: err}
	}
	return nil
}

func writeCycleLine(sb *strings.Builder, g *opgraph.Graph, cycle support.Cycle) {
	for _, ref := range cycle {
		switch ref.Kind {
		case support.RoutingStep:
			arc := g.RoutingArcs[ref.Index]
			fmt.Fprintf(sb, "R(%s -> %s) ", g.Operations[arc.From].Name(), g.Operations[arc.To].Name())
		case support.SyncStep:
			arc := g.SyncArcs[ref.Index]
			fmt.Fprintf(sb, "S(%s -> %s) ", g.Operations[arc.From].Name(), g.Operations[arc.To].Name())
		}
	}
	sb.WriteString("\n")
}
