package scheduler

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/mobius-scheduler/ctsp-sync/errs"
	"github.com/mobius-scheduler/ctsp-sync/opgraph"
)

// writeDot renders the primal/dual support graph as a DOT file,
// following sync_infeasible.cpp's exact conditional coloring: a
// routing arc the LP and the routing agree on (α active, x ≈ α) is
// green; a routing arc the LP wants but the routing didn't pick (x ≈
// 0, α active) is blue; an unused arc carrying positive x alone is
// gray; sync arcs active in γ are red. Line style encodes the driving
// magnitude in bins >0.9 solid, >0.4 dashed, else dotted.
func writeDot(path string, cert *Certificate) error {
	var sb strings.Builder
	sb.WriteString("\ndigraph G { \n\nrankdir=LR; \noverlap=false \n \n")

	g := cert.opGraph
	tol := cert.tol

	for e, arc := range g.RoutingArcs {
		alpha := cert.result.Alpha[e]
		x := cert.x[e]

		switch {
		case math.Abs(alpha) > tol && math.Abs(x-alpha) < tol:
			writeEdgeLabel(&sb, g, arc.From, arc.To, fmt.Sprintf("%.2f / %.2f", x, alpha), alpha, "green")
		case x > tol:
			color := "gray"
			label := fmt.Sprintf("%.2f", x)
			if alpha > tol {
				color = "green"
				label = fmt.Sprintf("%.2f / %.2f", x, alpha)
			}
			writeEdgeLabel(&sb, g, arc.From, arc.To, label, x, color)
		case math.Abs(alpha) > tol:
			writeEdgeLabel(&sb, g, arc.From, arc.To, fmt.Sprintf("%.2f", alpha), alpha, "blue")
		}
	}

	for a, arc := range g.SyncArcs {
		gamma := cert.result.Gamma[a]
		if gamma <= tol {
			continue
		}
		fmt.Fprintf(&sb, "%5s -> %5s [ fontsize=\"10pt\", %s, color=\"red\" ]\n",
			g.Operations[arc.From].Name(), g.Operations[arc.To].Name(), styleFor(gamma))
	}

	sb.WriteString("}\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return &errs.IOError{Path: path, Err: err}
	}
	return nil
}

func writeEdgeLabel(sb *strings.Builder, g *opgraph.Graph, from, to int, label string, magnitude float64, color string) {
	fmt.Fprintf(sb, "%5s -> %5s [ fontsize=\"10pt\", label = \" %s\", color=\"%s\", %s ]\n",
		g.Operations[from].Name(), g.Operations[to].Name(), label, color, styleFor(magnitude))
}

func styleFor(v float64) string {
	switch {
	case v > 0.9:
		return "style=\"solid\""
	case v > 0.4:
		return "style=\"dashed\""
	default:
		return "style=\"dotted\""
	}
}
