package feaslp

import (
	"fmt"
	"os"
	"strings"

	"github.com/mobius-scheduler/ctsp-sync/errs"
)

// writeLPFormat renders the current model as a CPLEX-style .lp file
// for offline inspection. No library in the reference corpus writes
// this format, so it is hand-rolled against stdlib strings/fmt only;
// the format itself is plain text with no parsing subtleties worth a
// dependency.
func writeLPFormat(path string, numRows, numCols int, obj []float64, entries []CoefEntry, rhs []float64) error {
	rows := make([][]float64, numRows)
	for i := range rows {
		rows[i] = make([]float64, numCols)
	}
	for _, e := range entries {
		rows[e.Row][e.Col] = e.Value
	}

	var sb strings.Builder
	sb.WriteString("Maximize\n obj: ")
	sb.WriteString(linearExpr(obj))
	sb.WriteString("\nSubject To\n")
	for i, row := range rows {
		fmt.Fprintf(&sb, " r%d: %s <= %g\n", i, linearExpr(row), rhs[i])
	}
	sb.WriteString("Bounds\n")
	for j := 0; j < numCols; j++ {
		fmt.Fprintf(&sb, " x%d >= 0\n", j)
	}
	sb.WriteString("End\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return &errs.IOError{Path: path, Err: err}
	}
	return nil
}

func linearExpr(coefs []float64) string {
	var parts []string
	for j, c := range coefs {
		if c == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%+g x%d", c, j))
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " ")
}
