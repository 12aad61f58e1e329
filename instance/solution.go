package instance

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mobius-scheduler/ctsp-sync/errs"
)

// depotNodeID is the 1-based TSPLIB node id of the physical depot; it
// always converts to 0-based node 0, matching Instance.Dist's layout.
const depotNodeID = 1

// Route is a single vehicle's visit sequence as 0-based node ids
// (0 = depot, i = customer i). A well-formed route starts and ends
// with 0.
type Route []int

// Solution is a parsed routing solution file: one route per
// depot/day.
type Solution struct {
	InstanceName string
	Routes       []Route
}

// ReadSolution parses the solution-file format from §6: instance
// name; number of routes; then, per route, its length L followed by
// L 1-based node ids. Routes missing a leading/trailing depot id get
// one inserted, matching the writer behavior the format contract
// describes.
func ReadSolution(path string) (*Solution, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &errs.IOError{Path: path, Err: err}
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	lineNo := 0

	nextLine := func() (string, bool) {
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				return line, true
			}
		}
		return "", false
	}

	name, ok := nextLine()
	if !ok {
		return nil, &errs.ParseError{Path: path, Msg: "missing instance name line"}
	}

	countLine, ok := nextLine()
	if !ok {
		return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: "missing route count line"}
	}
	numRoutes, err := strconv.Atoi(strings.Fields(countLine)[0])
	if err != nil {
		return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: "route count not an integer: " + countLine}
	}

	sol := &Solution{InstanceName: name, Routes: make([]Route, numRoutes)}
	for r := 0; r < numRoutes; r++ {
		lenLine, ok := nextLine()
		if !ok {
			return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("missing length line for route %d", r)}
		}
		lenFields := strings.Fields(lenLine)
		L, err := strconv.Atoi(lenFields[0])
		if err != nil {
			return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: "route length not an integer: " + lenLine}
		}

		ids := make([]int, 0, L)
		if len(lenFields) > 1 {
			for _, tok := range lenFields[1:] {
				v, err := strconv.Atoi(tok)
				if err != nil {
					return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: "bad node id: " + tok}
				}
				ids = append(ids, v)
			}
		}
		for len(ids) < L {
			idsLine, ok := nextLine()
			if !ok {
				return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("unexpected EOF reading route %d", r)}
			}
			for _, tok := range strings.Fields(idsLine) {
				v, err := strconv.Atoi(tok)
				if err != nil {
					return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: "bad node id: " + tok}
				}
				ids = append(ids, v)
			}
		}

		if len(ids) == 0 || ids[0] != depotNodeID {
			ids = append([]int{depotNodeID}, ids...)
		}
		if ids[len(ids)-1] != depotNodeID {
			ids = append(ids, depotNodeID)
		}

		route := make(Route, len(ids))
		for i, id := range ids {
			route[i] = id - 1
		}
		sol.Routes[r] = route
	}

	return sol, nil
}

// WriteSolution serializes a Solution back to the text format, for
// completeness and round-trip tests. Routes are written with 1-based
// ids, the depot already present at both ends (ReadSolution guarantees
// this on load).
func WriteSolution(path string, sol *Solution) error {
	file, err := os.Create(path)
	if err != nil {
		return &errs.IOError{Path: path, Err: err}
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintln(w, sol.InstanceName)
	fmt.Fprintln(w, len(sol.Routes))
	for _, route := range sol.Routes {
		fmt.Fprintf(w, "%d", len(route))
		for _, id := range route {
			fmt.Fprintf(w, " %d", id+1)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
