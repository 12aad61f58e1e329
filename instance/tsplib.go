package instance

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mobius-scheduler/ctsp-sync/errs"
)

// EdgeWeightFormat selects how an EDGE_WEIGHT_SECTION's flat number
// stream is laid into the dense distance matrix.
type EdgeWeightFormat int

const (
	formatNone EdgeWeightFormat = iota
	UpperRow
	LowerRow
	UpperDiagRow
	LowerDiagRow
	UpperCol
	LowerCol
	UpperDiagCol
	LowerDiagCol
	FullMatrix
)

func parseEdgeWeightFormat(s string) (EdgeWeightFormat, bool) {
	switch s {
	case "UPPER_ROW":
		return UpperRow, true
	case "LOWER_ROW":
		return LowerRow, true
	case "UPPER_DIAG_ROW":
		return UpperDiagRow, true
	case "LOWER_DIAG_ROW":
		return LowerDiagRow, true
	case "UPPER_COL":
		return UpperCol, true
	case "LOWER_COL":
		return LowerCol, true
	case "UPPER_DIAG_COL":
		return UpperDiagCol, true
	case "LOWER_DIAG_COL":
		return LowerDiagCol, true
	case "FULL_MATRIX":
		return FullMatrix, true
	default:
		return formatNone, false
	}
}

// cellOrder returns the (i,j) fill order for a given format over an
// n x n matrix, per TSPLIB convention.
func cellOrder(f EdgeWeightFormat, n int) [][2]int {
	var cells [][2]int
	switch f {
	case UpperRow:
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				cells = append(cells, [2]int{i, j})
			}
		}
	case UpperDiagRow:
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				cells = append(cells, [2]int{i, j})
			}
		}
	case LowerRow:
		for i := 0; i < n; i++ {
			for j := 0; j < i; j++ {
				cells = append(cells, [2]int{i, j})
			}
		}
	case LowerDiagRow:
		for i := 0; i < n; i++ {
			for j := 0; j <= i; j++ {
				cells = append(cells, [2]int{i, j})
			}
		}
	case UpperCol:
		for j := 0; j < n; j++ {
			for i := 0; i < j; i++ {
				cells = append(cells, [2]int{i, j})
			}
		}
	case UpperDiagCol:
		for j := 0; j < n; j++ {
			for i := 0; i <= j; i++ {
				cells = append(cells, [2]int{i, j})
			}
		}
	case LowerCol:
		for j := 0; j < n; j++ {
			for i := j + 1; i < n; i++ {
				cells = append(cells, [2]int{i, j})
			}
		}
	case LowerDiagCol:
		for j := 0; j < n; j++ {
			for i := j; i < n; i++ {
				cells = append(cells, [2]int{i, j})
			}
		}
	case FullMatrix:
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				cells = append(cells, [2]int{i, j})
			}
		}
	}
	return cells
}

// rawInstance accumulates header fields and section data while
// scanning; ReadInstance assembles the final Instance from it.
type rawInstance struct {
	name            string
	comment         string
	optimalValues   [2]float64
	dimension       int
	edgeWeightType  EdgeWeightType
	hasEdgeType     bool
	edgeWeightFmt   EdgeWeightFormat
	numDays         int
	maxDistance     float64
	hasMaxDistance  bool
	mad             float64
	hasMAD          bool
	coords          []Coord2D
	explicitValues  []float64
	demandsRaw      map[int][]bool // 1-based node id -> per-day demand
	depotNodeIDs    []int
}

// ReadInstance parses a TSPLIB-with-extensions instance file.
func ReadInstance(path string, problemType ProblemType) (*Instance, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &errs.IOError{Path: path, Err: err}
	}
	defer file.Close()

	raw := &rawInstance{demandsRaw: make(map[int][]bool)}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "EOF" {
			break
		}

		switch {
		case strings.HasPrefix(line, "NODE_COORD_SECTION"):
			if err := readNodeCoordSection(scanner, raw, path, &lineNo); err != nil {
				return nil, err
			}
			continue
		case strings.HasPrefix(line, "EDGE_WEIGHT_SECTION"):
			if err := readEdgeWeightSection(scanner, raw, path, &lineNo); err != nil {
				return nil, err
			}
			continue
		case strings.HasPrefix(line, "DEMAND_SECTION"):
			if err := readDemandSection(scanner, raw, path, &lineNo); err != nil {
				return nil, err
			}
			continue
		case strings.HasPrefix(line, "DEPOT_SECTION"):
			if err := readDepotSection(scanner, raw, path, &lineNo); err != nil {
				return nil, err
			}
			continue
		}

		key, value, err := splitHeaderLine(line)
		if err != nil {
			return nil, &errs.ParseError{Path: path, Line: lineNo, Msg: err.Error()}
		}
		if err := applyHeaderField(raw, key, value, path, lineNo); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &errs.IOError{Path: path, Err: err}
	}

	return assembleInstance(raw, problemType, path)
}

func splitHeaderLine(line string) (key, value string, err error) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", fmt.Errorf("expected 'KEY : VALUE', got %q", line)
	}
	key = strings.TrimSpace(line[:idx])
	value = strings.TrimSpace(line[idx+1:])
	return key, value, nil
}

func applyHeaderField(raw *rawInstance, key, value, path string, lineNo int) error {
	switch key {
	case "NAME":
		raw.name = value
	case "TYPE":
		// accepted and ignored beyond bookkeeping: the problem type
		// that governs depot-arc wiring comes from the CLI argument,
		// not this header.
	case "COMMENT":
		raw.comment = value
		parts := strings.Split(value, ",")
		if len(parts) == 2 {
			a, errA := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			b, errB := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if errA == nil && errB == nil {
				raw.optimalValues = [2]float64{a, b}
			}
		}
	case "DIMENSION":
		n, err := strconv.Atoi(value)
		if err != nil {
			return &errs.ParseError{Path: path, Line: lineNo, Msg: "DIMENSION not an integer: " + value}
		}
		raw.dimension = n
	case "EDGE_WEIGHT_TYPE":
		t, ok := ParseEdgeWeightType(value)
		if !ok {
			return &errs.ParseError{Path: path, Line: lineNo, Msg: "unknown EDGE_WEIGHT_TYPE: " + value}
		}
		raw.edgeWeightType = t
		raw.hasEdgeType = true
	case "EDGE_WEIGHT_FORMAT":
		f, ok := parseEdgeWeightFormat(value)
		if !ok {
			return &errs.ParseError{Path: path, Line: lineNo, Msg: "unknown EDGE_WEIGHT_FORMAT: " + value}
		}
		raw.edgeWeightFmt = f
	case "NUM_DAYS":
		n, err := strconv.Atoi(value)
		if err != nil {
			return &errs.ParseError{Path: path, Line: lineNo, Msg: "NUM_DAYS not an integer: " + value}
		}
		raw.numDays = n
	case "DISTANCE":
		d, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &errs.ParseError{Path: path, Line: lineNo, Msg: "DISTANCE not a number: " + value}
		}
		raw.maxDistance = d
		raw.hasMaxDistance = true
	case "MAXIMUM_ALLOWABLE_DIFFERENTIAL":
		d, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &errs.ParseError{Path: path, Line: lineNo, Msg: "MAXIMUM_ALLOWABLE_DIFFERENTIAL not a number: " + value}
		}
		raw.mad = d
		raw.hasMAD = true
	default:
		log.Debugf("[instance] ignoring unrecognized header field %s", key)
	}
	return nil
}

func fields(line string) []string {
	return strings.Fields(line)
}

func readNodeCoordSection(scanner *bufio.Scanner, raw *rawInstance, path string, lineNo *int) error {
	raw.coords = make([]Coord2D, raw.dimension)
	for i := 0; i < raw.dimension; i++ {
		if !scanner.Scan() {
			return &errs.ParseError{Path: path, Line: *lineNo, Msg: "unexpected EOF in NODE_COORD_SECTION"}
		}
		*lineNo++
		f := fields(scanner.Text())
		if len(f) < 3 {
			return &errs.ParseError{Path: path, Line: *lineNo, Msg: "malformed NODE_COORD_SECTION line"}
		}
		id, err := strconv.Atoi(f[0])
		if err != nil {
			return &errs.ParseError{Path: path, Line: *lineNo, Msg: "bad node id: " + f[0]}
		}
		x, errX := strconv.ParseFloat(f[1], 64)
		y, errY := strconv.ParseFloat(f[2], 64)
		if errX != nil || errY != nil {
			return &errs.ParseError{Path: path, Line: *lineNo, Msg: "bad coordinates on node " + f[0]}
		}
		if id < 1 || id > raw.dimension {
			return &errs.ParseError{Path: path, Line: *lineNo, Msg: "node id out of range: " + f[0]}
		}
		raw.coords[id-1] = Coord2D{X: x, Y: y}
	}
	return nil
}

func readEdgeWeightSection(scanner *bufio.Scanner, raw *rawInstance, path string, lineNo *int) error {
	var values []float64
	want := raw.dimension * raw.dimension
	if cells := cellOrder(raw.edgeWeightFmt, raw.dimension); len(cells) > 0 {
		want = len(cells)
	}
	for len(values) < want {
		if !scanner.Scan() {
			break
		}
		*lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "NODE_COORD_SECTION") ||
			strings.HasPrefix(line, "DEMAND_SECTION") ||
			strings.HasPrefix(line, "DEPOT_SECTION") ||
			line == "EOF" {
			// section ended without filling the expected count; let
			// the caller fall through to whatever comes next by
			// re-processing this line is not possible with
			// bufio.Scanner, so we treat this as malformed input.
			return &errs.ParseError{Path: path, Line: *lineNo, Msg: "EDGE_WEIGHT_SECTION ended early"}
		}
		for _, tok := range fields(line) {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return &errs.ParseError{Path: path, Line: *lineNo, Msg: "bad edge weight token: " + tok}
			}
			values = append(values, v)
		}
	}
	raw.explicitValues = values
	return nil
}

func readDemandSection(scanner *bufio.Scanner, raw *rawInstance, path string, lineNo *int) error {
	for i := 0; i < raw.dimension; i++ {
		if !scanner.Scan() {
			return &errs.ParseError{Path: path, Line: *lineNo, Msg: "unexpected EOF in DEMAND_SECTION"}
		}
		*lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			i--
			continue
		}
		f := fields(line)
		if len(f) < 2 {
			return &errs.ParseError{Path: path, Line: *lineNo, Msg: "malformed DEMAND_SECTION line"}
		}
		id, err := strconv.Atoi(f[0])
		if err != nil {
			return &errs.ParseError{Path: path, Line: *lineNo, Msg: "bad node id in DEMAND_SECTION: " + f[0]}
		}
		days := make([]bool, len(f)-1)
		for k, tok := range f[1:] {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return &errs.ParseError{Path: path, Line: *lineNo, Msg: "bad demand value: " + tok}
			}
			days[k] = v > 0
		}
		raw.demandsRaw[id] = days
	}
	return nil
}

func readDepotSection(scanner *bufio.Scanner, raw *rawInstance, path string, lineNo *int) error {
	for scanner.Scan() {
		*lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := strconv.Atoi(fields(line)[0])
		if err != nil {
			return &errs.ParseError{Path: path, Line: *lineNo, Msg: "bad depot id: " + line}
		}
		if id == -1 {
			break
		}
		raw.depotNodeIDs = append(raw.depotNodeIDs, id)
	}
	return nil
}

// assembleInstance builds the dense distance matrix and demand grid
// from the accumulated raw fields, following CTSP_instance::read:
// n_customers_ = dimension - 1, T filled uniformly from the single
// MAXIMUM_ALLOWABLE_DIFFERENTIAL value, NUM_DAYS gives the depot count.
func assembleInstance(raw *rawInstance, problemType ProblemType, path string) (*Instance, error) {
	if raw.dimension <= 1 {
		return nil, &errs.ParseError{Path: path, Msg: "DIMENSION must be > 1"}
	}
	n := raw.dimension - 1

	dist := make([][]float64, raw.dimension)
	for i := range dist {
		dist[i] = make([]float64, raw.dimension)
	}

	if len(raw.explicitValues) > 0 {
		cells := cellOrder(raw.edgeWeightFmt, raw.dimension)
		if len(cells) > len(raw.explicitValues) {
			return nil, &errs.ParseError{Path: path, Msg: "EDGE_WEIGHT_SECTION too short for declared format"}
		}
		for idx, c := range cells {
			v := raw.explicitValues[idx]
			dist[c[0]][c[1]] = v
			dist[c[1]][c[0]] = v
		}
	} else if len(raw.coords) == raw.dimension {
		if !raw.hasEdgeType {
			return nil, &errs.ParseError{Path: path, Msg: "missing EDGE_WEIGHT_TYPE for coordinate instance"}
		}
		for i := 0; i < raw.dimension; i++ {
			for j := 0; j < raw.dimension; j++ {
				if i == j {
					continue
				}
				dist[i][j] = Distance(raw.edgeWeightType, raw.coords[i], raw.coords[j])
			}
		}
	} else {
		return nil, &errs.ParseError{Path: path, Msg: "instance has neither NODE_COORD_SECTION nor EDGE_WEIGHT_SECTION data"}
	}

	// forbidden-edge diagnostic: distances exceeding the threshold are
	// zeroed per §3's routing-partition rule.
	for i := 0; i < raw.dimension; i++ {
		for j := 0; j < raw.dimension; j++ {
			if dist[i][j] > MaxDistanceForbidThreshold {
				log.Printf(
					"[instance] distance (%d,%d)=%v exceeds forbid threshold %v, zeroing",
					i, j, dist[i][j], MaxDistanceForbidThreshold,
				)
				dist[i][j] = 0
			}
		}
	}

	numDepots := raw.numDays
	if numDepots <= 0 {
		numDepots = 1
	}

	maxDistance := raw.maxDistance
	if !raw.hasMaxDistance {
		maxDistance = DisabledMaxDistance
	}

	tWidth := raw.mad
	if !raw.hasMAD {
		tWidth = DisabledMaxDistance
	}
	t := make([]float64, n)
	for i := range t {
		t[i] = tWidth
	}

	demands := make([][]bool, n)
	for i := 0; i < n; i++ {
		nodeID := i + 2 // node 1 is the depot by convention
		days, ok := raw.demandsRaw[nodeID]
		row := make([]bool, numDepots)
		if ok {
			for k := 0; k < numDepots && k < len(days); k++ {
				row[k] = days[k]
			}
		}
		demands[i] = row
	}

	in := &Instance{
		Name:          raw.name,
		Comment:       raw.comment,
		OptimalValues: raw.optimalValues,
		Type:          problemType,
		NumDepots:     numDepots,
		NumCustomers:  n,
		Dist:          dist,
		TravelTime:    dist,
		MaxDistance:   maxDistance,
		T:             t,
		Demands:       demands,
	}
	in.Validate()
	return in, nil
}
