package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/mobius-scheduler/ctsp-sync/common"
	"github.com/mobius-scheduler/ctsp-sync/encode"
	"github.com/mobius-scheduler/ctsp-sync/errs"
	"github.com/mobius-scheduler/ctsp-sync/feaslp"
	"github.com/mobius-scheduler/ctsp-sync/instance"
	"github.com/mobius-scheduler/ctsp-sync/opgraph"
	"github.com/mobius-scheduler/ctsp-sync/scheduler"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <ctsp1|ctsp2> <instance_file> <solution_file> <output_dir>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	solverName := flag.String("solver", "gonum", "LP backend (gonum, gurobi)")
	tol := flag.Float64("tol", feaslp.DefaultTol, "feasibility economic-activity tolerance")
	assertTol := flag.Float64("assert-tol", scheduler.DefaultAssertTol, "scheduling-reconstruction assertion tolerance")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if flag.NArg() != 4 {
		usage()
		os.Exit(1)
	}

	problemType, ok := instance.ParseProblemType(flag.Arg(0))
	if !ok {
		log.Errorf("[main] unknown problem type %q (want ctsp1 or ctsp2)", flag.Arg(0))
		os.Exit(1)
	}
	instancePath := flag.Arg(1)
	solutionPath := flag.Arg(2)
	outputDir := flag.Arg(3)

	inst, err := instance.ReadInstance(instancePath, problemType)
	if err != nil {
		reportAndExit(err)
	}
	sol, err := instance.ReadSolution(solutionPath)
	if err != nil {
		reportAndExit(err)
	}

	g := opgraph.Build(inst)
	log.Printf("[main] built operation graph: %d operations, %d routing arcs, %d sync arcs",
		g.NumOps, len(g.RoutingArcs), len(g.SyncArcs))

	x, err := encode.Encode(g, sol.Routes)
	if err != nil {
		reportAndExit(err)
	}

	backend, err := newBackend(*solverName)
	if err != nil {
		reportAndExit(err)
	}

	model := feaslp.BuildModel(g, feaslp.LowerBound)
	common.CreateDir(outputDir)

	instanceName := inst.Name
	if instanceName == "" {
		instanceName = baseNameNoExt(instancePath)
	}

	cert, err := scheduler.Run(g, model, backend, instanceName, x, *tol, *assertTol)
	if err != nil {
		reportAndExit(err)
	}

	paths := scheduler.DeriveOutputPaths(outputDir, instanceName)
	if err := cert.Write(paths); err != nil {
		reportAndExit(err)
	}

	log.Printf("[main] %s", cert.String())
}

func newBackend(name string) (feaslp.Backend, error) {
	switch name {
	case "gonum":
		return feaslp.NewGonumBackend(), nil
	case "gurobi":
		return nil, fmt.Errorf("solver %q requires building with -tags gurobi", name)
	default:
		return nil, fmt.Errorf("unknown solver %q", name)
	}
}

func baseNameNoExt(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return base
}

// reportAndExit converts a typed core error into the §7 exit-code
// policy: IOError/ParseError/argument errors exit 1 after a logged
// message; EncodingError/SchedulingAssertion/SolverError{Unbounded}
// are fatal, matching the reference's abort()-on-bug behavior.
func reportAndExit(err error) {
	switch err.(type) {
	case *errs.IOError, *errs.ParseError:
		log.Errorf("[main] %v", err)
		os.Exit(1)
	default:
		log.Fatalf("[main] %v", err)
	}
}
