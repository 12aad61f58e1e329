package scheduler

import (
	"fmt"
	"path/filepath"

	"github.com/mobius-scheduler/ctsp-sync/common"
)

// Schedule is the JSON schedule output (§6): one route per depot, each
// a sequence of tasks with arrival and start times.
type Schedule struct {
	InstanceName string          `json:"instance_name"`
	Routes       []RouteSchedule `json:"schedule"`
}

type RouteSchedule struct {
	Route int    `json:"route"`
	Tasks []Task `json:"tasks"`
}

type Task struct {
	Customer        int        `json:"customer"`
	ArrivalStarting [2]float64 `json:"arrival_starting"`
}

// OutputPaths derives the three artifact paths (SPEC_FULL.md's "Output
// file naming convention") from an instance name and output directory.
type OutputPaths struct {
	Schedule  string
	CyclesTxt string
	DotGraph  string
}

func DeriveOutputPaths(outputDir, instanceName string) OutputPaths {
	base := filepath.Join(outputDir, instanceName)
	return OutputPaths{
		Schedule:  base + ".sched.json",
		CyclesTxt: base + "_infeasible_paths.txt",
		DotGraph:  base + "_primal_dual_graph.dot",
	}
}

// WriteSchedule writes the schedule JSON to path using the shared
// ToFile helper (teacher's JSON-I/O style).
func WriteSchedule(path string, sched *Schedule) {
	common.ToFile(path, sched)
}

// Write dispatches a Certificate to the appropriate output files: the
// schedule JSON on feasibility, or the two infeasibility artifacts.
func (c *Certificate) Write(paths OutputPaths) error {
	if c.Feasible {
		WriteSchedule(paths.Schedule, c.Schedule)
		return nil
	}
	if err := writeCyclesText(paths.CyclesTxt, c.opGraph, c.Cycles); err != nil {
		return err
	}
	return writeDot(paths.DotGraph, c)
}

func (c *Certificate) String() string {
	if c.Feasible {
		return fmt.Sprintf("feasible: %d routes", len(c.Schedule.Routes))
	}
	return fmt.Sprintf("infeasible: %d violated cycles", len(c.Cycles))
}
