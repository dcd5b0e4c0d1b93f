package ui

import (
	"fmt"
	"strconv"

	"fluid-ca/internal/core"
)

// Status is the front-end state shown above the parameter controls.
type Status struct {
	Tool   core.Tool
	Brush  int
	Paused bool
	TPS    int
}

// StatusLines formats the status block. Tick statistics are included when
// the sim provides them.
func StatusLines(sim core.Sim, st Status) []string {
	state := "running"
	if st.Paused {
		state = "paused"
	}
	lines := []string{
		fmt.Sprintf("%s  %d tps", state, st.TPS),
		fmt.Sprintf("tool %s  brush %d", st.Tool, st.Brush),
	}
	if sp, ok := sim.(core.StatsProvider); ok {
		ts := sp.Stats()
		lines = append(lines,
			"tick "+strconv.FormatUint(ts.Tick, 10),
			fmt.Sprintf("mass %.3f", ts.Mass),
			fmt.Sprintf("changed %d  moves %d", ts.Changed, ts.Transfers),
		)
	}
	return lines
}

// statusRows is the most lines StatusLines returns.
const statusRows = 5
