package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sbernasek/promoters/internal/simulation"
)

// RunScriptFile is the local run script emitted into scripts/.
const RunScriptFile = "run.sh"

// writeRunScript emits a shell script that runs every chunk sequentially on
// the local machine by feeding each chunk file to the external runner.
// Scheduler-specific submission syntax is the cluster's concern; this
// script only demonstrates the chunk-index contract.
func writeRunScript(root string, run simulation.RunConfig) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve batch path: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("#!/bin/bash\n")
	fmt.Fprintf(&sb, "cd %s\n\n", abs)
	sb.WriteString("echo \"starting all batches at `date`\"\n")
	sb.WriteString("while read P; do\n")
	sb.WriteString("echo \"processing batch ${P}\"\n")
	fmt.Fprintf(&sb, "promoters-run \"${P}\" -N %d -s %d -d %d -cm %s\n",
		run.Trajectories, boolFlag(run.SaveAll), boolFlag(run.Deviations), run.Comparison)
	fmt.Fprintf(&sb, "done < ./%s/%s\n", ChunksDir, IndexFile)
	sb.WriteString("echo \"completed all batches at `date`\"\n")

	path := filepath.Join(root, ScriptsDir, RunScriptFile)
	if err := os.WriteFile(path, []byte(sb.String()), 0o755); err != nil {
		return fmt.Errorf("write run script: %w", err)
	}
	return nil
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}
