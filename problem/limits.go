package problem

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Limits executes the problem's limits script for the C++ toolchain
// and parses its output. The script prints one value per line: time
// limit in seconds, repetition count, memory limit in MB, and an
// optional max file size in KB.
func (r *FsRepo) Limits(problemID string) (Limits, error) {
	dir, err := r.path(problemID)
	if err != nil {
		return Limits{}, err
	}
	script := filepath.Join(dir, "limits", "cpp")
	if _, err := os.Stat(script); err != nil {
		return Limits{}, fmt.Errorf("limits script not found at %s: %w", script, err)
	}

	out, err := exec.Command("bash", script).Output()
	if err != nil {
		return Limits{}, fmt.Errorf("execute limits script: %w", err)
	}
	lim, err := parseLimits(string(out))
	if err != nil {
		return Limits{}, fmt.Errorf("limits script %s: %w", script, err)
	}
	return lim, nil
}
