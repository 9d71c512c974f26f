package importer

import (
	"fmt"
	"strings"
)

// Report is the outcome of one import run.
type Report struct {
	Imported     int
	Skipped      int
	WalkerErrors []string
	ImportErrors []string
}

// Total returns the number of files the counters account for.
func (r *Report) Total() int {
	return r.Imported + r.Skipped
}

// Problems returns walker errors followed by import errors, the order they
// are numbered in for display.
func (r *Report) Problems() []string {
	problems := make([]string, 0, len(r.WalkerErrors)+len(r.ImportErrors))
	problems = append(problems, r.WalkerErrors...)
	problems = append(problems, r.ImportErrors...)
	return problems
}

// fail records a per-file error without stopping the run.
func (r *Report) fail(name string, err error) {
	r.ImportErrors = append(r.ImportErrors, fmt.Sprintf("%s: %v", name, err))
}

// Summary formats the report the way the CLI prints it: the counts, then
// every problem in one contiguous numbered list.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d file(s) imported, %d skipped (already in library)\n", r.Imported, r.Skipped)

	problems := r.Problems()
	if len(problems) > 0 {
		fmt.Fprintf(&b, "\n%d problem(s):\n", len(problems))
		for i, p := range problems {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, p)
		}
	}
	return b.String()
}
