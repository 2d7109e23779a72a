// Package report prints a summary of a run.
package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/bagtoad/papersynth/internal/batch"
	"github.com/samber/lo"
)

// Print writes a summary report to the given writer.
func Print(w io.Writer, results []batch.Result, skippedNonImage int, dryRun bool) {
	failed := batch.Failed(results)
	written := lo.Filter(results, func(r batch.Result, _ int) bool { return !r.Failed })

	fmt.Fprintln(w)
	if dryRun {
		fmt.Fprintln(w, "=== Dry Run Summary ===")
	} else {
		fmt.Fprintln(w, "=== Summary ===")
	}
	fmt.Fprintf(w, "Images processed:    %d\n", len(results))
	fmt.Fprintf(w, "Images written:      %d\n", len(written))
	fmt.Fprintf(w, "Images failed:       %d\n", len(failed))
	if skippedNonImage > 0 {
		fmt.Fprintf(w, "Non-image files:     %d\n", skippedNonImage)
	}

	if len(written) == 0 && len(failed) == 0 {
		fmt.Fprintln(w, "\nNo images processed.")
		return
	}

	verb := "Wrote"
	if dryRun {
		verb = "Would write"
	}

	fmt.Fprintln(w)
	for _, r := range written {
		fmt.Fprintf(w, "  %s %s -> %s", verb, filepath.Base(r.Path), r.OutputPath)
		if r.Params != "" {
			fmt.Fprintf(w, " (%s)", r.Params)
		}
		fmt.Fprintln(w)
	}
	for _, r := range failed {
		fmt.Fprintf(w, "  Failed %s: %v\n", filepath.Base(r.Path), r.Err)
	}
	fmt.Fprintln(w)
}
