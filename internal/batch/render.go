package batch

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

const separator = "------------------------------"

// WriteReport prints rep in the line-oriented layout used by the CLI.
func WriteReport(w io.Writer, rep Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Processing %s with '%s' activation ---\n", rep.Source, rep.Activation.Label())
	for _, res := range rep.Results {
		if res.OK() {
			fmt.Fprintf(&b, "%s: Inputs: %s, Output: %s\n", res.Label, FormatVector(res.Inputs), res.Output.Format())
			continue
		}
		fmt.Fprintf(&b, "Error on %s: %v. Skipping.\n", res.Label, res.Err)
	}
	switch {
	case len(rep.Results) == 0:
		b.WriteString("No valid input data provided to process.\n")
	case rep.Processed() == 0:
		b.WriteString("No valid entries processed.\n")
	}
	fmt.Fprintf(&b, "%s processed, %s skipped\n", humanize.Comma(int64(rep.Processed())), humanize.Comma(int64(rep.Failed())))
	b.WriteString(separator + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatVector renders values as "[v1, v2, ...]" in shortest form.
func FormatVector(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
