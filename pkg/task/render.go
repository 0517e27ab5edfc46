package task

import (
	"fmt"
	"io"
)

// ColumnWidth returns the label column width for a listing: the longest
// label shown, but never narrower than ADD or SOLVE.
func ColumnWidth(labels []Label) int {
	width := len(LabelAdd)
	if len(LabelSolve) > width {
		width = len(LabelSolve)
	}
	for _, l := range labels {
		if len(l) > width {
			width = len(l)
		}
	}
	return width
}

// Render formats one step with its label right-justified in width.
// The description is written verbatim, embedded newlines included.
func Render(step Step, width int) string {
	return fmt.Sprintf("%*s. %s", width, step.Label, step.Description)
}

func stepLabels(steps []Step) []Label {
	labels := make([]Label, len(steps))
	for i, st := range steps {
		labels[i] = st.Label
	}
	return labels
}

// RenderHistory writes steps one per line with an aligned label column.
func RenderHistory(w io.Writer, steps []Step) error {
	width := ColumnWidth(stepLabels(steps))
	for _, st := range steps {
		if _, err := fmt.Fprintln(w, Render(st, width)); err != nil {
			return err
		}
	}
	return nil
}

// RenderListing writes each summary as a "TASK <name>" header, its
// abbreviated steps and a blank separator line.
func RenderListing(w io.Writer, summaries []Summary) error {
	for _, sum := range summaries {
		if _, err := fmt.Fprintf(w, "TASK %s\n", sum.Name); err != nil {
			return err
		}
		if err := RenderHistory(w, sum.Steps); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
