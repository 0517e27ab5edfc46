// Package task implements the task and step lifecycle and its storage encoding.
//
// A task is a directory inside its context. Its history is a set of steps:
// one ADD step written on creation, numbered progress steps, and at most one
// SOLVE step that marks the task as solved. Progress numbers are never stored
// as a counter; the next number is derived from the labels already present.
package task

import (
	"sort"
	"strconv"
)

// Label identifies a step within a task.
type Label string

const (
	// LabelAdd is the creation step, written once when the task is created.
	LabelAdd Label = "ADD"
	// LabelSolve is the terminal step; its presence marks the task solved.
	LabelSolve Label = "SOLVE"
)

// Progress returns the label of the n-th progress step.
func Progress(n int) Label {
	return Label(strconv.Itoa(n))
}

// ParseLabel validates s as a step label.
func ParseLabel(s string) (Label, bool) {
	l := Label(s)
	if l == LabelAdd || l == LabelSolve {
		return l, true
	}
	if _, ok := l.Number(); ok {
		return l, true
	}
	return "", false
}

// Number returns the progress number of the label.
// Only canonical positive integers ("1", not "01" or "+1") qualify.
func (l Label) Number() (int, bool) {
	n, err := strconv.Atoi(string(l))
	if err != nil || n < 1 || strconv.Itoa(n) != string(l) {
		return 0, false
	}
	return n, true
}

func (l Label) String() string {
	return string(l)
}

// Display tiers: ADD, then progress steps, then SOLVE.
const (
	tierAdd = iota
	tierProgress
	tierSolve
)

// rank returns the display tier of the label and, for progress steps, its number.
func (l Label) rank() (tier, n int) {
	switch l {
	case LabelAdd:
		return tierAdd, 0
	case LabelSolve:
		return tierSolve, 0
	}
	n, _ = l.Number()
	return tierProgress, n
}

// SortLabels sorts labels in display order in place.
func SortLabels(labels []Label) {
	sort.Slice(labels, func(i, j int) bool {
		ti, ni := labels[i].rank()
		tj, nj := labels[j].rank()
		if ti != tj {
			return ti < tj
		}
		return ni < nj
	})
}

// NextProgress derives the label for the next progress step:
// one more than the highest existing progress number, or 1 if there is none.
func NextProgress(labels []Label) Label {
	highest := 0
	for _, l := range labels {
		if n, ok := l.Number(); ok && n > highest {
			highest = n
		}
	}
	return Progress(highest + 1)
}

// LatestProgress returns the highest numbered progress label.
func LatestProgress(labels []Label) (Label, bool) {
	var latest Label
	highest := 0
	for _, l := range labels {
		if n, ok := l.Number(); ok && n > highest {
			highest = n
			latest = l
		}
	}
	return latest, highest > 0
}

func hasLabel(labels []Label, want Label) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}

// Step is one entry of a task's history.
type Step struct {
	Label       Label
	Description string
}
