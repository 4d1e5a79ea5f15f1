// Package edit implements the text-edit model: byte-range replacements
// against an immutable original source, composed into a conflict-free,
// deterministically ordered set and applied in a single pass.
package edit

import (
	"fmt"
	"sort"
)

// TextEdit replaces the half-open byte range [Start, End) of the original
// source with Replacement. Start == End represents an insertion.
type TextEdit struct {
	Start       int
	End         int
	Replacement string
	Label       string
	Priority    int
	OpIndex     int
}

// NewTextEdit constructs a TextEdit, matching spec.md §4.2's
// TextEdit::new(start, end, replacement, label, priority, op_index).
func NewTextEdit(start, end int, replacement, label string, priority, opIndex int) TextEdit {
	return TextEdit{
		Start:       start,
		End:         end,
		Replacement: replacement,
		Label:       label,
		Priority:    priority,
		OpIndex:     opIndex,
	}
}

// IsInsertion reports whether e is the degenerate insertion case.
func (e TextEdit) IsInsertion() bool {
	return e.Start == e.End
}

// Conflict names the two operation indices whose edits overlap.
type Conflict struct {
	AIndex int
	BIndex int
}

func (c Conflict) Error() string {
	return fmt.Sprintf("edit conflict between operations %d and %d", c.AIndex, c.BIndex)
}

// EditSet is an ordered, conflict-free collection of edits, sorted by
// (Start, End, Priority) ascending per spec.md §3.
type EditSet struct {
	edits []TextEdit
}

// FromEdits sorts edits, detects conflicts and returns the resulting
// EditSet, or a *Conflict error if two edits overlap and at least one of
// them is a replacement (insertions at the same offset never conflict).
func FromEdits(edits []TextEdit) (*EditSet, error) {
	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		if sorted[i].End != sorted[j].End {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Priority < sorted[j].Priority
	})

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			a, b := sorted[i], sorted[j]
			if !overlaps(a, b) {
				continue
			}
			if a.IsInsertion() && b.IsInsertion() {
				continue
			}
			return nil, &Conflict{AIndex: a.OpIndex, BIndex: b.OpIndex}
		}
	}

	return &EditSet{edits: sorted}, nil
}

func overlaps(a, b TextEdit) bool {
	return a.Start < b.End && b.Start < a.End
}

// Edits returns the ordered edits backing this set.
func (s *EditSet) Edits() []TextEdit {
	return s.edits
}

// Len reports the number of edits in the set.
func (s *EditSet) Len() int {
	return len(s.edits)
}

// Apply produces the candidate output by applying every edit against
// source in descending (Start, End, Priority) order, so offsets computed
// against the original remain valid throughout (spec.md §4.2).
func (s *EditSet) Apply(source string) string {
	ordered := make([]TextEdit, len(s.edits))
	copy(ordered, s.edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Start != ordered[j].Start {
			return ordered[i].Start > ordered[j].Start
		}
		if ordered[i].End != ordered[j].End {
			return ordered[i].End > ordered[j].End
		}
		if ordered[i].Priority != ordered[j].Priority {
			// Two insertions at the same offset: each later insertion lands
			// to the left of the earlier ones, so applying higher priority
			// first leaves it rightmost, directly before the original bytes
			// at that offset.
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].OpIndex < ordered[j].OpIndex
	})

	out := source
	for _, e := range ordered {
		if e.Start < 0 || e.End > len(out) || e.Start > e.End {
			continue
		}
		out = out[:e.Start] + e.Replacement + out[e.End:]
	}
	return out
}
