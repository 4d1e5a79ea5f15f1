package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEditsSortsAscending(t *testing.T) {
	edits := []TextEdit{
		NewTextEdit(10, 12, "b", "op", 0, 1),
		NewTextEdit(0, 2, "a", "op", 0, 0),
	}
	set, err := FromEdits(edits)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
	assert.Equal(t, 0, set.Edits()[0].Start)
	assert.Equal(t, 10, set.Edits()[1].Start)
}

func TestFromEditsDetectsConflict(t *testing.T) {
	edits := []TextEdit{
		NewTextEdit(5, 10, "x", "op", 0, 0),
		NewTextEdit(7, 12, "y", "op", 0, 1),
	}
	_, err := FromEdits(edits)
	require.Error(t, err)
	conflict, ok := err.(*Conflict)
	require.True(t, ok)
	assert.Equal(t, 0, conflict.AIndex)
	assert.Equal(t, 1, conflict.BIndex)
}

func TestFromEditsAllowsAdjacentInsertionsAtSameOffset(t *testing.T) {
	edits := []TextEdit{
		NewTextEdit(5, 5, "a", "op", 0, 0),
		NewTextEdit(5, 5, "b", "op", 1, 1),
	}
	set, err := FromEdits(edits)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
}

func TestFromEditsRejectsOverlappingNonInsertions(t *testing.T) {
	edits := []TextEdit{
		NewTextEdit(5, 10, "x", "op", 0, 0),
		NewTextEdit(5, 10, "y", "op", 0, 1),
	}
	_, err := FromEdits(edits)
	require.Error(t, err)
}

func TestApplyPreservesUntouchedBytes(t *testing.T) {
	source := "const foo = 1;\nconsole.log(foo);\n"
	set, err := FromEdits([]TextEdit{
		NewTextEdit(6, 9, "bar", "rename_symbol", 0, 0),
		NewTextEdit(27, 30, "bar", "rename_symbol", 0, 0),
	})
	require.NoError(t, err)

	out := set.Apply(source)
	assert.Equal(t, "const bar = 1;\nconsole.log(bar);\n", out)
}

func TestApplyInsertionAtSameOffsetOrdersByPriority(t *testing.T) {
	source := "()"
	set, err := FromEdits([]TextEdit{
		NewTextEdit(1, 1, "b", "add_parameter", 1, 1),
		NewTextEdit(1, 1, "a, ", "add_parameter", 0, 0),
	})
	require.NoError(t, err)
	out := set.Apply(source)
	assert.Equal(t, "(a, b)", out)
}

func TestApplyOrderIndependenceForNonOverlappingEdits(t *testing.T) {
	source := "aaa bbb ccc"
	order1, err := FromEdits([]TextEdit{
		NewTextEdit(0, 3, "xxx", "op", 0, 0),
		NewTextEdit(4, 7, "yyy", "op", 0, 1),
	})
	require.NoError(t, err)
	order2, err := FromEdits([]TextEdit{
		NewTextEdit(4, 7, "yyy", "op", 0, 1),
		NewTextEdit(0, 3, "xxx", "op", 0, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, order1.Apply(source), order2.Apply(source))
}

func TestIsInsertion(t *testing.T) {
	assert.True(t, NewTextEdit(3, 3, "x", "op", 0, 0).IsInsertion())
	assert.False(t, NewTextEdit(3, 5, "x", "op", 0, 0).IsInsertion())
}
