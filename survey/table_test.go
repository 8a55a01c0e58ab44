package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableDisambiguatesLabels(t *testing.T) {
	tbl := NewTable([]string{"Q", "Q", "Q.1", "Q"})
	assert.Equal(t, []string{"Q", "Q.1", "Q.1.1", "Q.2"}, tbl.Columns)
}

func TestTableAppendAndGet(t *testing.T) {
	tbl := NewTable([]string{"A", "B"})
	tbl.AppendRow([]Value{Text("x"), Empty(), Text("ignored")})
	tbl.AppendRow([]Value{Text("y")})

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, "x", tbl.Get(0, "A").String())
	assert.True(t, tbl.Get(0, "B").IsEmpty())
	assert.True(t, tbl.Get(5, "A").IsEmpty())
	assert.NotContains(t, tbl.Rows[0], "B", "empty cells are not stored")
	assert.Equal(t, [][]string{{"x", ""}, {"y", ""}}, tbl.Strings())
}

func TestTableSetColumn(t *testing.T) {
	tbl := NewTable([]string{"A"})
	tbl.AppendRow([]Value{Text("x")})
	tbl.AppendRow([]Value{Text("y")})

	require.NoError(t, tbl.SetColumn("B", []Value{Number(1), Empty()}))
	assert.Equal(t, []string{"A", "B"}, tbl.Columns)
	assert.Equal(t, []Value{Number(1), Empty()}, tbl.Column("B"))

	require.NoError(t, tbl.SetColumn("A", []Value{Empty(), Text("z")}))
	assert.Equal(t, []string{"A", "B"}, tbl.Columns, "overwrite keeps the header")
	assert.True(t, tbl.Get(0, "A").IsEmpty())

	err := tbl.SetColumn("C", []Value{Number(1)})
	assert.ErrorContains(t, err, "got 1 values for 2 rows")
	assert.False(t, tbl.HasColumn("C"))
}

func TestTableRenameColumn(t *testing.T) {
	tbl := NewTable([]string{"Long question", "Faculty"})
	tbl.AppendRow([]Value{Text("Often"), Text("Arts")})

	assert.True(t, tbl.RenameColumn("Long question", "NightWakeups"))
	assert.Equal(t, "Often", tbl.Get(0, "NightWakeups").String())
	assert.False(t, tbl.HasColumn("Long question"))

	assert.False(t, tbl.RenameColumn("NightWakeups", "Faculty"), "existing targets are kept")
	assert.False(t, tbl.RenameColumn("missing", "Other"))
	assert.Equal(t, []string{"NightWakeups", "Faculty"}, tbl.Columns)
}

func TestTableCloneIsDeep(t *testing.T) {
	tbl := NewTable([]string{"A"})
	tbl.AppendRow([]Value{Text("x")})

	clone := tbl.Clone()
	require.Equal(t, tbl, clone)
	clone.Rows[0]["A"] = Text("changed")
	clone.Columns[0] = "Z"

	assert.Equal(t, "x", tbl.Get(0, "A").String())
	assert.Equal(t, "A", tbl.Columns[0])
	assert.Nil(t, (*Table)(nil).Clone())
	assert.Equal(t, 0, (*Table)(nil).Len())
}
