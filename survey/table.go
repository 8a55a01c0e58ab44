package survey

import (
	"fmt"
	"strconv"
)

// Record maps a column label to its cell for one respondent.
type Record map[string]Value

// Table is an ordered set of columns plus one Record per respondent.
// Column labels are unique; a Record may omit a column, which reads as empty.
type Table struct {
	Columns []string `json:"columns" yaml:"columns"`
	Rows    []Record `json:"rows" yaml:"rows"`
}

// NewTable creates an empty table with the given header. Duplicate labels
// are disambiguated with a ".N" suffix.
func NewTable(columns []string) *Table {
	return &Table{Columns: uniqueLabels(columns)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the label is part of the header.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// HasField reports whether the canonical field is present as a column.
func (t *Table) HasField(f CanonicalField) bool {
	return t.HasColumn(string(f))
}

// ColumnIndex returns the position of a column or -1.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// AppendRow adds a row whose cells are given in header order. Extra cells are
// ignored and short rows read as empty for the remaining columns.
func (t *Table) AppendRow(cells []Value) {
	rec := make(Record, len(t.Columns))
	for i, col := range t.Columns {
		if i < len(cells) && !cells[i].IsEmpty() {
			rec[col] = cells[i]
		}
	}
	t.Rows = append(t.Rows, rec)
}

// Get returns the cell at row i for column name.
func (t *Table) Get(i int, name string) Value {
	if i < 0 || i >= len(t.Rows) {
		return Empty()
	}
	return t.Rows[i][name]
}

// Column returns every cell of a column in row order.
func (t *Table) Column(name string) []Value {
	out := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[name]
	}
	return out
}

// SetColumn writes values into a column, appending the label to the header
// when it is new. An existing column of the same name is overwritten in place.
func (t *Table) SetColumn(name string, values []Value) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("set column %q: got %d values for %d rows", name, len(values), len(t.Rows))
	}
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
	for i, v := range values {
		if t.Rows[i] == nil {
			t.Rows[i] = make(Record)
		}
		if v.IsEmpty() {
			delete(t.Rows[i], name)
			continue
		}
		t.Rows[i][name] = v
	}
	return nil
}

// RenameColumn changes a column label. It refuses to overwrite an existing column.
func (t *Table) RenameColumn(from, to string) bool {
	idx := t.ColumnIndex(from)
	if idx < 0 || from == to || t.HasColumn(to) {
		return false
	}
	t.Columns[idx] = to
	for _, row := range t.Rows {
		if v, ok := row[from]; ok {
			row[to] = v
			delete(row, from)
		}
	}
	return true
}

// Clone returns a deep copy so the pipeline never mutates caller-owned data.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{Columns: cloneStrings(t.Columns)}
	if t.Rows != nil {
		out.Rows = make([]Record, len(t.Rows))
	}
	for i, row := range t.Rows {
		rec := make(Record, len(row))
		for k, v := range row {
			rec[k] = v
		}
		out.Rows[i] = rec
	}
	return out
}

// Filter returns a copy of the table holding only the rows keep accepts.
// Columns are kept even when no row survives.
func (t *Table) Filter(keep func(Record) bool) *Table {
	if t == nil {
		return nil
	}
	out := &Table{Columns: cloneStrings(t.Columns), Rows: []Record{}}
	for _, row := range t.Rows {
		if !keep(row) {
			continue
		}
		rec := make(Record, len(row))
		for k, v := range row {
			rec[k] = v
		}
		out.Rows = append(out.Rows, rec)
	}
	return out
}

// Strings returns each row rendered as text in header order.
func (t *Table) Strings() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		line := make([]string, len(t.Columns))
		for j, col := range t.Columns {
			line[j] = row[col].String()
		}
		out[i] = line
	}
	return out
}

func uniqueLabels(labels []string) []string {
	out := make([]string, len(labels))
	used := make(map[string]bool, len(labels))
	for i, label := range labels {
		name := label
		for n := 1; used[name]; n++ {
			name = label + "." + strconv.Itoa(n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
