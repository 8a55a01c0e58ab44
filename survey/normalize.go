package survey

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeHeader canonicalizes a column label: non-breaking spaces, tabs and
// newlines become plain spaces, whitespace runs collapse to one space and the
// result is trimmed. Composed and decomposed spellings compare equal (NFC).
func NormalizeHeader(label string) string {
	label = strings.ReplaceAll(label, "\ufeff", "")
	label = norm.NFC.String(label)
	// strings.Fields splits on every Unicode White_Space code point, which
	// covers U+00A0, U+2007 and U+202F as well as \t \n \r.
	return strings.Join(strings.Fields(label), " ")
}

// NormalizeHeaders applies NormalizeHeader to every label.
func NormalizeHeaders(labels []string) []string {
	out := make([]string, len(labels))
	for i, label := range labels {
		out[i] = NormalizeHeader(label)
	}
	return out
}

// NormalizeCell trims a raw cell and strips a leading byte order mark.
// Internal spacing is kept so that answer text is still matched exactly.
func NormalizeCell(cell string) string {
	cell = strings.TrimPrefix(cell, "\ufeff")
	return strings.TrimSpace(norm.NFC.String(cell))
}

// NormalizeTableHeaders rewrites the header of t in place. Labels that become
// identical after normalization keep the first occurrence and suffix the rest.
func NormalizeTableHeaders(t *Table) {
	if t == nil {
		return
	}
	normalized := uniqueLabels(NormalizeHeaders(t.Columns))
	for r, row := range t.Rows {
		rec := make(Record, len(row))
		for i, from := range t.Columns {
			if v, ok := row[from]; ok {
				rec[normalized[i]] = v
			}
		}
		t.Rows[r] = rec
	}
	t.Columns = normalized
}
