package survey

// Rename records one long-form column that was shortened.
type Rename struct {
	From  string         `json:"from" yaml:"from"`
	Field CanonicalField `json:"field" yaml:"field"`
}

// MappingReport describes what MapSchema did to the header.
type MappingReport struct {
	Renamed []Rename `json:"renamed,omitempty" yaml:"renamed,omitempty"`
	// Skipped lists long-form columns left alone because the canonical name was already taken.
	Skipped []Rename `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// MapSchema renames columns whose normalized label matches a catalog question
// to the canonical field name, but only when that name is not already a
// column. Unmatched columns pass through and no column is ever dropped, so
// running it again is a no-op. A nil catalog uses DefaultQuestionCatalog().
func MapSchema(t *Table, catalog []QuestionEntry) MappingReport {
	var report MappingReport
	if t == nil {
		return report
	}
	if catalog == nil {
		catalog = DefaultQuestionCatalog()
	}
	lookup := make(map[string]CanonicalField, len(catalog))
	for _, entry := range catalog {
		key := NormalizeHeader(entry.Question)
		if _, dup := lookup[key]; dup || key == "" {
			continue
		}
		lookup[key] = entry.Field
	}
	// Columns is mutated by RenameColumn, so iterate a snapshot.
	for _, col := range cloneStrings(t.Columns) {
		field, ok := lookup[NormalizeHeader(col)]
		if !ok || col == string(field) {
			continue
		}
		if t.HasField(field) {
			report.Skipped = append(report.Skipped, Rename{From: col, Field: field})
			continue
		}
		if t.RenameColumn(col, string(field)) {
			report.Renamed = append(report.Renamed, Rename{From: col, Field: field})
		}
	}
	return report
}

func cloneCatalog(entries []QuestionEntry) []QuestionEntry {
	out := make([]QuestionEntry, len(entries))
	copy(out, entries)
	return out
}
