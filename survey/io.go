package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DelimiterFor picks the field separator from a file name: tab for .tsv, comma otherwise.
func DelimiterFor(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

// ReadFile parses a CSV or TSV export.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	t, err := ReadCSV(f, DelimiterFor(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// ReadCSV parses a delimited export whose first record is the header. Cells
// are kept as text; blank rows are skipped. Empty input gives an empty table.
func ReadCSV(r io.Reader, comma rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return NewTable(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, cell := range header {
		header[i] = strings.TrimPrefix(cell, "\ufeff")
	}
	t := NewTable(header)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", t.Len()+1, err)
		}
		cells := make([]Value, len(row))
		blank := true
		for i, cell := range row {
			cells[i] = Text(NormalizeCell(cell))
			if !cells[i].IsEmpty() {
				blank = false
			}
		}
		if blank {
			continue
		}
		t.AppendRow(cells)
	}
	return t, nil
}

// WriteCSV writes the header and every row.
func WriteCSV(w io.Writer, t *Table, comma rune) error {
	if t == nil {
		return ErrNilTable
	}
	writer := csv.NewWriter(w)
	writer.Comma = comma
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := writer.WriteAll(t.Strings()); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return writer.Error()
}

// WriteFile writes the table as CSV or TSV depending on the extension.
func WriteFile(path string, t *Table) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := WriteCSV(f, t, DelimiterFor(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
