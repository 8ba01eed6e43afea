package attrs

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format selects the table serialization format.
type Format string

const (
	// FormatAuto infers the format from the output file extension.
	FormatAuto Format = ""
	// FormatCSV writes comma-separated values with a header row.
	FormatCSV Format = "csv"
	// FormatJSON writes an array of row objects.
	FormatJSON Format = "json"
)

// ParseFormat parses a format flag value.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "":
		return FormatAuto, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, fmt.Errorf("unsupported format %q", s)
	}
}

// Table is a flat attribute table: a fixed column list and one row per
// gauge. Every row carries every column; values missing from a row render
// as nulls. Column ordering is identical across rows and runs.
type Table struct {
	columns []string
	rows    [][]Value
}

// NewTable creates an empty table with the given column ordering.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{columns: cols}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// AppendRow adds a row from a name→value mapping. Columns absent from the
// mapping become nulls; keys outside the column set are rejected so schema
// drift surfaces immediately.
func (t *Table) AppendRow(values map[string]Value) error {
	seen := 0
	row := make([]Value, len(t.columns))
	for i, col := range t.columns {
		if v, ok := values[col]; ok {
			row[i] = v
			seen++
		} else {
			row[i] = Null()
		}
	}
	if seen != len(values) {
		for k := range values {
			if !t.hasColumn(k) {
				return fmt.Errorf("attrs: row key %q is not a table column", k)
			}
		}
	}
	t.rows = append(t.rows, row)
	return nil
}

// Value returns the value at a row/column position.
func (t *Table) Value(row int, column string) (Value, bool) {
	if row < 0 || row >= len(t.rows) {
		return Null(), false
	}
	for i, col := range t.columns {
		if col == column {
			return t.rows[row][i], true
		}
	}
	return Null(), false
}

func (t *Table) hasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// WriteCSV writes the table as CSV with a header row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(t.columns))
	for _, row := range t.rows {
		for i, v := range row {
			record[i] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the table as an array of row objects, keys in column
// order.
func (t *Table) WriteJSON(w io.Writer) error {
	rows := make([]map[string]Value, 0, len(t.rows))
	for _, row := range t.rows {
		obj := make(map[string]Value, len(t.columns))
		for i, col := range t.columns {
			obj[col] = row[i]
		}
		rows = append(rows, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// Save serializes the table to a file. With FormatAuto the format is
// inferred from the file extension (.csv or .json).
func (t *Table) Save(path string, format Format) error {
	f := format
	if f == FormatAuto {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv":
			f = FormatCSV
		case ".json":
			f = FormatJSON
		default:
			return fmt.Errorf("cannot infer output format from %q", path)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	switch f {
	case FormatCSV:
		err = t.WriteCSV(file)
	case FormatJSON:
		err = t.WriteJSON(file)
	default:
		err = fmt.Errorf("unsupported format %q", f)
	}
	if err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
