package archive

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Well-known source file columns.
const (
	ColDate       = "Date"
	ColBands      = "Band(s)"
	ColVenue      = "Venue"
	ColCity       = "City"
	ColEvent      = "Event"
	ColIDHash     = "idHash"
	ColSearch     = "lineupSearch"
	ColCreateFlag = "CreateFlag"
	ColUpdateFlag = "UpdateFlag"
	ColDeleteFlag = "DeleteFlag"
	FlagSet       = "1"
)

// Table is the source file held in memory: an ordered header plus one
// column→value map per row. Column order survives a read/rewrite round trip
// so the file stays diffable.
type Table struct {
	Header []string
	Rows   []Row
}

// Row is a single source record keyed by trimmed column name.
type Row map[string]string

// Get returns the trimmed cell value for a column.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// Flagged reports whether the given flag column is set.
func (r Row) Flagged(col string) bool {
	return r.Get(col) == FlagSet
}

// ReadTable parses the delimited source file. Header names are trimmed and
// stripped of a leading BOM; cell values are trimmed.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()
	return parseTable(f)
}

func parseTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse source file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("source file is empty")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimPrefix(h, "\uFEFF")
		header[i] = strings.TrimSpace(h)
	}

	t := &Table{Header: header}
	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = strings.TrimSpace(rec[i])
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// WriteTable overwrites the source file in place, preserving column order.
func WriteTable(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rewrite source file: %w", err)
	}
	defer f.Close()

	if err := writeTable(f, t); err != nil {
		return err
	}
	return f.Close()
}

func writeTable(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(t.Header))
	for _, row := range t.Rows {
		for i, col := range t.Header {
			rec[i] = row[col]
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EnsureColumn appends a column to the header if it is not already present.
func (t *Table) EnsureColumn(col string) {
	for _, h := range t.Header {
		if h == col {
			return
		}
	}
	t.Header = append(t.Header, col)
}
