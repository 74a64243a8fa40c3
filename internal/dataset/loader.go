package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are the timestamp formats seen in meter exports, tried in order.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02 15:04",
}

// Load reads the CSV export at path into a Table for the named station.
// Returns a *MissingColumnError (wrapped) when a required measurement column
// is absent. On any error no partial table is returned.
func Load(path, station string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s export: %w", station, err)
	}
	defer f.Close()

	t, err := Parse(f, station)
	if err != nil {
		return nil, fmt.Errorf("dataset: parse %s: %w", path, err)
	}
	return t, nil
}

// Parse reads a CSV measurement export from r into a Table.
//
// The first row must be the header. Each required column is bound to its
// Record field; a missing required column aborts with *MissingColumnError.
// Data rows with unparsable cells are skipped and counted in SkippedRows
// rather than failing the whole table.
func Parse(r io.Reader, station string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // some exports pad trailing commas inconsistently

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	timeIdx := -1
	for _, name := range timeColumns {
		if i, ok := index[name]; ok {
			timeIdx = i
			break
		}
	}
	if timeIdx < 0 {
		return nil, &MissingColumnError{Column: timeColumns[0]}
	}

	type boundCol struct {
		idx int
		set func(*Record, float64)
	}
	bound := make([]boundCol, 0, len(requiredBindings)+len(optionalBindings))
	for _, b := range requiredBindings {
		i, ok := index[b.name]
		if !ok {
			return nil, &MissingColumnError{Column: b.name}
		}
		bound = append(bound, boundCol{i, b.set})
	}

	t := &Table{Station: station}
	llCols := 0
	for _, b := range optionalBindings {
		i, ok := index[b.name]
		if !ok {
			continue
		}
		bound = append(bound, boundCol{i, b.set})
		switch b.name {
		case ColVoltageAB, ColVoltageBC, ColVoltageCA:
			llCols++
		case ColMeterPF:
			t.HasMeterPF = true
		}
	}
	// The line-to-line chart needs all three phase pairs.
	t.HasLineToLine = llCols == 3

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.SkippedRows++
			continue
		}

		ts, ok := parseTime(cell(row, timeIdx))
		if !ok {
			t.SkippedRows++
			continue
		}

		rec := Record{Timestamp: ts}
		valid := true
		for _, b := range bound {
			v, err := strconv.ParseFloat(cell(row, b.idx), 64)
			if err != nil {
				valid = false
				break
			}
			b.set(&rec, v)
		}
		if !valid {
			t.SkippedRows++
			continue
		}
		t.Records = append(t.Records, rec)
	}

	if t.SkippedRows > 0 {
		slog.Warn("dataset: skipped unparsable rows",
			"station", station, "skipped", t.SkippedRows, "kept", len(t.Records))
	}
	return t, nil
}

// cell returns the trimmed value at idx, or "" when the row is short.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
