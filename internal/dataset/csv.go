package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chronoline/internal/item"
)

// CSV column names. Headers are matched case-insensitively.
const (
	colKind        = "kind"
	colID          = "id"
	colName        = "name"
	colStartDate   = "startdate"
	colEndDate     = "enddate"
	colAbove       = "above"
	colColor       = "color"
	colShape       = "shape"
	colCategory    = "category"
	colConnections = "connections"
	colPeriodID    = "periodid"
	colDescription = "description"
)

var requiredColumns = []string{colKind, colName, colStartDate}

// ReadCSV reads one record per row. The kind column routes each row to people, points or
// periods; connections are separated by semicolons.
func ReadCSV(r io.Reader) (item.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Read header to get column mapping
	header, err := reader.Read()
	if err == io.EOF {
		return item.Dataset{}, nil
	}
	if err != nil {
		return item.Dataset{}, fmt.Errorf("error reading CSV header: %w", err)
	}

	// Create case-insensitive column mapping
	columnMap := make(map[string]int)
	for i, col := range header {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := columnMap[col]; !ok {
			return item.Dataset{}, fmt.Errorf("column '%s' not found in CSV. Available columns: %v", col, header)
		}
	}

	var ds item.Dataset
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return item.Dataset{}, fmt.Errorf("error reading CSV: %w", err)
		}
		line++

		kind, rec, err := parseCSVRow(record, columnMap)
		if err != nil {
			return item.Dataset{}, fmt.Errorf("error parsing CSV row %d: %w", line, err)
		}
		switch kind {
		case item.KindPerson:
			ds.People = append(ds.People, rec)
		case item.KindPoint:
			ds.Points = append(ds.Points, rec)
		case item.KindPeriod:
			ds.Periods = append(ds.Periods, rec)
		}
	}
	return ds, nil
}

func parseCSVRow(record []string, columnMap map[string]int) (item.Kind, item.Record, error) {
	field := func(name string) string {
		i, ok := columnMap[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	kind, err := item.ParseKind(field(colKind))
	if err != nil {
		return 0, item.Record{}, err
	}
	rec := item.Record{
		ID:          field(colID),
		Name:        field(colName),
		StartDate:   field(colStartDate),
		EndDate:     field(colEndDate),
		Color:       field(colColor),
		Shape:       field(colShape),
		Category:    field(colCategory),
		PeriodID:    field(colPeriodID),
		Description: field(colDescription),
	}
	if v := field(colAbove); v != "" {
		above, err := strconv.ParseBool(v)
		if err != nil {
			return 0, item.Record{}, fmt.Errorf("invalid above value %q: %w", v, err)
		}
		rec.Above = &above
	}
	if v := field(colConnections); v != "" {
		for _, c := range strings.Split(v, ";") {
			if c = strings.TrimSpace(c); c != "" {
				rec.Connections = append(rec.Connections, c)
			}
		}
	}
	return kind, rec, nil
}
