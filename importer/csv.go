package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/capital"
)

// ReadCSV reads transactions from a CSV file whose first line is a header
// naming the fields of each column. Header names are matched case
// insensitively, columns with an unknown name are ignored.
func ReadCSV(r io.Reader, u capital.Units) ([]capital.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot parse CSV header: %w", err)
	}
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = fieldName(name)
	}

	var (
		records []record
		lines   []int
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot parse CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)

		rec := make(record)
		blank := true
		for j, cell := range row {
			if j >= len(columns) || columns[j] == "" {
				continue
			}
			rec[columns[j]] = cell
			if strings.TrimSpace(cell) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		records = append(records, rec)
		lines = append(lines, line)
	}
	return convert(records, u, func(i int) string { return fmt.Sprintf("line %d", lines[i]) })
}

// fieldName returns the field a header designates, or "" if none.
// "Total Value", "total_value" and "totalValue" all designate totalValue.
func fieldName(header string) string {
	key := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(header)))
	for _, f := range Fields {
		if strings.ToLower(f) == key {
			return f
		}
	}
	return ""
}
