// internal/repository/csvrepo/csvrepo.go

// Package csvrepo implements the repository contracts over CSV files, the
// input format the batch planner consumes. One file per dataset, headers
// matched case- and separator-insensitively.
package csvrepo

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}

// table is a loaded CSV with header-index lookup.
type table struct {
	header  []string
	records [][]string
}

func loadTable(path string) (*table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	t := &table{header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		t.records = append(t.records, record)
	}
	return t, nil
}

// colIndex finds the first header matching any of the given names, -1 when
// absent.
func (t *table) colIndex(names ...string) int {
	targets := make(map[string]struct{}, len(names))
	for _, name := range names {
		targets[normalizeColumnName(name)] = struct{}{}
	}
	for i, h := range t.header {
		if _, ok := targets[normalizeColumnName(h)]; ok {
			return i
		}
	}
	return -1
}

func getField(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseFloat(record []string, idx int) float64 {
	v := getField(record, idx)
	if v == "" {
		return 0
	}
	v = strings.ReplaceAll(v, ",", "")
	f, _ := strconv.ParseFloat(v, 64)
	return f
}

func parseBool(record []string, idx int) bool {
	switch strings.ToLower(getField(record, idx)) {
	case "true", "t", "1", "yes", "y":
		return true
	}
	return false
}

var dateLayouts = []string{"2006-01-02", "2006/01/02", "20060102", time.RFC3339}

func parseDate(record []string, idx int) (time.Time, bool) {
	v := getField(record, idx)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, v); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
