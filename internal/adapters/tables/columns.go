package tables

import (
	"fmt"
	"strings"
	"trip-route-resolver/internal/domain"
)

var requiredColumns = []string{"trip_code", "source", "destination"}

type columnIndex map[string]int

// indexHeader maps the required column names to their positions. Matching
// ignores case, surrounding space and a UTF-8 byte order mark.
func indexHeader(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
	}

	missing := make([]string, 0)
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return idx, nil
}

func (c columnIndex) row(record []string) domain.TripRow {
	get := func(name string) string {
		i := c[name]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	return domain.TripRow{
		TripCode:    get("trip_code"),
		Source:      get("source"),
		Destination: get("destination"),
	}
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
