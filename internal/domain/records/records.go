// Package records turns a raw sheet export into rows and selects the rows
// belonging to one volunteer.
package records

import (
	"strings"

	"github.com/okian/pvsa/internal/domain/model"
)

const fieldSeparator = ","

// ParseRows splits text into rows, dropping lines that are blank after
// trimming. A trailing carriage return from CRLF exports is removed. Fields
// are split on every comma; quoted commas are not honoured, so column
// positions match the export's plain layout.
func ParseRows(text string) []model.Row {
	lines := strings.Split(text, "\n")
	rows := make([]model.Row, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		line = strings.TrimSuffix(line, "\r")
		rows = append(rows, model.Row{
			Line:   line,
			Fields: strings.Split(line, fieldSeparator),
		})
	}
	return rows
}

// SearchKey builds the lower-cased "name id" key used for matching.
func SearchKey(name, id string) string {
	return strings.ToLower(strings.TrimSpace(name + " " + id))
}

// MatchRecords returns the rows whose identity column contains the
// "name id" key, ignoring case. An empty key matches nothing.
func MatchRecords(rows []model.Row, name, id string) []model.Row {
	key := SearchKey(name, id)
	if key == "" {
		return nil
	}

	var out []model.Row
	for _, row := range rows {
		identity, ok := row.Field(model.ColumnIdentity)
		if !ok || identity == "" {
			continue
		}
		if strings.Contains(strings.ToLower(identity), key) {
			out = append(out, row)
		}
	}
	return out
}
