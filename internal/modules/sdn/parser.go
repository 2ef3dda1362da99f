// Package sdn implements parsing, diffing and searching of SDN list snapshots.
package sdn

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/aristath/sdnwatch/internal/domain"
)

// minFields is the minimum number of columns a row needs to become a record.
const minFields = 4

// Parse converts a raw sdn.csv document into entity records.
// Rows with fewer than four fields, or rows the CSV reader cannot make sense of,
// are dropped. Output order follows input order.
//
// Quotes are read leniently, so a quoted field that is never closed runs on
// into the following line, up to the next quote followed by a comma. The two
// physical rows then come back as a single record whose name holds the
// remainder of the first row and the start of the second. The published file
// does not contain such rows.
func Parse(raw string) []domain.EntityRecord {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records := make([]domain.EntityRecord, 0)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A ParseError consumes the offending row, so reading can resume.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			break
		}
		if len(row) < minFields {
			continue
		}

		records = append(records, domain.EntityRecord{
			ID:      strings.TrimSpace(row[0]),
			Name:    cleanField(row[1]),
			Type:    cleanField(row[2]),
			Program: cleanField(row[3]),
		})
	}

	return records
}

// cleanField trims whitespace and any surrounding double quotes
func cleanField(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
}
