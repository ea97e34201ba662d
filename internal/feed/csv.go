package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// ErrUnrecognizedHeader means the payload is delimited text but none of its
// header names are feed columns, e.g. an HTML error page.
var ErrUnrecognizedHeader = errors.New("unrecognized feed header")

// knownColumns are the header names the normalizer reads.
var knownColumns = []string{
	domain.ColumnID,
	domain.ColumnMag,
	domain.ColumnDepth,
	domain.ColumnLatitude,
	domain.ColumnLongitude,
	domain.ColumnPlace,
	domain.ColumnTime,
	domain.ColumnGap,
	domain.ColumnRMS,
}

// ParseResult is the outcome of splitting a feed into rows.
type ParseResult struct {
	Header []string
	Rows   []domain.RawRow
	// Malformed counts lines encoding/csv could not split; they are skipped.
	Malformed int
}

// ParseCSV reads a comma-separated payload whose first line is the header.
// Empty lines are skipped, short rows simply lack the missing keys and extra
// fields beyond the header are ignored. An empty payload yields no rows and
// no error. Errors are returned only when the payload cannot be read as
// delimited text at all.
func ParseCSV(r io.Reader) (ParseResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return ParseResult{Rows: []domain.RawRow{}}, nil
	}
	if err != nil {
		return ParseResult{}, fmt.Errorf("read header: %w", err)
	}
	header = cleanHeader(header)
	if !hasKnownColumn(header) {
		return ParseResult{}, fmt.Errorf("%w: %s", ErrUnrecognizedHeader, truncate(strings.Join(header, ","), 80))
	}

	res := ParseResult{Header: header, Rows: []domain.RawRow{}}
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.Malformed++
				continue
			}
			return ParseResult{}, fmt.Errorf("read row: %w", err)
		}
		if blankLine(fields) {
			continue
		}
		res.Rows = append(res.Rows, toRow(header, fields))
	}
	return res, nil
}

func toRow(header, fields []string) domain.RawRow {
	row := make(domain.RawRow, len(header))
	for i, name := range header {
		if i >= len(fields) {
			break
		}
		row[name] = fields[i]
	}
	return row
}

// cleanHeader strips a UTF-8 byte order mark from the first column name.
func cleanHeader(header []string) []string {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return header
}

func hasKnownColumn(header []string) bool {
	for _, h := range header {
		for _, k := range knownColumns {
			if h == k {
				return true
			}
		}
	}
	return false
}

func blankLine(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
