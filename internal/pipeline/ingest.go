package pipeline

import (
	"context"
	"fmt"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/feed"
)

// ReasonMalformed labels CSV lines the reader could not split into fields.
const ReasonMalformed = "malformed_row"

// Rejection records one dropped row for debug logging and diagnostics.
type Rejection struct {
	Row    int // 1-based data row
	ID     string
	Reason string
	Err    error
}

// Result is the outcome of one ingestion pass.
type Result struct {
	Snapshot   *domain.Snapshot
	RowsRead   int
	Rejected   map[string]int
	Rejections []Rejection
}

// RejectedTotal sums rejections across reasons.
func (r Result) RejectedTotal() int {
	n := 0
	for _, c := range r.Rejected {
		n += c
	}
	return n
}

// Ingest fetches, parses and normalizes the feed into a new snapshot. Any
// fetch or parse failure is returned wrapped in ErrIngestion; rejected rows
// are not failures.
func Ingest(ctx context.Context, source feed.Source) (Result, error) {
	body, err := source.Open(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrIngestion, err)
	}
	defer body.Close()

	parsed, err := feed.ParseCSV(body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: parse %s: %w", ErrIngestion, source.Describe(), err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrIngestion, err)
	}

	res := Result{
		RowsRead: len(parsed.Rows) + parsed.Malformed,
		Rejected: make(map[string]int),
	}
	if parsed.Malformed > 0 {
		res.Rejected[ReasonMalformed] = parsed.Malformed
	}

	records := domain.NormalizeEach(parsed.Rows, func(i int, row domain.RawRow, err error) {
		reason := domain.RejectReason(err)
		res.Rejected[reason]++
		res.Rejections = append(res.Rejections, Rejection{
			Row:    i + 1,
			ID:     row[domain.ColumnID],
			Reason: reason,
			Err:    err,
		})
	})

	res.Snapshot = domain.NewSnapshot(records)
	return res, nil
}
