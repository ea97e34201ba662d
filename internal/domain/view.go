package domain

import (
	"cmp"
	"slices"
	"strings"
)

// PageSize is the fixed number of table rows per page.
const PageSize = 10

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection validates a direction name.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case Ascending, Descending:
		return Direction(s), true
	default:
		return "", false
	}
}

// ViewParams configures what slice of records the table view shows.
type ViewParams struct {
	Search        string    `json:"search"`
	SortField     Field     `json:"sort_field"`
	SortDirection Direction `json:"sort_direction"`
	Page          int       `json:"page"`
}

// DefaultViewParams is the table's initial state: magnitude, descending, page 1.
func DefaultViewParams() ViewParams {
	return ViewParams{
		SortField:     FieldMagnitude,
		SortDirection: Descending,
		Page:          1,
	}
}

// ToggleSort applies a column-header click: the active field flips direction,
// any other field becomes active in descending order.
func (p ViewParams) ToggleSort(f Field) ViewParams {
	if p.SortField == f {
		if p.SortDirection == Ascending {
			p.SortDirection = Descending
		} else {
			p.SortDirection = Ascending
		}
		return p
	}
	p.SortField = f
	p.SortDirection = Descending
	return p
}

// Page is one projected table page plus pagination metadata.
// From and To are 1-based positions for a "Showing From to To of TotalCount"
// footer; both are 0 when the page is empty.
type Page struct {
	Records    []Record `json:"records"`
	TotalCount int      `json:"total_count"`
	TotalPages int      `json:"total_pages"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	From       int      `json:"from"`
	To         int      `json:"to"`
}

// Project filters, sorts and paginates records for the table view, in that
// order. It never modifies records or params. A page outside
// [1, TotalPages] yields an empty slice; clamping is the caller's job.
func Project(records []Record, params ViewParams) Page {
	filtered := filterByLocation(records, params.Search)
	sortRecords(filtered, params.SortField, params.SortDirection)

	total := len(filtered)
	pg := Page{
		Records:    []Record{},
		TotalCount: total,
		TotalPages: TotalPages(total),
		Page:       params.Page,
		PageSize:   PageSize,
	}
	if params.Page < 1 {
		return pg
	}

	start := (params.Page - 1) * PageSize
	if start >= total {
		return pg
	}
	end := min(start+PageSize, total)

	pg.Records = filtered[start:end]
	pg.From = start + 1
	pg.To = end
	return pg
}

// TotalPages is ceil(count/PageSize), at least 1.
func TotalPages(count int) int {
	if count <= 0 {
		return 1
	}
	return (count + PageSize - 1) / PageSize
}

// ClampPage bounds page to [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	return max(1, min(page, totalPages))
}

// filterByLocation returns a fresh slice so sorting never touches the input.
func filterByLocation(records []Record, search string) []Record {
	needle := strings.ToLower(search)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if needle == "" || strings.Contains(strings.ToLower(r.Location), needle) {
			out = append(out, r)
		}
	}
	return out
}

// sortRecords sorts in place with a stable sort so equal keys keep their
// filtered order. An unknown field or direction falls back to the defaults.
func sortRecords(records []Record, field Field, dir Direction) {
	if _, ok := ParseField(string(field)); !ok {
		field = FieldMagnitude
	}
	desc := dir != Ascending

	slices.SortStableFunc(records, func(a, b Record) int {
		c := compareField(a, b, field)
		if desc {
			return -c
		}
		return c
	})
}

func compareField(a, b Record, f Field) int {
	if f.IsNumeric() {
		av, _ := a.Number(f)
		bv, _ := b.Number(f)
		return cmp.Compare(av, bv)
	}
	as, _ := a.Text(f)
	bs, _ := b.Text(f)
	return strings.Compare(as, bs)
}

// CapRecords returns the first n records in their original order. It is a
// rendering bound, not a content filter.
func CapRecords(records []Record, n int) []Record {
	if n < 0 {
		n = 0
	}
	if len(records) <= n {
		return records
	}
	return records[:n]
}
