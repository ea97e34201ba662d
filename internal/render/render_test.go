package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// plainStyles renders without color so assertions can match text.
func plainStyles() Styles {
	return NewStyles(lipgloss.NewRenderer(&bytes.Buffer{}))
}

func TestSummary(t *testing.T) {
	out := Summary(domain.Summary{Count: 3, MaxMagnitude: 7, AvgMagnitude: 5, AvgDepth: 21.67}, plainStyles())

	for _, want := range []string{
		"Statistics Overview",
		"Total Earthquakes", "3",
		"Max Magnitude", "7",
		"Avg Magnitude", "5.00",
		"Avg Depth", "21.67 km",
	} {
		assert.Contains(t, out, want)
	}
}

func TestTable(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	view := dashboard.TableView{
		Params: domain.ViewParams{SortField: domain.FieldDepth, SortDirection: domain.Ascending, Page: 2},
		Rows: []dashboard.TableRow{
			{Record: domain.Record{ID: "a", Magnitude: 5.2, Depth: 12.5, Location: "10 km N of Anchorage, Alaska", OccurredAt: at}, MagnitudeClass: domain.MagnitudeHigh},
			{Record: domain.Record{ID: "b", Magnitude: 1.1, Depth: 3, Location: "Hawaii", Time: "not a time"}, MagnitudeClass: domain.MagnitudeLow, Selected: true},
		},
		TotalCount: 12, TotalPages: 2, Page: 2, PageSize: 10, From: 11, To: 12,
	}

	out := Table(view, plainStyles())

	assert.Contains(t, out, "Magnitude")
	assert.Contains(t, out, "Location")
	assert.Contains(t, out, "Depth (km) ↑")
	assert.NotContains(t, out, "Magnitude ↑")
	assert.Contains(t, out, "10 km N of Anchorage, Alaska")
	assert.Contains(t, out, "5.2")
	assert.Contains(t, out, "12.5")
	assert.Contains(t, out, "2024-05-01 12:30")
	assert.Contains(t, out, "not a time")
	assert.Contains(t, out, "Showing 11 to 12 of 12 entries · Page 2 of 2")
}

func TestTable_DescendingArrow(t *testing.T) {
	view := dashboard.TableView{Params: domain.DefaultViewParams(), Page: 1, TotalPages: 1}

	out := Table(view, plainStyles())

	assert.Contains(t, out, "Magnitude ↓")
	assert.Contains(t, out, "Showing 0 to 0 of 0 entries")
}

func TestFooter(t *testing.T) {
	assert.Equal(t, "Showing 1 to 10 of 42 entries · Page 1 of 5", Footer(1, 10, 42, 1, 5))
}

func TestChart(t *testing.T) {
	view := domain.ChartView{
		XAxis: domain.FieldMagnitude,
		YAxis: domain.FieldDepth,
		Points: []domain.ChartPoint{
			{ID: "p1", X: 4.5, Y: 10},
			{ID: "p2", X: 2.25, Y: 7, Selected: true},
			{ID: "p3", X: 1, Y: 1},
		},
		Total:     600,
		Truncated: true,
	}

	out := Chart(view, 2, plainStyles())

	assert.Contains(t, out, "Depth (km) vs Magnitude")
	assert.Contains(t, out, "p1")
	assert.Contains(t, out, "2.25")
	assert.Contains(t, out, "●")
	assert.NotContains(t, out, "p3")
	assert.Contains(t, out, "3 of 600 records plotted (capped at 500), showing first 2")
}

func TestChart_NoLimit(t *testing.T) {
	view := domain.ChartView{
		XAxis:  domain.FieldLatitude,
		YAxis:  domain.FieldLongitude,
		Points: []domain.ChartPoint{{ID: "p1", X: 61, Y: -150}},
		Total:  1,
	}

	out := Chart(view, -1, plainStyles())

	assert.Contains(t, out, "-150")
	assert.Contains(t, out, "1 of 1 records plotted")
	assert.NotContains(t, out, "capped")
}

func TestValidation(t *testing.T) {
	out := Validation("sample.csv", 12, 9, map[string]int{
		"missing_location":  1,
		"invalid_latitude":  1,
		"invalid_magnitude": 1,
	}, plainStyles())

	assert.Contains(t, out, "Feed validation: sample.csv")
	assert.Contains(t, out, "rows read: 12")
	assert.Contains(t, out, "accepted: 9")
	lat := strings.Index(out, "invalid_latitude")
	mag := strings.Index(out, "invalid_magnitude")
	loc := strings.Index(out, "missing_location")
	assert.True(t, lat < mag && mag < loc, "reasons should be sorted")
}

func TestValidation_Clean(t *testing.T) {
	out := Validation("feed", 3, 3, nil, plainStyles())

	assert.Contains(t, out, "rejected: 0")
	assert.NotContains(t, out, "Reason")
}
