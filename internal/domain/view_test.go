package domain

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quake(id string, mag float64, location string) Record {
	return Record{ID: id, Magnitude: mag, Depth: 10, Location: location, Time: testFeedTime}
}

func nRecords(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = quake(fmt.Sprintf("q%03d", i), float64(i%7), fmt.Sprintf("%d km N of Somewhere", i))
	}
	return out
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func magnitudes(records []Record) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Magnitude
	}
	return out
}

func TestProject_Search(t *testing.T) {
	records := []Record{
		quake("a", 3.0, "10 km E of Willow, Alaska"),
		quake("b", 2.0, "5 km N of The Geysers, CA"),
		quake("c", 4.0, "Kodiak Island region, ALASKA"),
		quake("d", 1.0, "Fox Islands, Aleutian Islands, Alaska"),
	}

	t.Run("case-insensitive substring", func(t *testing.T) {
		params := DefaultViewParams()
		params.Search = "Alaska"

		page := Project(records, params)

		assert.Equal(t, 3, page.TotalCount)
		for _, r := range page.Records {
			assert.Contains(t, strings.ToLower(r.Location), "alaska")
		}
		assert.Equal(t, []string{"c", "a", "d"}, ids(page.Records))
	})

	t.Run("lowercase needle", func(t *testing.T) {
		params := DefaultViewParams()
		params.Search = "geysers"

		page := Project(records, params)

		assert.Equal(t, []string{"b"}, ids(page.Records))
	})

	t.Run("empty search matches everything", func(t *testing.T) {
		page := Project(records, DefaultViewParams())

		assert.Equal(t, 4, page.TotalCount)
		assert.Equal(t, []string{"c", "a", "b", "d"}, ids(page.Records))
	})

	t.Run("no match", func(t *testing.T) {
		params := DefaultViewParams()
		params.Search = "Chile"

		page := Project(records, params)

		assert.Zero(t, page.TotalCount)
		assert.Equal(t, 1, page.TotalPages)
		assert.Empty(t, page.Records)
		assert.Zero(t, page.From)
		assert.Zero(t, page.To)
	})
}

func TestProject_SortMagnitude(t *testing.T) {
	records := []Record{quake("a", 3.1, "x"), quake("b", 5.2, "x"), quake("c", 1.0, "x")}

	desc := Project(records, ViewParams{SortField: FieldMagnitude, SortDirection: Descending, Page: 1})
	assert.Equal(t, []float64{5.2, 3.1, 1.0}, magnitudes(desc.Records))

	asc := Project(records, ViewParams{SortField: FieldMagnitude, SortDirection: Ascending, Page: 1})
	assert.Equal(t, []float64{1.0, 3.1, 5.2}, magnitudes(asc.Records))

	// input untouched
	assert.Equal(t, []string{"a", "b", "c"}, ids(records))
}

func TestProject_SortIsStable(t *testing.T) {
	records := []Record{
		quake("first", 2.0, "x"),
		quake("other", 4.0, "x"),
		quake("second", 2.0, "x"),
		quake("third", 2.0, "x"),
	}

	for _, dir := range []Direction{Ascending, Descending} {
		t.Run(string(dir), func(t *testing.T) {
			page := Project(records, ViewParams{SortField: FieldMagnitude, SortDirection: dir, Page: 1})

			var ties []string
			for _, r := range page.Records {
				if r.Magnitude == 2.0 {
					ties = append(ties, r.ID)
				}
			}
			assert.Equal(t, []string{"first", "second", "third"}, ties)
		})
	}
}

func TestProject_SortStringFields(t *testing.T) {
	records := []Record{
		{ID: "b", Location: "beta", Time: "2024-05-02T00:00:00.000Z"},
		{ID: "c", Location: "Alpha", Time: "2024-05-03T00:00:00.000Z"},
		{ID: "a", Location: "alpha", Time: "2024-05-01T00:00:00.000Z"},
	}

	tests := []struct {
		field    Field
		dir      Direction
		expected []string
	}{
		{FieldLocation, Ascending, []string{"c", "a", "b"}}, // raw byte order: "A" < "a"
		{FieldTime, Ascending, []string{"a", "b", "c"}},
		{FieldTime, Descending, []string{"c", "b", "a"}},
		{FieldID, Ascending, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.field, tt.dir), func(t *testing.T) {
			page := Project(records, ViewParams{SortField: tt.field, SortDirection: tt.dir, Page: 1})
			assert.Equal(t, tt.expected, ids(page.Records))
		})
	}
}

func TestProject_SortNumericFields(t *testing.T) {
	records := []Record{
		{ID: "a", Depth: 10, Latitude: 5, Longitude: -150, Gap: 90, RMS: 0.3},
		{ID: "b", Depth: 2, Latitude: 60, Longitude: 20, Gap: 30, RMS: 1.1},
		{ID: "c", Depth: 600, Latitude: -20, Longitude: 170, Gap: 0, RMS: 0.01},
	}

	tests := []struct {
		field    Field
		expected []string
	}{
		{FieldDepth, []string{"b", "a", "c"}},
		{FieldLatitude, []string{"c", "a", "b"}},
		{FieldLongitude, []string{"a", "b", "c"}},
		{FieldGap, []string{"c", "b", "a"}},
		{FieldRMS, []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			page := Project(records, ViewParams{SortField: tt.field, SortDirection: Ascending, Page: 1})
			assert.Equal(t, tt.expected, ids(page.Records))
		})
	}
}

func TestProject_Pagination(t *testing.T) {
	records := nRecords(25)
	params := DefaultViewParams()

	t.Run("total pages", func(t *testing.T) {
		page := Project(records, params)
		assert.Equal(t, 25, page.TotalCount)
		assert.Equal(t, 3, page.TotalPages)
		assert.Len(t, page.Records, 10)
		assert.Equal(t, 1, page.From)
		assert.Equal(t, 10, page.To)
		assert.Equal(t, PageSize, page.PageSize)
	})

	t.Run("last partial page", func(t *testing.T) {
		params.Page = 3
		page := Project(records, params)
		assert.Len(t, page.Records, 5)
		assert.Equal(t, 21, page.From)
		assert.Equal(t, 25, page.To)
	})

	t.Run("out of range page is empty", func(t *testing.T) {
		params.Page = 4
		page := Project(records, params)
		assert.Empty(t, page.Records)
		assert.NotNil(t, page.Records)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 4, page.Page)
	})

	t.Run("page zero is empty", func(t *testing.T) {
		params.Page = 0
		page := Project(records, params)
		assert.Empty(t, page.Records)
	})

	t.Run("pages partition the sorted set", func(t *testing.T) {
		var all []string
		for p := 1; p <= 3; p++ {
			params.Page = p
			all = append(all, ids(Project(records, params).Records)...)
		}
		params.Page = 1
		require.Len(t, all, 25)
		assert.ElementsMatch(t, ids(records), all)
	})
}

func TestProject_DoesNotMutateParams(t *testing.T) {
	params := ViewParams{Search: "x", SortField: FieldDepth, SortDirection: Ascending, Page: 9}
	before := params

	Project(nRecords(3), params)

	assert.Equal(t, before, params)
}

func TestProject_UnknownSortFieldFallsBackToMagnitude(t *testing.T) {
	records := []Record{quake("a", 1, "x"), quake("b", 3, "x")}

	page := Project(records, ViewParams{SortField: "bogus", SortDirection: Descending, Page: 1})

	assert.Equal(t, []string{"b", "a"}, ids(page.Records))
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count    int
		expected int
	}{
		{0, 1},
		{1, 1},
		{10, 1},
		{11, 2},
		{25, 3},
		{30, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, TotalPages(tt.count), "count=%d", tt.count)
	}
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 3))
	assert.Equal(t, 1, ClampPage(-5, 3))
	assert.Equal(t, 2, ClampPage(2, 3))
	assert.Equal(t, 3, ClampPage(9, 3))
	assert.Equal(t, 1, ClampPage(4, 0))
}

func TestViewParams_ToggleSort(t *testing.T) {
	p := DefaultViewParams()

	p = p.ToggleSort(FieldMagnitude)
	assert.Equal(t, Ascending, p.SortDirection)

	p = p.ToggleSort(FieldMagnitude)
	assert.Equal(t, Descending, p.SortDirection)

	p = p.ToggleSort(FieldMagnitude)
	p = p.ToggleSort(FieldLocation)
	assert.Equal(t, FieldLocation, p.SortField)
	assert.Equal(t, Descending, p.SortDirection)
}

func TestCapRecords(t *testing.T) {
	records := nRecords(800)

	capped := CapRecords(records, ChartMaxPoints)

	require.Len(t, capped, 500)
	assert.Equal(t, ids(records[:500]), ids(capped))
	assert.Len(t, CapRecords(records[:20], ChartMaxPoints), 20)
	assert.Empty(t, CapRecords(records, -1))
}

func TestParseDirection(t *testing.T) {
	d, ok := ParseDirection("asc")
	assert.True(t, ok)
	assert.Equal(t, Ascending, d)

	_, ok = ParseDirection("ASC")
	assert.False(t, ok)
}
