package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testQuakeID  = "ak0245abcd"
	testPlace    = "42 km SW of Anchorage, Alaska"
	testFeedTime = "2024-05-01T12:34:56.789Z"
)

func validRow() RawRow {
	return RawRow{
		"time":      testFeedTime,
		"latitude":  "61.0512",
		"longitude": "-150.3711",
		"depth":     "35.2",
		"mag":       "3.4",
		"magType":   "ml",
		"gap":       "42",
		"rms":       "0.61",
		"id":        testQuakeID,
		"place":     testPlace,
		"type":      "earthquake",
	}
}

func withRow(mut func(RawRow)) RawRow {
	row := validRow()
	mut(row)
	return row
}

func TestNormalizeRow(t *testing.T) {
	t.Run("valid USGS row", func(t *testing.T) {
		rec, err := NormalizeRow(validRow())

		require.NoError(t, err)
		assert.Equal(t, testQuakeID, rec.ID)
		assert.Equal(t, 3.4, rec.Magnitude)
		assert.Equal(t, 35.2, rec.Depth)
		assert.Equal(t, 61.0512, rec.Latitude)
		assert.Equal(t, -150.3711, rec.Longitude)
		assert.Equal(t, testPlace, rec.Location)
		assert.Equal(t, testFeedTime, rec.Time)
		assert.Equal(t, time.Date(2024, 5, 1, 12, 34, 56, 789000000, time.UTC), rec.OccurredAt)
		assert.Equal(t, 42.0, rec.Gap)
		assert.Equal(t, 0.61, rec.RMS)
	})

	t.Run("epoch milliseconds time", func(t *testing.T) {
		rec, err := NormalizeRow(withRow(func(r RawRow) { r["time"] = "1714566896789" }))

		require.NoError(t, err)
		assert.Equal(t, "1714566896789", rec.Time)
		assert.Equal(t, time.UnixMilli(1714566896789).UTC(), rec.OccurredAt)
	})

	t.Run("negative magnitude and depth are valid", func(t *testing.T) {
		rec, err := NormalizeRow(withRow(func(r RawRow) {
			r["mag"] = "-0.4"
			r["depth"] = "-1.2"
		}))

		require.NoError(t, err)
		assert.Equal(t, -0.4, rec.Magnitude)
		assert.Equal(t, -1.2, rec.Depth)
	})

	t.Run("whitespace around numbers", func(t *testing.T) {
		rec, err := NormalizeRow(withRow(func(r RawRow) { r["mag"] = " 2.5 " }))

		require.NoError(t, err)
		assert.Equal(t, 2.5, rec.Magnitude)
	})
}

func TestNormalizeRow_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mut    func(RawRow)
		reason string
	}{
		{"missing mag", func(r RawRow) { delete(r, "mag") }, ReasonInvalidMagnitude},
		{"empty mag", func(r RawRow) { r["mag"] = "" }, ReasonInvalidMagnitude},
		{"text mag", func(r RawRow) { r["mag"] = "strong" }, ReasonInvalidMagnitude},
		{"NaN mag", func(r RawRow) { r["mag"] = "NaN" }, ReasonInvalidMagnitude},
		{"infinite depth", func(r RawRow) { r["depth"] = "+Inf" }, ReasonInvalidDepth},
		{"missing depth", func(r RawRow) { delete(r, "depth") }, ReasonInvalidDepth},
		{"missing latitude", func(r RawRow) { delete(r, "latitude") }, ReasonInvalidLatitude},
		{"bad longitude", func(r RawRow) { r["longitude"] = "west" }, ReasonInvalidLongitude},
		{"missing place", func(r RawRow) { delete(r, "place") }, ReasonMissingLocation},
		{"empty place", func(r RawRow) { r["place"] = "" }, ReasonMissingLocation},
		{"missing time", func(r RawRow) { delete(r, "time") }, ReasonMissingTime},
		{"unparseable time", func(r RawRow) { r["time"] = "yesterday" }, ReasonInvalidTime},
		{"blank time", func(r RawRow) { r["time"] = "   " }, ReasonInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeRow(withRow(tt.mut))

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrRowRejected))
			assert.Equal(t, tt.reason, RejectReason(err))
		})
	}
}

func TestNormalizeRow_OptionalFieldsDefaultToZero(t *testing.T) {
	tests := []struct {
		name string
		gap  string
		rms  string
	}{
		{"empty", "", ""},
		{"unparseable", "n/a", "?"},
		{"non-finite", "NaN", "Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NormalizeRow(withRow(func(r RawRow) {
				r["gap"] = tt.gap
				r["rms"] = tt.rms
			}))

			require.NoError(t, err)
			assert.Zero(t, rec.Gap)
			assert.Zero(t, rec.RMS)
		})
	}

	t.Run("absent columns", func(t *testing.T) {
		rec, err := NormalizeRow(withRow(func(r RawRow) {
			delete(r, "gap")
			delete(r, "rms")
		}))

		require.NoError(t, err)
		assert.Zero(t, rec.Gap)
		assert.Zero(t, rec.RMS)
	})
}

func TestNormalize_StableFilter(t *testing.T) {
	rows := []RawRow{
		withRow(func(r RawRow) { r["id"] = "a" }),
		withRow(func(r RawRow) {
			r["id"] = "bad"
			r["mag"] = ""
		}),
		withRow(func(r RawRow) { r["id"] = "b" }),
		withRow(func(r RawRow) {
			r["id"] = "bad2"
			delete(r, "place")
		}),
		withRow(func(r RawRow) { r["id"] = "c" }),
	}

	out := Normalize(rows)

	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, "c", out[2].ID)
}

func TestNormalizeRow_BlankPlaceAccepted(t *testing.T) {
	rec, err := NormalizeRow(withRow(func(r RawRow) { r["place"] = "   " }))

	require.NoError(t, err)
	assert.Equal(t, "   ", rec.Location)
}

func TestNormalizeEach_ReportsRejections(t *testing.T) {
	rows := []RawRow{
		withRow(func(r RawRow) { r["id"] = "a" }),
		withRow(func(r RawRow) {
			r["id"] = "bad"
			r["mag"] = ""
		}),
		withRow(func(r RawRow) { r["id"] = "b" }),
		withRow(func(r RawRow) {
			r["id"] = "bad2"
			delete(r, "place")
		}),
	}

	type rejected struct {
		index  int
		id     string
		reason string
	}
	var got []rejected
	out := NormalizeEach(rows, func(i int, row RawRow, err error) {
		got = append(got, rejected{index: i, id: row["id"], reason: RejectReason(err)})
	})

	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Equal(t, []rejected{
		{index: 1, id: "bad", reason: ReasonInvalidMagnitude},
		{index: 3, id: "bad2", reason: ReasonMissingLocation},
	}, got)
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}

func TestParseFeedTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		ok       bool
	}{
		{"iso millis", "2024-05-01T12:34:56.789Z", time.Date(2024, 5, 1, 12, 34, 56, 789000000, time.UTC), true},
		{"iso seconds", "2024-05-01T12:34:56Z", time.Date(2024, 5, 1, 12, 34, 56, 0, time.UTC), true},
		{"offset", "2024-05-01T14:34:56+02:00", time.Date(2024, 5, 1, 12, 34, 56, 0, time.UTC), true},
		{"date only", "2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"epoch millis", "0", time.UnixMilli(0).UTC(), true},
		{"garbage", "not a time", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseFeedTime(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRowError_Message(t *testing.T) {
	err := &RowError{Reason: ReasonInvalidMagnitude, Column: ColumnMag, Value: "x"}
	assert.Contains(t, err.Error(), "invalid_magnitude")
	assert.Contains(t, err.Error(), `mag="x"`)

	empty := &RowError{Reason: ReasonMissingTime, Column: ColumnTime}
	assert.Contains(t, empty.Error(), "time empty")
}
