package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrRowRejected marks a feed row that cannot become a Record.
var ErrRowRejected = errors.New("row rejected")

// Rejection reasons, also used as metric label values.
const (
	ReasonInvalidMagnitude = "invalid_magnitude"
	ReasonInvalidDepth     = "invalid_depth"
	ReasonInvalidLatitude  = "invalid_latitude"
	ReasonInvalidLongitude = "invalid_longitude"
	ReasonMissingLocation  = "missing_location"
	ReasonMissingTime      = "missing_time"
	ReasonInvalidTime      = "invalid_time"
)

// RejectReasons lists every reason NormalizeRow can report.
var RejectReasons = []string{
	ReasonInvalidMagnitude,
	ReasonInvalidDepth,
	ReasonInvalidLatitude,
	ReasonInvalidLongitude,
	ReasonMissingLocation,
	ReasonMissingTime,
	ReasonInvalidTime,
}

// RowError describes why a row was rejected. It matches ErrRowRejected.
type RowError struct {
	Reason string
	Column string
	Value  string
}

func (e *RowError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("row rejected: %s (%s empty)", e.Reason, e.Column)
	}
	return fmt.Sprintf("row rejected: %s (%s=%q)", e.Reason, e.Column, e.Value)
}

func (e *RowError) Is(target error) bool { return target == ErrRowRejected }

// RejectReason extracts the reason from an error returned by NormalizeRow.
func RejectReason(err error) string {
	var re *RowError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ""
}

// Normalize converts raw feed rows into Records, silently dropping rows that
// fail validation. Accepted rows keep their input order.
func Normalize(rows []RawRow) []Record {
	return NormalizeEach(rows, nil)
}

// NormalizeEach is Normalize with a hook: reject, when non-nil, is called for
// every dropped row with its zero-based index and the rejection error.
func NormalizeEach(rows []RawRow, reject func(i int, row RawRow, err error)) []Record {
	out := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := NormalizeRow(row)
		if err != nil {
			if reject != nil {
				reject(i, row, err)
			}
			continue
		}
		out = append(out, rec)
	}
	return out
}

// NormalizeRow validates and converts a single row. The returned error, if
// any, wraps ErrRowRejected and carries the first failing reason.
func NormalizeRow(row RawRow) (Record, error) {
	mag, err := requiredFloat(row, ColumnMag, ReasonInvalidMagnitude)
	if err != nil {
		return Record{}, err
	}
	depth, err := requiredFloat(row, ColumnDepth, ReasonInvalidDepth)
	if err != nil {
		return Record{}, err
	}
	lat, err := requiredFloat(row, ColumnLatitude, ReasonInvalidLatitude)
	if err != nil {
		return Record{}, err
	}
	lon, err := requiredFloat(row, ColumnLongitude, ReasonInvalidLongitude)
	if err != nil {
		return Record{}, err
	}

	// Only an empty place or time counts as missing. A blank time still
	// fails parsing below.
	place := row[ColumnPlace]
	if place == "" {
		return Record{}, &RowError{Reason: ReasonMissingLocation, Column: ColumnPlace}
	}

	rawTime := row[ColumnTime]
	if rawTime == "" {
		return Record{}, &RowError{Reason: ReasonMissingTime, Column: ColumnTime}
	}
	occurredAt, ok := parseFeedTime(rawTime)
	if !ok {
		return Record{}, &RowError{Reason: ReasonInvalidTime, Column: ColumnTime, Value: rawTime}
	}

	return Record{
		ID:         row[ColumnID],
		Magnitude:  mag,
		Depth:      depth,
		Latitude:   lat,
		Longitude:  lon,
		Location:   place,
		Time:       rawTime,
		OccurredAt: occurredAt,
		Gap:        parseFloatOrZero(row[ColumnGap]),
		RMS:        parseFloatOrZero(row[ColumnRMS]),
	}, nil
}

func requiredFloat(row RawRow, column, reason string) (float64, error) {
	v, ok := parseFinite(row[column])
	if !ok {
		return 0, &RowError{Reason: reason, Column: column, Value: row[column]}
	}
	return v, nil
}

// parseFinite parses s as a finite float64. NaN and ±Inf are rejected.
func parseFinite(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseFloatOrZero parses an optional numeric column, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	v, ok := parseFinite(s)
	if !ok {
		return 0
	}
	return v
}

// feedTimeLayouts are tried in order after the epoch-milliseconds form.
var feedTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseFeedTime accepts ISO-8601 timestamps and integer epoch milliseconds.
func parseFeedTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), true
	}
	for _, layout := range feedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
