package domain

import "time"

// RawRow is one CSV data row keyed by header name, exactly as received.
type RawRow map[string]string

// Feed column names read by the normalizer.
const (
	ColumnID        = "id"
	ColumnMag       = "mag"
	ColumnDepth     = "depth"
	ColumnLatitude  = "latitude"
	ColumnLongitude = "longitude"
	ColumnPlace     = "place"
	ColumnTime      = "time"
	ColumnGap       = "gap"
	ColumnRMS       = "rms"
)

// Record is one validated earthquake observation. Records are values: they
// are built once by the normalizer and never modified afterwards.
type Record struct {
	ID         string    `json:"id"`
	Magnitude  float64   `json:"magnitude"`
	Depth      float64   `json:"depth"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Location   string    `json:"location"`
	Time       string    `json:"time"`
	OccurredAt time.Time `json:"occurred_at"`
	Gap        float64   `json:"gap"`
	RMS        float64   `json:"rms"`
}

// Field names a sortable or plottable Record attribute.
type Field string

const (
	FieldID        Field = "id"
	FieldMagnitude Field = "magnitude"
	FieldDepth     Field = "depth"
	FieldLatitude  Field = "latitude"
	FieldLongitude Field = "longitude"
	FieldLocation  Field = "location"
	FieldTime      Field = "time"
	FieldGap       Field = "gap"
	FieldRMS       Field = "rms"
)

// NumericFields lists the fields usable as chart axes, in display order.
var NumericFields = []Field{FieldMagnitude, FieldDepth, FieldLatitude, FieldLongitude, FieldGap, FieldRMS}

// ParseField validates a field name. Only exact lowercase names are accepted.
func ParseField(s string) (Field, bool) {
	f := Field(s)
	switch f {
	case FieldID, FieldMagnitude, FieldDepth, FieldLatitude, FieldLongitude,
		FieldLocation, FieldTime, FieldGap, FieldRMS:
		return f, true
	default:
		return "", false
	}
}

// IsNumeric reports whether the field compares numerically.
func (f Field) IsNumeric() bool {
	switch f {
	case FieldMagnitude, FieldDepth, FieldLatitude, FieldLongitude, FieldGap, FieldRMS:
		return true
	default:
		return false
	}
}

// Label is the human-readable column or axis title.
func (f Field) Label() string {
	switch f {
	case FieldID:
		return "ID"
	case FieldMagnitude:
		return "Magnitude"
	case FieldDepth:
		return "Depth (km)"
	case FieldLatitude:
		return "Latitude"
	case FieldLongitude:
		return "Longitude"
	case FieldLocation:
		return "Location"
	case FieldTime:
		return "Time"
	case FieldGap:
		return "Gap"
	case FieldRMS:
		return "RMS"
	default:
		return string(f)
	}
}

// Number returns the value of a numeric field. ok is false for string fields.
func (r Record) Number(f Field) (v float64, ok bool) {
	switch f {
	case FieldMagnitude:
		return r.Magnitude, true
	case FieldDepth:
		return r.Depth, true
	case FieldLatitude:
		return r.Latitude, true
	case FieldLongitude:
		return r.Longitude, true
	case FieldGap:
		return r.Gap, true
	case FieldRMS:
		return r.RMS, true
	default:
		return 0, false
	}
}

// Text returns the raw value of a string field. ok is false for numeric fields.
func (r Record) Text(f Field) (v string, ok bool) {
	switch f {
	case FieldID:
		return r.ID, true
	case FieldLocation:
		return r.Location, true
	case FieldTime:
		return r.Time, true
	default:
		return "", false
	}
}

// MagnitudeClass buckets a magnitude the way the dashboard badges it:
// high at 5 and above, medium at 3 and above, low otherwise.
type MagnitudeClass string

const (
	MagnitudeLow    MagnitudeClass = "low"
	MagnitudeMedium MagnitudeClass = "medium"
	MagnitudeHigh   MagnitudeClass = "high"
)

// ClassifyMagnitude returns the badge class for a magnitude.
func ClassifyMagnitude(m float64) MagnitudeClass {
	switch {
	case m >= 5:
		return MagnitudeHigh
	case m >= 3:
		return MagnitudeMedium
	default:
		return MagnitudeLow
	}
}
