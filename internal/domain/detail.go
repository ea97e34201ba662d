package domain

import (
	"context"
	"log/slog"
)

// Place is the geocoded neighbourhood of a selected record.
type Place struct {
	FormattedAddress string  `json:"formatted_address"`
	Name             string  `json:"name,omitempty"`
	Confidence       float64 `json:"confidence,omitempty"`
}

// Detail is the detail panel payload for the current selection.
type Detail struct {
	Selected       bool           `json:"selected"`
	Record         *Record        `json:"record,omitempty"`
	InCurrentSet   bool           `json:"in_current_set"`
	MagnitudeClass MagnitudeClass `json:"magnitude_class,omitempty"`
	Place          *Place         `json:"place,omitempty"`
}

// BuildDetail assembles the detail panel. snap may be nil before the first
// load. Geocoding is optional: a nil geocoder, an error or an empty answer
// leaves Place unset.
func BuildDetail(ctx context.Context, sel *SelectionStore, snap *Snapshot, geocoder Geocoder, logger *slog.Logger) Detail {
	rec, ok := sel.Current()
	if !ok {
		return Detail{}
	}

	d := Detail{
		Selected:       true,
		Record:         &rec,
		InCurrentSet:   snap != nil && snap.Contains(rec.ID),
		MagnitudeClass: ClassifyMagnitude(rec.Magnitude),
	}
	d.Place = lookupPlace(ctx, rec, geocoder, logger)
	return d
}

func lookupPlace(ctx context.Context, rec Record, geocoder Geocoder, logger *slog.Logger) *Place {
	if geocoder == nil {
		return nil
	}

	result, err := geocoder.ReverseGeocode(ctx, rec.Latitude, rec.Longitude)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"record_id", rec.ID,
			"lat", rec.Latitude,
			"lon", rec.Longitude,
			"error", err,
		)
		return nil
	}
	if result.FormattedAddress == "" {
		return nil
	}
	return &Place{
		FormattedAddress: result.FormattedAddress,
		Name:             result.PlaceName,
		Confidence:       result.Confidence,
	}
}
