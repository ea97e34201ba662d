package domain

import "math"

// Summary holds the statistics panel values. Averages are rounded to two
// decimals; MaxMagnitude is exact.
type Summary struct {
	Count        int     `json:"count"`
	MaxMagnitude float64 `json:"max_magnitude"`
	AvgMagnitude float64 `json:"avg_magnitude"`
	AvgDepth     float64 `json:"avg_depth"`
}

// Summarize aggregates the full record set. An empty set yields all zeros.
func Summarize(records []Record) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	maxMag := records[0].Magnitude
	var sumMag, sumDepth float64
	for _, r := range records {
		if r.Magnitude > maxMag {
			maxMag = r.Magnitude
		}
		sumMag += r.Magnitude
		sumDepth += r.Depth
	}

	n := float64(len(records))
	return Summary{
		Count:        len(records),
		MaxMagnitude: maxMag,
		AvgMagnitude: RoundTo2(sumMag / n),
		AvgDepth:     RoundTo2(sumDepth / n),
	}
}

// RoundTo2 rounds half away from zero to two decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
