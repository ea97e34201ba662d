package domain

// ChartMaxPoints bounds how many records the scatter view plots.
const ChartMaxPoints = 500

// ChartParams selects the scatter plot axes.
type ChartParams struct {
	XAxis Field `json:"x_axis"`
	YAxis Field `json:"y_axis"`
}

// DefaultChartParams plots magnitude against depth.
func DefaultChartParams() ChartParams {
	return ChartParams{XAxis: FieldMagnitude, YAxis: FieldDepth}
}

// ValidAxis reports whether f can be plotted.
func ValidAxis(f Field) bool {
	return f.IsNumeric()
}

// ChartPoint is one plotted record.
type ChartPoint struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Selected bool    `json:"selected"`
}

// ChartView is the scatter plot payload. Highlight holds the selected record
// looked up in the full set, so a selection beyond the cap is still drawn.
type ChartView struct {
	XAxis     Field        `json:"x_axis"`
	YAxis     Field        `json:"y_axis"`
	Points    []ChartPoint `json:"points"`
	Total     int          `json:"total"`
	Truncated bool         `json:"truncated"`
	Highlight *ChartPoint  `json:"highlight,omitempty"`
}

// ProjectChart builds the scatter view over the first ChartMaxPoints records.
// selectedID may be empty. Invalid axes fall back to the defaults.
func ProjectChart(records []Record, params ChartParams, selectedID string) ChartView {
	def := DefaultChartParams()
	if !ValidAxis(params.XAxis) {
		params.XAxis = def.XAxis
	}
	if !ValidAxis(params.YAxis) {
		params.YAxis = def.YAxis
	}

	limited := CapRecords(records, ChartMaxPoints)
	view := ChartView{
		XAxis:     params.XAxis,
		YAxis:     params.YAxis,
		Points:    make([]ChartPoint, 0, len(limited)),
		Total:     len(records),
		Truncated: len(limited) < len(records),
	}
	for _, r := range limited {
		view.Points = append(view.Points, chartPoint(r, params, selectedID))
	}

	if selectedID == "" {
		return view
	}
	for _, r := range records {
		if r.ID == selectedID {
			p := chartPoint(r, params, selectedID)
			view.Highlight = &p
			break
		}
	}
	return view
}

func chartPoint(r Record, params ChartParams, selectedID string) ChartPoint {
	x, _ := r.Number(params.XAxis)
	y, _ := r.Number(params.YAxis)
	return ChartPoint{
		ID:       r.ID,
		X:        x,
		Y:        y,
		Selected: selectedID != "" && r.ID == selectedID,
	}
}
