package dashboard

import (
	"fmt"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// TableRow is a table record annotated for display.
type TableRow struct {
	domain.Record
	MagnitudeClass domain.MagnitudeClass `json:"magnitude_class"`
	Selected       bool                  `json:"selected"`
}

// TableView is one table page with the parameters that produced it.
type TableView struct {
	Params     domain.ViewParams `json:"params"`
	Rows       []TableRow        `json:"rows"`
	TotalCount int               `json:"total_count"`
	TotalPages int               `json:"total_pages"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	From       int               `json:"from"`
	To         int               `json:"to"`
}

// TableUpdate is a partial update of the table parameters. Nil fields are left alone.
type TableUpdate struct {
	Search        *string `json:"search"`
	SortField     *string `json:"sort_field"`
	SortDirection *string `json:"sort_direction"`
	Page          *int    `json:"page"`
}

// ChartUpdate is a partial update of the chart axes.
type ChartUpdate struct {
	XAxis *string `json:"x_axis"`
	YAxis *string `json:"y_axis"`
}

// TableParams returns a copy of the current table parameters.
func (s *Session) TableParams() domain.ViewParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table
}

// ChartParams returns a copy of the current chart axes.
func (s *Session) ChartParams() domain.ChartParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chart
}

// Table projects the current page.
func (s *Session) Table() (TableView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return TableView{}, err
	}
	return s.tableView(snap, s.TableParams()), nil
}

// UpdateTable applies u and then clamps the page into [1, TotalPages] for the
// resulting filter. Nothing changes when u is invalid.
func (s *Session) UpdateTable(u TableUpdate) (TableView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return TableView{}, err
	}

	s.mu.Lock()
	next, err := applyTableUpdate(s.table, u)
	if err != nil {
		s.mu.Unlock()
		return TableView{}, err
	}
	next = clampTablePage(snap.Records, next)
	s.table = next
	s.mu.Unlock()

	s.logger.Debug("table params updated",
		"search", next.Search,
		"sort_field", next.SortField,
		"sort_direction", next.SortDirection,
		"page", next.Page,
	)
	return s.tableView(snap, next), nil
}

// ToggleSort applies a column-header click on field.
func (s *Session) ToggleSort(field string) (TableView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return TableView{}, err
	}
	f, ok := domain.ParseField(field)
	if !ok {
		return TableView{}, fmt.Errorf("%w: unknown sort field %q", ErrInvalidParam, field)
	}

	s.mu.Lock()
	s.table = s.table.ToggleSort(f)
	params := s.table
	s.mu.Unlock()

	return s.tableView(snap, params), nil
}

// NextPage moves forward one page, stopping at the last.
func (s *Session) NextPage() (TableView, error) {
	return s.stepPage(1)
}

// PrevPage moves back one page, stopping at the first.
func (s *Session) PrevPage() (TableView, error) {
	return s.stepPage(-1)
}

func (s *Session) stepPage(delta int) (TableView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return TableView{}, err
	}

	s.mu.Lock()
	next := s.table
	next.Page += delta
	next = clampTablePage(snap.Records, next)
	s.table = next
	s.mu.Unlock()

	return s.tableView(snap, next), nil
}

func (s *Session) tableView(snap *domain.Snapshot, params domain.ViewParams) TableView {
	s.metrics.Projections.WithLabelValues("table").Inc()

	page := domain.Project(snap.Records, params)
	selectedID := s.selection.SelectedID()

	rows := make([]TableRow, len(page.Records))
	for i, r := range page.Records {
		rows[i] = TableRow{
			Record:         r,
			MagnitudeClass: domain.ClassifyMagnitude(r.Magnitude),
			Selected:       selectedID != "" && r.ID == selectedID,
		}
	}
	return TableView{
		Params:     params,
		Rows:       rows,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
		Page:       page.Page,
		PageSize:   page.PageSize,
		From:       page.From,
		To:         page.To,
	}
}

func applyTableUpdate(p domain.ViewParams, u TableUpdate) (domain.ViewParams, error) {
	if u.Search != nil {
		p.Search = *u.Search
	}
	if u.SortField != nil {
		f, ok := domain.ParseField(*u.SortField)
		if !ok {
			return p, fmt.Errorf("%w: unknown sort field %q", ErrInvalidParam, *u.SortField)
		}
		p.SortField = f
	}
	if u.SortDirection != nil {
		d, ok := domain.ParseDirection(*u.SortDirection)
		if !ok {
			return p, fmt.Errorf("%w: sort direction must be asc or desc, got %q", ErrInvalidParam, *u.SortDirection)
		}
		p.SortDirection = d
	}
	if u.Page != nil {
		p.Page = *u.Page
	}
	return p, nil
}

func clampTablePage(records []domain.Record, p domain.ViewParams) domain.ViewParams {
	probe := p
	probe.Page = 1
	total := domain.Project(records, probe).TotalPages
	p.Page = domain.ClampPage(p.Page, total)
	return p
}

// Chart projects the scatter view for the current axes and selection.
func (s *Session) Chart() (domain.ChartView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return domain.ChartView{}, err
	}
	s.metrics.Projections.WithLabelValues("chart").Inc()
	return domain.ProjectChart(snap.Records, s.ChartParams(), s.selection.SelectedID()), nil
}

// UpdateChart changes the plotted axes. Only numeric fields are accepted.
func (s *Session) UpdateChart(u ChartUpdate) (domain.ChartView, error) {
	snap, err := s.snapshot()
	if err != nil {
		return domain.ChartView{}, err
	}

	s.mu.Lock()
	next := s.chart
	if u.XAxis != nil {
		f, ok := parseAxis(*u.XAxis)
		if !ok {
			s.mu.Unlock()
			return domain.ChartView{}, fmt.Errorf("%w: x_axis %q is not a numeric field", ErrInvalidParam, *u.XAxis)
		}
		next.XAxis = f
	}
	if u.YAxis != nil {
		f, ok := parseAxis(*u.YAxis)
		if !ok {
			s.mu.Unlock()
			return domain.ChartView{}, fmt.Errorf("%w: y_axis %q is not a numeric field", ErrInvalidParam, *u.YAxis)
		}
		next.YAxis = f
	}
	s.chart = next
	s.mu.Unlock()

	s.metrics.Projections.WithLabelValues("chart").Inc()
	return domain.ProjectChart(snap.Records, next, s.selection.SelectedID()), nil
}

func parseAxis(s string) (domain.Field, bool) {
	f, ok := domain.ParseField(s)
	if !ok || !domain.ValidAxis(f) {
		return "", false
	}
	return f, true
}
