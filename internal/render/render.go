// Package render draws dashboard views for the terminal with lipgloss.
package render

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

// Styles holds the palette used by every view.
type Styles struct {
	Title     lipgloss.Style
	Label     lipgloss.Style
	Card      lipgloss.Style
	Header    lipgloss.Style
	Cell      lipgloss.Style
	Selected  lipgloss.Style
	Footer    lipgloss.Style
	Border    lipgloss.Style
	Magnitude map[domain.MagnitudeClass]lipgloss.Style
	Stat      [4]lipgloss.Style // count, max, avg magnitude, avg depth
}

// NewStyles builds the palette for a renderer. Colors degrade to plain text
// when the renderer's output is not a terminal.
func NewStyles(r *lipgloss.Renderer) Styles {
	cell := r.NewStyle().Padding(0, 1)
	return Styles{
		Title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).MarginBottom(1),
		Label:    r.NewStyle().Foreground(lipgloss.Color("241")),
		Card:     r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 2).Align(lipgloss.Center),
		Header:   cell.Bold(true).Foreground(lipgloss.Color("252")),
		Cell:     cell,
		Selected: cell.Reverse(true),
		Footer:   r.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1),
		Border:   r.NewStyle().Foreground(lipgloss.Color("238")),
		Magnitude: map[domain.MagnitudeClass]lipgloss.Style{
			domain.MagnitudeHigh:   cell.Bold(true).Foreground(lipgloss.Color("196")),
			domain.MagnitudeMedium: cell.Foreground(lipgloss.Color("214")),
			domain.MagnitudeLow:    cell.Foreground(lipgloss.Color("42")),
		},
		Stat: [4]lipgloss.Style{
			r.NewStyle().Bold(true),
			r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
			r.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
			r.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		},
	}
}

// DefaultStyles uses the process-wide renderer (stdout).
func DefaultStyles() Styles {
	return NewStyles(lipgloss.DefaultRenderer())
}

// Summary draws the statistics overview as four cards.
func Summary(sum domain.Summary, st Styles) string {
	values := []string{
		strconv.Itoa(sum.Count),
		formatNumber(sum.MaxMagnitude),
		fmt.Sprintf("%.2f", sum.AvgMagnitude),
		fmt.Sprintf("%.2f km", sum.AvgDepth),
	}
	labels := []string{"Total Earthquakes", "Max Magnitude", "Avg Magnitude", "Avg Depth"}

	cards := make([]string, len(values))
	for i := range values {
		body := lipgloss.JoinVertical(lipgloss.Center, st.Stat[i].Render(values[i]), st.Label.Render(labels[i]))
		cards[i] = st.Card.Render(body)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		st.Title.Render("Statistics Overview"),
		lipgloss.JoinHorizontal(lipgloss.Top, cards...),
	)
}

var tableColumns = []domain.Field{domain.FieldMagnitude, domain.FieldLocation, domain.FieldDepth, domain.FieldTime}

// Table draws one table page with a sort arrow on the active column and
// the pagination footer.
func Table(view dashboard.TableView, st Styles) string {
	headers := make([]string, len(tableColumns))
	for i, f := range tableColumns {
		headers[i] = f.Label()
		if f == view.Params.SortField {
			headers[i] += " " + sortArrow(view.Params.SortDirection)
		}
	}

	rows := make([][]string, len(view.Rows))
	for i, r := range view.Rows {
		rows[i] = []string{
			formatNumber(r.Magnitude),
			r.Location,
			formatNumber(r.Depth),
			formatTime(r.Record),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.Header
			}
			r := view.Rows[row]
			if r.Selected {
				return st.Selected
			}
			if col == 0 {
				return st.Magnitude[r.MagnitudeClass]
			}
			return st.Cell
		})

	return lipgloss.JoinVertical(lipgloss.Left,
		t.String(),
		st.Footer.Render(Footer(view.From, view.To, view.TotalCount, view.Page, view.TotalPages)),
	)
}

// Footer is the pagination line under the table.
func Footer(from, to, total, page, pages int) string {
	return fmt.Sprintf("Showing %d to %d of %d entries · Page %d of %d", from, to, total, page, pages)
}

// Chart lists the plotted points, at most limit rows, marking the selection.
func Chart(view domain.ChartView, limit int, st Styles) string {
	points := view.Points
	if limit >= 0 && limit < len(points) {
		points = points[:limit]
	}

	rows := make([][]string, len(points))
	for i, p := range points {
		mark := ""
		if p.Selected {
			mark = "●"
		}
		rows[i] = []string{mark, p.ID, formatNumber(p.X), formatNumber(p.Y)}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.Border).
		Headers("", "ID", view.XAxis.Label(), view.YAxis.Label()).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.Header
			}
			if points[row].Selected {
				return st.Selected
			}
			return st.Cell
		})

	note := fmt.Sprintf("%d of %d records plotted", len(view.Points), view.Total)
	if view.Truncated {
		note += fmt.Sprintf(" (capped at %d)", domain.ChartMaxPoints)
	}
	if len(points) < len(view.Points) {
		note += fmt.Sprintf(", showing first %d", len(points))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		st.Title.Render(fmt.Sprintf("%s vs %s", view.YAxis.Label(), view.XAxis.Label())),
		t.String(),
		st.Footer.Render(note),
	)
}

// Validation reports accepted rows and rejections by reason, reasons sorted.
func Validation(source string, rows, accepted int, rejected map[string]int, st Styles) string {
	var b strings.Builder
	b.WriteString(st.Title.Render("Feed validation: " + source))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %d\n", st.Label.Render("rows read:"), rows)
	fmt.Fprintf(&b, "%s %d\n", st.Label.Render("accepted:"), accepted)

	if len(rejected) == 0 {
		b.WriteString(st.Label.Render("rejected:") + " 0")
		return b.String()
	}

	reasons := slices.Sorted(maps.Keys(rejected))
	reasonRows := make([][]string, len(reasons))
	for i, reason := range reasons {
		reasonRows[i] = []string{reason, strconv.Itoa(rejected[reason])}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(st.Border).
		Headers("Reason", "Rows").
		Rows(reasonRows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return st.Header
			}
			return st.Cell
		})
	b.WriteString(t.String())
	return b.String()
}

func sortArrow(d domain.Direction) string {
	if d == domain.Ascending {
		return "↑"
	}
	return "↓"
}

// formatNumber prints the shortest representation, as the feed does.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(r domain.Record) string {
	if r.OccurredAt.IsZero() {
		return r.Time
	}
	return r.OccurredAt.Format("2006-01-02 15:04")
}
