// Package render formats lookup results and the application countdown for
// the terminal.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/okian/pvsa/internal/domain/model"
)

// Styles groups the lipgloss styles used by the renderer.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Border  lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color("#1d4ed8")).Bold(true).MarginBottom(1),
		Label:   lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280")).Italic(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#15803d")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#b45309")),
		Header:  lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Cell:    lipgloss.NewStyle().Padding(0, 1),
		Border:  lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af")),
	}
}

// PlainStyles returns styles without colors or margins, for pipes and tests.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:   plain,
		Label:   plain,
		Muted:   plain,
		Success: plain,
		Warning: plain,
		Header:  plain.Padding(0, 1),
		Cell:    plain.Padding(0, 1),
		Border:  plain,
	}
}

// Renderer turns domain results into terminal text.
type Renderer struct {
	styles Styles
}

// New creates a Renderer with styles.
func New(styles Styles) *Renderer {
	return &Renderer{styles: styles}
}

// Lookup renders a search result: totals, the optional award evaluation and
// a per-date table.
func (r *Renderer) Lookup(res model.SearchResult) string {
	s := r.styles
	if !res.Found {
		return s.Warning.Render("No records found. Please check your name and ID and try again.")
	}

	var b strings.Builder
	b.WriteString(s.Title.Render("Volunteer Hours"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", s.Label.Render("Records matched:"), strconv.Itoa(res.MatchCount))
	fmt.Fprintf(&b, "%s %s\n", s.Label.Render("Total hours:"), formatHours(res.Breakdown.TotalHours))
	fmt.Fprintf(&b, "%s %s\n", s.Label.Render("Hours this program year:"), formatHours(res.Breakdown.AnnualHours))

	if e := res.Eligibility; e != nil {
		b.WriteString(r.Eligibility(*e))
		b.WriteString("\n")
	}

	b.WriteString(r.breakdownTable(res.Breakdown))
	b.WriteString("\n")
	return b.String()
}

// Eligibility renders one award evaluation line.
func (r *Renderer) Eligibility(e model.Eligibility) string {
	s := r.styles
	if e.Eligible {
		return s.Success.Render(fmt.Sprintf("Eligible for the %s award (%s)", e.Award, e.AgeGroup))
	}
	line := "Not eligible: " + e.Reason
	if e.AgeGroup != "" {
		line += " [" + e.AgeGroup + "]"
	}
	return s.Warning.Render(line)
}

func (r *Renderer) breakdownTable(bd model.Breakdown) string {
	s := r.styles
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		Headers("Date", "Type", "Hours", "Entries").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			return s.Cell
		})

	for _, g := range bd.DateGroups {
		for _, d := range g.HourDetails {
			t.Row(g.DisplayDate, d.Category, formatHours(d.Hours), strconv.Itoa(d.Count))
		}
	}
	return t.String()
}

// Period renders the application window status and countdown.
func (r *Renderer) Period(info model.PeriodInfo) string {
	s := r.styles
	p := info.Period

	var b strings.Builder
	b.WriteString(s.Title.Render("PVSA Applications"))
	b.WriteString("\n")
	b.WriteString(s.Label.Render(p.Message))
	if p.Status != model.PeriodAfter {
		c := info.Remaining
		fmt.Fprintf(&b, " %dd %dh %dm %ds", c.Days, c.Hours, c.Minutes, c.Seconds)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s - %s\n", s.Label.Render("Application window:"),
		p.OpenDate.Format("Jan 2, 2006"), p.CloseDate.Format("Jan 2, 2006"))
	fmt.Fprintf(&b, "%s %s - %s\n", s.Label.Render("Program year:"),
		info.ProgramYear.Start.Format("Jan 2, 2006"), info.ProgramYear.End.Format("Jan 2, 2006"))
	b.WriteString(s.Muted.Render("Ages are measured on " + info.Cutoff.Format("Jan 2, 2006") + "."))
	b.WriteString("\n")
	return b.String()
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
