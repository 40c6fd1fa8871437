package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/remindr/internal/app"
	"github.com/sadopc/remindr/internal/dates"
	"github.com/sadopc/remindr/internal/pomodoro"
	"github.com/sadopc/remindr/internal/store"
)

type statsMode int

const (
	statsLast7 statsMode = iota
	statsWeek
)

type statsModel struct {
	app    *app.App
	width  int
	height int

	mode     statsMode
	offset   int // periods back from the current one
	days     []pomodoro.DayTotal
	sessions []store.SessionRecord

	chart barchart.Model
}

func newStatsModel(a *app.App) statsModel {
	return statsModel{
		app:   a,
		chart: barchart.New(60, 12),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type statsDataMsg struct {
	days     []pomodoro.DayTotal
	sessions []store.SessionRecord
	err      error
}

// dateRange returns the first and last day shown.
func (s statsModel) dateRange() (time.Time, time.Time) {
	today := startOfDay(time.Now())
	switch s.mode {
	case statsWeek:
		start := s.app.Records.WeekStart(today).AddDate(0, 0, -7*s.offset)
		return start, start.AddDate(0, 0, 6)
	default:
		end := today.AddDate(0, 0, -7*s.offset)
		return end.AddDate(0, 0, -6), end
	}
}

func (s statsModel) refresh() tea.Cmd {
	from, to := s.dateRange()
	rec := s.app.Records
	return func() tea.Msg {
		ctx := context.Background()
		days, err := rec.DailyFocus(ctx, from, to)
		if err != nil {
			return statsDataMsg{err: err}
		}
		sessions, err := rec.Sessions(ctx, from, to.AddDate(0, 0, 1))
		return statsDataMsg{days: days, sessions: sessions, err: err}
	}
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		if msg.err != nil {
			return s, errStatus("Load stats", msg.err)
		}
		s.days = msg.days
		s.sessions = msg.sessions
		s.buildChart()
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			s.offset++
			return s, s.refresh()
		case key.Matches(msg, keys.Right):
			if s.offset > 0 {
				s.offset--
			}
			return s, s.refresh()
		case key.Matches(msg, keys.Filter):
			if s.mode == statsLast7 {
				s.mode = statsWeek
			} else {
				s.mode = statsLast7
			}
			s.offset = 0
			return s, s.refresh()
		}
	}
	return s, nil
}

func (s *statsModel) buildChart() {
	chartWidth := max(20, s.width-8)
	chartHeight := 10
	if s.height > 30 {
		chartHeight = 14
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	bars := make([]barchart.BarData, 0, len(s.days))
	for _, d := range s.days {
		label := d.Date
		if t, err := dates.Parse(d.Date); err == nil {
			label = t.Format("Mon 02")
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{{
				Name:  "focus",
				Value: float64(d.Minutes),
				Style: lipgloss.NewStyle().Foreground(colorAccent),
			}},
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) total() int {
	n := 0
	for _, d := range s.days {
		n += d.Minutes
	}
	return n
}

func (s statsModel) view() string {
	w := s.width - 4

	lastTab := inactiveTabStyle.Render("Last 7 days")
	weekTab := inactiveTabStyle.Render("Week")
	if s.mode == statsLast7 {
		lastTab = activeTabStyle.Render("Last 7 days")
	} else {
		weekTab = activeTabStyle.Render("Week")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, lastTab, weekTab)

	from, to := s.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s - %s", from.Format("Jan 02"), to.Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Focus"), "  ", modeTabs, "  ", dateLabel,
	)

	total := highlightStyle.Render("Total " + pomodoro.FormatDuration(s.total()))
	nav := mutedStyle.Render("  ←/→: navigate  f: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", s.chart.View(), "", total, "", s.renderSessions(w), "", nav,
		),
	)
}

func (s statsModel) renderSessions(w int) string {
	if len(s.sessions) == 0 {
		return mutedStyle.Render("  No sessions in this period")
	}

	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-16s %-6s %8s  %s", "When", "Type", "Length", "Reminder")),
		mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 54))),
	}

	// newest first, capped to what fits
	limit := max(3, s.height-28)
	for i := len(s.sessions) - 1; i >= 0 && len(rows)-2 < limit; i-- {
		r := s.sessions[i]
		kind := r.Type
		if r.IsLongBreak {
			kind = "long"
		}
		rows = append(rows, fmt.Sprintf("  %-16s %-6s %8s  %s",
			r.Timestamp.Local().Format("Mon 02 15:04"), kind,
			pomodoro.FormatDuration(r.DurationMinutes), truncate(r.EventTitle, 30)))
	}
	return strings.Join(rows, "\n")
}
