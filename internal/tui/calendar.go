package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/remindr/internal/app"
	"github.com/sadopc/remindr/internal/dates"
	"github.com/sadopc/remindr/internal/reminder"
)

const (
	cellWidth  = 10
	gridDays   = 42
	resizeStep = 30 * time.Minute
)

type calendarModel struct {
	app    *app.App
	width  int
	height int

	cursor    time.Time // local midnight of the focused day
	gridStart time.Time
	events    []reminder.Event
	selected  int
}

func newCalendarModel(a *app.App) calendarModel {
	m := calendarModel{app: a}
	m.setCursor(startOfDay(time.Now()))
	return m
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func startOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// setCursor moves the focus and recomputes the six-week grid around it.
func (c *calendarModel) setCursor(day time.Time) {
	c.cursor = startOfDay(day)
	first := time.Date(c.cursor.Year(), c.cursor.Month(), 1, 0, 0, 0, 0, time.Local)
	c.gridStart = c.app.Records.WeekStart(first)
	c.selected = 0
}

type calendarDataMsg struct {
	events []reminder.Event
	err    error
}

func (c calendarModel) refresh() tea.Cmd {
	from := dates.LocalDateString(c.gridStart)
	to := dates.LocalDateString(c.gridStart.AddDate(0, 0, gridDays-1))
	return func() tea.Msg {
		snap, err := c.app.Reminders.Snapshot(context.Background())
		if err != nil {
			return calendarDataMsg{err: err}
		}
		return calendarDataMsg{events: reminder.CalendarEvents(snap, from, to)}
	}
}

// eventsOn lists events covering day, in calendar order.
func (c calendarModel) eventsOn(day time.Time) []reminder.Event {
	var out []reminder.Event
	for _, ev := range c.events {
		first := startOfDay(ev.Start)
		last := first
		switch {
		case ev.AllDay:
			last = startOfDay(ev.End.AddDate(0, 0, -1))
		case !ev.End.IsZero():
			last = startOfDay(ev.End)
		}
		if !day.Before(first) && !day.After(last) {
			out = append(out, ev)
		}
	}
	return out
}

func (c calendarModel) selectedEvent() (reminder.Event, bool) {
	evs := c.eventsOn(c.cursor)
	if c.selected < 0 || c.selected >= len(evs) {
		return reminder.Event{}, false
	}
	return evs[c.selected], true
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarDataMsg:
		if msg.err != nil {
			return c, errStatus("Load calendar", msg.err)
		}
		c.events = msg.events
		if n := len(c.eventsOn(c.cursor)); c.selected >= n {
			c.selected = max(0, n-1)
		}
		return c, nil

	case tea.KeyMsg:
		return c.updateKeys(msg)
	}
	return c, nil
}

func (c calendarModel) updateKeys(msg tea.KeyMsg) (calendarModel, tea.Cmd) {
	move := func(d time.Time) (calendarModel, tea.Cmd) {
		month := c.cursor.Month()
		c.setCursor(d)
		if c.cursor.Month() != month {
			return c, c.refresh()
		}
		return c, nil
	}

	switch {
	case key.Matches(msg, keys.Left):
		return move(c.cursor.AddDate(0, 0, -1))
	case key.Matches(msg, keys.Right):
		return move(c.cursor.AddDate(0, 0, 1))
	case key.Matches(msg, keys.Up):
		return move(c.cursor.AddDate(0, 0, -7))
	case key.Matches(msg, keys.Down):
		return move(c.cursor.AddDate(0, 0, 7))
	case key.Matches(msg, keys.PrevMonth):
		return move(c.cursor.AddDate(0, -1, 0))
	case key.Matches(msg, keys.NextMonth):
		return move(c.cursor.AddDate(0, 1, 0))
	case key.Matches(msg, keys.Today):
		c.setCursor(time.Now())
		return c, c.refresh()
	case key.Matches(msg, keys.NextEvent):
		if n := len(c.eventsOn(c.cursor)); n > 0 {
			c.selected = (c.selected + 1) % n
		}
		return c, nil
	}

	ev, ok := c.selectedEvent()
	if !ok {
		return c, nil
	}

	switch {
	case key.Matches(msg, keys.MoveEarly):
		return c.moveEvent(ev, -1)
	case key.Matches(msg, keys.MoveLate):
		return c.moveEvent(ev, 1)
	case key.Matches(msg, keys.Grow):
		return c, c.resizeEvent(ev, 1)
	case key.Matches(msg, keys.Shrink):
		return c, c.resizeEvent(ev, -1)
	case key.Matches(msg, keys.Toggle):
		if ev.IsRepeatInstance {
			return c, infoStatus("Complete the first occurrence to finish a repeating reminder")
		}
		return c, c.write("Toggled "+ev.Title, func(ctx context.Context) error {
			return c.app.Reminders.Toggle(ctx, ev.ID, !ev.Completed)
		})
	case key.Matches(msg, keys.Focus):
		return c, func() tea.Msg {
			t, err := c.app.TargetFor(context.Background(), ev.ID)
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
			return focusMsg{target: t}
		}
	}
	return c, nil
}

func (c calendarModel) write(done string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return statusMsg{text: done}
	}
}

// moveEvent shifts the event by days, keeping its length, and follows it
// with the cursor.
func (c calendarModel) moveEvent(ev reminder.Event, days int) (calendarModel, tea.Cmd) {
	if ev.IsRepeatInstance {
		return c, infoStatus("Move the first occurrence to shift a repeating reminder")
	}
	p := reminder.Placement{Start: ev.Start.AddDate(0, 0, days), AllDay: ev.AllDay}
	if !ev.End.IsZero() {
		p.End = ev.End.AddDate(0, 0, days)
	}
	month := c.cursor.Month()
	c.setCursor(c.cursor.AddDate(0, 0, days))
	cmd := c.write("Moved "+ev.Title, func(ctx context.Context) error {
		return c.app.Reminders.MoveEvent(ctx, ev.ID, p)
	})
	if c.cursor.Month() != month {
		cmd = tea.Batch(cmd, c.refresh())
	}
	return c, cmd
}

// resizeEvent moves the end by one day for all-day events and by
// resizeStep for timed ones. A timed event shrunk to its start loses its
// end time.
func (c calendarModel) resizeEvent(ev reminder.Event, dir int) tea.Cmd {
	if ev.IsRepeatInstance {
		return infoStatus("Resize the first occurrence to change a repeating reminder")
	}
	p := reminder.Placement{Start: ev.Start, AllDay: ev.AllDay}
	if ev.AllDay {
		p.End = ev.End.AddDate(0, 0, dir)
		if minEnd := ev.Start.AddDate(0, 0, 1); p.End.Before(minEnd) {
			p.End = minEnd
		}
	} else {
		base := ev.End
		if base.IsZero() {
			base = ev.Start
		}
		end := base.Add(time.Duration(dir) * resizeStep)
		if end.After(ev.Start) {
			p.End = end
		}
	}
	return c.write("Resized "+ev.Title, func(ctx context.Context) error {
		return c.app.Reminders.ResizeEvent(ctx, ev.ID, p)
	})
}

func (c calendarModel) view() string {
	w := c.width - 4

	title := titleStyle.Render(c.cursor.Format("January 2006"))

	var header []string
	for i := 0; i < 7; i++ {
		header = append(header, dayStyle.Foreground(colorMuted).Render(c.gridStart.AddDate(0, 0, i).Format("Mon")))
	}

	today := startOfDay(time.Now())
	var weeks []string
	for week := 0; week < gridDays/7; week++ {
		var cells []string
		for i := 0; i < 7; i++ {
			day := c.gridStart.AddDate(0, 0, week*7+i)
			cells = append(cells, c.renderCell(day, today))
		}
		weeks = append(weeks, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	grid := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}, weeks...)...)

	rows := []string{title, "", grid, "", c.renderAgenda(w),
		"", mutedStyle.Render("  ←→↑↓: day  [/]: month  g: today  v: next event  </>: move  +/-: resize  x: done  t: focus")}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (c calendarModel) renderCell(day, today time.Time) string {
	label := fmt.Sprintf("%2d", day.Day())
	if n := len(c.eventsOn(day)); n > 0 {
		label += " " + strings.Repeat("•", min(n, 3))
		if n > 3 {
			label += "+"
		}
	}

	switch {
	case day.Equal(c.cursor):
		return cursorCellStyle.Render(label)
	case day.Equal(today):
		return todayCellStyle.Render(label)
	case day.Month() != c.cursor.Month():
		return otherMonthDayStyle.Render(label)
	}
	return dayStyle.Render(label)
}

func (c calendarModel) renderAgenda(w int) string {
	evs := c.eventsOn(c.cursor)
	head := titleStyle.Render(c.cursor.Format("Monday, Jan 2"))
	if len(evs) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, head, mutedStyle.Render("  Nothing scheduled"))
	}

	rows := []string{head}
	for i, ev := range evs {
		cursor := "  "
		style := normalItemStyle
		if i == c.selected {
			cursor = "> "
			style = selectedItemStyle
		}
		when := "all day"
		if !ev.AllDay {
			when = ev.Start.Format("15:04")
			if !ev.End.IsZero() {
				when += "-" + ev.End.Format("15:04")
			}
		}
		title := truncate(ev.Title, max(10, w-24))
		if ev.Completed {
			title = completedStyle.Render(title)
		} else {
			title = style.Render(title)
		}
		if ev.IsRepeatInstance {
			title += mutedStyle.Render(" ↻")
		}
		rows = append(rows, fmt.Sprintf("%s%s %-11s %s", style.Render(cursor), priorityDot(ev.Priority), mutedStyle.Render(when), title))
	}
	return strings.Join(rows, "\n")
}
