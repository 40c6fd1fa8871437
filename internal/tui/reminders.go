package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/remindr/internal/app"
	"github.com/sadopc/remindr/internal/dates"
	"github.com/sadopc/remindr/internal/pomodoro"
	"github.com/sadopc/remindr/internal/reminder"
	"github.com/sadopc/remindr/internal/store"
)

var filterLabels = map[reminder.Filter]string{
	reminder.FilterToday:     "Today",
	reminder.FilterUpcoming:  "Upcoming",
	reminder.FilterOverdue:   "Overdue",
	reminder.FilterCompleted: "Completed",
	reminder.FilterAll:       "All",
}

type remindersModel struct {
	app    *app.App
	width  int
	height int

	filter reminder.Filter
	list   []store.Reminder
	counts reminder.Counts
	sort   reminder.SortMethod
	today  string
	cursor int

	formActive bool
	form       *reminderForm

	// orphan is the reminder whose block is gone, awaiting confirmation.
	orphan *store.Reminder
}

func newRemindersModel(a *app.App) remindersModel {
	return remindersModel{
		app:    a,
		filter: reminder.FilterToday,
		sort:   reminder.SortTime,
		today:  dates.Today(),
	}
}

func (m remindersModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *remindersModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type remindersDataMsg struct {
	list   []store.Reminder
	counts reminder.Counts
	sort   reminder.SortMethod
	today  string
	err    error
}

type openResultMsg struct {
	reminder store.Reminder
	block    *store.Block
	err      error
}

func (m remindersModel) loadData() tea.Cmd {
	f := m.filter
	return func() tea.Msg {
		today := dates.Today()
		list, counts, err := m.app.Reminders.List(context.Background(), f, today)
		return remindersDataMsg{
			list:   list,
			counts: counts,
			sort:   m.app.Reminders.SortMethod(),
			today:  today,
			err:    err,
		}
	}
}

func (m remindersModel) selected() (store.Reminder, bool) {
	if m.cursor < 0 || m.cursor >= len(m.list) {
		return store.Reminder{}, false
	}
	return m.list[m.cursor], true
}

// mutate runs fn off the UI loop. The store write publishes ReminderUpdated,
// which reloads the list.
func (m remindersModel) mutate(done string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return statusMsg{text: done}
	}
}

func (m remindersModel) update(msg tea.Msg) (remindersModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case remindersDataMsg:
		if msg.err != nil {
			return m, errStatus("Load reminders", msg.err)
		}
		m.list = msg.list
		m.counts = msg.counts
		m.sort = msg.sort
		m.today = msg.today
		if m.cursor >= len(m.list) {
			m.cursor = max(0, len(m.list)-1)
		}
		return m, nil

	case openResultMsg:
		switch {
		case errors.Is(msg.err, reminder.ErrOrphanedReminder):
			r := msg.reminder
			m.orphan = &r
			return m, nil
		case msg.err != nil:
			return m, errStatus("Open", msg.err)
		}
		return m, infoStatus(fmt.Sprintf("%s: %s", msg.reminder.Title, truncate(msg.block.Content, 60)))

	case tea.KeyMsg:
		if m.orphan != nil {
			return m.updateOrphanPrompt(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m remindersModel) updateList(msg tea.KeyMsg) (remindersModel, tea.Cmd) {
	svc := m.app.Reminders

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.list)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Filter), key.Matches(msg, keys.Right):
		m.filter = shiftFilter(m.filter, 1)
		m.cursor = 0
		return m, m.loadData()
	case key.Matches(msg, keys.Left):
		m.filter = shiftFilter(m.filter, -1)
		m.cursor = 0
		return m, m.loadData()
	case key.Matches(msg, keys.Sort):
		next := nextSortMethod(m.sort)
		return m, m.mutate("Sorting "+next.Name(), func(context.Context) error {
			return svc.SetSortMethod(next)
		})
	case key.Matches(msg, keys.New):
		return m.showForm(nil)
	}

	r, ok := m.selected()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Toggle):
		done := "Marked done"
		if r.Completed {
			done = "Marked not done"
		}
		return m, m.mutate(done, func(ctx context.Context) error {
			return svc.Toggle(ctx, r.ID, !r.Completed)
		})
	case key.Matches(msg, keys.Priority):
		p := nextPriority(r.Priority)
		return m, m.mutate("Priority "+p, func(ctx context.Context) error {
			return svc.SetPriority(ctx, r.ID, p)
		})
	case key.Matches(msg, keys.Delete):
		return m, m.mutate("Deleted "+r.Title, func(ctx context.Context) error {
			return svc.Delete(ctx, r.ID)
		})
	case key.Matches(msg, keys.Edit):
		return m.showForm(&r)
	case key.Matches(msg, keys.Focus):
		target := pomodoro.Target{ID: r.ID, Title: r.Title}
		return m, func() tea.Msg { return focusMsg{target: target} }
	case key.Matches(msg, keys.Enter):
		return m, func() tea.Msg {
			b, err := svc.Open(context.Background(), r.ID)
			return openResultMsg{reminder: r, block: b, err: err}
		}
	}
	return m, nil
}

func (m remindersModel) updateOrphanPrompt(msg tea.KeyMsg) (remindersModel, tea.Cmd) {
	r := *m.orphan
	m.orphan = nil
	if !key.Matches(msg, keys.Yes) {
		return m, infoStatus("Kept reminder")
	}
	svc := m.app.Reminders
	return m, func() tea.Msg {
		n, err := svc.DeleteByBlock(context.Background(), r.BlockID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return statusMsg{text: fmt.Sprintf("Deleted %d reminder(s) of a removed block", n)}
	}
}

func (m remindersModel) showForm(r *store.Reminder) (remindersModel, tea.Cmd) {
	m.form = newReminderForm(r, m.today)
	m.formActive = true
	return m, m.form.init()
}

func (m remindersModel) updateForm(msg tea.Msg) (remindersModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form.form = f
	}

	if m.form.form.State == huh.StateCompleted {
		r := m.form.reminder()
		m.formActive = false
		m.form = nil
		if r.ID != "" {
			return m, m.mutate("Saved "+r.Title, func(ctx context.Context) error {
				return m.app.Reminders.Edit(ctx, r)
			})
		}
		return m, m.mutate("Added "+r.Title, func(ctx context.Context) error {
			_, err := m.app.AddReminder(ctx, r)
			return err
		})
	}

	return m, cmd
}

func shiftFilter(f reminder.Filter, step int) reminder.Filter {
	n := len(reminder.Filters)
	for i, v := range reminder.Filters {
		if v == f {
			return reminder.Filters[((i+step)%n+n)%n]
		}
	}
	return reminder.FilterToday
}

func nextSortMethod(m reminder.SortMethod) reminder.SortMethod {
	for i, v := range reminder.SortMethods {
		if v == m {
			return reminder.SortMethods[(i+1)%len(reminder.SortMethods)]
		}
	}
	return reminder.SortTime
}

func (m remindersModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(m.form.title()), "", m.form.form.View())
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, m.renderFilterBar())
	rows = append(rows, mutedStyle.Render("Sort: "+m.sort.Name()))
	rows = append(rows, "")

	if len(m.list) == 0 {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("No %s reminders. Press n to add one.",
			strings.ToLower(filterLabels[m.filter]))))
	} else {
		rows = append(rows, m.renderList(w)...)
	}

	if m.orphan != nil {
		rows = append(rows, "", warningStyle.Render(fmt.Sprintf(
			"The note block of %q is gone. Delete its reminders? (y/n)", m.orphan.Title)))
	} else {
		rows = append(rows, "", mutedStyle.Render(
			"  n: new  e: edit  x: done  p: priority  d: delete  f: filter  o: sort  t: focus  enter: open"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m remindersModel) renderFilterBar() string {
	var tabs []string
	for _, f := range reminder.Filters {
		label := fmt.Sprintf("%s %s", filterLabels[f], badge(m.counts.Of(f)))
		if f == m.filter {
			tabs = append(tabs, filterActiveStyle.Render(label))
		} else {
			tabs = append(tabs, filterInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)
}

func (m remindersModel) renderList(w int) []string {
	visible := m.height - 10
	if visible < 3 {
		visible = 3
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(len(m.list), start+visible)

	titleWidth := max(10, w-36)

	var rows []string
	for i := start; i < end; i++ {
		r := m.list[i]
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		check := "[ ]"
		if r.Completed {
			check = "[x]"
		}

		title := truncate(r.Title, titleWidth)
		switch {
		case r.Completed:
			title = completedStyle.Render(title)
		case reminder.IsOverdue(r, m.today):
			title = errorStyle.Render(title)
		default:
			title = style.Render(title)
		}

		when := mutedStyle.Render(reminder.FormatWhen(r, m.today))
		if reminder.IsRecurring(r.Repeat) {
			when += mutedStyle.Render(" ↻")
		}
		extra := ""
		if r.PomodoroCount > 0 {
			extra = accentStyle.Render(fmt.Sprintf("  %d×", r.PomodoroCount))
		}

		rows = append(rows, fmt.Sprintf("%s%s %s %s  %s%s",
			style.Render(cursor), check, priorityDot(r.Priority), title, when, extra))
	}
	return rows
}
