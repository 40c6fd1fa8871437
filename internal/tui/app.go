package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/remindr/internal/app"
	"github.com/sadopc/remindr/internal/events"
	"github.com/sadopc/remindr/internal/export"
	"github.com/sadopc/remindr/internal/pomodoro"
	"github.com/sadopc/remindr/internal/reminder"
)

var exportFormats = []export.Format{export.FormatCSV, export.FormatJSON, export.FormatYAML}

// bridge moves bus notifications and timer events, which arrive on other
// goroutines, onto the Bubble Tea loop.
type bridge struct {
	msgs   chan tea.Msg
	unsubs []func()
	engine *pomodoro.Engine
}

func (b *bridge) send(msg tea.Msg) {
	select {
	case b.msgs <- msg:
	default:
	}
}

// Write queues a terminal bell. The engine's player writes here from the
// ticker goroutine; the bell is rendered by the Bubble Tea loop.
func (b *bridge) Write(p []byte) (int, error) {
	b.send(bellMsg{})
	return len(p), nil
}

func (b *bridge) wait() tea.Cmd {
	return func() tea.Msg { return <-b.msgs }
}

func (b *bridge) close() {
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.unsubs = nil
	b.engine.Close()
}

// App is the root Bubble Tea model.
type App struct {
	app    *app.App
	bridge *bridge
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	reminders remindersModel
	calendar  calendarModel
	pomodoro  pomodoroModel
	stats     statsModel
	settings  settingsModel

	help      help.Model
	status    string
	statusErr bool
	ringing   bool
}

func NewApp(a *app.App) App {
	h := help.New()
	h.ShowAll = false

	br := &bridge{msgs: make(chan tea.Msg, 64)}
	br.unsubs = append(br.unsubs,
		a.Bus.SubscribeReminderUpdated(func() {
			br.send(remindersChangedMsg{})
		}),
		a.Bus.SubscribeSortConfigUpdated(func(p events.SortConfigPayload) {
			br.send(sortChangedMsg{method: reminder.ParseSortMethod(p.SortMethod)})
		}),
	)
	br.engine = a.NewTimer(pomodoro.Target{}, func(_ *pomodoro.Engine, ev pomodoro.Event) {
		br.send(timerEventMsg{event: ev})
	}, pomodoro.WithPlayer(a.EndPlayer(br)))

	return App{
		app:        a,
		bridge:     br,
		activeView: viewReminders,
		reminders:  newRemindersModel(a),
		calendar:   newCalendarModel(a),
		pomodoro:   newPomodoroModel(a, br.engine),
		stats:      newStatsModel(a),
		settings:   newSettingsModel(a),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.reminders.Init(),
		a.calendar.refresh(),
		a.pomodoro.refresh(),
		a.bridge.wait(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) quit() (tea.Model, tea.Cmd) {
	a.bridge.close()
	return a, tea.Quit
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.reminders.setSize(a.width, contentHeight)
		a.calendar.setSize(a.width, contentHeight)
		a.pomodoro.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			if msg.String() == "ctrl+c" {
				return a.quit()
			}
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a.quit()
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewReminders)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewCalendar)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewPomodoro)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewStats)
		case key.Matches(msg, keys.Tab5):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		var cmd tea.Cmd
		a.pomodoro, cmd = a.pomodoro.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case remindersChangedMsg:
		return a, tea.Batch(a.bridge.wait(), a.reminders.loadData(), a.calendar.refresh())

	case sortChangedMsg:
		return a, tea.Batch(a.bridge.wait(), a.reminders.loadData())

	case timerEventMsg:
		return a.handleTimerEvent(msg.event)

	case bellMsg:
		a.ringing = true
		return a, tea.Batch(a.bridge.wait(), tea.Tick(bellHold, func(time.Time) tea.Msg {
			return bellDoneMsg{}
		}))

	case bellDoneMsg:
		a.ringing = false
		return a, nil

	case focusMsg:
		a.bridge.engine.SetTarget(msg.target)
		a.pomodoro.snap = a.bridge.engine.Snapshot()
		a.activeView = viewPomodoro
		a.status = "Focusing on " + msg.target.Title
		a.statusErr = false
		return a, a.pomodoro.refresh()

	case settingsSavedMsg:
		a.app.ReloadSettings()
		a.bridge.engine.SetSettings(a.app.PomodoroSettings())
		a.pomodoro.snap = a.bridge.engine.Snapshot()
		a.calendar.setCursor(a.calendar.cursor)
		return a, tea.Batch(a.calendar.refresh(), a.pomodoro.refresh())

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) handleTimerEvent(ev pomodoro.Event) (tea.Model, tea.Cmd) {
	a.pomodoro.snap = a.bridge.engine.Snapshot()
	cmds := []tea.Cmd{a.bridge.wait(), a.pomodoro.refresh()}

	switch ev.Kind {
	case pomodoro.EventWorkCycleCompleted:
		a.status = fmt.Sprintf("Pomodoro %d complete", ev.Snapshot.Completed)
		if t := ev.Snapshot.Target.Title; t != "" {
			a.status += " for " + t
		}
		a.statusErr = false
	case pomodoro.EventBreakCompleted:
		a.status = "Break over. Back to work"
		a.statusErr = false
		if ev.Err != nil {
			a.status = fmt.Sprintf("Break over, but it was not logged: %v", ev.Err)
			a.statusErr = true
		}
	case pomodoro.EventSettingsChanged:
		a.status = "Break length saved"
		a.statusErr = false
	}

	if a.activeView == viewStats {
		cmds = append(cmds, a.stats.refresh())
	}
	return a, tea.Batch(cmds...)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewReminders:
		a.reminders, cmd = a.reminders.update(msg)
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewPomodoro:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewReminders:
		return a.reminders.formActive || a.reminders.orphan != nil
	case viewSettings:
		return a.settings.formActive
	case viewPomodoro:
		return a.pomodoro.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewReminders:
		return a.reminders.loadData()
	case viewCalendar:
		return a.calendar.refresh()
	case viewPomodoro:
		return a.pomodoro.refresh()
	case viewStats:
		return a.stats.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewReminders:
		content = a.reminders.view()
	case viewCalendar:
		content = a.calendar.view()
	case viewPomodoro:
		content = a.pomodoro.view()
	case viewStats:
		content = a.stats.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(footer))

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	view := lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
	if a.ringing {
		// The renderer only rewrites changed lines, so the bell goes out
		// once with the frame that adds it.
		view += "\a"
	}
	return view
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == viewReminders {
			name = fmt.Sprintf("%s %s", name, badge(a.reminders.counts.Today))
		}
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("remindr")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	left := footerStyle.Render(a.help.View(keys))

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	// Timer indicator in footer
	timerInfo := ""
	if s := a.pomodoro.snap; s.Running {
		label := fmt.Sprintf(" ● %s %s", s.Display, phaseLabels[s.Phase])
		timerInfo = successStyle.Render(label)
		if s.Paused {
			timerInfo = warningStyle.Render(fmt.Sprintf(" ⏸ %s %s", s.Display, phaseLabels[s.Phase]))
		}
	}

	right := timerInfo + status
	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+string(f)))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(f export.Format) tea.Cmd {
	return func() tea.Msg {
		doc, err := a.app.ExportDocument(context.Background())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		path := filepath.Join(home, fmt.Sprintf("remindr-export-%s.%s", time.Now().Format("2006-01-02"), f))
		if err := export.ToFile(path, doc); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
