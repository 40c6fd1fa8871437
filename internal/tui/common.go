package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/remindr/internal/pomodoro"
	"github.com/sadopc/remindr/internal/reminder"
	"github.com/sadopc/remindr/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewReminders viewState = iota
	viewCalendar
	viewPomodoro
	viewStats
	viewSettings
)

var viewNames = []string{"Reminders", "Calendar", "Pomodoro", "Stats", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// remindersChangedMsg is delivered when the reminder store was written.
type remindersChangedMsg struct{}

// sortChangedMsg is delivered when the sort preference changed.
type sortChangedMsg struct {
	method reminder.SortMethod
}

// timerEventMsg carries a pomodoro engine event onto the UI loop.
type timerEventMsg struct {
	event pomodoro.Event
}

// focusMsg points the pomodoro timer at a reminder.
type focusMsg struct {
	target pomodoro.Target
}

type exportDoneMsg struct {
	path string
}

// bellMsg asks the root model to ring the terminal bell with its next
// frame; bellDoneMsg takes it out again after bellHold.
type (
	bellMsg     struct{}
	bellDoneMsg struct{}
)

const bellHold = 200 * time.Millisecond

// --- Helpers ---

func errStatus(prefix string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
	}
}

func infoStatus(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

// badge renders a tab count, capped so the tab bar keeps its width.
func badge(n int) string {
	if n > 99 {
		return "99+"
	}
	return fmt.Sprintf("%d", n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

var priorityCycle = []string{store.PriorityNone, store.PriorityLow, store.PriorityMedium, store.PriorityHigh}

// nextPriority steps none → low → medium → high → none.
func nextPriority(p string) string {
	for i, v := range priorityCycle {
		if v == p {
			return priorityCycle[(i+1)%len(priorityCycle)]
		}
	}
	return store.PriorityLow
}
