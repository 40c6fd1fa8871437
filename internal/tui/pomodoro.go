package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/remindr/internal/app"
	"github.com/sadopc/remindr/internal/pomodoro"
)

var phaseLabels = map[pomodoro.Phase]string{
	pomodoro.Work:       "WORK",
	pomodoro.ShortBreak: "SHORT BREAK",
	pomodoro.LongBreak:  "LONG BREAK",
}

type pomodoroModel struct {
	app    *app.App
	engine *pomodoro.Engine
	width  int
	height int

	snap         pomodoro.Snapshot
	todayMinutes int
	weekMinutes  int

	// formActive is set while the break length is being typed in.
	formActive bool
	input      textinput.Model
	bar        progress.Model
}

func newPomodoroModel(a *app.App, e *pomodoro.Engine) pomodoroModel {
	ti := textinput.New()
	ti.Placeholder = "MM:SS"
	ti.CharLimit = 5
	ti.Width = 8

	return pomodoroModel{
		app:    a,
		engine: e,
		snap:   e.Snapshot(),
		input:  ti,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
	p.bar.Width = max(10, w-16)
}

type focusTotalsMsg struct {
	today int
	week  int
	err   error
}

func (p pomodoroModel) refresh() tea.Cmd {
	rec := p.app.Records
	return func() tea.Msg {
		ctx := context.Background()
		today, err := rec.TodayFocusMinutes(ctx)
		if err != nil {
			return focusTotalsMsg{err: err}
		}
		week, err := rec.WeekFocusMinutes(ctx)
		return focusTotalsMsg{today: today, week: week, err: err}
	}
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if p.formActive {
		return p.updateInput(msg)
	}

	switch msg := msg.(type) {
	case tickMsg:
		p.snap = p.engine.Snapshot()
		return p, nil

	case focusTotalsMsg:
		if msg.err != nil {
			return p, errStatus("Load focus time", msg.err)
		}
		p.todayMinutes = msg.today
		p.weekMinutes = msg.week
		return p, nil

	case tea.KeyMsg:
		e := p.engine
		switch {
		case key.Matches(msg, keys.Start):
			if err := e.Toggle(); err != nil {
				return p, errStatus("Timer", err)
			}
		case key.Matches(msg, keys.Reset):
			e.Reset()
		case key.Matches(msg, keys.Work):
			e.StartWorkTime()
		case key.Matches(msg, keys.ShortBreak):
			e.StartShortBreak()
		case key.Matches(msg, keys.LongBreak):
			e.StartLongBreak()
		case key.Matches(msg, keys.EditBreak):
			return p.showInput()
		}
		p.snap = e.Snapshot()
	}
	return p, nil
}

func (p pomodoroModel) showInput() (pomodoroModel, tea.Cmd) {
	s := p.engine.Snapshot()
	switch {
	case !s.Phase.IsBreak():
		return p, infoStatus("Switch to a break to edit its length")
	case s.Running && !s.Paused:
		return p, infoStatus("Pause the break to edit it")
	}
	p.input.SetValue(s.Display)
	p.input.CursorEnd()
	p.formActive = true
	return p, p.input.Focus()
}

func (p pomodoroModel) updateInput(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Back):
			p.formActive = false
			p.input.Blur()
			return p, nil
		case key.Matches(msg, keys.Enter):
			err := p.engine.EditBreakRemaining(p.input.Value())
			if errors.Is(err, pomodoro.ErrInvalidTimeInput) {
				return p, errStatus("Invalid time", err)
			}
			p.formActive = false
			p.input.Blur()
			p.snap = p.engine.Snapshot()
			if err != nil {
				return p, errStatus("Edit break", err)
			}
			return p, infoStatus("Break set to " + p.snap.Display)
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p pomodoroModel) view() string {
	w := p.width - 4
	s := p.snap

	title := titleStyle.Render("Pomodoro Timer")
	target := mutedStyle.Render("Not linked to a reminder (press t on one)")
	if s.Target.ID != "" {
		target = highlightStyle.Render("Focusing on " + s.Target.Title)
	}

	style := accentStyle
	switch s.Phase {
	case pomodoro.ShortBreak:
		style = successStyle
	case pomodoro.LongBreak:
		style = highlightStyle
	}

	display := style.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(s.Display)
	if p.formActive {
		display = timerStyle.Width(w - 6).Render(p.input.View())
	}

	indicator := mutedStyle.Render("■  READY")
	switch {
	case s.Running && s.Paused:
		indicator = warningStyle.Render("⏸  PAUSED")
	case s.Running:
		indicator = successStyle.Render("●  RUNNING")
	}

	totals := mutedStyle.Render(fmt.Sprintf("Today %s  ·  This week %s",
		pomodoro.FormatDuration(p.todayMinutes), pomodoro.FormatDuration(p.weekMinutes)))

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		target,
		"",
		display,
		style.Bold(true).Render(phaseLabels[s.Phase]),
		indicator,
		"",
		p.bar.ViewAs(s.Progress),
		p.renderCycles(),
		"",
		totals,
	)

	controls := mutedStyle.Render("s/space: start/pause  r: reset  w: work  b: short break  B: long break  i: edit break")
	if p.formActive {
		controls = mutedStyle.Render("enter: set break  esc: cancel")
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", controls),
	)
}

// renderCycles draws completed pomodoros toward the next long break.
func (p pomodoroModel) renderCycles() string {
	every := max(1, p.snap.Settings.LongBreakEvery)
	done := p.snap.Completed % every
	if p.snap.Completed > 0 && done == 0 && p.snap.Phase == pomodoro.LongBreak {
		done = every
	}

	var parts []string
	for i := 0; i < every; i++ {
		switch {
		case i < done:
			parts = append(parts, successStyle.Render("●"))
		case i == done && p.snap.Phase == pomodoro.Work && p.snap.Running:
			parts = append(parts, accentStyle.Render("◐"))
		default:
			parts = append(parts, mutedStyle.Render("○"))
		}
	}
	return strings.Join(parts, " ") + mutedStyle.Render(fmt.Sprintf("  %d done", p.snap.Completed))
}
