package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/remindr/internal/app"
	"github.com/sadopc/remindr/internal/pomodoro"
	"github.com/sadopc/remindr/internal/reminder"
	"github.com/sadopc/remindr/internal/store"
)

const sortMethodKey = "sort_method"

// settingFields lists the editable keys in form order. Values are held by
// pointer so huh's bindings survive model copies.
var settingFields = []string{
	sortMethodKey,
	pomodoro.KeyWork,
	pomodoro.KeyBreak,
	pomodoro.KeyLongBreak,
	pomodoro.KeyCount,
	pomodoro.KeyAutoBreak,
	pomodoro.KeyRecordWork,
	pomodoro.KeyWeekStart,
	pomodoro.KeyEndSound,
}

type settingsModel struct {
	app    *app.App
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form
	values     map[string]*string
}

func newSettingsModel(a *app.App) settingsModel {
	values := make(map[string]*string, len(settingFields))
	for _, k := range settingFields {
		values[k] = new(string)
	}
	return settingsModel{app: a, values: values}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

// settingsSavedMsg tells the root model to reload cached settings.
type settingsSavedMsg struct{}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.app.Store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	for _, k := range settingFields {
		*s.values[k] = s.getVal(k)
	}

	onOff := []huh.Option[string]{huh.NewOption("On", "on"), huh.NewOption("Off", "off")}

	sorts := make([]huh.Option[string], 0, len(reminder.SortMethods))
	for _, m := range reminder.SortMethods {
		sorts = append(sorts, huh.NewOption(m.Name(), string(m)))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Sort reminders").Options(sorts...).Value(s.values[sortMethodKey]),
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).Value(s.values[pomodoro.KeyWeekStart]),
		).Title("General"),
		huh.NewGroup(
			huh.NewInput().Title("Work (min)").Value(s.values[pomodoro.KeyWork]).Validate(minutes),
			huh.NewInput().Title("Short break (min)").Value(s.values[pomodoro.KeyBreak]).Validate(minutes),
			huh.NewInput().Title("Long break (min)").Value(s.values[pomodoro.KeyLongBreak]).Validate(minutes),
			huh.NewInput().Title("Pomodoros before long break").Value(s.values[pomodoro.KeyCount]).Validate(minutes),
			huh.NewSelect[string]().Title("Start breaks automatically").Options(onOff...).Value(s.values[pomodoro.KeyAutoBreak]),
			huh.NewSelect[string]().Title("Log work cycles").Options(onOff...).Value(s.values[pomodoro.KeyRecordWork]),
			huh.NewSelect[string]().Title("Sound when a break ends").
				Options(
					huh.NewOption("Terminal bell", "bell"),
					huh.NewOption("None", "none"),
				).Value(s.values[pomodoro.KeyEndSound]),
		).Title("Pomodoro"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		if err := s.saveSettings(); err != nil {
			return s, tea.Batch(errStatus("Save settings", err), s.refresh())
		}
		return s, tea.Batch(
			s.refresh(),
			func() tea.Msg { return settingsSavedMsg{} },
			infoStatus("Settings saved"),
		)
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	for _, k := range settingFields {
		v := strings.TrimSpace(*s.values[k])
		if k == sortMethodKey {
			m := reminder.ParseSortMethod(v)
			if m == s.app.Reminders.SortMethod() {
				continue
			}
			if err := s.app.Reminders.SetSortMethod(m); err != nil {
				return err
			}
			continue
		}
		if err := s.app.Store.SetSetting(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (s settingsModel) getVal(k string) string {
	v, err := s.app.Store.GetSetting(k)
	if err != nil {
		return ""
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case pomodoro.KeyWork, pomodoro.KeyBreak, pomodoro.KeyLongBreak:
		if n, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d min", n)
		}
	case sortMethodKey:
		return reminder.ParseSortMethod(v).Name()
	}
	if v == "" {
		return "-"
	}
	return v
}

func minutes(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return errors.New("enter a whole number above zero")
	}
	return nil
}
