package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/sadopc/remindr/internal/dates"
	"github.com/sadopc/remindr/internal/reminder"
	"github.com/sadopc/remindr/internal/store"
)

// formValues is held by pointer so huh's bindings survive model copies.
type formValues struct {
	title    string
	date     string
	endDate  string
	time     string
	endTime  string
	priority string
	note     string
	repeat   string
}

type reminderForm struct {
	form    *huh.Form
	editing string // reminder ID, empty when creating
	values  *formValues
}

// newReminderForm opens an empty form, or one prefilled from r.
func newReminderForm(r *store.Reminder, today string) *reminderForm {
	v := &formValues{date: today, priority: store.PriorityNone}
	f := &reminderForm{values: v}
	if r != nil {
		f.editing = r.ID
		*v = formValues{
			title:    r.Title,
			date:     r.Date,
			endDate:  r.EndDate,
			time:     r.Time,
			endTime:  r.EndTime,
			priority: r.Priority,
			note:     r.Note,
			repeat:   r.Repeat,
		}
	}

	priorities := []huh.Option[string]{
		huh.NewOption("None", store.PriorityNone),
		huh.NewOption("Low", store.PriorityLow),
		huh.NewOption("Medium", store.PriorityMedium),
		huh.NewOption("High", store.PriorityHigh),
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&v.title).Validate(required),
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(&v.date).Validate(validDate),
			huh.NewInput().Title("End date").Placeholder("optional").Value(&v.endDate).Validate(optionalDate),
			huh.NewInput().Title("Time (HH:MM)").Placeholder("optional").Value(&v.time).Validate(optionalClock),
			huh.NewInput().Title("End time").Placeholder("optional").Value(&v.endTime).Validate(optionalClock),
		).Title("When"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Priority").Options(priorities...).Value(&v.priority),
			huh.NewText().Title("Note").Value(&v.note),
			huh.NewInput().Title("Repeat (RRULE)").Placeholder("FREQ=WEEKLY;BYDAY=MO").Value(&v.repeat).Validate(validRepeat),
		).Title("Details"),
	).WithShowHelp(true).WithShowErrors(true)

	return f
}

func (f *reminderForm) init() tea.Cmd { return f.form.Init() }

func (f *reminderForm) title() string {
	if f.editing != "" {
		return "Edit Reminder"
	}
	return "New Reminder"
}

// reminder returns the form contents as a record. ID is set when editing.
func (f *reminderForm) reminder() store.Reminder {
	v := f.values
	return store.Reminder{
		ID:       f.editing,
		Title:    strings.TrimSpace(v.title),
		Date:     strings.TrimSpace(v.date),
		EndDate:  strings.TrimSpace(v.endDate),
		Time:     strings.TrimSpace(v.time),
		EndTime:  strings.TrimSpace(v.endTime),
		Priority: v.priority,
		Note:     v.note,
		Repeat:   strings.TrimSpace(v.repeat),
	}
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validDate(s string) error {
	if !dates.Valid(strings.TrimSpace(s)) {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func optionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validDate(s)
}

func optionalClock(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || dates.ValidClock(s) {
		return nil
	}
	return errors.New("use HH:MM")
}

func validRepeat(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := reminder.ParseRepeat(store.Reminder{Date: dates.Today(), Repeat: s})
	return err
}
