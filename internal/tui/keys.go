package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	New      key.Binding
	Edit     key.Binding
	Toggle   key.Binding
	Priority key.Binding
	Delete   key.Binding
	Filter   key.Binding
	Sort     key.Binding
	Focus    key.Binding
	Export   key.Binding

	Start      key.Binding
	Reset      key.Binding
	Work       key.Binding
	ShortBreak key.Binding
	LongBreak  key.Binding
	EditBreak  key.Binding

	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
	NextEvent key.Binding
	MoveEarly key.Binding
	MoveLate  key.Binding
	Grow      key.Binding
	Shrink    key.Binding

	Tab1  key.Binding
	Tab2  key.Binding
	Tab3  key.Binding
	Tab4  key.Binding
	Tab5  key.Binding
	Tab   key.Binding
	Help  key.Binding
	Enter key.Binding
	Back  key.Binding
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Yes   key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Toggle:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "done")),
	Priority: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Filter:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
	Sort:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort")),
	Focus:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "focus")),
	Export:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export")),

	Start:      key.NewBinding(key.WithKeys("s", " "), key.WithHelp("s/space", "start/pause")),
	Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Work:       key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "work")),
	ShortBreak: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "short break")),
	LongBreak:  key.NewBinding(key.WithKeys("B"), key.WithHelp("B", "long break")),
	EditBreak:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "edit break")),

	PrevMonth: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev month")),
	NextMonth: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next month")),
	Today:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "today")),
	NextEvent: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "next event")),
	MoveEarly: key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "move earlier")),
	MoveLate:  key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "move later")),
	Grow:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "extend")),
	Shrink:    key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "shorten")),

	Tab1:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "reminders")),
	Tab2:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "calendar")),
	Tab3:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "pomodoro")),
	Tab4:  key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "stats")),
	Tab5:  key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "settings")),
	Tab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
	Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Yes:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Toggle, k.Focus, k.Start, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Edit, k.Toggle, k.Priority, k.Delete, k.Filter, k.Sort, k.Focus},
		{k.Start, k.Reset, k.Work, k.ShortBreak, k.LongBreak, k.EditBreak},
		{k.PrevMonth, k.NextMonth, k.Today, k.NextEvent, k.MoveEarly, k.MoveLate, k.Grow, k.Shrink},
		{k.Tab1, k.Tab2, k.Tab3, k.Tab4, k.Tab5, k.Export},
		{k.Up, k.Down, k.Enter, k.Back, k.Quit},
	}
}
