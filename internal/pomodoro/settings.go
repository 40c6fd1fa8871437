package pomodoro

import "strconv"

// Setting keys in the store's settings table. Durations are minutes.
const (
	KeyWork       = "pomodoro_work"
	KeyBreak      = "pomodoro_break"
	KeyLongBreak  = "pomodoro_long_break"
	KeyCount      = "pomodoro_count"
	KeyAutoBreak  = "auto_break"
	KeyRecordWork = "record_work_cycles"
	KeyWeekStart  = "week_start"
	KeyWorkSound  = "work_sound"
	KeyEndSound   = "end_sound"
)

// Settings configures one timer.
type Settings struct {
	WorkMinutes      int
	BreakMinutes     int
	LongBreakMinutes int
	LongBreakEvery   int
	AutoBreak        bool
	RecordWork       bool
}

func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:      25,
		BreakMinutes:     5,
		LongBreakMinutes: 15,
		LongBreakEvery:   4,
	}
}

// BreakMinutesFor returns the configured length of a break phase.
func (s Settings) BreakMinutesFor(p Phase) int {
	if p == LongBreak {
		return s.LongBreakMinutes
	}
	return s.BreakMinutes
}

// SettingsReader is the part of the settings store LoadSettings needs.
type SettingsReader interface {
	SettingInt(key string, fallback int) int
	SettingOn(key string, fallback bool) bool
}

// SettingsWriter persists changed values.
type SettingsWriter interface {
	SetSetting(key, value string) error
}

// LoadSettings reads timer settings, falling back to defaults for missing
// or non-positive values.
func LoadSettings(r SettingsReader) Settings {
	d := DefaultSettings()
	s := Settings{
		WorkMinutes:      positive(r.SettingInt(KeyWork, d.WorkMinutes), d.WorkMinutes),
		BreakMinutes:     positive(r.SettingInt(KeyBreak, d.BreakMinutes), d.BreakMinutes),
		LongBreakMinutes: positive(r.SettingInt(KeyLongBreak, d.LongBreakMinutes), d.LongBreakMinutes),
		LongBreakEvery:   positive(r.SettingInt(KeyCount, d.LongBreakEvery), d.LongBreakEvery),
		AutoBreak:        r.SettingOn(KeyAutoBreak, d.AutoBreak),
		RecordWork:       r.SettingOn(KeyRecordWork, d.RecordWork),
	}
	return s
}

// SaveBreakSettings writes both break lengths back.
func SaveBreakSettings(w SettingsWriter, s Settings) error {
	if err := w.SetSetting(KeyBreak, strconv.Itoa(s.BreakMinutes)); err != nil {
		return err
	}
	return w.SetSetting(KeyLongBreak, strconv.Itoa(s.LongBreakMinutes))
}

func positive(n, fallback int) int {
	if n <= 0 {
		return fallback
	}
	return n
}
