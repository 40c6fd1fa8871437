// Package export writes reminders and pomodoro sessions to CSV, JSON or YAML.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/remindr/internal/pomodoro"
	"github.com/sadopc/remindr/internal/store"
)

type Document struct {
	ExportedAt string        `json:"exported_at" yaml:"exported_at"`
	Count      int           `json:"count" yaml:"count"`
	Reminders  []reminderRow `json:"reminders" yaml:"reminders"`
	Sessions   []sessionRow  `json:"sessions,omitempty" yaml:"sessions,omitempty"`
}

type reminderRow struct {
	ID            string `json:"id" yaml:"id"`
	BlockID       string `json:"block_id,omitempty" yaml:"block_id,omitempty"`
	Title         string `json:"title" yaml:"title"`
	Note          string `json:"note,omitempty" yaml:"note,omitempty"`
	Date          string `json:"date" yaml:"date"`
	EndDate       string `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	Time          string `json:"time,omitempty" yaml:"time,omitempty"`
	EndTime       string `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Priority      string `json:"priority" yaml:"priority"`
	Completed     bool   `json:"completed" yaml:"completed"`
	PomodoroCount int    `json:"pomodoro_count,omitempty" yaml:"pomodoro_count,omitempty"`
	Repeat        string `json:"repeat,omitempty" yaml:"repeat,omitempty"`
	CreatedAt     string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

type sessionRow struct {
	ID          int64  `json:"id" yaml:"id"`
	Type        string `json:"type" yaml:"type"`
	Duration    int    `json:"duration_minutes" yaml:"duration_minutes"`
	Actual      int    `json:"actual_minutes" yaml:"actual_minutes"`
	Formatted   string `json:"duration" yaml:"duration"`
	Timestamp   string `json:"timestamp" yaml:"timestamp"`
	EventID     string `json:"event_id,omitempty" yaml:"event_id,omitempty"`
	EventTitle  string `json:"event_title,omitempty" yaml:"event_title,omitempty"`
	IsLongBreak bool   `json:"is_long_break,omitempty" yaml:"is_long_break,omitempty"`
	Completed   bool   `json:"completed" yaml:"completed"`
}

// NewDocument builds the export document. Reminders are ordered by date,
// time and ID so output is stable.
func NewDocument(reminders []store.Reminder, sessions []store.SessionRecord, now time.Time) Document {
	doc := Document{
		ExportedAt: now.UTC().Format(time.RFC3339),
		Count:      len(reminders),
	}
	sorted := append([]store.Reminder(nil), reminders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.ID < b.ID
	})
	for _, r := range sorted {
		doc.Reminders = append(doc.Reminders, reminderRow{
			ID:            r.ID,
			BlockID:       r.BlockID,
			Title:         r.Title,
			Note:          r.Note,
			Date:          r.Date,
			EndDate:       r.EndDate,
			Time:          r.Time,
			EndTime:       r.EndTime,
			Priority:      r.Priority,
			Completed:     r.Completed,
			PomodoroCount: r.PomodoroCount,
			Repeat:        r.Repeat,
			CreatedAt:     r.CreatedAt,
		})
	}
	for _, s := range sessions {
		doc.Sessions = append(doc.Sessions, sessionRow{
			ID:          s.ID,
			Type:        s.Type,
			Duration:    s.DurationMinutes,
			Actual:      s.ActualMinutes,
			Formatted:   pomodoro.FormatDuration(s.DurationMinutes),
			Timestamp:   s.Timestamp.Local().Format(time.RFC3339),
			EventID:     s.EventID,
			EventTitle:  s.EventTitle,
			IsLongBreak: s.IsLongBreak,
			Completed:   s.Completed,
		})
	}
	return doc
}

// Format is an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts csv, json, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Write encodes the document to w. CSV carries reminders only.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, doc)
	case FormatJSON:
		return WriteJSON(w, doc)
	case FormatYAML:
		return WriteYAML(w, doc)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// ToFile writes doc to path, picking the format from the extension.
func ToFile(path string, doc Document) error {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := Write(out, f, doc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
