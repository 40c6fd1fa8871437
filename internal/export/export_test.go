package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/remindr/internal/store"
)

func sampleDoc() Document {
	reminders := []store.Reminder{
		{ID: "b", Title: "Dentist", Date: "2024-01-12", Time: "14:00", Priority: store.PriorityHigh},
		{ID: "a", Title: "Trip, with comma", Date: "2024-01-10", EndDate: "2024-01-12", Priority: store.PriorityNone, Note: "pack \"light\""},
		{ID: "c", Title: "Done thing", Date: "2024-01-01", Completed: true, PomodoroCount: 3, Priority: store.PriorityLow},
	}
	sessions := []store.SessionRecord{
		{ID: 1, Type: store.SessionWork, DurationMinutes: 25, ActualMinutes: 25, Timestamp: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), EventID: "a", EventTitle: "Trip", Completed: true},
		{ID: 2, Type: store.SessionBreak, DurationMinutes: 90, ActualMinutes: 90, Timestamp: time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC), IsLongBreak: true, Completed: true},
	}
	return NewDocument(reminders, sessions, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))
}

func TestNewDocumentOrder(t *testing.T) {
	doc := sampleDoc()
	if doc.Count != 3 {
		t.Fatalf("count = %d", doc.Count)
	}
	var got []string
	for _, r := range doc.Reminders {
		got = append(got, r.ID)
	}
	if strings.Join(got, ",") != "c,a,b" {
		t.Fatalf("order = %v", got)
	}
	if doc.Sessions[1].Formatted != "1h 30m" {
		t.Fatalf("formatted = %q", doc.Sessions[1].Formatted)
	}
}

// ============================================================
// CSV
// ============================================================

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleDoc()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	if records[0][0] != "ID" || records[0][1] != "Title" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	trip := records[2]
	if trip[1] != "Trip, with comma" || trip[3] != "2024-01-12" || trip[9] != `pack "light"` {
		t.Fatalf("quoting lost: %v", trip)
	}
	done := records[1]
	if done[7] != "true" || done[8] != "3" {
		t.Fatalf("unexpected completed row: %v", done)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, NewDocument(nil, nil, time.Now())); err != nil {
		t.Fatal(err)
	}
	records, _ := csv.NewReader(&buf).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d rows", len(records))
	}
}

// ============================================================
// JSON
// ============================================================

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleDoc()); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded["exported_at"] != "2024-01-15T12:00:00Z" {
		t.Fatalf("exported_at = %v", decoded["exported_at"])
	}
	reminders := decoded["reminders"].([]any)
	first := reminders[0].(map[string]any)
	if first["pomodoro_count"] != float64(3) {
		t.Fatalf("pomodoro_count = %v", first["pomodoro_count"])
	}
	second := reminders[1].(map[string]any)
	if _, ok := second["time"]; ok {
		t.Fatal("empty time should be omitted")
	}
	sessions := decoded["sessions"].([]any)
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d", len(sessions))
	}
}

// ============================================================
// YAML
// ============================================================

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, sampleDoc()); err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Count     int `yaml:"count"`
		Reminders []struct {
			ID       string `yaml:"id"`
			Priority string `yaml:"priority"`
		} `yaml:"reminders"`
		Sessions []struct {
			Type        string `yaml:"type"`
			IsLongBreak bool   `yaml:"is_long_break"`
		} `yaml:"sessions"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if decoded.Count != 3 || decoded.Reminders[2].Priority != "high" {
		t.Fatalf("unexpected decode: %+v", decoded)
	}
	if !decoded.Sessions[1].IsLongBreak {
		t.Fatal("long break flag lost")
	}
}

// ============================================================
// Files
// ============================================================

func TestToFilePicksFormat(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.csv", "out.json", "out.yml", "out.yaml"} {
		path := filepath.Join(dir, name)
		if err := ToFile(path, sampleDoc()); err != nil {
			t.Fatalf("ToFile(%s): %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			t.Fatalf("%s not written", name)
		}
	}

	if err := ToFile(filepath.Join(dir, "out.txt"), sampleDoc()); err == nil {
		t.Fatal("expected error for unknown extension")
	}
}

func TestToFileBadPath(t *testing.T) {
	err := ToFile("/nonexistent/dir/out.json", sampleDoc())
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"csv": FormatCSV, ".JSON": FormatJSON, "yml": FormatYAML}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error")
	}
}
