package store

import "time"

// Priority levels accepted on a reminder.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
	PriorityNone   = "none"
)

// Reminder is one record of the keyed reminder store. Optional fields are
// empty when absent and omitted from the stored document.
type Reminder struct {
	ID            string `json:"id"`
	BlockID       string `json:"blockId,omitempty"`
	Title         string `json:"title"`
	Note          string `json:"note,omitempty"`
	Date          string `json:"date"`
	EndDate       string `json:"endDate,omitempty"`
	Time          string `json:"time,omitempty"`
	EndTime       string `json:"endTime,omitempty"`
	Completed     bool   `json:"completed"`
	Priority      string `json:"priority,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	PomodoroCount int    `json:"pomodoroCount,omitempty"`
	Repeat        string `json:"repeat,omitempty"` // RFC 5545 RRULE
}

// Snapshot is the full reminder collection keyed by reminder ID.
type Snapshot map[string]Reminder

// Clone returns a copy that can be mutated without touching s.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Block is a note block a reminder can be attached to.
type Block struct {
	ID        string
	Content   string
	CreatedAt time.Time
}

// Session record types.
const (
	SessionWork  = "work"
	SessionBreak = "break"
)

// SessionRecord is one entry of the append-only pomodoro log.
type SessionRecord struct {
	ID              int64
	Type            string
	DurationMinutes int
	ActualMinutes   int
	Timestamp       time.Time
	EventID         string
	EventTitle      string
	IsLongBreak     bool
	Completed       bool
}

type Setting struct {
	Key   string
	Value string
}
