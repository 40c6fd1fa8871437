package reminder

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sadopc/remindr/internal/dates"
	"github.com/sadopc/remindr/internal/store"
)

// SortMethod is the persisted reminder ordering preference.
type SortMethod string

const (
	SortTime     SortMethod = "time"
	SortPriority SortMethod = "priority"
	SortTitle    SortMethod = "title"
	SortCreated  SortMethod = "created"
)

// SortMethods lists the methods in menu order.
var SortMethods = []SortMethod{SortTime, SortPriority, SortTitle, SortCreated}

var sortMethodNames = map[SortMethod]string{
	SortTime:     "By time",
	SortPriority: "By priority",
	SortTitle:    "By title",
	SortCreated:  "By created",
}

// ParseSortMethod returns the method named s, or SortTime when s is empty
// or unknown.
func ParseSortMethod(s string) SortMethod {
	m := SortMethod(strings.TrimSpace(s))
	if _, ok := sortMethodNames[m]; ok {
		return m
	}
	return SortTime
}

// Name is the menu label for m.
func (m SortMethod) Name() string {
	if n, ok := sortMethodNames[m]; ok {
		return n
	}
	return sortMethodNames[SortTime]
}

// Sort stable-sorts list in place. Unknown methods leave it untouched.
func Sort(list []store.Reminder, method SortMethod) {
	switch method {
	case SortTime:
		slices.SortStableFunc(list, compareTime)
	case SortPriority:
		slices.SortStableFunc(list, func(a, b store.Reminder) int {
			if d := PriorityRank(b.Priority) - PriorityRank(a.Priority); d != 0 {
				return d
			}
			return compareTime(a, b)
		})
	case SortTitle:
		c := collate.New(language.Und, collate.IgnoreCase)
		slices.SortStableFunc(list, func(a, b store.Reminder) int {
			return c.CompareString(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	case SortCreated:
		slices.SortStableFunc(list, func(a, b store.Reminder) int {
			return createdAt(b).Compare(createdAt(a))
		})
	}
}

func compareTime(a, b store.Reminder) int {
	return startOf(a).Compare(startOf(b))
}

// startOf is date plus time, 00:00 for all-day reminders. Unparsable
// records sort first.
func startOf(r store.Reminder) time.Time {
	t, err := dates.Combine(r.Date, r.Time)
	if err != nil {
		return time.Time{}
	}
	return t
}

// createdAt parses the ISO timestamp; a missing value is the epoch.
func createdAt(r store.Reminder) time.Time {
	if r.CreatedAt == "" {
		return time.Unix(0, 0)
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05.000Z"} {
		if t, err := time.Parse(layout, r.CreatedAt); err == nil {
			return t
		}
	}
	return time.Unix(0, 0)
}
