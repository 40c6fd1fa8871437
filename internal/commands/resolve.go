package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/sadopc/remindr/internal/app"
	"github.com/sadopc/remindr/internal/reminder"
)

// resolveID expands a unique ID prefix, as printed by list, to a full
// reminder ID.
func resolveID(ctx context.Context, a *app.App, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("reminder id required")
	}
	snap, err := a.Reminders.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	if _, ok := snap[prefix]; ok {
		return prefix, nil
	}

	var matches []string
	for id := range snap {
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", reminder.ErrMissingReminder, prefix)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("ambiguous id %q matches %d reminders", prefix, len(matches))
}
