package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

func WriteCSV(out io.Writer, doc Document) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"ID", "Title", "Date", "End Date", "Time", "End Time", "Priority", "Completed", "Pomodoros", "Note"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range doc.Reminders {
		row := []string{
			r.ID,
			r.Title,
			r.Date,
			r.EndDate,
			r.Time,
			r.EndTime,
			r.Priority,
			strconv.FormatBool(r.Completed),
			strconv.Itoa(r.PomodoroCount),
			r.Note,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
