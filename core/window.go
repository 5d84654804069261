package core

import (
	"fmt"
	"time"

	"github.com/sprintsync/sprintsync/schema"
)

// ParseWorklogTime parses a worklog timestamp, which carries a numeric UTC
// offset and optional fractional seconds.
func ParseWorklogTime(s string) (time.Time, error) {
	t, err := time.Parse(schema.WorklogTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("worklog time %q: %w", s, ErrMalformedTimestamp)
	}
	return t.UTC(), nil
}

// ParseSprintTime parses a sprint boundary timestamp, which ends in a literal
// Z and reads as UTC.
func ParseSprintTime(s string) (time.Time, error) {
	t, err := time.Parse(schema.SprintTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("sprint time %q: %w", s, ErrMalformedTimestamp)
	}
	return t, nil
}

// WorklogInWindow reports whether the worklog's start instant falls inside
// the sprint window. Both boundaries are inclusive.
func WorklogInWindow(w schema.Worklog, sp schema.Sprint) (bool, error) {
	started, err := ParseWorklogTime(w.Started)
	if err != nil {
		return false, err
	}
	start, err := ParseSprintTime(sp.StartDate)
	if err != nil {
		return false, err
	}
	end, err := ParseSprintTime(sp.EndDate)
	if err != nil {
		return false, err
	}
	return !started.Before(start) && !started.After(end), nil
}

// SprintTimeSpent sums the seconds logged inside the sprint's window. An
// issue with no qualifying worklogs yields 0, not null, so aggregations over
// the column stay additive. A sprint missing either boundary (a future sprint
// that has not started) can attribute no time and also yields 0.
func SprintTimeSpent(worklogs []schema.Worklog, sp schema.Sprint) (int64, error) {
	if sp.StartDate == "" || sp.EndDate == "" {
		return 0, nil
	}
	var total int64
	for _, w := range worklogs {
		in, err := WorklogInWindow(w, sp)
		if err != nil {
			return 0, err
		}
		if in {
			total += w.TimeSpentSeconds
		}
	}
	return total, nil
}
