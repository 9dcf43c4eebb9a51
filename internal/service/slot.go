package service

import (
	"errors"
	"fmt"
	"time"

	"school-attendance/internal/model"
)

// ── timetable slot checks ──

var (
	// ErrInvalidTimeRange start or end is not HH:MM, or start is not before end
	ErrInvalidTimeRange = errors.New("Invalid time range")
	// ErrSchedulingConflict matched by every *ConflictError
	ErrSchedulingConflict = errors.New("scheduling conflict")
)

// ConflictError a requested slot overlaps an existing lecture
type ConflictError struct {
	TeacherName string
	Entry       model.TimetableEntry
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Time conflict: %s already has class on %s from %s to %s.",
		e.TeacherName, e.Entry.Day, e.Entry.StartTime, e.Entry.EndTime)
}

// Is lets errors.Is(err, ErrSchedulingConflict) match
func (e *ConflictError) Is(target error) bool {
	return target == ErrSchedulingConflict
}

// ParseClock converts a 24h "HH:MM" string to minutes since midnight.
// Exactly two digits on each side are required.
func ParseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// HasTimeOverlap reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
// Any unparseable bound means no overlap.
func HasTimeOverlap(aStart, aEnd, bStart, bEnd string) bool {
	as, ok1 := ParseClock(aStart)
	ae, ok2 := ParseClock(aEnd)
	bs, ok3 := ParseClock(bStart)
	be, ok4 := ParseClock(bEnd)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	return as < be && bs < ae
}

// ValidateTimeRange both bounds parse and start < end
func ValidateTimeRange(start, end string) error {
	s, ok1 := ParseClock(start)
	e, ok2 := ParseClock(end)
	if !ok1 || !ok2 || s >= e {
		return ErrInvalidTimeRange
	}
	return nil
}

// FindConflict returns the first entry, in stored order, on day whose
// window overlaps [start,end). excludeID skips the entry being edited.
// Teacher identity is not considered.
func FindConflict(entries []model.TimetableEntry, day, start, end, excludeID string) *model.TimetableEntry {
	for i := range entries {
		e := &entries[i]
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		if e.Day != day {
			continue
		}
		if HasTimeOverlap(start, end, e.StartTime, e.EndTime) {
			return e
		}
	}
	return nil
}

// conflictTeacherName roster name, then the entry's teacher id, then a placeholder
func conflictTeacherName(entry *model.TimetableEntry, roster map[string]*model.User) string {
	if u, ok := roster[entry.TeacherID]; ok && u.Name != "" {
		return u.Name
	}
	if entry.TeacherID != "" {
		return entry.TeacherID
	}
	return "Another teacher"
}
