package service

import (
	"errors"
	"testing"

	"school-attendance/internal/model"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"9:30", 0, false},
		{"09:3", 0, false},
		{"09-30", 0, false},
		{"ab:cd", 0, false},
		{"", 0, false},
		{" 09:30", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseClock(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseClock(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestHasTimeOverlap(t *testing.T) {
	tests := []struct {
		name         string
		aStart, aEnd string
		bStart, bEnd string
		want         bool
	}{
		{"partial", "09:00", "10:00", "09:30", "10:30", true},
		{"contained", "09:00", "12:00", "10:00", "11:00", true},
		{"identical", "09:00", "10:00", "09:00", "10:00", true},
		{"touching end", "09:00", "10:00", "10:00", "11:00", false},
		{"touching start", "10:00", "11:00", "09:00", "10:00", false},
		{"disjoint", "08:00", "09:00", "13:00", "14:00", false},
		{"unparseable", "9:00", "10:00", "09:00", "10:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasTimeOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("HasTimeOverlap = %v, want %v", got, tt.want)
			}
			if got := HasTimeOverlap(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); got != tt.want {
				t.Errorf("HasTimeOverlap with ranges swapped = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateTimeRange(t *testing.T) {
	if err := ValidateTimeRange("09:00", "10:00"); err != nil {
		t.Errorf("valid range rejected: %v", err)
	}
	for _, r := range [][2]string{{"10:00", "10:00"}, {"11:00", "10:00"}, {"9:00", "10:00"}, {"09:00", "25:00"}} {
		if err := ValidateTimeRange(r[0], r[1]); !errors.Is(err, ErrInvalidTimeRange) {
			t.Errorf("ValidateTimeRange(%s, %s) = %v, want ErrInvalidTimeRange", r[0], r[1], err)
		}
	}
}

func TestFindConflict(t *testing.T) {
	entries := []model.TimetableEntry{
		{ID: "a", Day: "Monday", StartTime: "09:00", EndTime: "10:00", TeacherID: "t1"},
		{ID: "b", Day: "Monday", StartTime: "10:00", EndTime: "11:00", TeacherID: "t2"},
		{ID: "c", Day: "Tuesday", StartTime: "09:00", EndTime: "10:00", TeacherID: "t1", IsCancelled: true},
	}

	t.Run("first in stored order", func(t *testing.T) {
		got := FindConflict(entries, "Monday", "09:30", "10:30", "")
		if got == nil || got.ID != "a" {
			t.Fatalf("expected conflict with a, got %+v", got)
		}
	})

	t.Run("self excluded", func(t *testing.T) {
		got := FindConflict(entries, "Monday", "09:00", "09:45", "a")
		if got != nil {
			t.Fatalf("expected no conflict, got %s", got.ID)
		}
	})

	t.Run("other day ignored", func(t *testing.T) {
		if got := FindConflict(entries, "Wednesday", "09:00", "10:00", ""); got != nil {
			t.Fatalf("expected no conflict, got %s", got.ID)
		}
	})

	t.Run("cancelled entries still occupy the slot", func(t *testing.T) {
		got := FindConflict(entries, "Tuesday", "09:15", "09:45", "")
		if got == nil || got.ID != "c" {
			t.Fatalf("expected conflict with c, got %+v", got)
		}
	})

	t.Run("back to back", func(t *testing.T) {
		if got := FindConflict(entries, "Monday", "11:00", "12:00", ""); got != nil {
			t.Fatalf("expected no conflict, got %s", got.ID)
		}
	})
}

func TestConflictError(t *testing.T) {
	err := &ConflictError{
		TeacherName: "Ms. Rao",
		Entry:       model.TimetableEntry{Day: "Friday", StartTime: "14:00", EndTime: "15:00"},
	}

	want := "Time conflict: Ms. Rao already has class on Friday from 14:00 to 15:00."
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrSchedulingConflict) {
		t.Error("ConflictError should match ErrSchedulingConflict")
	}
}

func TestConflictTeacherName(t *testing.T) {
	roster := map[string]*model.User{
		"t1": {ID: "t1", Name: "Ms. Rao"},
		"t2": {ID: "t2"},
	}

	tests := []struct {
		teacherID string
		want      string
	}{
		{"t1", "Ms. Rao"},
		{"t2", "t2"},
		{"ghost", "ghost"},
		{"", "Another teacher"},
	}
	for _, tt := range tests {
		got := conflictTeacherName(&model.TimetableEntry{TeacherID: tt.teacherID}, roster)
		if got != tt.want {
			t.Errorf("conflictTeacherName(%q) = %q, want %q", tt.teacherID, got, tt.want)
		}
	}
}
