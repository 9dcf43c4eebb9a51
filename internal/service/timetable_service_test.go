package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"school-attendance/internal/dto"
	"school-attendance/internal/event"
	"school-attendance/internal/model"
)

// ── test helpers ──

func setupTimetableService(entries ...model.TimetableEntry) (TimetableService, *testStore) {
	store := newTestStore()
	store.timetable.items = entries
	store.users.items = []model.User{
		teacherUser("t1", "Ms. Rao", "Physics"),
		teacherUser("t2", "Mr. Khan", "Maths"),
	}
	return NewTimetableService(store.repo, store.events, zap.NewNop()), store
}

func mondayNine(id, teacherID string) model.TimetableEntry {
	return model.TimetableEntry{ID: id, Subject: "Physics", Day: "Monday", StartTime: "09:00", EndTime: "10:00", TeacherID: teacherID}
}

func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = prev })
}

// ════════════════════════════════════════════════════════════
// ScheduleLecture
// ════════════════════════════════════════════════════════════

func TestTimetableService_ScheduleLecture_Success(t *testing.T) {
	svc, store := setupTimetableService()

	got, err := svc.ScheduleLecture(context.Background(), "t1", &dto.CreateTimetableRequest{
		Subject: "  Physics ", Day: "Monday", StartTime: "09:00", EndTime: "10:00",
	})
	if err != nil {
		t.Fatalf("ScheduleLecture: %v", err)
	}
	if got.ID == "" || got.Subject != "Physics" || got.TeacherID != "t1" || got.IsCancelled {
		t.Errorf("unexpected entry: %+v", got)
	}

	stored := store.timetable.snapshot()
	if len(stored) != 1 || stored[0].ID != got.ID {
		t.Fatalf("entry not stored: %+v", stored)
	}
	if types := store.events.types(); len(types) != 1 || types[0] != event.TimetableUpdated {
		t.Errorf("expected one timetable event, got %v", types)
	}
}

func TestTimetableService_ScheduleLecture_ValidationOrder(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.CreateTimetableRequest
		wantErr error
		wantMsg string
	}{
		{
			name:    "missing subject",
			req:     dto.CreateTimetableRequest{Subject: "  ", Day: "Monday", StartTime: "99:99", EndTime: "10:00"},
			wantErr: ErrInvalidInput,
			wantMsg: "Subject, day and time are required",
		},
		{
			name:    "missing time",
			req:     dto.CreateTimetableRequest{Subject: "Physics", Day: "Monday", StartTime: "09:00"},
			wantErr: ErrInvalidInput,
			wantMsg: "Subject, day and time are required",
		},
		{
			name:    "bad format beats conflict",
			req:     dto.CreateTimetableRequest{Subject: "Physics", Day: "Monday", StartTime: "9:30", EndTime: "10:00"},
			wantErr: ErrInvalidTimeRange,
			wantMsg: "Invalid time range",
		},
		{
			name:    "reversed range",
			req:     dto.CreateTimetableRequest{Subject: "Physics", Day: "Monday", StartTime: "10:00", EndTime: "09:00"},
			wantErr: ErrInvalidTimeRange,
			wantMsg: "Invalid time range",
		},
		{
			name:    "overlap with another teacher",
			req:     dto.CreateTimetableRequest{Subject: "Maths", Day: "Monday", StartTime: "09:30", EndTime: "10:30"},
			wantErr: ErrSchedulingConflict,
			wantMsg: "Time conflict: Ms. Rao already has class on Monday from 09:00 to 10:00.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := setupTimetableService(mondayNine("e1", "t1"))

			_, err := svc.ScheduleLecture(context.Background(), "t2", &tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantMsg)
			}
			if store.timetable.saves != 0 {
				t.Error("rejected write must not save")
			}
			if len(store.events.types()) != 0 {
				t.Error("rejected write must not publish")
			}
		})
	}
}

func TestTimetableService_ScheduleLecture_ConflictNameFallbacks(t *testing.T) {
	t.Run("unknown teacher id", func(t *testing.T) {
		svc, _ := setupTimetableService(mondayNine("e1", "t9"))
		_, err := svc.ScheduleLecture(context.Background(), "t1", &dto.CreateTimetableRequest{
			Subject: "Physics", Day: "Monday", StartTime: "09:00", EndTime: "09:30",
		})
		want := "Time conflict: t9 already has class on Monday from 09:00 to 10:00."
		if err == nil || err.Error() != want {
			t.Errorf("got %v, want %q", err, want)
		}
	})

	t.Run("no teacher on entry", func(t *testing.T) {
		svc, _ := setupTimetableService(mondayNine("e1", ""))
		_, err := svc.ScheduleLecture(context.Background(), "t1", &dto.CreateTimetableRequest{
			Subject: "Physics", Day: "Monday", StartTime: "09:00", EndTime: "09:30",
		})
		want := "Time conflict: Another teacher already has class on Monday from 09:00 to 10:00."
		if err == nil || err.Error() != want {
			t.Errorf("got %v, want %q", err, want)
		}
	})
}

func TestTimetableService_ScheduleLecture_BackToBack(t *testing.T) {
	svc, store := setupTimetableService(mondayNine("e1", "t1"))

	_, err := svc.ScheduleLecture(context.Background(), "t2", &dto.CreateTimetableRequest{
		Subject: "Maths", Day: "Monday", StartTime: "10:00", EndTime: "11:00",
	})
	if err != nil {
		t.Fatalf("adjacent slot should be accepted: %v", err)
	}
	if len(store.timetable.snapshot()) != 2 {
		t.Error("expected two entries")
	}
}

func TestTimetableService_ScheduleLecture_StorageFailure(t *testing.T) {
	svc, store := setupTimetableService()
	boom := errors.New("disk full")
	store.timetable.saveErr = boom

	_, err := svc.ScheduleLecture(context.Background(), "t1", &dto.CreateTimetableRequest{
		Subject: "Physics", Day: "Monday", StartTime: "09:00", EndTime: "10:00",
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected storage error, got %v", err)
	}
	if len(store.events.types()) != 0 {
		t.Error("failed write must not publish")
	}
}

// ════════════════════════════════════════════════════════════
// UpdateLecture
// ════════════════════════════════════════════════════════════

func TestTimetableService_UpdateLecture(t *testing.T) {
	ctx := context.Background()

	t.Run("not found before forbidden", func(t *testing.T) {
		svc, _ := setupTimetableService(mondayNine("e1", "t1"))
		_, err := svc.UpdateLecture(ctx, "missing", "t2", &dto.UpdateTimetableRequest{Subject: strPtr("X")})
		if !errors.Is(err, ErrTimetableNotFound) {
			t.Errorf("expected ErrTimetableNotFound, got %v", err)
		}
	})

	t.Run("other teacher forbidden", func(t *testing.T) {
		svc, _ := setupTimetableService(mondayNine("e1", "t1"))
		_, err := svc.UpdateLecture(ctx, "e1", "t2", &dto.UpdateTimetableRequest{Subject: strPtr("X")})
		if !errors.Is(err, ErrTimetableForbidden) {
			t.Errorf("expected ErrTimetableForbidden, got %v", err)
		}
	})

	t.Run("no changes", func(t *testing.T) {
		svc, _ := setupTimetableService(mondayNine("e1", "t1"))
		_, err := svc.UpdateLecture(ctx, "e1", "t1", &dto.UpdateTimetableRequest{})
		if !errors.Is(err, ErrInvalidInput) || err.Error() != "No changes provided" {
			t.Errorf("expected no-changes error, got %v", err)
		}
	})

	t.Run("self excluded from overlap", func(t *testing.T) {
		svc, store := setupTimetableService(mondayNine("e1", "t1"))
		got, err := svc.UpdateLecture(ctx, "e1", "t1", &dto.UpdateTimetableRequest{EndTime: strPtr("10:30")})
		if err != nil {
			t.Fatalf("UpdateLecture: %v", err)
		}
		if got.StartTime != "09:00" || got.EndTime != "10:30" || got.Subject != "Physics" {
			t.Errorf("unexpected entry: %+v", got)
		}
		if store.timetable.snapshot()[0].EndTime != "10:30" {
			t.Error("update not stored")
		}
	})

	t.Run("conflict with another entry", func(t *testing.T) {
		other := model.TimetableEntry{ID: "e2", Subject: "Maths", Day: "Tuesday", StartTime: "09:00", EndTime: "10:00", TeacherID: "t2"}
		svc, store := setupTimetableService(mondayNine("e1", "t1"), other)
		_, err := svc.UpdateLecture(ctx, "e1", "t1", &dto.UpdateTimetableRequest{Day: strPtr("Tuesday")})
		var ce *ConflictError
		if !errors.As(err, &ce) || ce.Entry.ID != "e2" || ce.TeacherName != "Mr. Khan" {
			t.Fatalf("expected conflict with e2, got %v", err)
		}
		if store.timetable.saves != 0 {
			t.Error("rejected update must not save")
		}
	})

	t.Run("invalid range", func(t *testing.T) {
		svc, _ := setupTimetableService(mondayNine("e1", "t1"))
		_, err := svc.UpdateLecture(ctx, "e1", "t1", &dto.UpdateTimetableRequest{StartTime: strPtr("11:00")})
		if !errors.Is(err, ErrInvalidTimeRange) {
			t.Errorf("expected ErrInvalidTimeRange, got %v", err)
		}
	})

	t.Run("blank subject", func(t *testing.T) {
		svc, _ := setupTimetableService(mondayNine("e1", "t1"))
		_, err := svc.UpdateLecture(ctx, "e1", "t1", &dto.UpdateTimetableRequest{Subject: strPtr("   ")})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("cancel toggle", func(t *testing.T) {
		at := time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
		fixClock(t, at)
		svc, _ := setupTimetableService(mondayNine("e1", "t1"))
		got, err := svc.UpdateLecture(ctx, "e1", "t1", &dto.UpdateTimetableRequest{
			IsCancelled: boolPtr(true), CancelReason: strPtr("  sick "),
		})
		if err != nil {
			t.Fatalf("UpdateLecture: %v", err)
		}
		if !got.IsCancelled || got.CancelReason == nil || *got.CancelReason != "sick" {
			t.Errorf("unexpected cancel fields: %+v", got)
		}
		if got.CancelledAt == nil || !got.CancelledAt.Equal(at) {
			t.Errorf("CancelledAt = %v, want %v", got.CancelledAt, at)
		}
	})
}

// ════════════════════════════════════════════════════════════
// ToggleCancel / DeleteLecture
// ════════════════════════════════════════════════════════════

func TestTimetableService_ToggleCancel(t *testing.T) {
	ctx := context.Background()
	// a stored overlap must not block cancel/resume
	overlapping := model.TimetableEntry{ID: "e2", Subject: "Maths", Day: "Monday", StartTime: "09:30", EndTime: "10:30", TeacherID: "t2"}
	svc, store := setupTimetableService(mondayNine("e1", "t1"), overlapping)

	got, err := svc.ToggleCancel(ctx, "e1", "t1", true, " holiday ")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !got.IsCancelled || *got.CancelReason != "holiday" || got.CancelledAt == nil {
		t.Errorf("unexpected cancelled entry: %+v", got)
	}

	got, err = svc.ToggleCancel(ctx, "e1", "t1", false, "")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if got.IsCancelled || got.CancelReason != nil || got.CancelledAt != nil {
		t.Errorf("resume should clear cancel fields: %+v", got)
	}
	if stored := store.timetable.snapshot()[0]; stored.IsCancelled || stored.CancelledAt != nil {
		t.Errorf("stored entry still cancelled: %+v", stored)
	}

	if _, err := svc.ToggleCancel(ctx, "e1", "t2", true, ""); !errors.Is(err, ErrTimetableForbidden) {
		t.Errorf("expected ErrTimetableForbidden, got %v", err)
	}
	if _, err := svc.ToggleCancel(ctx, "nope", "t1", true, ""); !errors.Is(err, ErrTimetableNotFound) {
		t.Errorf("expected ErrTimetableNotFound, got %v", err)
	}
}

func TestTimetableService_DeleteLecture(t *testing.T) {
	ctx := context.Background()
	svc, store := setupTimetableService(mondayNine("e1", "t1"), mondayNine("e2", "t2"))

	if err := svc.DeleteLecture(ctx, "e1", "t2"); !errors.Is(err, ErrTimetableForbidden) {
		t.Errorf("expected ErrTimetableForbidden, got %v", err)
	}
	if err := svc.DeleteLecture(ctx, "e1", "t1"); err != nil {
		t.Fatalf("DeleteLecture: %v", err)
	}
	stored := store.timetable.snapshot()
	if len(stored) != 1 || stored[0].ID != "e2" {
		t.Errorf("unexpected remaining entries: %+v", stored)
	}
	if err := svc.DeleteLecture(ctx, "e1", "t1"); !errors.Is(err, ErrTimetableNotFound) {
		t.Errorf("expected ErrTimetableNotFound, got %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// List
// ════════════════════════════════════════════════════════════

func TestTimetableService_List(t *testing.T) {
	ctx := context.Background()
	svc, store := setupTimetableService(mondayNine("e1", "t1"), mondayNine("e2", "t2"), mondayNine("e3", "t9"), mondayNine("e4", ""))
	store.users.items = append(store.users.items, model.User{ID: "t3", Username: "khan", Role: model.RoleTeacher})
	store.timetable.items = append(store.timetable.items, mondayNine("e5", "t3"))

	t.Run("teacher sees own", func(t *testing.T) {
		got, err := svc.List(ctx, Requester{ID: "t1", Role: model.RoleTeacher}, "")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 1 || got[0].ID != "e1" || got[0].TeacherName != "" {
			t.Errorf("unexpected listing: %+v", got)
		}
	})

	t.Run("admin sees all", func(t *testing.T) {
		got, _ := svc.List(ctx, Requester{ID: "a1", Role: model.RoleAdmin}, "")
		if len(got) != 5 {
			t.Errorf("expected 5 entries, got %d", len(got))
		}
	})

	t.Run("scope all names teachers", func(t *testing.T) {
		got, err := svc.List(ctx, Requester{ID: "t1", Role: model.RoleTeacher}, "all")
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		want := map[string]string{"e1": "Ms. Rao", "e2": "Mr. Khan", "e3": "t9", "e4": "N/A", "e5": "khan"}
		if len(got) != len(want) {
			t.Fatalf("expected %d entries, got %d", len(want), len(got))
		}
		for _, e := range got {
			if e.TeacherName != want[e.ID] {
				t.Errorf("%s teacher_name = %q, want %q", e.ID, e.TeacherName, want[e.ID])
			}
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		store.timetable.readErr = errors.New("down")
		defer func() { store.timetable.readErr = nil }()
		if _, err := svc.List(ctx, Requester{ID: "t1", Role: model.RoleTeacher}, ""); err == nil {
			t.Error("expected error")
		}
	})
}
