package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"school-attendance/internal/dto"
	"school-attendance/internal/event"
	"school-attendance/internal/model"
	"school-attendance/internal/repository"
	"school-attendance/pkg/metrics"
)

// ── timetable errors ──

var (
	ErrTimetableNotFound  = errors.New("Timetable entry not found")
	ErrTimetableForbidden = errors.New("Forbidden")
)

const (
	msgTimetableRequired = "Subject, day and time are required"
	msgNoChanges         = "No changes provided"
	scopeAll             = "all"
)

// ── TimetableService ────────────────────────────────────────
//
// Every write runs read → validate → write under the timetable lock:
//   required fields → time range → overlap with any entry on the same day
//   (every teacher, cancelled entries included) → save.
// ─────────────────────────────────────────────────────────────

// TimetableService weekly lecture scheduling
type TimetableService interface {
	// ScheduleLecture books a new slot for the teacher
	ScheduleLecture(ctx context.Context, teacherID string, req *dto.CreateTimetableRequest) (*dto.TimetableEntryResponse, error)
	// UpdateLecture edits the teacher's own slot; the slot itself is excluded from the overlap check
	UpdateLecture(ctx context.Context, id, teacherID string, req *dto.UpdateTimetableRequest) (*dto.TimetableEntryResponse, error)
	// ToggleCancel cancels or resumes without re-checking overlap
	ToggleCancel(ctx context.Context, id, teacherID string, cancelled bool, reason string) (*dto.TimetableEntryResponse, error)
	// DeleteLecture removes the teacher's own slot
	DeleteLecture(ctx context.Context, id, teacherID string) error
	// List role-scoped listing; scope "all" adds teacher names
	List(ctx context.Context, requester Requester, scope string) ([]dto.TimetableEntryResponse, error)
}

type timetableService struct {
	repo   *repository.Repository
	events event.Publisher
	logger *zap.Logger
}

// NewTimetableService creates a TimetableService
func NewTimetableService(repo *repository.Repository, events event.Publisher, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, events: events, logger: logger}
}

// ════════════════════════════════════════════════════════════
// ScheduleLecture
// ════════════════════════════════════════════════════════════

func (s *timetableService) ScheduleLecture(ctx context.Context, teacherID string, req *dto.CreateTimetableRequest) (*dto.TimetableEntryResponse, error) {
	subject := strings.TrimSpace(req.Subject)
	day := strings.TrimSpace(req.Day)

	// 1. required fields
	if subject == "" || day == "" || req.StartTime == "" || req.EndTime == "" {
		return nil, invalidInput(msgTimetableRequired)
	}
	// 2. time range
	if err := ValidateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	entry := model.TimetableEntry{
		ID:        "tt-" + uuid.NewString(),
		Subject:   subject,
		Day:       day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		TeacherID: teacherID,
	}

	err := repository.WithLock(ctx, s.repo.Locker, repository.CollectionTimetable, func() error {
		entries, err := s.repo.Timetable.GetAll(ctx)
		if err != nil {
			return err
		}

		// 3. overlap
		if conflict := FindConflict(entries, day, req.StartTime, req.EndTime, ""); conflict != nil {
			return s.conflictError(ctx, conflict)
		}

		// 4. commit
		return s.repo.Timetable.Save(ctx, append(entries, entry))
	})
	if err != nil {
		return nil, s.logWriteError("schedule lecture", err)
	}

	s.logger.Info("lecture scheduled",
		zap.String("id", entry.ID), zap.String("teacher_id", teacherID),
		zap.String("day", day), zap.String("start", entry.StartTime), zap.String("end", entry.EndTime))
	publish(ctx, s.events, event.TimetableUpdated, teacherID)

	resp := toTimetableResponse(&entry, "")
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// UpdateLecture
// ════════════════════════════════════════════════════════════

func (s *timetableService) UpdateLecture(ctx context.Context, id, teacherID string, req *dto.UpdateTimetableRequest) (*dto.TimetableEntryResponse, error) {
	var updated model.TimetableEntry

	err := repository.WithLock(ctx, s.repo.Locker, repository.CollectionTimetable, func() error {
		entries, err := s.repo.Timetable.GetAll(ctx)
		if err != nil {
			return err
		}

		idx, err := ownedEntry(entries, id, teacherID)
		if err != nil {
			return err
		}
		existing := entries[idx]

		hasCancelToggle := req.IsCancelled != nil
		hasScheduleUpdate := req.Subject != nil || req.Day != nil || req.StartTime != nil || req.EndTime != nil
		if !hasCancelToggle && !hasScheduleUpdate {
			return invalidInput(msgNoChanges)
		}

		next := existing
		if req.Subject != nil {
			next.Subject = strings.TrimSpace(*req.Subject)
		}
		if req.Day != nil {
			next.Day = strings.TrimSpace(*req.Day)
		}
		if req.StartTime != nil {
			next.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			next.EndTime = *req.EndTime
		}
		if next.Subject == "" || next.Day == "" {
			return invalidInput(msgTimetableRequired)
		}

		if err := ValidateTimeRange(next.StartTime, next.EndTime); err != nil {
			return err
		}
		if conflict := FindConflict(entries, next.Day, next.StartTime, next.EndTime, existing.ID); conflict != nil {
			return s.conflictError(ctx, conflict)
		}

		if hasCancelToggle {
			reason := ""
			if req.CancelReason != nil {
				reason = *req.CancelReason
			}
			applyCancel(&next, *req.IsCancelled, reason)
		}

		entries[idx] = next
		updated = next
		return s.repo.Timetable.Save(ctx, entries)
	})
	if err != nil {
		return nil, s.logWriteError("update lecture", err)
	}

	publish(ctx, s.events, event.TimetableUpdated, teacherID)

	resp := toTimetableResponse(&updated, "")
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// ToggleCancel
// ════════════════════════════════════════════════════════════

func (s *timetableService) ToggleCancel(ctx context.Context, id, teacherID string, cancelled bool, reason string) (*dto.TimetableEntryResponse, error) {
	var updated model.TimetableEntry

	err := repository.WithLock(ctx, s.repo.Locker, repository.CollectionTimetable, func() error {
		entries, err := s.repo.Timetable.GetAll(ctx)
		if err != nil {
			return err
		}

		idx, err := ownedEntry(entries, id, teacherID)
		if err != nil {
			return err
		}

		applyCancel(&entries[idx], cancelled, reason)
		updated = entries[idx]
		return s.repo.Timetable.Save(ctx, entries)
	})
	if err != nil {
		return nil, s.logWriteError("toggle cancel", err)
	}

	s.logger.Info("lecture cancel toggled",
		zap.String("id", id), zap.Bool("cancelled", cancelled))
	publish(ctx, s.events, event.TimetableUpdated, teacherID)

	resp := toTimetableResponse(&updated, "")
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// DeleteLecture
// ════════════════════════════════════════════════════════════

func (s *timetableService) DeleteLecture(ctx context.Context, id, teacherID string) error {
	err := repository.WithLock(ctx, s.repo.Locker, repository.CollectionTimetable, func() error {
		entries, err := s.repo.Timetable.GetAll(ctx)
		if err != nil {
			return err
		}

		idx, err := ownedEntry(entries, id, teacherID)
		if err != nil {
			return err
		}

		next := make([]model.TimetableEntry, 0, len(entries)-1)
		next = append(next, entries[:idx]...)
		next = append(next, entries[idx+1:]...)
		return s.repo.Timetable.Save(ctx, next)
	})
	if err != nil {
		return s.logWriteError("delete lecture", err)
	}

	publish(ctx, s.events, event.TimetableUpdated, teacherID)
	return nil
}

// ════════════════════════════════════════════════════════════
// List
// ════════════════════════════════════════════════════════════

func (s *timetableService) List(ctx context.Context, requester Requester, scope string) ([]dto.TimetableEntryResponse, error) {
	entries, err := s.repo.Timetable.GetAll(ctx)
	if err != nil {
		s.logger.Error("load timetable failed", zap.Error(err))
		return nil, err
	}

	if scope == scopeAll {
		users, err := s.repo.Users.GetAll(ctx)
		if err != nil {
			s.logger.Error("load users failed", zap.Error(err))
			return nil, err
		}
		roster := teacherRoster(users)

		out := make([]dto.TimetableEntryResponse, 0, len(entries))
		for i := range entries {
			name := "N/A"
			if u, ok := roster[entries[i].TeacherID]; ok {
				name = u.DisplayName()
			} else if entries[i].TeacherID != "" {
				name = entries[i].TeacherID
			}
			out = append(out, toTimetableResponse(&entries[i], name))
		}
		return out, nil
	}

	out := make([]dto.TimetableEntryResponse, 0, len(entries))
	for i := range entries {
		if requester.Role == model.RoleTeacher && entries[i].TeacherID != requester.ID {
			continue
		}
		out = append(out, toTimetableResponse(&entries[i], ""))
	}
	return out, nil
}

// ── helpers ──

// ownedEntry not-found is reported before ownership
func ownedEntry(entries []model.TimetableEntry, id, teacherID string) (int, error) {
	for i := range entries {
		if entries[i].ID != id {
			continue
		}
		if entries[i].TeacherID != teacherID {
			return -1, ErrTimetableForbidden
		}
		return i, nil
	}
	return -1, ErrTimetableNotFound
}

// applyCancel stamps or clears the cancellation fields
func applyCancel(e *model.TimetableEntry, cancelled bool, reason string) {
	e.IsCancelled = cancelled
	if !cancelled {
		e.CancelledAt = nil
		e.CancelReason = nil
		return
	}
	now := timeNow()
	trimmed := strings.TrimSpace(reason)
	e.CancelledAt = &now
	e.CancelReason = &trimmed
}

// conflictError resolves the conflicting teacher's name. A roster that
// cannot be loaded only costs the name, not the rejection.
func (s *timetableService) conflictError(ctx context.Context, conflict *model.TimetableEntry) error {
	metrics.TimetableConflicts.Inc()

	var roster map[string]*model.User
	if users, err := s.repo.Users.GetAll(ctx); err != nil {
		s.logger.Warn("load roster for conflict message failed", zap.Error(err))
	} else {
		roster = make(map[string]*model.User, len(users))
		for i := range users {
			roster[users[i].ID] = &users[i]
		}
	}

	return &ConflictError{
		TeacherName: conflictTeacherName(conflict, roster),
		Entry:       *conflict,
	}
}

// logWriteError logs infrastructure failures; caller errors pass through quietly
func (s *timetableService) logWriteError(op string, err error) error {
	if isCallerError(err) {
		return err
	}
	s.logger.Error(op+" failed", zap.Error(err))
	return err
}

func isCallerError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidTimeRange) ||
		errors.Is(err, ErrSchedulingConflict) ||
		errors.Is(err, ErrNoValidRecords) ||
		errors.Is(err, ErrTimetableNotFound) ||
		errors.Is(err, ErrTimetableForbidden) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrTeacherNotFound) ||
		errors.Is(err, ErrStudentNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrSubjectNotFound) ||
		errors.Is(err, ErrNoticeNotFound)
}

func toTimetableResponse(e *model.TimetableEntry, teacherName string) dto.TimetableEntryResponse {
	return dto.TimetableEntryResponse{
		ID:           e.ID,
		Subject:      e.Subject,
		Day:          e.Day,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		TeacherID:    e.TeacherID,
		TeacherName:  teacherName,
		IsCancelled:  e.IsCancelled,
		CancelledAt:  e.CancelledAt,
		CancelReason: e.CancelReason,
	}
}
