package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"school-attendance/internal/dto"
	"school-attendance/internal/event"
	"school-attendance/internal/model"
	"school-attendance/internal/repository"
	"school-attendance/pkg/metrics"
)

const msgAttendanceDateRequired = "Invalid data"

// AttendanceService attendance marking and role-scoped history
type AttendanceService interface {
	// Submit merges a teacher's marks for one date into the snapshot
	Submit(ctx context.Context, teacherID string, req *dto.SubmitAttendanceRequest) (*dto.SubmitAttendanceResponse, error)
	// List students see their own history, teachers the records they
	// authored, admins everything. studentID narrows within that scope.
	List(ctx context.Context, requester Requester, studentID string) ([]dto.AttendanceRecordResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	events event.Publisher
	logger *zap.Logger
}

// NewAttendanceService creates an AttendanceService
func NewAttendanceService(repo *repository.Repository, events event.Publisher, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, events: events, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *attendanceService) Submit(ctx context.Context, teacherID string, req *dto.SubmitAttendanceRequest) (*dto.SubmitAttendanceResponse, error) {
	date := strings.TrimSpace(req.Date)
	if date == "" || req.Records == nil {
		return nil, invalidInput(msgAttendanceDateRequired)
	}

	incoming := make([]model.AttendanceRecord, 0, len(req.Records))
	for _, m := range req.Records {
		incoming = append(incoming, model.AttendanceRecord{
			Date:        date,
			StudentID:   m.StudentID,
			Status:      model.AttendanceStatus(m.Status),
			Subject:     m.Subject,
			TeacherName: m.TeacherName,
		})
	}

	// teacher profile for subject/name defaults; a missing profile is fine
	var teacher *model.User
	users, err := s.repo.Users.GetAll(ctx)
	if err != nil {
		s.logger.Warn("load teacher profile failed", zap.String("teacher_id", teacherID), zap.Error(err))
	} else if _, u := findUser(users, teacherID); u != nil {
		teacher = u
	}

	var accepted int
	err = repository.WithLock(ctx, s.repo.Locker, repository.CollectionAttendance, func() error {
		current, err := s.repo.Attendance.GetAll(ctx)
		if err != nil {
			return err
		}

		merged, n, err := MergeAttendance(current, incoming, teacherID, teacher)
		if err != nil {
			return err
		}
		accepted = n
		return s.repo.Attendance.Save(ctx, merged)
	})
	if err != nil {
		if !isCallerError(err) {
			s.logger.Error("submit attendance failed", zap.String("teacher_id", teacherID), zap.Error(err))
		}
		return nil, err
	}

	metrics.AttendanceMerged.Add(float64(accepted))
	s.logger.Info("attendance marked",
		zap.String("teacher_id", teacherID), zap.String("date", date), zap.Int("accepted", accepted))
	publish(ctx, s.events, event.AttendanceUpdated, teacherID)

	return &dto.SubmitAttendanceResponse{Accepted: accepted, Message: "Attendance marked"}, nil
}

// ────────────────────── List ──────────────────────

func (s *attendanceService) List(ctx context.Context, requester Requester, studentID string) ([]dto.AttendanceRecordResponse, error) {
	switch requester.Role {
	case model.RoleStudent:
		studentID = requester.ID
	case model.RoleTeacher, model.RoleAdmin:
	default:
		return []dto.AttendanceRecordResponse{}, nil
	}

	stored, err := s.repo.Attendance.GetAll(ctx)
	if err != nil {
		s.logger.Error("load attendance failed", zap.Error(err))
		return nil, err
	}
	users, err := s.repo.Users.GetAll(ctx)
	if err != nil {
		s.logger.Error("load users failed", zap.Error(err))
		return nil, err
	}

	records := EnrichAttendance(NormalizeAttendance(stored), users)

	filtered := records[:0]
	for _, r := range records {
		if requester.Role == model.RoleTeacher && r.TeacherID != requester.ID {
			continue
		}
		if studentID != "" && r.StudentID != studentID {
			continue
		}
		filtered = append(filtered, r)
	}
	SortAttendance(filtered, studentID != "")

	out := make([]dto.AttendanceRecordResponse, 0, len(filtered))
	for _, r := range filtered {
		out = append(out, dto.AttendanceRecordResponse{
			Date:        r.Date,
			StudentID:   r.StudentID,
			Status:      string(r.Status),
			TeacherID:   r.TeacherID,
			Subject:     r.Subject,
			TeacherName: r.TeacherName,
		})
	}
	return out, nil
}
