package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"school-attendance/config"
	"school-attendance/internal/dto"
	"school-attendance/internal/event"
	"school-attendance/internal/model"
	"school-attendance/internal/repository"
)

// Service aggregate of every service
type Service struct {
	Timetable  TimetableService
	Attendance AttendanceService
	User       UserService
	Student    StudentService
	Course     CourseService
	Notice     NoticeService
	Stats      StatsService
	Export     ExportService
	Calendar   CalendarService
}

// NewService wires every service on one repository and event publisher
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	events event.Publisher,
	logger *zap.Logger,
) *Service {
	timetable := NewTimetableService(repo, events, logger)
	attendance := NewAttendanceService(repo, events, logger)

	return &Service{
		Timetable:  timetable,
		Attendance: attendance,
		User:       NewUserService(repo, events, logger),
		Student:    NewStudentService(repo, events, logger),
		Course:     NewCourseService(repo, events, logger),
		Notice:     NewNoticeService(repo, events, logger),
		Stats:      NewStatsService(repo, logger),
		Export:     NewExportService(attendance, logger),
		Calendar:   NewCalendarService(timetable, cfg.Server.CalendarTZ, logger),
	}
}

// ── shared errors ──

// ErrInvalidInput matched by every *InputError
var ErrInvalidInput = errors.New("invalid input")

// InputError a request the caller must fix; Message is shown as is
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// Is lets errors.Is(err, ErrInvalidInput) match
func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func invalidInput(msg string) error { return &InputError{Message: msg} }

// Requester the authenticated caller
type Requester struct {
	ID   string
	Role model.Role
}

// ── helpers ──

func findUser(users []model.User, id string) (int, *model.User) {
	for i := range users {
		if users[i].ID == id {
			return i, &users[i]
		}
	}
	return -1, nil
}

// teacherRoster teachers keyed by id
func teacherRoster(users []model.User) map[string]*model.User {
	roster := make(map[string]*model.User)
	for i := range users {
		if users[i].Role == model.RoleTeacher {
			roster[users[i].ID] = &users[i]
		}
	}
	return roster
}

func publish(ctx context.Context, p event.Publisher, t event.Type, actorID string) {
	if p != nil {
		p.Publish(ctx, event.New(t, actorID))
	}
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		Role:          string(u.Role),
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		IsApproved:    u.IsApproved,
		Subject:       u.Subject,
		Qualification: u.Qualification,
		Experience:    u.Experience,
		Department:    u.Department,
		CourseID:      u.CourseID,
		CreatedAt:     u.CreatedAt,
	}
}

var timeNow = func() time.Time { return time.Now().UTC() }
