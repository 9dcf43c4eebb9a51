package handler

import (
	"go.uber.org/zap"

	"school-attendance/internal/service"
)

// Handler every HTTP handler
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Admin      *AdminHandler
	Course     *CourseHandler
	Student    *StudentHandler
	Timetable  *TimetableHandler
	Attendance *AttendanceHandler
	Notice     *NoticeHandler
	Event      *EventHandler
}

// NewHandler revoker may be nil (no Redis); origins limits websocket handshakes
func NewHandler(svc *service.Service, events EventSource, revoker TokenRevoker, origins []string, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.User),
		User:       NewUserHandler(svc.User, revoker, logger),
		Admin:      NewAdminHandler(svc.User, svc.Stats),
		Course:     NewCourseHandler(svc.Course),
		Student:    NewStudentHandler(svc.Student),
		Timetable:  NewTimetableHandler(svc.Timetable, svc.Calendar),
		Attendance: NewAttendanceHandler(svc.Attendance, svc.Export),
		Notice:     NewNoticeHandler(svc.Notice),
		Event:      NewEventHandler(events, origins, logger),
	}
}
