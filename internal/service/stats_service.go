package service

import (
	"context"

	"go.uber.org/zap"

	"school-attendance/internal/dto"
	"school-attendance/internal/model"
	"school-attendance/internal/repository"
)

// StatsService admin dashboard counters
type StatsService interface {
	Overview(ctx context.Context) (*dto.StatsResponse, error)
}

type statsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStatsService creates a StatsService
func NewStatsService(repo *repository.Repository, logger *zap.Logger) StatsService {
	return &statsService{repo: repo, logger: logger}
}

func (s *statsService) Overview(ctx context.Context) (*dto.StatsResponse, error) {
	users, err := s.repo.Users.GetAll(ctx)
	if err != nil {
		s.logger.Error("load users failed", zap.Error(err))
		return nil, err
	}
	courses, err := s.repo.Courses.GetAll(ctx)
	if err != nil {
		s.logger.Error("load courses failed", zap.Error(err))
		return nil, err
	}
	entries, err := s.repo.Timetable.GetAll(ctx)
	if err != nil {
		s.logger.Error("load timetable failed", zap.Error(err))
		return nil, err
	}
	records, err := s.repo.Attendance.GetAll(ctx)
	if err != nil {
		s.logger.Error("load attendance failed", zap.Error(err))
		return nil, err
	}

	stats := &dto.StatsResponse{Courses: len(courses)}

	for i := range users {
		switch users[i].Role {
		case model.RoleStudent:
			stats.Students++
		case model.RoleTeacher:
			if users[i].IsApproved {
				stats.TeachersApproved++
			} else {
				stats.TeachersPending++
			}
		}
	}

	for i := range entries {
		if entries[i].IsCancelled {
			stats.LecturesCanceled++
		} else {
			stats.LecturesActive++
		}
	}

	today := timeNow().Format("2006-01-02")
	records = NormalizeAttendance(records)
	stats.AttendanceTotal = len(records)
	for i := range records {
		if records[i].Date != today {
			continue
		}
		switch records[i].Status {
		case model.StatusPresent:
			stats.PresentToday++
		case model.StatusAbsent:
			stats.AbsentToday++
		}
	}

	return stats, nil
}
