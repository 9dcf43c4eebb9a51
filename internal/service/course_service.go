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
)

// ── course errors ──

var (
	ErrCourseNotFound  = errors.New("Course not found")
	ErrSubjectNotFound = errors.New("Subject not found")
)

const (
	msgCourseExists  = "Course already exists"
	msgSubjectExists = "Subject already exists in this course"
)

// CourseService courses and their subject lists
type CourseService interface {
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Create(ctx context.Context, actorID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	Rename(ctx context.Context, actorID, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, actorID, id string) error
	AddSubject(ctx context.Context, actorID, courseID, name string) (*dto.CourseResponse, error)
	RenameSubject(ctx context.Context, actorID, courseID string, req *dto.RenameSubjectRequest) (*dto.CourseResponse, error)
	RemoveSubject(ctx context.Context, actorID, courseID, name string) (*dto.CourseResponse, error)
}

type courseService struct {
	repo   *repository.Repository
	events event.Publisher
	logger *zap.Logger
}

// NewCourseService creates a CourseService
func NewCourseService(repo *repository.Repository, events event.Publisher, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, events: events, logger: logger}
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Courses.GetAll(ctx)
	if err != nil {
		s.logger.Error("load courses failed", zap.Error(err))
		return nil, err
	}

	out := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, toCourseResponse(&courses[i]))
	}
	return out, nil
}

func (s *courseService) Create(ctx context.Context, actorID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidInput("Course name is required")
	}

	course := model.Course{
		ID:       "course-" + uuid.NewString(),
		Name:     name,
		Subjects: model.StringList{},
	}
	for _, subj := range req.Subjects {
		subj = strings.TrimSpace(subj)
		if subj != "" && !course.HasSubject(subj) {
			course.Subjects = append(course.Subjects, subj)
		}
	}

	err := repository.WithLock(ctx, s.repo.Locker, repository.CollectionCourses, func() error {
		courses, err := s.repo.Courses.GetAll(ctx)
		if err != nil {
			return err
		}
		for i := range courses {
			if strings.EqualFold(courses[i].Name, name) {
				return invalidInput(msgCourseExists)
			}
		}
		return s.repo.Courses.Save(ctx, append(courses, course))
	})
	if err != nil {
		return nil, s.logWriteError("create course", err)
	}

	publish(ctx, s.events, event.CoursesUpdated, actorID)
	resp := toCourseResponse(&course)
	return &resp, nil
}

func (s *courseService) Rename(ctx context.Context, actorID, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidInput("Course name is required")
	}
	return s.mutate(ctx, actorID, id, func(c *model.Course, all []model.Course) error {
		for i := range all {
			if all[i].ID != c.ID && strings.EqualFold(all[i].Name, name) {
				return invalidInput(msgCourseExists)
			}
		}
		c.Name = name
		return nil
	})
}

func (s *courseService) Delete(ctx context.Context, actorID, id string) error {
	err := repository.WithLock(ctx, s.repo.Locker, repository.CollectionCourses, func() error {
		courses, err := s.repo.Courses.GetAll(ctx)
		if err != nil {
			return err
		}
		idx, c := findCourse(courses, id)
		if c == nil {
			return ErrCourseNotFound
		}

		next := make([]model.Course, 0, len(courses)-1)
		next = append(next, courses[:idx]...)
		next = append(next, courses[idx+1:]...)
		return s.repo.Courses.Save(ctx, next)
	})
	if err != nil {
		return s.logWriteError("delete course", err)
	}

	publish(ctx, s.events, event.CoursesUpdated, actorID)
	return nil
}

// ────────────────────── subjects ──────────────────────

func (s *courseService) AddSubject(ctx context.Context, actorID, courseID, name string) (*dto.CourseResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidInput("Subject name is required")
	}
	return s.mutate(ctx, actorID, courseID, func(c *model.Course, _ []model.Course) error {
		if c.HasSubject(name) {
			return invalidInput(msgSubjectExists)
		}
		c.Subjects = append(c.Subjects, name)
		return nil
	})
}

func (s *courseService) RenameSubject(ctx context.Context, actorID, courseID string, req *dto.RenameSubjectRequest) (*dto.CourseResponse, error) {
	oldName := strings.TrimSpace(req.OldName)
	newName := strings.TrimSpace(req.NewName)
	if oldName == "" || newName == "" {
		return nil, invalidInput("Subject name is required")
	}
	return s.mutate(ctx, actorID, courseID, func(c *model.Course, _ []model.Course) error {
		if !c.HasSubject(oldName) {
			return ErrSubjectNotFound
		}
		if oldName != newName && c.HasSubject(newName) {
			return invalidInput(msgSubjectExists)
		}
		for i := range c.Subjects {
			if c.Subjects[i] == oldName {
				c.Subjects[i] = newName
			}
		}
		return nil
	})
}

func (s *courseService) RemoveSubject(ctx context.Context, actorID, courseID, name string) (*dto.CourseResponse, error) {
	name = strings.TrimSpace(name)
	return s.mutate(ctx, actorID, courseID, func(c *model.Course, _ []model.Course) error {
		if !c.HasSubject(name) {
			return ErrSubjectNotFound
		}
		kept := make(model.StringList, 0, len(c.Subjects))
		for _, subj := range c.Subjects {
			if subj != name {
				kept = append(kept, subj)
			}
		}
		c.Subjects = kept
		return nil
	})
}

// ── helpers ──

func (s *courseService) mutate(ctx context.Context, actorID, id string, fn func(c *model.Course, all []model.Course) error) (*dto.CourseResponse, error) {
	var updated model.Course
	err := repository.WithLock(ctx, s.repo.Locker, repository.CollectionCourses, func() error {
		courses, err := s.repo.Courses.GetAll(ctx)
		if err != nil {
			return err
		}
		idx, c := findCourse(courses, id)
		if c == nil {
			return ErrCourseNotFound
		}
		if err := fn(&courses[idx], courses); err != nil {
			return err
		}
		updated = courses[idx]
		return s.repo.Courses.Save(ctx, courses)
	})
	if err != nil {
		return nil, s.logWriteError("update course", err)
	}

	publish(ctx, s.events, event.CoursesUpdated, actorID)
	resp := toCourseResponse(&updated)
	return &resp, nil
}

func (s *courseService) logWriteError(op string, err error) error {
	if !isCallerError(err) {
		s.logger.Error(op+" failed", zap.Error(err))
	}
	return err
}

func findCourse(courses []model.Course, id string) (int, *model.Course) {
	for i := range courses {
		if courses[i].ID == id {
			return i, &courses[i]
		}
	}
	return -1, nil
}

func toCourseResponse(c *model.Course) dto.CourseResponse {
	subjects := make([]string, len(c.Subjects))
	copy(subjects, c.Subjects)
	return dto.CourseResponse{ID: c.ID, Name: c.Name, Subjects: subjects}
}
