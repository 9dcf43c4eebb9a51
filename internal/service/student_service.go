package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"school-attendance/internal/dto"
	"school-attendance/internal/event"
	"school-attendance/internal/model"
	"school-attendance/internal/repository"
)

// ErrStudentNotFound no student with that id
var ErrStudentNotFound = errors.New("Student not found")

const tempPasswordLength = 8

// StudentService student accounts managed by teachers and admins
type StudentService interface {
	List(ctx context.Context, department string) ([]dto.UserResponse, error)
	// Create the generated id doubles as the username; the temporary
	// password is returned once and only its hash is stored.
	Create(ctx context.Context, actorID string, req *dto.CreateStudentRequest) (*dto.CreateStudentResponse, error)
	Update(ctx context.Context, actorID, id string, req *dto.UpdateStudentRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, actorID, id string) error
}

type studentService struct {
	repo   *repository.Repository
	events event.Publisher
	logger *zap.Logger
}

// NewStudentService creates a StudentService
func NewStudentService(repo *repository.Repository, events event.Publisher, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, events: events, logger: logger}
}

func (s *studentService) List(ctx context.Context, department string) ([]dto.UserResponse, error) {
	users, err := s.repo.Users.GetAll(ctx)
	if err != nil {
		s.logger.Error("load users failed", zap.Error(err))
		return nil, err
	}

	out := make([]dto.UserResponse, 0)
	for i := range users {
		if users[i].Role != model.RoleStudent {
			continue
		}
		if department != "" && users[i].Department != department {
			continue
		}
		out = append(out, toUserResponse(&users[i]))
	}
	return out, nil
}

func (s *studentService) Create(ctx context.Context, actorID string, req *dto.CreateStudentRequest) (*dto.CreateStudentResponse, error) {
	name := strings.TrimSpace(req.Name)
	department := strings.TrimSpace(req.Department)
	if name == "" || department == "" {
		return nil, invalidInput("Name and department are required")
	}

	tempPassword, err := generateTempPassword(tempPasswordLength)
	if err != nil {
		s.logger.Error("generate temp password failed", zap.Error(err))
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	var student model.User
	err = repository.WithLock(ctx, s.repo.Locker, repository.CollectionUsers, func() error {
		users, err := s.repo.Users.GetAll(ctx)
		if err != nil {
			return err
		}

		id := newStudentID(users)
		student = model.User{
			ID:           id,
			Username:     id,
			PasswordHash: string(hash),
			Role:         model.RoleStudent,
			Name:         name,
			Email:        strings.TrimSpace(req.Email),
			Department:   department,
			IsApproved:   true,
			CreatedAt:    timeNow(),
		}
		return s.repo.Users.Save(ctx, append(users, student))
	})
	if err != nil {
		s.logger.Error("create student failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("student added", zap.String("id", student.ID), zap.String("by", actorID))
	publish(ctx, s.events, event.StudentsUpdated, actorID)

	return &dto.CreateStudentResponse{
		Student:      toUserResponse(&student),
		TempPassword: tempPassword,
	}, nil
}

func (s *studentService) Update(ctx context.Context, actorID, id string, req *dto.UpdateStudentRequest) (*dto.UserResponse, error) {
	var updated model.User
	err := repository.WithLock(ctx, s.repo.Locker, repository.CollectionUsers, func() error {
		users, err := s.repo.Users.GetAll(ctx)
		if err != nil {
			return err
		}
		idx, u := findUser(users, id)
		if u == nil || u.Role != model.RoleStudent {
			return ErrStudentNotFound
		}

		setTrimmed(&users[idx].Name, req.Name)
		setTrimmed(&users[idx].Email, req.Email)
		setTrimmed(&users[idx].Department, req.Department)
		if users[idx].Name == "" || users[idx].Department == "" {
			return invalidInput("Name and department are required")
		}

		updated = users[idx]
		return s.repo.Users.Save(ctx, users)
	})
	if err != nil {
		if !isCallerError(err) {
			s.logger.Error("update student failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	publish(ctx, s.events, event.StudentsUpdated, actorID)
	resp := toUserResponse(&updated)
	return &resp, nil
}

func (s *studentService) Delete(ctx context.Context, actorID, id string) error {
	err := repository.WithLock(ctx, s.repo.Locker, repository.CollectionUsers, func() error {
		users, err := s.repo.Users.GetAll(ctx)
		if err != nil {
			return err
		}
		idx, u := findUser(users, id)
		if u == nil || u.Role != model.RoleStudent {
			return ErrStudentNotFound
		}

		next := make([]model.User, 0, len(users)-1)
		next = append(next, users[:idx]...)
		next = append(next, users[idx+1:]...)
		return s.repo.Users.Save(ctx, next)
	})
	if err != nil {
		if !errors.Is(err, ErrStudentNotFound) {
			s.logger.Error("delete student failed", zap.String("id", id), zap.Error(err))
		}
		return err
	}

	s.logger.Info("student removed", zap.String("id", id), zap.String("by", actorID))
	publish(ctx, s.events, event.StudentsUpdated, actorID)
	return nil
}

// newStudentID short id that is not yet used as an id or username
func newStudentID(users []model.User) string {
	for {
		id := "stu-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		if _, u := findUser(users, id); u == nil && !usernameInUse(users, id, "") {
			return id
		}
	}
}
