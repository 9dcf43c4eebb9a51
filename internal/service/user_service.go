package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"school-attendance/internal/dto"
	"school-attendance/internal/event"
	"school-attendance/internal/model"
	"school-attendance/internal/repository"
)

// ── user errors ──

var (
	ErrUserNotFound    = errors.New("User not found")
	ErrTeacherNotFound = errors.New("Teacher not found")
)

const (
	msgUsernameExists   = "Username already exists"
	msgUsernameTaken    = "Username already taken"
	msgCurrentRequired  = "Current password is required"
	msgCurrentIncorrect = "Current password is incorrect"
	msgUnknownCourse    = "Selected course does not exist"
	msgAllRequired      = "All fields are required"
	msgNoSettings       = "No changes provided"
)

// UserService registration, account settings and teacher administration
type UserService interface {
	// RegisterTeacher public sign-up; the account starts unapproved
	RegisterTeacher(ctx context.Context, req *dto.RegisterTeacherRequest) (*dto.RegisterResponse, error)
	// GetProfile the caller's own account
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	// UpdateSettings change the caller's password and/or username
	UpdateSettings(ctx context.Context, userID string, req *dto.UpdateSettingsRequest) error
	// DeleteAccount permanently removes the caller
	DeleteAccount(ctx context.Context, userID string) error
	// ListTeachers roster filtered by approval: "pending", "approved" or ""
	ListTeachers(ctx context.Context, status string) ([]dto.UserResponse, error)
	// UpdateTeacher admin edit of profile fields
	UpdateTeacher(ctx context.Context, id string, req *dto.UpdateTeacherRequest) (*dto.UserResponse, error)
	// ApproveTeacher lets the teacher sign in
	ApproveTeacher(ctx context.Context, id string) (*dto.UserResponse, error)
	// DeleteTeacher removes a teacher account
	DeleteTeacher(ctx context.Context, id string) error
	// SeedAdmin creates or resets an admin account (CLI only)
	SeedAdmin(ctx context.Context, username, name, password string) (*dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	events event.Publisher
	logger *zap.Logger
}

// NewUserService creates a UserService
func NewUserService(repo *repository.Repository, events event.Publisher, logger *zap.Logger) UserService {
	return &userService{repo: repo, events: events, logger: logger}
}

// ────────────────────── RegisterTeacher ──────────────────────

func (s *userService) RegisterTeacher(ctx context.Context, req *dto.RegisterTeacherRequest) (*dto.RegisterResponse, error) {
	email := strings.TrimSpace(req.Email)
	fields := []string{req.Name, email, req.Phone, req.Qualification, req.Experience, req.Subject, req.CourseID, req.Password}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return nil, invalidInput(msgAllRequired)
		}
	}

	courses, err := s.repo.Courses.GetAll(ctx)
	if err != nil {
		s.logger.Error("load courses failed", zap.Error(err))
		return nil, err
	}
	if _, c := findCourse(courses, req.CourseID); c == nil {
		return nil, invalidInput(msgUnknownCourse)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	teacher := model.User{
		ID:            "teacher-" + uuid.NewString(),
		Username:      email,
		PasswordHash:  string(hash),
		Role:          model.RoleTeacher,
		Name:          strings.TrimSpace(req.Name),
		Email:         email,
		Phone:         req.Phone,
		Qualification: strings.TrimSpace(req.Qualification),
		Experience:    strings.TrimSpace(req.Experience),
		Subject:       strings.TrimSpace(req.Subject),
		CourseID:      req.CourseID,
		IsApproved:    false,
		CreatedAt:     timeNow(),
	}

	err = repository.WithLock(ctx, s.repo.Locker, repository.CollectionUsers, func() error {
		users, err := s.repo.Users.GetAll(ctx)
		if err != nil {
			return err
		}
		if usernameInUse(users, teacher.Username, "") {
			return invalidInput(msgUsernameExists)
		}
		return s.repo.Users.Save(ctx, append(users, teacher))
	})
	if err != nil {
		if !isCallerError(err) {
			s.logger.Error("register teacher failed", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("teacher registered", zap.String("id", teacher.ID))
	publish(ctx, s.events, event.TeachersUpdated, teacher.ID)

	return &dto.RegisterResponse{
		ID:      teacher.ID,
		Message: "Teacher registered successfully. Wait for admin approval.",
	}, nil
}

// ────────────────────── settings ──────────────────────

func (s *userService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	users, err := s.repo.Users.GetAll(ctx)
	if err != nil {
		s.logger.Error("load users failed", zap.Error(err))
		return nil, err
	}
	_, u := findUser(users, userID)
	if u == nil {
		return nil, ErrUserNotFound
	}
	resp := toUserResponse(u)
	return &resp, nil
}

func (s *userService) UpdateSettings(ctx context.Context, userID string, req *dto.UpdateSettingsRequest) error {
	newUsername := strings.TrimSpace(req.NewUsername)
	if req.NewPassword == "" && newUsername == "" {
		return invalidInput(msgNoSettings)
	}

	err := repository.WithLock(ctx, s.repo.Locker, repository.CollectionUsers, func() error {
		users, err := s.repo.Users.GetAll(ctx)
		if err != nil {
			return err
		}
		idx, u := findUser(users, userID)
		if u == nil {
			return ErrUserNotFound
		}

		// 1. password
		if req.NewPassword != "" {
			if req.CurrentPassword == "" {
				return invalidInput(msgCurrentRequired)
			}
			if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)) != nil {
				return invalidInput(msgCurrentIncorrect)
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			users[idx].PasswordHash = string(hash)
		}

		// 2. username
		if newUsername != "" {
			if usernameInUse(users, newUsername, userID) {
				return invalidInput(msgUsernameTaken)
			}
			users[idx].Username = newUsername
		}

		return s.repo.Users.Save(ctx, users)
	})
	if err != nil {
		if !isCallerError(err) {
			s.logger.Error("update settings failed", zap.String("user_id", userID), zap.Error(err))
		}
		return err
	}

	s.logger.Info("settings updated", zap.String("user_id", userID))
	return nil
}

func (s *userService) DeleteAccount(ctx context.Context, userID string) error {
	role, err := s.removeUser(ctx, userID, "")
	if err != nil {
		return err
	}

	s.logger.Info("account deleted", zap.String("user_id", userID))
	s.publishRoleChange(ctx, role, userID)
	return nil
}

// ────────────────────── teacher administration ──────────────────────

func (s *userService) ListTeachers(ctx context.Context, status string) ([]dto.UserResponse, error) {
	users, err := s.repo.Users.GetAll(ctx)
	if err != nil {
		s.logger.Error("load users failed", zap.Error(err))
		return nil, err
	}

	out := make([]dto.UserResponse, 0)
	for i := range users {
		u := &users[i]
		if u.Role != model.RoleTeacher {
			continue
		}
		if status == "pending" && u.IsApproved {
			continue
		}
		if status == "approved" && !u.IsApproved {
			continue
		}
		out = append(out, toUserResponse(u))
	}
	return out, nil
}

func (s *userService) UpdateTeacher(ctx context.Context, id string, req *dto.UpdateTeacherRequest) (*dto.UserResponse, error) {
	return s.mutateTeacher(ctx, id, func(u *model.User) {
		setTrimmed(&u.Name, req.Name)
		setTrimmed(&u.Email, req.Email)
		setTrimmed(&u.Subject, req.Subject)
		setTrimmed(&u.Experience, req.Experience)
		setTrimmed(&u.Qualification, req.Qualification)
		setTrimmed(&u.Phone, req.Phone)
	})
}

func (s *userService) ApproveTeacher(ctx context.Context, id string) (*dto.UserResponse, error) {
	return s.mutateTeacher(ctx, id, func(u *model.User) {
		u.IsApproved = true
	})
}

func (s *userService) DeleteTeacher(ctx context.Context, id string) error {
	if _, err := s.removeUser(ctx, id, model.RoleTeacher); err != nil {
		return err
	}
	s.logger.Info("teacher deleted", zap.String("id", id))
	publish(ctx, s.events, event.TeachersUpdated, id)
	return nil
}

// ────────────────────── SeedAdmin ──────────────────────

func (s *userService) SeedAdmin(ctx context.Context, username, name, password string) (*dto.UserResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalidInput("username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var admin model.User
	err = repository.WithLock(ctx, s.repo.Locker, repository.CollectionUsers, func() error {
		users, err := s.repo.Users.GetAll(ctx)
		if err != nil {
			return err
		}

		for i := range users {
			if users[i].Username != username {
				continue
			}
			if users[i].Role != model.RoleAdmin {
				return invalidInput(msgUsernameExists)
			}
			users[i].PasswordHash = string(hash)
			if name != "" {
				users[i].Name = name
			}
			admin = users[i]
			return s.repo.Users.Save(ctx, users)
		}

		admin = model.User{
			ID:           "admin-" + uuid.NewString(),
			Username:     username,
			PasswordHash: string(hash),
			Role:         model.RoleAdmin,
			Name:         name,
			IsApproved:   true,
			CreatedAt:    timeNow(),
		}
		return s.repo.Users.Save(ctx, append(users, admin))
	})
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(&admin)
	return &resp, nil
}

// ── helpers ──

func (s *userService) mutateTeacher(ctx context.Context, id string, fn func(u *model.User)) (*dto.UserResponse, error) {
	var updated model.User
	err := repository.WithLock(ctx, s.repo.Locker, repository.CollectionUsers, func() error {
		users, err := s.repo.Users.GetAll(ctx)
		if err != nil {
			return err
		}
		idx, u := findUser(users, id)
		if u == nil || u.Role != model.RoleTeacher {
			return ErrTeacherNotFound
		}
		fn(&users[idx])
		updated = users[idx]
		return s.repo.Users.Save(ctx, users)
	})
	if err != nil {
		if !errors.Is(err, ErrTeacherNotFound) {
			s.logger.Error("update teacher failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	publish(ctx, s.events, event.TeachersUpdated, id)
	resp := toUserResponse(&updated)
	return &resp, nil
}

// removeUser deletes id; a non-empty role restricts which accounts match
func (s *userService) removeUser(ctx context.Context, id string, role model.Role) (model.Role, error) {
	var removed model.Role
	err := repository.WithLock(ctx, s.repo.Locker, repository.CollectionUsers, func() error {
		users, err := s.repo.Users.GetAll(ctx)
		if err != nil {
			return err
		}
		idx, u := findUser(users, id)
		if u == nil || (role != "" && u.Role != role) {
			if role == model.RoleTeacher {
				return ErrTeacherNotFound
			}
			return ErrUserNotFound
		}
		removed = u.Role

		next := make([]model.User, 0, len(users)-1)
		next = append(next, users[:idx]...)
		next = append(next, users[idx+1:]...)
		return s.repo.Users.Save(ctx, next)
	})
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) && !errors.Is(err, ErrTeacherNotFound) {
			s.logger.Error("delete user failed", zap.String("id", id), zap.Error(err))
		}
		return "", err
	}
	return removed, nil
}

func (s *userService) publishRoleChange(ctx context.Context, role model.Role, actorID string) {
	switch role {
	case model.RoleTeacher:
		publish(ctx, s.events, event.TeachersUpdated, actorID)
	case model.RoleStudent:
		publish(ctx, s.events, event.StudentsUpdated, actorID)
	}
}

func usernameInUse(users []model.User, username, exceptID string) bool {
	for i := range users {
		if users[i].Username == username && users[i].ID != exceptID {
			return true
		}
	}
	return false
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// generateTempPassword random password with at least one letter and one digit
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 4 {
		length = 8
	}

	result := make([]byte, length)

	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
	if err != nil {
		return "", err
	}
	result[0] = letters[n.Int64()]

	n, err = rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
	if err != nil {
		return "", err
	}
	result[1] = digits[n.Int64()]

	for i := 2; i < length; i++ {
		n, err = rand.Int(rand.Reader, big.NewInt(int64(len(all))))
		if err != nil {
			return "", err
		}
		result[i] = all[n.Int64()]
	}

	// Fisher-Yates
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}

	return string(result), nil
}
