package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"school-attendance/internal/dto"
	"school-attendance/internal/event"
	"school-attendance/internal/model"
	"school-attendance/internal/repository"
)

// ErrNoticeNotFound no notice with that id
var ErrNoticeNotFound = errors.New("Notice not found")

// NoticeService announcements; admins write, everyone reads
type NoticeService interface {
	// List newest first
	List(ctx context.Context) ([]dto.NoticeResponse, error)
	Create(ctx context.Context, authorID string, req *dto.NoticeRequest) (*dto.NoticeResponse, error)
	Update(ctx context.Context, actorID, id string, req *dto.NoticeRequest) (*dto.NoticeResponse, error)
	Delete(ctx context.Context, actorID, id string) error
}

type noticeService struct {
	repo   *repository.Repository
	events event.Publisher
	logger *zap.Logger
}

// NewNoticeService creates a NoticeService
func NewNoticeService(repo *repository.Repository, events event.Publisher, logger *zap.Logger) NoticeService {
	return &noticeService{repo: repo, events: events, logger: logger}
}

func (s *noticeService) List(ctx context.Context) ([]dto.NoticeResponse, error) {
	notices, err := s.repo.Notices.GetAll(ctx)
	if err != nil {
		s.logger.Error("load notices failed", zap.Error(err))
		return nil, err
	}

	sort.SliceStable(notices, func(i, j int) bool {
		return notices[i].CreatedAt.After(notices[j].CreatedAt)
	})

	out := make([]dto.NoticeResponse, 0, len(notices))
	for i := range notices {
		out = append(out, toNoticeResponse(&notices[i]))
	}
	return out, nil
}

func (s *noticeService) Create(ctx context.Context, authorID string, req *dto.NoticeRequest) (*dto.NoticeResponse, error) {
	title := strings.TrimSpace(req.Title)
	message := strings.TrimSpace(req.Message)
	if title == "" || message == "" {
		return nil, invalidInput("Title and message are required")
	}

	notice := model.Notice{
		ID:        "notice-" + uuid.NewString(),
		Title:     title,
		Message:   message,
		AuthorID:  authorID,
		CreatedAt: timeNow(),
	}

	err := repository.WithLock(ctx, s.repo.Locker, repository.CollectionNotices, func() error {
		notices, err := s.repo.Notices.GetAll(ctx)
		if err != nil {
			return err
		}
		return s.repo.Notices.Save(ctx, append(notices, notice))
	})
	if err != nil {
		s.logger.Error("create notice failed", zap.Error(err))
		return nil, err
	}

	publish(ctx, s.events, event.NoticesUpdated, authorID)
	resp := toNoticeResponse(&notice)
	return &resp, nil
}

func (s *noticeService) Update(ctx context.Context, actorID, id string, req *dto.NoticeRequest) (*dto.NoticeResponse, error) {
	title := strings.TrimSpace(req.Title)
	message := strings.TrimSpace(req.Message)
	if title == "" || message == "" {
		return nil, invalidInput("Title and message are required")
	}

	var updated model.Notice
	err := repository.WithLock(ctx, s.repo.Locker, repository.CollectionNotices, func() error {
		notices, err := s.repo.Notices.GetAll(ctx)
		if err != nil {
			return err
		}
		for i := range notices {
			if notices[i].ID == id {
				notices[i].Title = title
				notices[i].Message = message
				updated = notices[i]
				return s.repo.Notices.Save(ctx, notices)
			}
		}
		return ErrNoticeNotFound
	})
	if err != nil {
		if !errors.Is(err, ErrNoticeNotFound) {
			s.logger.Error("update notice failed", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	publish(ctx, s.events, event.NoticesUpdated, actorID)
	resp := toNoticeResponse(&updated)
	return &resp, nil
}

func (s *noticeService) Delete(ctx context.Context, actorID, id string) error {
	err := repository.WithLock(ctx, s.repo.Locker, repository.CollectionNotices, func() error {
		notices, err := s.repo.Notices.GetAll(ctx)
		if err != nil {
			return err
		}
		next := make([]model.Notice, 0, len(notices))
		for i := range notices {
			if notices[i].ID != id {
				next = append(next, notices[i])
			}
		}
		if len(next) == len(notices) {
			return ErrNoticeNotFound
		}
		return s.repo.Notices.Save(ctx, next)
	})
	if err != nil {
		if !errors.Is(err, ErrNoticeNotFound) {
			s.logger.Error("delete notice failed", zap.String("id", id), zap.Error(err))
		}
		return err
	}

	publish(ctx, s.events, event.NoticesUpdated, actorID)
	return nil
}

func toNoticeResponse(n *model.Notice) dto.NoticeResponse {
	return dto.NoticeResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		AuthorID:  n.AuthorID,
		CreatedAt: n.CreatedAt,
	}
}
