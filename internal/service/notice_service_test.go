package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"school-attendance/internal/dto"
	"school-attendance/internal/model"
)

func TestNoticeService(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	old := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	store.notices.items = []model.Notice{{ID: "n1", Title: "Old", Message: "m", CreatedAt: old}}
	svc := NewNoticeService(store.repo, store.events, zap.NewNop())

	fixClock(t, old.Add(24*time.Hour))
	created, err := svc.Create(ctx, "a1", &dto.NoticeRequest{Title: " Exams ", Message: "Next week"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Title != "Exams" || created.AuthorID != "a1" {
		t.Errorf("unexpected notice: %+v", created)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != created.ID {
		t.Errorf("expected newest first, got %+v", list)
	}

	updated, err := svc.Update(ctx, "a1", "n1", &dto.NoticeRequest{Title: "Older", Message: "edited"})
	if err != nil || updated.Title != "Older" || !updated.CreatedAt.Equal(old) {
		t.Errorf("Update: %+v, %v", updated, err)
	}
	if _, err := svc.Update(ctx, "a1", "zz", &dto.NoticeRequest{Title: "x", Message: "y"}); !errors.Is(err, ErrNoticeNotFound) {
		t.Errorf("expected ErrNoticeNotFound, got %v", err)
	}
	if _, err := svc.Create(ctx, "a1", &dto.NoticeRequest{Title: " ", Message: "y"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	if err := svc.Delete(ctx, "a1", "n1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, "a1", "n1"); !errors.Is(err, ErrNoticeNotFound) {
		t.Errorf("expected ErrNoticeNotFound, got %v", err)
	}
	if len(store.events.types()) != 3 {
		t.Errorf("expected 3 events, got %v", store.events.types())
	}
}
