package repository

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"school-attendance/internal/model"

	pkgerrors "school-attendance/pkg/errors"
)

type stubCollection struct {
	items   []string
	getErr  error
	saveErr error
	saved   []string
	gets    int
}

func (s *stubCollection) GetAll(_ context.Context) ([]string, error) {
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.items, nil
}

func (s *stubCollection) Save(_ context.Context, items []string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = items
	return nil
}

var errDown = errors.New("connection refused")

func TestFallback_PrimaryHealthy(t *testing.T) {
	primary := &stubCollection{items: []string{"a"}}
	file := &stubCollection{items: []string{"stale"}}
	c := NewFallbackCollection[string]("notices", primary, file, zap.NewNop())

	items, err := c.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll should succeed: %v", err)
	}
	if len(items) != 1 || items[0] != "a" {
		t.Errorf("expected primary data, got %v", items)
	}
	if file.gets != 0 {
		t.Error("file fallback should not be read while primary is healthy")
	}

	if err := c.Save(context.Background(), []string{"b"}); err != nil {
		t.Fatalf("Save should succeed: %v", err)
	}
	if file.saved != nil {
		t.Error("file fallback should not be written while primary is healthy")
	}
}

func TestFallback_PrimaryDown(t *testing.T) {
	primary := &stubCollection{getErr: errDown, saveErr: errDown}
	file := &stubCollection{items: []string{"from-file"}}
	c := NewFallbackCollection[string]("notices", primary, file, zap.NewNop())

	items, err := c.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll should fall back: %v", err)
	}
	if len(items) != 1 || items[0] != "from-file" {
		t.Errorf("expected file data, got %v", items)
	}

	if err := c.Save(context.Background(), []string{"x", "y"}); err != nil {
		t.Fatalf("Save should fall back: %v", err)
	}
	if len(file.saved) != 2 {
		t.Errorf("expected snapshot written to file, got %v", file.saved)
	}
}

func TestFallback_BothDown(t *testing.T) {
	primary := &stubCollection{getErr: errDown, saveErr: errDown}
	file := &stubCollection{getErr: errors.New("permission denied"), saveErr: errors.New("disk full")}
	c := NewFallbackCollection[string]("notices", primary, file, zap.NewNop())

	if _, err := c.GetAll(context.Background()); !errors.Is(err, pkgerrors.ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable on read, got %v", err)
	}
	if err := c.Save(context.Background(), nil); !errors.Is(err, pkgerrors.ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable on write, got %v", err)
	}
}

// clearingCollection drops its contents and then fails, like a store that
// loses the connection halfway through a replace.
type clearingCollection struct {
	stubCollection
	failSave bool
}

func (c *clearingCollection) Save(ctx context.Context, items []string) error {
	if c.failSave {
		c.items = nil
		return errDown
	}
	c.items = items
	return nil
}

func TestFallback_FailedPrimaryWriteNotLost(t *testing.T) {
	primary := &clearingCollection{stubCollection: stubCollection{items: []string{"old"}}, failSave: true}
	file := &stubCollection{}
	c := NewFallbackCollection[string]("timetable", primary, file, zap.NewNop())
	ctx := context.Background()

	if err := c.Save(ctx, []string{"new-1", "new-2"}); err != nil {
		t.Fatalf("Save should fall back to the file: %v", err)
	}
	file.items = file.saved

	items, err := c.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll should succeed: %v", err)
	}
	if len(items) != 2 || items[0] != "new-1" {
		t.Fatalf("expected the snapshot written to the file, got %v", items)
	}
	if primary.gets != 0 {
		t.Error("primary should not be read while it is behind the file")
	}

	// primary recovers: reads go back to it
	primary.failSave = false
	if err := c.Save(ctx, []string{"new-3"}); err != nil {
		t.Fatalf("Save should succeed: %v", err)
	}
	items, err = c.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll should succeed: %v", err)
	}
	if len(items) != 1 || items[0] != "new-3" {
		t.Errorf("expected primary data after recovery, got %v", items)
	}
	if primary.gets != 1 {
		t.Errorf("expected one primary read after recovery, got %d", primary.gets)
	}
}

func TestFallback_StaleFileUnreadable(t *testing.T) {
	primary := &stubCollection{saveErr: errDown}
	file := &stubCollection{getErr: errors.New("permission denied")}
	c := NewFallbackCollection[string]("notices", primary, file, zap.NewNop())

	if err := c.Save(context.Background(), []string{"x"}); err != nil {
		t.Fatalf("Save should fall back: %v", err)
	}
	if _, err := c.GetAll(context.Background()); !errors.Is(err, pkgerrors.ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}
	if primary.gets != 0 {
		t.Error("primary snapshot is older than the file and should not be served")
	}
}

func TestNewRepository_FileOnly(t *testing.T) {
	repo := NewRepository(Options{DataDir: t.TempDir()})

	if _, ok := repo.Timetable.(*FileCollection[model.TimetableEntry]); !ok {
		t.Fatalf("expected file collection without a primary, got %T", repo.Timetable)
	}
	items, err := repo.Timetable.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll should succeed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty timetable, got %d", len(items))
	}
	if repo.Locker == nil {
		t.Error("expected a default locker")
	}
}
