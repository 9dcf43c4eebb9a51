package service

import (
	"context"
	"sync"

	"school-attendance/internal/event"
	"school-attendance/internal/model"
	"school-attendance/internal/repository"
)

// ── in-memory collection ──

type memCollection[T any] struct {
	mu      sync.Mutex
	items   []T
	saves   int
	readErr error
	saveErr error
}

func newMemCollection[T any](items ...T) *memCollection[T] {
	return &memCollection[T]{items: items}
}

func (m *memCollection[T]) GetAll(_ context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *memCollection[T]) Save(_ context.Context, items []T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items = make([]T, len(items))
	copy(m.items, items)
	m.saves++
	return nil
}

func (m *memCollection[T]) snapshot() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// ── recording publisher ──

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// ── test fixture ──

type testStore struct {
	users      *memCollection[model.User]
	courses    *memCollection[model.Course]
	timetable  *memCollection[model.TimetableEntry]
	attendance *memCollection[model.AttendanceRecord]
	notices    *memCollection[model.Notice]
	events     *recordingPublisher
	repo       *repository.Repository
}

func newTestStore() *testStore {
	s := &testStore{
		users:      newMemCollection[model.User](),
		courses:    newMemCollection[model.Course](),
		timetable:  newMemCollection[model.TimetableEntry](),
		attendance: newMemCollection[model.AttendanceRecord](),
		notices:    newMemCollection[model.Notice](),
		events:     &recordingPublisher{},
	}
	s.repo = &repository.Repository{
		Users:      s.users,
		Courses:    s.courses,
		Timetable:  s.timetable,
		Attendance: s.attendance,
		Notices:    s.notices,
		Locker:     repository.NewLocalLocker(0),
	}
	return s
}

func teacherUser(id, name, subject string) model.User {
	return model.User{ID: id, Username: id + "@school.test", Role: model.RoleTeacher, Name: name, Subject: subject, IsApproved: true}
}

func studentUser(id, name, department string) model.User {
	return model.User{ID: id, Username: id, Role: model.RoleStudent, Name: name, Department: department, IsApproved: true}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
