package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBroker_LocalFanout(t *testing.T) {
	b := NewBroker(nil, 4, zap.NewNop())

	a, cancelA := b.Subscribe()
	defer cancelA()
	c, cancelC := b.Subscribe()
	defer cancelC()

	b.Publish(context.Background(), New(TimetableUpdated, "t1"))

	if e := receive(t, a); e.Type != TimetableUpdated || e.ActorID != "t1" {
		t.Errorf("unexpected event %+v", e)
	}
	if e := receive(t, c); e.Type != TimetableUpdated {
		t.Errorf("unexpected event %+v", e)
	}
}

func TestBroker_CancelClosesChannel(t *testing.T) {
	b := NewBroker(nil, 1, zap.NewNop())
	ch, cancel := b.Subscribe()
	cancel()
	cancel()

	if _, ok := <-ch; ok {
		t.Error("expected closed channel after cancel")
	}

	// publishing with no subscribers is fine
	b.Publish(context.Background(), New(NoticesUpdated, ""))
}

func TestBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker(nil, 1, zap.NewNop())
	_, cancel := b.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Publish(context.Background(), New(AttendanceUpdated, ""))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
}

// loopRelay delivers published payloads to its subscriber in-process
type loopRelay struct {
	mu         sync.Mutex
	fn         func([]byte)
	ready      chan struct{}
	publishErr error
}

func (r *loopRelay) Publish(_ context.Context, _ string, payload []byte) error {
	if r.publishErr != nil {
		return r.publishErr
	}
	r.mu.Lock()
	fn := r.fn
	r.mu.Unlock()
	if fn != nil {
		fn(payload)
	}
	return nil
}

func (r *loopRelay) Subscribe(ctx context.Context, _ string, fn func([]byte)) error {
	r.mu.Lock()
	r.fn = fn
	r.mu.Unlock()
	close(r.ready)
	<-ctx.Done()
	return nil
}

func TestBroker_ThroughRelay(t *testing.T) {
	relay := &loopRelay{ready: make(chan struct{})}
	b := NewBroker(relay, 4, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)
	<-relay.ready

	ch, unsub := b.Subscribe()
	defer unsub()

	b.Publish(ctx, New(CoursesUpdated, "admin-1"))

	e := receive(t, ch)
	if e.Type != CoursesUpdated || e.ActorID != "admin-1" {
		t.Errorf("unexpected relayed event %+v", e)
	}
}

func TestBroker_RelayFailureFallsBackToLocal(t *testing.T) {
	relay := &loopRelay{ready: make(chan struct{}), publishErr: errors.New("redis down")}
	b := NewBroker(relay, 4, zap.NewNop())

	ch, unsub := b.Subscribe()
	defer unsub()

	b.Publish(context.Background(), New(StudentsUpdated, ""))

	if e := receive(t, ch); e.Type != StudentsUpdated {
		t.Errorf("unexpected event %+v", e)
	}
}
