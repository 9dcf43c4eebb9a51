package event

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Type domain event name
type Type string

const (
	TimetableUpdated  Type = "timetable_updated"
	AttendanceUpdated Type = "attendance_updated"
	StudentsUpdated   Type = "students_updated"
	TeachersUpdated   Type = "teachers_updated"
	CoursesUpdated    Type = "courses_updated"
	NoticesUpdated    Type = "notices_updated"
)

// Event a change notification; clients refetch what they display
type Event struct {
	Type    Type      `json:"type"`
	ActorID string    `json:"actor_id,omitempty"`
	At      time.Time `json:"at"`
}

// New stamps an event with the current time
func New(t Type, actorID string) Event {
	return Event{Type: t, ActorID: actorID, At: time.Now().UTC()}
}

// Publisher what services depend on
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Relay cross-instance transport (Redis pub/sub)
type Relay interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string, fn func(payload []byte)) error
}

const relayChannel = "school-attendance:events"

// Broker fans events out to local subscribers. With a relay, events go
// through the relay first so every instance delivers them.
type Broker struct {
	mu      sync.RWMutex
	subs    map[int]chan Event
	nextID  int
	backlog int
	relay   Relay
	logger  *zap.Logger
}

// NewBroker relay may be nil for a single instance
func NewBroker(relay Relay, backlog int, logger *zap.Logger) *Broker {
	if backlog <= 0 {
		backlog = 16
	}
	return &Broker{
		subs:    make(map[int]chan Event),
		backlog: backlog,
		relay:   relay,
		logger:  logger,
	}
}

// Subscribe returns a channel of events and a cancel func that closes it
func (b *Broker) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.backlog)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish never fails the caller; relay errors fall back to local delivery
func (b *Broker) Publish(ctx context.Context, e Event) {
	if b.relay == nil {
		b.fanout(e)
		return
	}

	payload, err := json.Marshal(e)
	if err == nil {
		err = b.relay.Publish(ctx, relayChannel, payload)
	}
	if err != nil {
		b.logger.Warn("event relay publish failed, delivering locally",
			zap.String("type", string(e.Type)), zap.Error(err))
		b.fanout(e)
	}
}

// Run consumes the relay until ctx is done. Without a relay it just waits.
func (b *Broker) Run(ctx context.Context) error {
	if b.relay == nil {
		<-ctx.Done()
		return nil
	}
	return b.relay.Subscribe(ctx, relayChannel, func(payload []byte) {
		var e Event
		if err := json.Unmarshal(payload, &e); err != nil {
			b.logger.Warn("dropping malformed event", zap.Error(err))
			return
		}
		b.fanout(e)
	})
}

func (b *Broker) fanout(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.logger.Debug("subscriber backlog full, event dropped",
				zap.Int("subscriber", id), zap.String("type", string(e.Type)))
		}
	}
}
