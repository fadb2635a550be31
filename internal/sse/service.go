// Service layer of Server Side Events (SSE) in JackStatz.
// Holds the registry of live game viewers and fans every event out to them.

package sse

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jackpalacios/jackstatz/internal/entity"
	"github.com/jackpalacios/jackstatz/pkg/log"
)

// ErrRegistryClosed is returned by Subscribe once the registry has been shut down.
var ErrRegistryClosed = errors.New("sse: registry closed")

const DefaultHeartbeatInterval = 30 * time.Second

type Service interface {
	// Subscribe registers a new viewer with an empty outbound queue.
	Subscribe(ctx context.Context) (*Subscriber, error)
	// Unsubscribe removes the viewer and closes its queue, unknown or already removed viewers are ignored.
	Unsubscribe(ctx context.Context, sub *Subscriber)
	// Broadcast queues event for every registered viewer and returns how many accepted it.
	// Viewers whose queue refuses the event are dropped from the registry, the caller never sees an error.
	Broadcast(ctx context.Context, event entity.BroadcastEvent) int
	// Count is the number of registered viewers.
	Count() int
	// HeartbeatInterval bounds how long a stream waits for an event before sending a heartbeat.
	HeartbeatInterval() time.Duration
	// Close drops every viewer and refuses new ones, their stream loops end on the next wait.
	Close(ctx context.Context) error
}

// Observer is notified about registry changes, metrics.Service satisfies it.
type Observer interface {
	SubscriberAdded()
	SubscriberRemoved()
	SubscriberDropped()
	EventBroadcast(eventType string)
}

type noopObserver struct{}

func (noopObserver) SubscriberAdded()      {}
func (noopObserver) SubscriberRemoved()    {}
func (noopObserver) SubscriberDropped()    {}
func (noopObserver) EventBroadcast(string) {}

// Options of a registry. Zero values mean a 30s heartbeat, unbounded queues and no observer.
type Options struct {
	HeartbeatInterval time.Duration
	QueueLimit        int
	Observer          Observer
}

// One open viewer stream.
type Subscriber struct {
	ID          string
	ConnectedAt time.Time
	queue       *Queue
}

// Next waits for the next serialized event, see Queue.Next.
func (s *Subscriber) Next(ctx context.Context, timeout time.Duration) ([]byte, error) {
	return s.queue.Next(ctx, timeout)
}

// Pending reports how many events are queued but not yet written.
func (s *Subscriber) Pending() int {
	return s.queue.Len()
}

// Object of this will be passed around from main to routers to API.
// A single mutex guards the registry, Broadcast holds it while enumerating so
// every viewer sees events in the order Broadcast was called.
type service struct {
	mu          sync.Mutex
	subscribers map[string]*Subscriber
	closed      bool

	heartbeat  time.Duration
	queueLimit int
	observer   Observer
	logger     log.Logger
}

// Helps to access the service layer interface and call methods. Service object is passed from main.
func NewService(opts Options, logger log.Logger) Service {
	if opts.HeartbeatInterval <= 0 {
		opts.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if opts.Observer == nil {
		opts.Observer = noopObserver{}
	}
	return &service{
		subscribers: make(map[string]*Subscriber),
		heartbeat:   opts.HeartbeatInterval,
		queueLimit:  opts.QueueLimit,
		observer:    opts.Observer,
		logger:      logger,
	}
}

func (s *service) Subscribe(ctx context.Context) (*Subscriber, error) {
	sub := &Subscriber{
		ID:          uuid.NewString(),
		ConnectedAt: time.Now().UTC(),
		queue:       NewQueue(s.queueLimit),
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrRegistryClosed
	}
	s.subscribers[sub.ID] = sub
	total := len(s.subscribers)
	s.mu.Unlock()

	s.observer.SubscriberAdded()
	s.logger.WithCtx(ctx).Info().Str("subscriber", sub.ID).Int("subscribers", total).Msg("Live game viewer subscribed")
	return sub, nil
}

func (s *service) Unsubscribe(ctx context.Context, sub *Subscriber) {
	if sub == nil {
		return
	}
	s.mu.Lock()
	current, ok := s.subscribers[sub.ID]
	if ok && current == sub {
		delete(s.subscribers, sub.ID)
	}
	total := len(s.subscribers)
	s.mu.Unlock()

	sub.queue.Close()
	if !ok || current != sub {
		return
	}
	s.observer.SubscriberRemoved()
	s.logger.WithCtx(ctx).Info().Str("subscriber", sub.ID).Int("subscribers", total).Msg("Live game viewer unsubscribed")
}

func (s *service) Broadcast(ctx context.Context, event entity.BroadcastEvent) int {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithCtx(ctx).Error().Err(err).Str("type", event.Type).Msg("Couldn't serialize broadcast event")
		return 0
	}

	delivered := 0
	var dropped []*Subscriber
	s.mu.Lock()
	for id, sub := range s.subscribers {
		if perr := sub.queue.Push(payload); perr != nil {
			delete(s.subscribers, id)
			dropped = append(dropped, sub)
			s.logger.WithCtx(ctx).Warn().Err(perr).Str("subscriber", id).Msg("Dropping live game viewer after failed delivery")
			continue
		}
		delivered++
	}
	s.mu.Unlock()

	for _, sub := range dropped {
		// Ends the stream loop of a viewer that is still connected but can't keep up.
		sub.queue.Close()
		s.observer.SubscriberDropped()
		s.observer.SubscriberRemoved()
	}
	s.observer.EventBroadcast(event.Type)
	s.logger.WithCtx(ctx).Debug().Str("type", event.Type).Int("delivered", delivered).Int("dropped", len(dropped)).Msg("Event broadcasted")
	return delivered
}

func (s *service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

func (s *service) HeartbeatInterval() time.Duration {
	return s.heartbeat
}

func (s *service) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	subs := s.subscribers
	s.subscribers = make(map[string]*Subscriber)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.queue.Close()
		s.observer.SubscriberRemoved()
	}
	s.logger.WithCtx(ctx).Info().Int("subscribers", len(subs)).Msg("Closed live game broadcast registry")
	return nil
}

// Event builders shared by the stream loop and the mutation handlers.

// ConnectedEvent is the handshake written first on every stream.
func ConnectedEvent() entity.BroadcastEvent {
	return entity.BroadcastEvent{Type: entity.EventConnected, Message: "SSE connection established"}
}

func HeartbeatEvent() entity.BroadcastEvent {
	return entity.BroadcastEvent{Type: entity.EventHeartbeat}
}

// NewEvent stamps data with the current time in UTC.
func NewEvent(eventType string, data interface{}) entity.BroadcastEvent {
	return entity.BroadcastEvent{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}
