package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"tracker/contexts/audience-insights/tracking-service/domain/entities"
	"tracker/contexts/audience-insights/tracking-service/ports"
)

// Store is an in-memory event sink implementing the tracking ports for local
// runtime and tests. It is not intended as production persistence.
type Store struct {
	mu        sync.RWMutex
	events    []entities.TrackingEvent
	insertErr error
	fixedNow  time.Time
	sequence  uint64
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) InsertEvent(_ context.Context, event entities.TrackingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.events = append(s.events, event)
	return nil
}

// Events returns a snapshot of everything inserted so far.
func (s *Store) Events() []entities.TrackingEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.TrackingEvent, len(s.events))
	copy(out, s.events)
	return out
}

// FailInsertsWith makes subsequent inserts return err (nil restores writes).
func (s *Store) FailInsertsWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertErr = err
}

// SetNow pins the clock for deterministic enrichment timestamps.
func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixedNow = now
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.fixedNow.IsZero() {
		return s.fixedNow
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return fmt.Sprintf("mem-%d", atomic.AddUint64(&s.sequence, 1)), nil
}

// Mailer records outbound messages and can be forced to fail.
type Mailer struct {
	mu       sync.RWMutex
	sent     []ports.MailMessage
	attempts int
	sendErr  error
}

func NewMailer() *Mailer {
	return &Mailer{}
}

func (m *Mailer) Send(_ context.Context, message ports.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, message)
	return nil
}

func (m *Mailer) Sent() []ports.MailMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ports.MailMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// Attempts counts every Send call, including failed ones.
func (m *Mailer) Attempts() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.attempts
}

func (m *Mailer) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendErr = err
}

// Bus is a synchronous in-memory publish/subscribe double. Handlers run
// inline on Publish; handler errors are dropped the way the platform bus
// drops them, so publishing never fails the caller.
type Bus struct {
	mu        sync.RWMutex
	handlers  map[string][]func(context.Context, ports.EventEnvelope) error
	published map[string][]ports.EventEnvelope
}

func NewBus() *Bus {
	return &Bus{
		handlers:  make(map[string][]func(context.Context, ports.EventEnvelope) error),
		published: make(map[string][]ports.EventEnvelope),
	}
}

func (b *Bus) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	b.mu.Lock()
	b.published[topic] = append(b.published[topic], event)
	handlers := append([]func(context.Context, ports.EventEnvelope) error(nil), b.handlers[topic]...)
	b.mu.Unlock()

	for _, handler := range handlers {
		_ = handler(ctx, event)
	}
	return nil
}

func (b *Bus) Subscribe(
	_ context.Context,
	topic string,
	_ string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
	return nil
}

// Published returns the envelopes published to topic so far.
func (b *Bus) Published(topic string) []ports.EventEnvelope {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]ports.EventEnvelope, len(b.published[topic]))
	copy(out, b.published[topic])
	return out
}
