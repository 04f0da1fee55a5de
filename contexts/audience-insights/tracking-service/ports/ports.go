package ports

import (
	"context"
	"time"

	"tracker/contexts/audience-insights/tracking-service/domain/entities"
	sharedevents "tracker/internal/shared/events"
)

// EventRepository is the durable sink for enriched tracking events. One row
// per call; the core only observes success or failure.
type EventRepository interface {
	InsertEvent(ctx context.Context, event entities.TrackingEvent) error
}

// MailMessage is one outbound notification ready for transport.
type MailMessage struct {
	FromName  string
	FromEmail string
	ToName    string
	ToEmail   string
	Subject   string
	TextBody  string
}

// MailSender hands a composed message to the outbound mail collaborator.
// Implementations are stateless per call.
type MailSender interface {
	Send(ctx context.Context, message MailMessage) error
}

// Clock allows deterministic testing of enrichment timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts notification event identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope reuses the shared bus envelope.
type EventEnvelope = sharedevents.Envelope

// EventPublisher publishes envelopes to a topic. Publishing must never block
// the request path.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// EventSubscriber registers a topic consumer callback.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}
