package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	application "tracker/contexts/audience-insights/tracking-service/application"
	"tracker/contexts/audience-insights/tracking-service/application/commands"
	"tracker/contexts/audience-insights/tracking-service/domain/entities"
	domainerrors "tracker/contexts/audience-insights/tracking-service/domain/errors"
	"tracker/contexts/audience-insights/tracking-service/domain/services"
	"tracker/contexts/audience-insights/tracking-service/ports"
)

const (
	senderName    = "BITOUBI Notifications"
	senderEmail   = "noreply@inclusion.beta.gouv.fr"
	recipientName = "Le Marché"
)

// Notifier consumes notification requests off the bus and pushes one mail
// per event through the outbound collaborator. It runs detached from the
// request path; failures are logged and dropped, never retried.
type Notifier struct {
	Subscriber    ports.EventSubscriber
	Mailer        ports.MailSender
	Recipient     string
	ConsumerGroup string
	Logger        *slog.Logger
}

func (n Notifier) Start(ctx context.Context) error {
	group := n.ConsumerGroup
	if group == "" {
		group = "tracking-notifier-cg"
	}
	return n.Subscriber.Subscribe(ctx, commands.NotificationTopic, group, n.handle)
}

func (n Notifier) handle(ctx context.Context, envelope ports.EventEnvelope) error {
	logger := application.ResolveLogger(n.Logger)

	var event entities.TrackingEvent
	if err := json.Unmarshal(envelope.Payload, &event); err != nil {
		logger.Error("notification payload decode failed",
			"event", "notifier_payload_decode_failed",
			"module", "audience-insights/tracking-service",
			"layer", "worker",
			"event_id", envelope.EventID,
			"error", err.Error(),
		)
		return err
	}

	message := ports.MailMessage{
		FromName:  senderName,
		FromEmail: senderEmail,
		ToName:    recipientName,
		ToEmail:   n.Recipient,
		Subject:   services.ComposeSubject(event),
		TextBody:  services.ComposeBody(event),
	}

	if err := n.Mailer.Send(ctx, message); err != nil {
		logger.Error("notification send failed",
			"event", "notifier_send_failed",
			"module", "audience-insights/tracking-service",
			"layer", "worker",
			"event_id", envelope.EventID,
			"action", string(event.Action),
			"error", err.Error(),
		)
		return fmt.Errorf("%w: %v", domainerrors.ErrNotificationFailed, err)
	}

	logger.Info("notification sent",
		"event", "notifier_sent",
		"module", "audience-insights/tracking-service",
		"layer", "worker",
		"subject", message.Subject,
	)
	return nil
}
