package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "tracker/contexts/audience-insights/tracking-service/application"
	"tracker/contexts/audience-insights/tracking-service/domain/entities"
	domainerrors "tracker/contexts/audience-insights/tracking-service/domain/errors"
	"tracker/contexts/audience-insights/tracking-service/domain/services"
	"tracker/contexts/audience-insights/tracking-service/ports"
)

const (
	// NotificationTopic carries per-event notification requests to the
	// detached mail worker.
	NotificationTopic = "tracking.notification"

	notificationEventType = "tracking.notification"
	sourceService         = "tracker"
)

type IngestEventCommand struct {
	Event entities.TrackingEvent
	Facts RequestFacts
}

type IngestEventUseCase struct {
	Events      ports.EventRepository
	Publisher   ports.EventPublisher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute runs the ingestion pipeline in this order:
// 1) schedule the notification for worthy actions
// 2) enrich the server context from transport facts
// 3) persist the enriched event.
// Notification delivery is decoupled from the outcome: the worker may still
// send (or fail) after persistence has failed.
func (u IngestEventUseCase) Execute(ctx context.Context, cmd IngestEventCommand) error {
	logger := application.ResolveLogger(u.Logger)
	event := cmd.Event

	// The dispatcher reads action/env/meta only, none of which enrichment
	// touches, so scheduling before enrichment is safe.
	if services.NotificationWorthy(event.Action) {
		u.scheduleNotification(ctx, event, logger)
	}

	if err := u.enrich(&event, cmd.Facts, logger); err != nil {
		return err
	}

	if err := u.Events.InsertEvent(ctx, event); err != nil {
		logger.Error("tracking event insert failed",
			"event", "ingest_event_insert_failed",
			"module", "audience-insights/tracking-service",
			"layer", "application",
			"session_id", event.SessionID.String(),
			"action", string(event.Action),
			"error", err.Error(),
		)
		return domainerrors.ErrEventNotStored
	}

	logger.Debug("tracking event stored",
		"event", "ingest_event_stored",
		"module", "audience-insights/tracking-service",
		"layer", "application",
		"session_id", event.SessionID.String(),
		"send_order", event.Order,
	)
	return nil
}

// scheduleNotification publishes the notification request. Any failure here
// is logged and swallowed: the side channel must never fail ingestion.
func (u IngestEventUseCase) scheduleNotification(ctx context.Context, event entities.TrackingEvent, logger *slog.Logger) {
	logger.Info("event of interest, notifying by mail",
		"event", "ingest_event_notification_scheduled",
		"module", "audience-insights/tracking-service",
		"layer", "application",
		"action", string(event.Action),
		"env", event.Env,
	)

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("notification payload encode failed",
			"event", "ingest_event_notification_encode_failed",
			"module", "audience-insights/tracking-service",
			"layer", "application",
			"session_id", event.SessionID.String(),
			"error", err.Error(),
		)
		return
	}

	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		logger.Error("notification id generation failed",
			"event", "ingest_event_notification_id_failed",
			"module", "audience-insights/tracking-service",
			"layer", "application",
			"error", err.Error(),
		)
		return
	}

	envelope := ports.EventEnvelope{
		EventID:        eventID,
		EventType:      notificationEventType,
		SourceService:  sourceService,
		OccurredAtUTC:  u.now(),
		EntityType:     "tracking_event",
		EntityID:       event.SessionID.String(),
		PayloadVersion: event.Version,
		Payload:        payload,
	}
	if err := u.Publisher.Publish(ctx, NotificationTopic, envelope); err != nil {
		logger.Error("notification publish failed",
			"event", "ingest_event_notification_publish_failed",
			"module", "audience-insights/tracking-service",
			"layer", "application",
			"session_id", event.SessionID.String(),
			"error", err.Error(),
		)
	}
}

func (u IngestEventUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
