package httpadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "tracker/contexts/audience-insights/tracking-service/application"
	"tracker/contexts/audience-insights/tracking-service/application/commands"
	"tracker/contexts/audience-insights/tracking-service/domain/entities"
	domainerrors "tracker/contexts/audience-insights/tracking-service/domain/errors"
	httptransport "tracker/contexts/audience-insights/tracking-service/transport/http"
)

type Handler struct {
	Ingest       commands.IngestEventUseCase
	ActionPolicy entities.ActionPolicy
	Logger       *slog.Logger
}

// TrackEventHandler godoc
// @Summary Ingest one tracking event
// @Description Validates, enriches and persists a browser tracking event; notification-worthy actions also trigger a detached mail.
// @Tags tracking-service
// @Accept json
// @Produce json
// @Param event body httptransport.TrackEventRequest true "Tracking event envelope"
// @Success 200 "Event stored"
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /track [post]
func (h Handler) TrackEventHandler(ctx context.Context, req httptransport.TrackEventRequest, facts commands.RequestFacts) error {
	logger := application.ResolveLogger(h.Logger)

	event, err := mapRequest(req, h.ActionPolicy)
	if err != nil {
		logger.Info("tracking event rejected",
			"event", "http_track_event_rejected",
			"module", "audience-insights/tracking-service",
			"layer", "transport",
			"error", err.Error(),
		)
		return err
	}

	return h.Ingest.Execute(ctx, commands.IngestEventCommand{Event: event, Facts: facts})
}

func mapRequest(req httptransport.TrackEventRequest, policy entities.ActionPolicy) (entities.TrackingEvent, error) {
	if req.ClientContext == nil || req.ServerContext == nil {
		return entities.TrackingEvent{}, domainerrors.ErrMissingContext
	}

	version := 0
	if req.Version != nil {
		version = *req.Version
	}

	var timestamp time.Time
	if req.Timestamp != nil {
		parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(*req.Timestamp))
		if err != nil {
			return entities.TrackingEvent{}, domainerrors.ErrInvalidTimestamp
		}
		timestamp = parsed
	}

	if req.Order == nil {
		return entities.TrackingEvent{}, domainerrors.ErrMissingOrder
	}

	sessionID := ""
	if req.SessionID != nil {
		sessionID = *req.SessionID
	}
	action := ""
	if req.Action != nil {
		action = *req.Action
	}

	meta, err := decodeMeta(req.Meta)
	if err != nil {
		return entities.TrackingEvent{}, err
	}

	return entities.NewTrackingEvent(
		version,
		timestamp,
		*req.Order,
		req.Env,
		sessionID,
		req.Page,
		action,
		meta,
		entities.ClientContext{
			Referer:   req.ClientContext.Referer,
			UserAgent: req.ClientContext.UserAgent,
		},
		policy,
	)
}

// decodeMeta accepts both a raw JSON object and the legacy encoding where
// the browser client submits meta as a JSON string containing JSON.
func decodeMeta(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if strings.TrimSpace(text) == "" {
			return nil, nil
		}
		raw = json.RawMessage(text)
	}

	var meta map[string]any
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, domainerrors.ErrInvalidMeta
	}
	return meta, nil
}
