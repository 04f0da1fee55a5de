package entities

import (
	"strconv"
	"strings"
	"time"

	domainerrors "tracker/contexts/audience-insights/tracking-service/domain/errors"

	"github.com/google/uuid"
)

// Action tags one tracking submission with the kind of browser or business
// activity it records.
type Action string

const (
	ActionLoad            Action = "load"
	ActionScroll          Action = "scroll"
	ActionClick           Action = "click"
	ActionInscription     Action = "inscription"
	ActionListingNew      Action = "listing_new"
	ActionQuoteNew        Action = "quote_new"
	ActionMetricUserlink  Action = "metric_userlink"
	ActionDirectorySearch Action = "directory_search"
	ActionDirectoryList   Action = "directory_list"
	ActionDirectoryCSV    Action = "directory_csv"
	ActionAdopt           Action = "adopt"
	ActionAdoptSearch     Action = "adopt_search"
	ActionMisc            Action = "misc"
)

var knownActions = map[Action]struct{}{
	ActionLoad:            {},
	ActionScroll:          {},
	ActionClick:           {},
	ActionInscription:     {},
	ActionListingNew:      {},
	ActionQuoteNew:        {},
	ActionMetricUserlink:  {},
	ActionDirectorySearch: {},
	ActionDirectoryList:   {},
	ActionDirectoryCSV:    {},
	ActionAdopt:           {},
	ActionAdoptSearch:     {},
	ActionMisc:            {},
}

// ActionPolicy selects how strictly the action tag is validated.
type ActionPolicy string

const (
	// ActionPolicyStrict rejects actions outside the known set.
	ActionPolicyStrict ActionPolicy = "strict"
	// ActionPolicyPermissive accepts any non-empty action string.
	ActionPolicyPermissive ActionPolicy = "permissive"
)

// ClientContext carries transport facts as claimed by the browser client.
type ClientContext struct {
	Referer   string `json:"referer,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// ServerContext carries transport facts observed server-side. Every field is
// write-once from the server's perspective: client-submitted values are
// discarded and replaced during enrichment.
type ServerContext struct {
	ClientIP           string     `json:"client_ip,omitempty"`
	ReceptionTimestamp *time.Time `json:"reception_timestamp,omitempty"`
	Origin             string     `json:"origin,omitempty"`
	UserAgent          string     `json:"user_agent,omitempty"`
}

// TrackingEvent is the validated in-memory form of one inbound submission.
// It lives for a single request: constructed from the wire payload, enriched
// once, then serialized to storage and discarded.
type TrackingEvent struct {
	Version       int            `json:"v"`
	Timestamp     time.Time      `json:"timestamp"`
	Order         int            `json:"order"`
	Env           string         `json:"env,omitempty"`
	SessionID     uuid.UUID      `json:"session_id"`
	Page          string         `json:"page,omitempty"`
	Action        Action         `json:"action"`
	Meta          map[string]any `json:"meta,omitempty"`
	ClientContext ClientContext  `json:"client_context"`
	ServerContext ServerContext  `json:"server_context"`
}

// NewTrackingEvent validates the wire-level values and builds the event.
// The server context always starts empty; enrichment fills it from the
// request, never from client input.
func NewTrackingEvent(
	version int,
	timestamp time.Time,
	order int,
	env string,
	sessionID string,
	page string,
	action string,
	meta map[string]any,
	client ClientContext,
	policy ActionPolicy,
) (TrackingEvent, error) {
	if version <= 0 {
		return TrackingEvent{}, domainerrors.ErrMissingVersion
	}
	if timestamp.IsZero() {
		return TrackingEvent{}, domainerrors.ErrMissingTimestamp
	}
	session, err := uuid.Parse(strings.TrimSpace(sessionID))
	if err != nil {
		return TrackingEvent{}, domainerrors.ErrInvalidSessionID
	}
	if strings.TrimSpace(action) == "" {
		return TrackingEvent{}, domainerrors.ErrMissingAction
	}
	tag := Action(action)
	if policy != ActionPolicyPermissive {
		if _, ok := knownActions[tag]; !ok {
			return TrackingEvent{}, domainerrors.ErrUnknownAction
		}
	}

	return TrackingEvent{
		Version:       version,
		Timestamp:     timestamp,
		Order:         order,
		Env:           env,
		SessionID:     session,
		Page:          page,
		Action:        tag,
		Meta:          meta,
		ClientContext: client,
	}, nil
}

// IsAdmin reports the meta.is_admin flag, defaulting to false when the flag
// is absent or not a boolean.
func (e TrackingEvent) IsAdmin() bool {
	if e.Meta == nil {
		return false
	}
	flag, ok := e.Meta["is_admin"].(bool)
	return ok && flag
}

// MetaID returns meta.id as a string, or the literal "error" token when the
// field is absent. Notification links embed this value as-is.
func (e TrackingEvent) MetaID() string {
	if e.Meta == nil {
		return "error"
	}
	switch id := e.Meta["id"].(type) {
	case string:
		return id
	case float64:
		// ids decoded from JSON numbers are integral in practice
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return "error"
	}
}
