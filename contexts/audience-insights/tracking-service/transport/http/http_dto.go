package httptransport

import (
	"encoding/json"
	"time"
)

// TrackEventRequest is the wire envelope submitted by browser clients.
// Required fields use pointers so absence is distinguishable from zero
// values; unknown fields are ignored for forward compatibility.
type TrackEventRequest struct {
	Version       *int              `json:"_v"`
	Timestamp     *string           `json:"timestamp"`
	Order         *int              `json:"order"`
	Env           string            `json:"env,omitempty"`
	SessionID     *string           `json:"session_id"`
	Page          string            `json:"page,omitempty"`
	Action        *string           `json:"action"`
	Meta          json.RawMessage   `json:"meta,omitempty"`
	ClientContext *ClientContextDTO `json:"client_context"`
	ServerContext *ServerContextDTO `json:"server_context"`
}

type ClientContextDTO struct {
	Referer   string `json:"referer,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// ServerContextDTO must be present on the wire but its values are ignored:
// the server rebuilds every field during enrichment.
type ServerContextDTO struct {
	ClientIP           string `json:"client_ip,omitempty"`
	ReceptionTimestamp string `json:"_timestamp,omitempty"`
	Origin             string `json:"origin,omitempty"`
	UserAgent          string `json:"user_agent,omitempty"`
}

type StatusResponse struct {
	AllSystems string    `json:"all_systems"`
	Timestamp  time.Time `json:"timestamp"`
	StartTime  time.Time `json:"start_time"`
	Uptime     string    `json:"uptime"`
	APIVersion int       `json:"api_version"`
	APICounter uint64    `json:"api_counter"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
