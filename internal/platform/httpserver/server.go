package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"sync/atomic"
	"time"

	trackingservice "tracker/contexts/audience-insights/tracking-service"
	"tracker/contexts/audience-insights/tracking-service/application/commands"
	domainerrors "tracker/contexts/audience-insights/tracking-service/domain/errors"
	httptransport "tracker/contexts/audience-insights/tracking-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "tracker/internal/platform/httpserver/docs"
)

const apiVersion = 1

type Server struct {
	mux       *http.ServeMux
	handler   http.Handler
	logger    *slog.Logger
	addr      string
	tracking  trackingservice.Module
	startTime time.Time
	counter   atomic.Uint64
}

func New(tracking trackingservice.Module, logger *slog.Logger, addr string, proxyPrefix string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":5000"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		tracking:  tracking,
		startTime: time.Now().UTC(),
	}
	s.registerRoutes(proxyPrefix)
	s.handler = corsMiddleware(s.mux)
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.handler)
}

func (s *Server) registerRoutes(proxyPrefix string) {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET "+statusPattern(proxyPrefix), s.handleStatus)
	s.mux.HandleFunc("POST "+path.Join("/", proxyPrefix, "track"), s.handleTrackEvent)
}

// handleStatus godoc
// @Summary Service status
// @Description Reports liveness, uptime and the ingest counter. Touches neither storage nor mail.
// @Tags platform
// @Produce json
// @Success 200 {object} httptransport.StatusResponse
// @Router / [get]
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	now := time.Now().UTC()
	elapsed := int64(now.Sub(s.startTime).Seconds())

	writeJSON(w, http.StatusOK, httptransport.StatusResponse{
		AllSystems: "nominal",
		Timestamp:  now,
		StartTime:  s.startTime,
		Uptime:     fmt.Sprintf("%d seconds | %d minutes | %d days", elapsed, elapsed/60, elapsed/86400),
		APIVersion: apiVersion,
		APICounter: s.counter.Load(),
	})
}

func (s *Server) handleTrackEvent(w http.ResponseWriter, r *http.Request) {
	var req httptransport.TrackEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeTrackingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	facts := commands.RequestFacts{
		Headers:    r.Header,
		RemoteAddr: r.RemoteAddr,
	}

	if err := s.tracking.Handler.TrackEventHandler(r.Context(), req, facts); err != nil {
		writeTrackingDomainError(w, err)
		return
	}

	s.counter.Add(1)
	w.WriteHeader(http.StatusOK)
}

func writeTrackingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrMissingVersion):
		writeTrackingError(w, http.StatusUnprocessableEntity, "invalid_version", err.Error())
	case errors.Is(err, domainerrors.ErrMissingTimestamp),
		errors.Is(err, domainerrors.ErrInvalidTimestamp):
		writeTrackingError(w, http.StatusUnprocessableEntity, "invalid_timestamp", err.Error())
	case errors.Is(err, domainerrors.ErrMissingOrder):
		writeTrackingError(w, http.StatusUnprocessableEntity, "invalid_order", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidSessionID):
		writeTrackingError(w, http.StatusUnprocessableEntity, "invalid_session_id", err.Error())
	case errors.Is(err, domainerrors.ErrMissingAction),
		errors.Is(err, domainerrors.ErrUnknownAction):
		writeTrackingError(w, http.StatusUnprocessableEntity, "invalid_action", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidMeta):
		writeTrackingError(w, http.StatusUnprocessableEntity, "invalid_meta", err.Error())
	case errors.Is(err, domainerrors.ErrMissingContext):
		writeTrackingError(w, http.StatusUnprocessableEntity, "missing_context", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidClientIP):
		writeTrackingError(w, http.StatusBadRequest, "invalid_client_ip", err.Error())
	case errors.Is(err, domainerrors.ErrEventNotStored):
		writeTrackingError(w, http.StatusInternalServerError, "event_not_stored", err.Error())
	default:
		writeTrackingError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeTrackingError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, httptransport.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusPattern keeps the root status route from shadowing every path when
// the service is mounted at "/".
func statusPattern(proxyPrefix string) string {
	mounted := path.Join("/", proxyPrefix)
	if mounted == "/" {
		return "/{$}"
	}
	return mounted
}
