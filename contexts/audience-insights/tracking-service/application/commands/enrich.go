package commands

import (
	"log/slog"
	"net"
	"net/netip"
	"sort"
	"strings"

	"tracker/contexts/audience-insights/tracking-service/domain/entities"
	domainerrors "tracker/contexts/audience-insights/tracking-service/domain/errors"
)

// UserAgentFallback is recorded when the client sent no User-Agent header.
const UserAgentFallback = "not_defined"

const realIPHeader = "X-Real-IP"

// RequestFacts carries the transport-level observations enrichment works
// from. Headers keeps the raw header map so lookup policy stays in this
// stage rather than in the HTTP adapter.
type RequestFacts struct {
	Headers    map[string][]string
	RemoteAddr string
}

// enrich fills the server context in place: reception time from the clock,
// user agent from the request header (with fallback), and the client IP
// resolved through the reverse-proxy header before the raw peer address.
// Client-claimed server context values are always discarded.
func (u IngestEventUseCase) enrich(event *entities.TrackingEvent, facts RequestFacts, logger *slog.Logger) error {
	now := u.now()
	server := entities.ServerContext{ReceptionTimestamp: &now}

	if agent, ok := headerLookup(facts.Headers, "User-Agent"); ok {
		server.UserAgent = agent
	} else {
		server.UserAgent = UserAgentFallback
	}
	if origin, ok := headerLookup(facts.Headers, "Origin"); ok {
		server.Origin = origin
	}

	logger.Debug("available request headers",
		"event", "ingest_event_headers",
		"module", "audience-insights/tracking-service",
		"layer", "application",
		"headers", strings.Join(headerNames(facts.Headers), ", "),
	)

	claimed := resolveClientIP(facts)
	addr, err := netip.ParseAddr(claimed)
	if err != nil {
		// X-Real-IP is trusted as-is; this only fires when the proxy (or a
		// client reaching the service directly) sends garbage.
		logger.Warn("claimed client ip unparsable",
			"event", "ingest_event_client_ip_invalid",
			"module", "audience-insights/tracking-service",
			"layer", "application",
			"claimed_ip", claimed,
		)
		return domainerrors.ErrInvalidClientIP
	}
	server.ClientIP = addr.String()

	event.ServerContext = server
	return nil
}

// resolveClientIP checks the proxy header with an exact-case lookup, then a
// case-insensitive one, then falls back to the peer address.
func resolveClientIP(facts RequestFacts) string {
	if values, ok := facts.Headers[realIPHeader]; ok && len(values) > 0 {
		return values[0]
	}
	for name, values := range facts.Headers {
		if strings.EqualFold(name, realIPHeader) && len(values) > 0 {
			return values[0]
		}
	}
	if host, _, err := net.SplitHostPort(facts.RemoteAddr); err == nil {
		return host
	}
	return facts.RemoteAddr
}

func headerLookup(headers map[string][]string, name string) (string, bool) {
	if values, ok := headers[name]; ok && len(values) > 0 {
		return values[0], true
	}
	for key, values := range headers {
		if strings.EqualFold(key, name) && len(values) > 0 {
			return values[0], true
		}
	}
	return "", false
}

func headerNames(headers map[string][]string) []string {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
