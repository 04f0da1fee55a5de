package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	trackingservice "tracker/contexts/audience-insights/tracking-service"
	"tracker/contexts/audience-insights/tracking-service/domain/entities"
	httptransport "tracker/contexts/audience-insights/tracking-service/transport/http"
)

func newTestServer(t *testing.T, proxyPrefix string) (*httptest.Server, trackingservice.Module) {
	t.Helper()
	module := trackingservice.NewInMemoryModule(entities.ActionPolicyStrict, nil)
	server := New(module, nil, ":0", proxyPrefix)
	ts := httptest.NewServer(server.handler)
	t.Cleanup(ts.Close)
	return ts, module
}

func trackPayload(action string) string {
	return `{
		"_v": 1,
		"timestamp": "2019-11-18T10:14:14.758899+00:00",
		"order": 10,
		"env": "development",
		"session_id": "88888888-7777-6666-5555-444444444444",
		"page": "test_page",
		"action": "` + action + `",
		"meta": "{}",
		"client_context": {"referer": "http://example.com"},
		"server_context": {}
	}`
}

func TestTrackEndpointAcceptsValidEvent(t *testing.T) {
	ts, module := newTestServer(t, "/")

	resp, err := http.Post(ts.URL+"/track", "application/json", strings.NewReader(trackPayload("load")))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", body.String())
	}
	if got := len(module.Store.Events()); got != 1 {
		t.Fatalf("expected one stored event, got %d", got)
	}
}

func TestTrackEndpointRejectsMalformedJSON(t *testing.T) {
	ts, _ := newTestServer(t, "/")

	resp, err := http.Post(ts.URL+"/track", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var payload httptransport.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding error payload: %v", err)
	}
	if payload.Code != "invalid_json" {
		t.Fatalf("expected invalid_json, got %q", payload.Code)
	}
}

func TestTrackEndpointRejectsInvalidEnvelope(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(map[string]any)
		wantCode string
	}{
		{
			name:     "missing session id",
			mutate:   func(m map[string]any) { delete(m, "session_id") },
			wantCode: "invalid_session_id",
		},
		{
			name:     "missing action",
			mutate:   func(m map[string]any) { delete(m, "action") },
			wantCode: "invalid_action",
		},
		{
			name:     "unknown action",
			mutate:   func(m map[string]any) { m["action"] = "made_up" },
			wantCode: "invalid_action",
		},
		{
			name:     "unparsable timestamp",
			mutate:   func(m map[string]any) { m["timestamp"] = "yesterday" },
			wantCode: "invalid_timestamp",
		},
		{
			name:     "missing client context",
			mutate:   func(m map[string]any) { delete(m, "client_context") },
			wantCode: "missing_context",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts, module := newTestServer(t, "/")

			var payload map[string]any
			if err := json.Unmarshal([]byte(trackPayload("load")), &payload); err != nil {
				t.Fatalf("building payload: %v", err)
			}
			tc.mutate(payload)
			body, err := json.Marshal(payload)
			if err != nil {
				t.Fatalf("encoding payload: %v", err)
			}

			resp, err := http.Post(ts.URL+"/track", "application/json", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", resp.StatusCode)
			}
			var errPayload httptransport.ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&errPayload); err != nil {
				t.Fatalf("decoding error payload: %v", err)
			}
			if errPayload.Code != tc.wantCode {
				t.Fatalf("expected %q, got %q", tc.wantCode, errPayload.Code)
			}
			if got := len(module.Store.Events()); got != 0 {
				t.Fatalf("expected no stored events, got %d", got)
			}
		})
	}
}

func TestStatusEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, "/")

	// a successful ingest bumps the counter
	resp, err := http.Post(ts.URL+"/track", "application/json", strings.NewReader(trackPayload("click")))
	if err != nil {
		t.Fatalf("track request failed: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("status request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var status httptransport.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if status.AllSystems != "nominal" {
		t.Fatalf("expected nominal, got %q", status.AllSystems)
	}
	if status.APIVersion != 1 {
		t.Fatalf("expected api version 1, got %d", status.APIVersion)
	}
	if status.APICounter != 1 {
		t.Fatalf("expected counter 1, got %d", status.APICounter)
	}
	if !strings.Contains(status.Uptime, "seconds") {
		t.Fatalf("unexpected uptime format: %q", status.Uptime)
	}
}

func TestRejectedEventsDoNotBumpCounter(t *testing.T) {
	ts, _ := newTestServer(t, "/")

	resp, err := http.Post(ts.URL+"/track", "application/json", strings.NewReader(trackPayload("made_up")))
	if err != nil {
		t.Fatalf("track request failed: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("status request failed: %v", err)
	}
	defer resp.Body.Close()

	var status httptransport.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if status.APICounter != 0 {
		t.Fatalf("expected counter 0 after rejection, got %d", status.APICounter)
	}
}

func TestProxyPrefixMountsRoutes(t *testing.T) {
	ts, module := newTestServer(t, "/tracker")

	resp, err := http.Post(ts.URL+"/tracker/track", "application/json", strings.NewReader(trackPayload("scroll")))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 under prefix, got %d", resp.StatusCode)
	}
	if got := len(module.Store.Events()); got != 1 {
		t.Fatalf("expected one stored event, got %d", got)
	}

	resp, err = http.Get(ts.URL + "/tracker")
	if err != nil {
		t.Fatalf("status request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status under prefix, got %d", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts, _ := newTestServer(t, "/")

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/track", nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard origin, got %q", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Fatalf("expected POST in allowed methods, got %q", got)
	}
}

func TestRealIPHeaderTrusted(t *testing.T) {
	ts, module := newTestServer(t, "/")

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/track", strings.NewReader(trackPayload("misc")))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Real-IP", "203.0.113.9")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	events := module.Store.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if events[0].ServerContext.ClientIP != "203.0.113.9" {
		t.Fatalf("expected proxy ip, got %q", events[0].ServerContext.ClientIP)
	}
}
