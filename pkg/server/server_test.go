package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wcag-ai/spendguard/pkg/audit"
	"wcag-ai/spendguard/pkg/config"
	"wcag-ai/spendguard/pkg/governor"
	"wcag-ai/spendguard/pkg/notify"
	"wcag-ai/spendguard/pkg/pricing"
	"wcag-ai/spendguard/pkg/schedule"
)

type testServer struct {
	server *Server
	gov    *governor.Governor
	audits *audit.MemoryStore
}

// newTestServer builds a server whose "unit" class costs $1 per input
// unit, with a $100 daily and $1000 monthly limit.
func newTestServer(t *testing.T, overrideAuthorized bool, overrideToken string) *testServer {
	t.Helper()

	table, err := pricing.NewTable(map[string]pricing.Rate{
		"unit": {
			InputPer1K:  decimal.RequireFromString("1000"),
			OutputPer1K: decimal.Zero,
		},
	}, "unit")
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	audits := audit.NewMemoryStore()
	gov, err := governor.New(governor.Config{
		DailyLimit:         decimal.RequireFromString("100"),
		MonthlyLimit:       decimal.RequireFromString("1000"),
		OverrideAuthorized: overrideAuthorized,
	}, table, notify.NewDispatcher(), audits)
	if err != nil {
		t.Fatalf("governor.New: %v", err)
	}

	cfg := config.NewDefault()
	srv, err := New(Options{
		Config:        &cfg.Server,
		Governor:      gov,
		Scheduler:     schedule.NewScheduler(gov, schedule.Config{}),
		AuditStore:    audits,
		OverrideToken: overrideToken,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &testServer{server: srv, gov: gov, audits: audits}
}

func (ts *testServer) request(t *testing.T, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range header {
		req.Header[k] = v
	}

	rec := httptest.NewRecorder()
	ts.server.routes().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("malformed response body %q: %v", rec.Body.String(), err)
	}
	return body
}

// ============================================================================
// Charge Endpoint Tests
// ============================================================================

func TestHandleCharge_Accepted(t *testing.T) {
	ts := newTestServer(t, false, "")

	rec := ts.request(t, http.MethodPost, "/v1/charge",
		`{"actor_id":"scanner-1","operation_class":"unit","input_units":25,"output_units":0}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["cost_usd"] != "25" {
		t.Errorf("cost_usd = %v, want 25", body["cost_usd"])
	}
	if body["daily_remaining_usd"] != "75" {
		t.Errorf("daily_remaining_usd = %v, want 75", body["daily_remaining_usd"])
	}
	if body["gate_open"] != true {
		t.Errorf("gate_open = %v, want true", body["gate_open"])
	}
}

func TestHandleCharge_MalformedBody(t *testing.T) {
	ts := newTestServer(t, false, "")

	rec := ts.request(t, http.MethodPost, "/v1/charge", `{"actor_id": `, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "malformed_request" {
		t.Errorf("code = %v", body["code"])
	}
}

func TestHandleCharge_MissingActor(t *testing.T) {
	ts := newTestServer(t, false, "")

	rec := ts.request(t, http.MethodPost, "/v1/charge",
		`{"operation_class":"unit","input_units":1}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleCharge_InvalidUnits(t *testing.T) {
	ts := newTestServer(t, false, "")

	rec := ts.request(t, http.MethodPost, "/v1/charge",
		`{"actor_id":"a","operation_class":"unit","input_units":-1}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "invalid_units" {
		t.Errorf("code = %v, want invalid_units", body["code"])
	}
}

func TestHandleCharge_BudgetExceeded(t *testing.T) {
	ts := newTestServer(t, false, "")

	if _, err := ts.gov.Charge("a", "unit", 100, 0); err != nil {
		t.Fatalf("Charge: %v", err)
	}

	rec := ts.request(t, http.MethodPost, "/v1/charge",
		`{"actor_id":"a","operation_class":"unit","input_units":1}`, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "budget_exceeded" {
		t.Errorf("code = %v, want budget_exceeded", body["code"])
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected a Retry-After hint pointing at the next daily reset")
	}
}

// ============================================================================
// Status and Projection Endpoint Tests
// ============================================================================

func TestHandleStatus(t *testing.T) {
	ts := newTestServer(t, false, "")
	ts.gov.Charge("scanner-1", "unit", 40, 0)

	rec := ts.request(t, http.MethodGet, "/v1/status", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["daily_spend_usd"] != "40" {
		t.Errorf("daily_spend_usd = %v, want 40", body["daily_spend_usd"])
	}
	if body["gate_open"] != true {
		t.Errorf("gate_open = %v", body["gate_open"])
	}
	if body["daily_percentage"].(float64) != 0.4 {
		t.Errorf("daily_percentage = %v, want 0.4", body["daily_percentage"])
	}
	actors, ok := body["top_actors"].([]any)
	if !ok || len(actors) != 1 {
		t.Fatalf("top_actors = %v", body["top_actors"])
	}
}

func TestHandleProjection(t *testing.T) {
	ts := newTestServer(t, false, "")

	rec := ts.request(t, http.MethodGet,
		"/v1/projection?ops_per_day=100&units_per_op=40&class=unit", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["cost_per_op_usd"] != "40" {
		t.Errorf("cost_per_op_usd = %v, want 40", body["cost_per_op_usd"])
	}
	if body["daily_usd"] != "4000" {
		t.Errorf("daily_usd = %v, want 4000", body["daily_usd"])
	}
	if body["monthly_usd"] != "120000" {
		t.Errorf("monthly_usd = %v, want 120000", body["monthly_usd"])
	}
}

func TestHandleProjection_BadParams(t *testing.T) {
	ts := newTestServer(t, false, "")

	rec := ts.request(t, http.MethodGet, "/v1/projection?ops_per_day=abc&units_per_op=1", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// ============================================================================
// Override Endpoint Tests
// ============================================================================

func TestHandleOverrideReset_TokenRequired(t *testing.T) {
	ts := newTestServer(t, true, "sekrit")

	rec := ts.request(t, http.MethodPost, "/v1/override/reset",
		`{"operator":"oncall"}`, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 without token", rec.Code)
	}

	rec = ts.request(t, http.MethodPost, "/v1/override/reset",
		`{"operator":"oncall"}`, http.Header{"Authorization": {"Bearer wrong"}})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 with wrong token", rec.Code)
	}
}

func TestHandleOverrideReset_Unauthorized(t *testing.T) {
	ts := newTestServer(t, false, "")

	rec := ts.request(t, http.MethodPost, "/v1/override/reset",
		`{"operator":"oncall"}`, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "unauthorized_override" {
		t.Errorf("code = %v", body["code"])
	}

	// The denied attempt is audited.
	records, _ := ts.audits.Recent(context.Background(), 10)
	if len(records) != 1 || records[0].Kind != audit.KindOverrideDenied {
		t.Errorf("expected an override_denied audit record, got %v", records)
	}
}

func TestHandleOverrideReset_Authorized(t *testing.T) {
	ts := newTestServer(t, true, "sekrit")

	ts.gov.Charge("a", "unit", 100, 0)

	rec := ts.request(t, http.MethodPost, "/v1/override/reset",
		`{"operator":"oncall","new_daily_limit_usd":200}`,
		http.Header{"Authorization": {"Bearer sekrit"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["daily_spend_usd"] != "0" {
		t.Errorf("daily_spend_usd = %v, want 0 after reset", body["daily_spend_usd"])
	}
	if body["gate_open"] != true {
		t.Errorf("gate_open = %v, want true after reset", body["gate_open"])
	}
	if body["daily_limit_usd"] != "200" {
		t.Errorf("daily_limit_usd = %v, want 200", body["daily_limit_usd"])
	}

	records, _ := ts.audits.Recent(context.Background(), 10)
	if len(records) != 1 || records[0].Kind != audit.KindEmergencyReset {
		t.Errorf("expected an emergency_reset audit record, got %v", records)
	}
}

// ============================================================================
// Audit and Health Endpoint Tests
// ============================================================================

func TestHandleAudit(t *testing.T) {
	ts := newTestServer(t, false, "")

	ts.audits.Append(context.Background(), audit.Record{
		ID:        "r1",
		Kind:      audit.KindLimitsUpdated,
		Actor:     "config-reload",
		Timestamp: time.Now().UTC(),
	})

	rec := ts.request(t, http.MethodGet, "/v1/audit?limit=5", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decodeBody(t, rec)
	records, ok := body["records"].([]any)
	if !ok || len(records) != 1 {
		t.Fatalf("records = %v", body["records"])
	}
}

func TestHandleHealthz(t *testing.T) {
	ts := newTestServer(t, false, "")

	rec := ts.request(t, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "ok" {
		t.Errorf("status body = %v", body)
	}
}

func TestRoutes_MetricsOnlyWhenConfigured(t *testing.T) {
	ts := newTestServer(t, false, "")

	rec := ts.request(t, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("metrics should 404 without a handler, got %d", rec.Code)
	}
}
