package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/haskel/pricefit/internal/config"
	"github.com/haskel/pricefit/internal/regression"
	"github.com/haskel/pricefit/internal/storage"
	"github.com/haskel/pricefit/internal/trainer"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	server  *Server
	weights *storage.WeightsStore
	reports *storage.ReportStore
}

func newTestEnv(t *testing.T, params *regression.Parameters, mutate ...func(*config.Config)) testEnv {
	t.Helper()

	dir := t.TempDir()
	weights := storage.NewWeightsStore(filepath.Join(dir, "weights"), testLogger())
	reports := storage.NewReportStore(filepath.Join(dir, "report.json"), testLogger())

	if params != nil {
		if err := weights.Save(*params); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	cfg := config.Default()
	for _, m := range mutate {
		m(cfg)
	}

	model := NewModel(weights, reports, testLogger())
	return testEnv{
		server:  New(cfg, model, testLogger(), "0.1.0-test"),
		weights: weights,
		reports: reports,
	}
}

func (e testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

var trained = &regression.Parameters{Theta0: 8000, Theta1: -0.02}

func TestHandleInfo(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	info := decode[InfoResponse](t, w)
	if info.Name != "pricefit" || info.Version != "0.1.0-test" {
		t.Errorf("unexpected info %+v", info)
	}
}

func TestHandleInfo_UnknownPath(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(httptest.NewRequest(http.MethodGet, "/unknown", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t, trained)

	w := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	health := decode[HealthResponse](t, w)
	if health.Status != "ok" || !health.Trained {
		t.Errorf("unexpected health %+v", health)
	}
}

func TestHandlePredictQuery(t *testing.T) {
	env := newTestEnv(t, trained)

	w := env.do(httptest.NewRequest(http.MethodGet, "/predict?mileage=100000", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[PredictResponse](t, w)
	expected := PredictResponse{Mileage: 100000, Price: 6000, Theta0: 8000, Theta1: -0.02}
	if resp != expected {
		t.Errorf("expected %+v, got %+v", expected, resp)
	}
}

func TestHandlePredictQuery_Invalid(t *testing.T) {
	env := newTestEnv(t, trained)

	for _, query := range []string{"", "?mileage=", "?mileage=abc", "?mileage=NaN", "?mileage=Inf"} {
		w := env.do(httptest.NewRequest(http.MethodGet, "/predict"+query, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%q: expected status 400, got %d", query, w.Code)
			continue
		}
		if resp := decode[ErrorResponse](t, w); resp.Error == "" {
			t.Errorf("%q: expected error message", query)
		}
	}
}

func TestHandlePredictBody(t *testing.T) {
	env := newTestEnv(t, trained)

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"mileage": 50000}`))
	w := env.do(req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[PredictResponse](t, w)
	if resp.Price != 7000 {
		t.Errorf("expected price 7000, got %v", resp.Price)
	}
}

func TestHandlePredictBody_Extrapolates(t *testing.T) {
	env := newTestEnv(t, trained)

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"mileage": -1000}`))
	resp := decode[PredictResponse](t, env.do(req))
	if resp.Price != 8020 {
		t.Errorf("expected price 8020, got %v", resp.Price)
	}
}

func TestHandlePredict_PriceOutOfRange(t *testing.T) {
	env := newTestEnv(t, &regression.Parameters{Theta0: 8500, Theta1: -3})

	requests := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/predict?mileage=1e308", nil),
		httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"mileage": 1e308}`)),
	}

	for _, req := range requests {
		w := env.do(req)
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected status 422, got %d", req.Method, w.Code)
		}
		resp := decode[ErrorResponse](t, w)
		if !strings.Contains(resp.Error, "out of range") {
			t.Errorf("%s: unexpected error %q", req.Method, resp.Error)
		}
	}
}

func TestWriteJSON_EncodeFailure(t *testing.T) {
	env := newTestEnv(t, nil)

	w := httptest.NewRecorder()
	env.server.writeJSON(w, http.StatusOK, PredictResponse{Price: math.Inf(1)})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
	if resp := decode[ErrorResponse](t, w); resp.Error == "" {
		t.Error("expected an error body")
	}
}

func TestHandlePredictBody_Invalid(t *testing.T) {
	env := newTestEnv(t, trained)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `mileage=1`},
		{"missing field", `{}`},
		{"wrong type", `{"mileage":"1000"}`},
		{"unknown field", `{"mileage":1,"km":2}`},
		{"null", `{"mileage":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(tt.body)))
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestHandlePredictBody_TooLarge(t *testing.T) {
	env := newTestEnv(t, trained, func(c *config.Config) { c.Server.MaxBodyBytes = 16 })

	body := `{"mileage": 1` + strings.Repeat(" ", 32) + `}`
	w := env.do(httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body)))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d", w.Code)
	}
}

func TestHandlePredict_Untrained(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := decode[PredictResponse](t, env.do(httptest.NewRequest(http.MethodGet, "/predict?mileage=42000", nil)))
	if resp.Price != 0 || resp.Theta0 != 0 || resp.Theta1 != 0 {
		t.Errorf("expected zero prediction, got %+v", resp)
	}
}

func TestHandleModel(t *testing.T) {
	env := newTestEnv(t, trained)

	report := trainer.Report{Dataset: "data.csv", Observations: 24, Parameters: *trained}
	if err := env.reports.Save(report); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	env.server.Reload(nil)

	state := decode[ModelState](t, env.do(httptest.NewRequest(http.MethodGet, "/model", nil)))
	if !state.Trained || state.Parameters != *trained {
		t.Errorf("unexpected state %+v", state)
	}
	if state.Report == nil || state.Report.Observations != 24 {
		t.Errorf("expected report to be served, got %+v", state.Report)
	}
	if !state.Weights.Exists || state.Weights.Path != env.weights.Path() || state.Weights.UpdatedAt.IsZero() {
		t.Errorf("expected weights file info, got %+v", state.Weights)
	}
}

func TestHandleReload(t *testing.T) {
	env := newTestEnv(t, nil)

	if err := env.weights.Save(regression.Parameters{Theta0: 100, Theta1: 1}); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	before := decode[PredictResponse](t, env.do(httptest.NewRequest(http.MethodGet, "/predict?mileage=1", nil)))
	if before.Price != 0 {
		t.Fatalf("expected old parameters before reload, got %+v", before)
	}

	w := env.do(httptest.NewRequest(http.MethodPost, "/model/reload", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if state := decode[ModelState](t, w); !state.Trained {
		t.Error("expected trained model after reload")
	}

	after := decode[PredictResponse](t, env.do(httptest.NewRequest(http.MethodGet, "/predict?mileage=1", nil)))
	if after.Price != 101 {
		t.Errorf("expected price 101 after reload, got %v", after.Price)
	}
}

func TestAuthProtectsAllButHealth(t *testing.T) {
	env := newTestEnv(t, trained, func(c *config.Config) {
		c.Auth = config.AuthConfig{Enabled: true, User: "admin", Password: "secret"}
	})

	if w := env.do(httptest.NewRequest(http.MethodGet, "/health", nil)); w.Code != http.StatusOK {
		t.Errorf("/health: expected status 200, got %d", w.Code)
	}
	if w := env.do(httptest.NewRequest(http.MethodGet, "/predict?mileage=1", nil)); w.Code != http.StatusUnauthorized {
		t.Errorf("/predict: expected status 401, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/predict?mileage=1", nil)
	req.SetBasicAuth("admin", "secret")
	if w := env.do(req); w.Code != http.StatusOK {
		t.Errorf("/predict with credentials: expected status 200, got %d", w.Code)
	}
}

func TestReload_UpdatesCredentials(t *testing.T) {
	env := newTestEnv(t, trained)

	cfg := config.Default()
	cfg.Auth = config.AuthConfig{Enabled: true, User: "admin", Password: "secret"}
	env.server.Reload(cfg)

	if w := env.do(httptest.NewRequest(http.MethodGet, "/model", nil)); w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 after enabling auth, got %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, trained, func(c *config.Config) {
		c.Server.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 2}
	})

	var codes []int
	for i := 0; i < 3; i++ {
		codes = append(codes, env.do(httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected [200 200 429], got %v", codes)
	}
}

func TestResponsesAreJSON(t *testing.T) {
	env := newTestEnv(t, trained)

	w := env.do(httptest.NewRequest(http.MethodPost, "/predict", bytes.NewBufferString(`{"mileage":1}`)))
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}
}
