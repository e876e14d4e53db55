package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/haskel/pricefit/internal/config"
	"github.com/haskel/pricefit/internal/regression"
)

func TestServer_Integration(t *testing.T) {
	env := newTestEnv(t, &regression.Parameters{Theta0: 8499.6, Theta1: -0.0214})

	ts := httptest.NewServer(env.server.Handler())
	defer ts.Close()

	t.Run("GET /predict", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/predict?mileage=0")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		var p PredictResponse
		if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if p.Price != 8499.6 {
			t.Errorf("expected price 8499.6, got %v", p.Price)
		}
	})

	t.Run("POST /predict", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/predict", "application/json", strings.NewReader(`{"mileage":0}`))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected status 200, got %d", resp.StatusCode)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/health", "application/json", nil)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("expected status 405, got %d", resp.StatusCode)
		}
	})
}

func TestServer_ConcurrentPredictAndReload(t *testing.T) {
	env := newTestEnv(t, &regression.Parameters{Theta0: 1, Theta1: 1})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			env.do(httptest.NewRequest(http.MethodGet, "/predict?mileage=1", nil))
		}()
		go func() {
			defer wg.Done()
			env.server.Reload(nil)
		}()
	}
	wg.Wait()

	if got := env.server.model.Parameters(); got != (regression.Parameters{Theta0: 1, Theta1: 1}) {
		t.Errorf("unexpected parameters %+v", got)
	}
}

func TestServer_Addr(t *testing.T) {
	env := newTestEnv(t, nil, func(c *config.Config) {
		c.Server.Host = "127.0.0.1"
		c.Server.Port = 9090
	})

	if env.server.Addr() != "127.0.0.1:9090" {
		t.Errorf("expected 127.0.0.1:9090, got %s", env.server.Addr())
	}
}
