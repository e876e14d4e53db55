package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/haskel/pricefit/internal/cli/tui"
	"github.com/haskel/pricefit/internal/server"
)

// Client is an HTTP client for a pricefit server
type Client struct {
	baseURL  string
	client   *http.Client
	user     string
	password string
}

// NewClient creates a client for baseURL with the global credentials.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		user:     user,
		password: password,
	}
}

// Get performs a GET request
func (c *Client) Get(path string) ([]byte, int, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, err
	}

	return c.do(req)
}

// Post performs a POST request with JSON body
func (c *Client) Post(path string, body any) ([]byte, int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, 0, err
		}
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	if c.user != "" && c.password != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	return data, resp.StatusCode, nil
}

// Predict asks the server for the price of mileage.
func (c *Client) Predict(mileage float64) (tui.Estimate, error) {
	data, status, err := c.Post("/predict", server.PredictRequest{Mileage: &mileage})
	if err != nil {
		return tui.Estimate{}, err
	}
	if status != http.StatusOK {
		return tui.Estimate{}, statusError(status, data)
	}

	var resp server.PredictResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return tui.Estimate{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return tui.Estimate(resp), nil
}

// Model returns the state of the served model.
func (c *Client) Model() (server.ModelState, error) {
	return c.modelState(http.MethodGet, "/model")
}

// Reload asks the server to re-read its weights.
func (c *Client) Reload() (server.ModelState, error) {
	return c.modelState(http.MethodPost, "/model/reload")
}

func (c *Client) modelState(method, path string) (server.ModelState, error) {
	var (
		data   []byte
		status int
		err    error
	)
	if method == http.MethodPost {
		data, status, err = c.Post(path, nil)
	} else {
		data, status, err = c.Get(path)
	}
	if err != nil {
		return server.ModelState{}, err
	}
	if status != http.StatusOK {
		return server.ModelState{}, statusError(status, data)
	}

	var state server.ModelState
	if err := json.Unmarshal(data, &state); err != nil {
		return server.ModelState{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return state, nil
}

// Health checks if server is running
func (c *Client) Health() error {
	_, status, err := c.Get("/health")
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("server returned status %d", status)
	}
	return nil
}

func statusError(status int, body []byte) error {
	var e server.ErrorResponse
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return fmt.Errorf("server returned status %d: %s", status, e.Error)
	}
	return fmt.Errorf("server returned status %d: %s", status, strings.TrimSpace(string(body)))
}

// validateRemote rejects URLs that are not absolute http(s) URLs.
func validateRemote(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server URL %q", raw)
	}
	return nil
}
