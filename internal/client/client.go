package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Dan9191/profile-service/internal/models"
)

// APIError is a non-2xx answer from the profile API
type APIError struct {
	StatusCode int
	Message    string            `json:"error"`
	Details    map[string]string `json:"details"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("profile api: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the profile API
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API rooted at baseURL
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type profileEnvelope struct {
	Profile *models.ProfileView `json:"profile"`
}

// GetProfile returns the current profile, or nil when none exists
func (c *Client) GetProfile(ctx context.Context) (*models.ProfileView, error) {
	var env profileEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &env); err != nil {
		return nil, err
	}
	return env.Profile, nil
}

// SaveProfile posts a new profile
func (c *Client) SaveProfile(ctx context.Context, req models.ProfileRequest) (*models.ProfileView, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}
	var env profileEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/profile", body, &env); err != nil {
		return nil, err
	}
	if env.Profile == nil {
		return nil, fmt.Errorf("profile api: empty profile in response")
	}
	return env.Profile, nil
}

// GetReferenceRate returns the server's suggested interest rate
func (c *Client) GetReferenceRate(ctx context.Context) (*models.ReferenceRate, error) {
	var rate models.ReferenceRate
	if err := c.do(ctx, http.MethodGet, "/api/reference-rate", nil, &rate); err != nil {
		return nil, err
	}
	return &rate, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
