package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tripmate/console/internal/models"
)

var (
	// ErrUnauthorized means the backend rejected the credentials or token.
	ErrUnauthorized = errors.New("platform: unauthorized")
	// ErrNotAdmin means the account authenticated but lacks the admin role.
	ErrNotAdmin = errors.New("platform: admin role required")
	// ErrNotFound means the addressed resource does not exist.
	ErrNotFound = errors.New("platform: not found")
)

// Client is a thin request/response wrapper over the TripMate backend REST
// surface. All business logic lives on the other side; the console only
// reads snapshots and issues the few one-shot commands below.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	// TokenFunc supplies the bearer token for authenticated calls.
	TokenFunc func() string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{BaseURL: baseURL, HTTP: &http.Client{Timeout: timeout}}
}

// LoginResult is the /auth/login response: the admin profile plus the
// session token the backend minted.
type LoginResult struct {
	models.User
	Token string `json:"token"`
}

// Login exchanges credentials for a session. Accounts without the admin
// role are rejected locally even when the backend accepts them.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var res LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return LoginResult{}, err
	}
	if res.Role != "admin" {
		return LoginResult{}, ErrNotAdmin
	}
	return res, nil
}

func (c *Client) Analytics(ctx context.Context) (models.Analytics, error) {
	var res models.Analytics
	err := c.do(ctx, http.MethodGet, "/admin/analytics", nil, &res)
	return res, err
}

func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var res models.Stats
	err := c.do(ctx, http.MethodGet, "/admin/stats", nil, &res)
	return res, err
}

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var res []models.User
	err := c.do(ctx, http.MethodGet, "/admin/users", nil, &res)
	return res, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/user/"+id, nil, nil)
}

func (c *Client) Rides(ctx context.Context) ([]models.Ride, error) {
	var res []models.Ride
	err := c.do(ctx, http.MethodGet, "/admin/rides", nil, &res)
	return res, err
}

func (c *Client) PendingRiders(ctx context.Context) ([]models.User, error) {
	var res []models.User
	err := c.do(ctx, http.MethodGet, "/admin/pending-riders", nil, &res)
	return res, err
}

// VerifyRider submits the KYC decision for a pending rider. The reason is
// required by the backend when status is "rejected".
func (c *Client) VerifyRider(ctx context.Context, id string, status models.RiderStatus, reason string) error {
	body := map[string]string{"status": string(status), "reason": reason}
	return c.do(ctx, http.MethodPut, "/admin/verify-rider/"+id, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.TokenFunc != nil {
		if tok := c.TokenFunc(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("platform: %s (%d)", apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("platform: status %d on %s %s", resp.StatusCode, method, path)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
