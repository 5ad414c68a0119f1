package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"user-notification-system/internal/domain"
)

// Client mirrors user credentials into the auth service over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) CreateLogin(ctx context.Context, login domain.LoginInput) error {
	return c.do(ctx, http.MethodPost, "/create_login", login, http.StatusCreated)
}

func (c *Client) UpdateLogin(ctx context.Context, loginID int64, login domain.LoginInput) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/update_login/%d", loginID), login, http.StatusOK)
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, want int) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("auth service %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("auth service %s %s: status %d: %s", method, path, resp.StatusCode, snippet)
	}
	return nil
}
