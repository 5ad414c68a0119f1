package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"user-notification-system/internal/domain"
	"user-notification-system/pkg/logger"
)

const (
	userCreatedPath = "/api/notify/user-created"
	healthPath      = "/health"
)

// HTTPNotifier relays domain events to the notification service. Every
// failure is logged and reported as false; nothing is returned to the caller
// as an error.
type HTTPNotifier struct {
	baseURL string
	client  *http.Client
	log     logger.Logger
}

func NewHTTPNotifier(baseURL string, timeout time.Duration, log logger.Logger) *HTTPNotifier {
	return &HTTPNotifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (n *HTTPNotifier) NotifyUserCreated(ctx context.Context, event domain.UserEvent) bool {
	body, err := json.Marshal(event)
	if err != nil {
		n.log.Error("Failed to encode user event", "user_id", event.ID, "error", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+userCreatedPath, bytes.NewReader(body))
	if err != nil {
		n.log.Error("Failed to build notification request", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Error("Notification service unreachable", "user_id", event.ID, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		n.log.Error("Notification rejected",
			"user_id", event.ID, "status", resp.StatusCode, "body", string(snippet))
		return false
	}

	n.log.Info("User created notification sent", "user_id", event.ID, "username", event.Username)
	return true
}

func (n *HTTPNotifier) CheckHealth(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+healthPath, nil)
	if err != nil {
		n.log.Error("Failed to build health request", "error", err)
		return false
	}

	resp, err := n.client.Do(req)
	if err != nil {
		n.log.Warn("Notification service health check failed", "error", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	return resp.StatusCode == http.StatusOK
}
