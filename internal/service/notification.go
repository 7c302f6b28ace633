package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"vendoprint/internal/config"
	"vendoprint/internal/domain"
)

// NotificationService alerts the kiosk owner about hardware problems via
// an HTTP webhook. Delivery is best effort: a failed notification is
// logged and the kiosk keeps selling.
type NotificationService struct {
	webhookURL string
	enabled    bool
	client     *http.Client
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(cfg config.NotifyConfig) *NotificationService {
	return &NotificationService{
		webhookURL: cfg.WebhookURL,
		enabled:    cfg.Enabled,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// notificationPayload is the webhook body.
type notificationPayload struct {
	ErrorType    domain.ErrorType `json:"error_type"`
	ErrorMessage string           `json:"error_message"`
	Timestamp    time.Time        `json:"timestamp"`
}

// NotifyError sends an error alert to the owner webhook.
func (s *NotificationService) NotifyError(ctx context.Context, errType domain.ErrorType, message string) {
	if !s.enabled || s.webhookURL == "" {
		log.Printf("[NOTIFY] %s: %s (webhook disabled)", errType, message)
		return
	}

	body, err := json.Marshal(notificationPayload{
		ErrorType:    errType,
		ErrorMessage: message,
		Timestamp:    time.Now(),
	})
	if err != nil {
		log.Printf("[NOTIFY] marshal failed: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		log.Printf("[NOTIFY] request failed: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[NOTIFY] delivery failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[NOTIFY] webhook returned %d", resp.StatusCode)
	}
}

// ClassifyError buckets a printer error message for the dashboard and
// the owner alert.
func ClassifyError(message string) domain.ErrorType {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "paper") && (strings.Contains(lower, "empty") || strings.Contains(lower, "out")):
		return domain.ErrorTypeNoPaper
	case strings.Contains(lower, "paper") && strings.Contains(lower, "jam"):
		return domain.ErrorTypePaperJam
	case strings.Contains(lower, "ink") && (strings.Contains(lower, "low") || strings.Contains(lower, "empty") || strings.Contains(lower, "out")):
		return domain.ErrorTypeLowInk
	case strings.Contains(lower, "connection"), strings.Contains(lower, "network"):
		return domain.ErrorTypeConnection
	default:
		return domain.ErrorTypeSystem
	}
}
