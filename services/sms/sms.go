package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"salonbook/config"
	"salonbook/utils"

	"go.uber.org/zap"
)

// Dispatcher sends a text message to a phone number. Delivery mechanics are
// an external concern; the booking core only defines the trigger and payload.
type Dispatcher interface {
	Send(ctx context.Context, phone, message string) error
}

// GatewayDispatcher posts messages to a configured HTTP SMS gateway.
type GatewayDispatcher struct {
	URL      string
	APIKey   string
	SenderID string
	Client   *http.Client
}

func (d *GatewayDispatcher) Send(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(map[string]string{
		"to":     phone,
		"from":   d.SenderID,
		"body":   message,
		"apiKey": d.APIKey,
	})
	if err != nil {
		return fmt.Errorf("failed to encode SMS payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("SMS gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("SMS gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// LogDispatcher logs the message instead of sending it. Used when no gateway
// is configured; callers surface this demo mode explicitly so a skipped send
// is never mistaken for a real one.
type LogDispatcher struct{}

func (d *LogDispatcher) Send(ctx context.Context, phone, message string) error {
	utils.GetLogger().Info("SMS dispatch skipped (demo mode)",
		zap.String("phone", phone), zap.String("message", message))
	return nil
}

// NewFromConfig picks the gateway dispatcher when one is configured and the
// logging dispatcher otherwise. The second return value reports demo mode.
func NewFromConfig() (Dispatcher, bool) {
	url := config.AppConfig.SMSGatewayURL
	if url == "" {
		return &LogDispatcher{}, true
	}
	return &GatewayDispatcher{
		URL:      url,
		APIKey:   config.AppConfig.SMSGatewayKey,
		SenderID: config.AppConfig.SMSSenderID,
		Client:   &http.Client{Timeout: 5 * time.Second},
	}, false
}
