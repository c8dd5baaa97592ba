package sms

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/datamartgh/backend/internal/config"
)

// Provider error codes returned by the SMS gateway
var providerErrors = map[string]string{
	"100": "bad gateway request",
	"101": "wrong action",
	"102": "authentication failed",
	"103": "invalid phone number",
	"104": "phone coverage not active",
	"105": "insufficient balance",
	"106": "invalid sender id",
	"107": "invalid message",
	"109": "invalid schedule time",
	"111": "sms sending failed",
}

// SendResult reports the outcome of one SMS send
type SendResult struct {
	Attempted bool   `json:"attempted"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// Client calls the outbound SMS gateway
type Client struct {
	baseURL    string
	apiKey     string
	senderID   string
	httpClient *http.Client
}

// NewClient creates a new SMS gateway client
func NewClient(cfg config.SMSConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		senderID:   cfg.SenderID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type gatewayResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Send delivers one SMS. senderID overrides the configured default when
// non-empty. The returned result is informational; callers treat any outcome
// as non-fatal.
func (c *Client) Send(recipient, message, senderID string) SendResult {
	if c.apiKey == "" {
		return SendResult{Error: "sms gateway not configured"}
	}
	if senderID == "" {
		senderID = c.senderID
	}

	params := url.Values{}
	params.Set("action", "send-sms")
	params.Set("api_key", c.apiKey)
	params.Set("to", recipient)
	params.Set("from", senderID)
	params.Set("sms", message)

	resp, err := c.httpClient.Get(c.baseURL + "?" + params.Encode())
	if err != nil {
		return SendResult{Attempted: true, Error: fmt.Sprintf("sms gateway request failed: %v", err)}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return SendResult{Attempted: true, Error: fmt.Sprintf("sms gateway status %d", resp.StatusCode)}
	}

	var parsed gatewayResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return SendResult{Attempted: true, Error: fmt.Sprintf("malformed sms gateway response: %s", string(raw))}
	}

	if parsed.Code != "ok" {
		reason, known := providerErrors[parsed.Code]
		if !known {
			reason = parsed.Message
		}
		return SendResult{Attempted: true, Error: fmt.Sprintf("sms gateway error %s: %s", parsed.Code, reason)}
	}

	return SendResult{Attempted: true, Success: true}
}
