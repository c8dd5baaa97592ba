package sms

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datamartgh/backend/internal/config"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.SMSConfig{
		BaseURL:  serverURL,
		APIKey:   "test-key",
		SenderID: "DataMart",
	})
}

func TestSendSuccess(t *testing.T) {
	var query map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"action":  r.URL.Query().Get("action"),
			"api_key": r.URL.Query().Get("api_key"),
			"to":      r.URL.Query().Get("to"),
			"from":    r.URL.Query().Get("from"),
			"sms":     r.URL.Query().Get("sms"),
		}
		json.NewEncoder(w).Encode(gatewayResponse{Code: "ok", Message: "sent"})
	}))
	defer server.Close()

	result := newTestClient(server.URL).Send("0241234567", "Your bundle is ready", "")

	assert.True(t, result.Attempted)
	assert.True(t, result.Success)
	assert.Equal(t, "send-sms", query["action"])
	assert.Equal(t, "test-key", query["api_key"])
	assert.Equal(t, "0241234567", query["to"])
	assert.Equal(t, "DataMart", query["from"], "configured sender used when none supplied")
	assert.Equal(t, "Your bundle is ready", query["sms"])
}

func TestSendOverridesSenderID(t *testing.T) {
	var from string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		from = r.URL.Query().Get("from")
		json.NewEncoder(w).Encode(gatewayResponse{Code: "ok"})
	}))
	defer server.Close()

	newTestClient(server.URL).Send("0241234567", "hello", "Promo")
	assert.Equal(t, "Promo", from)
}

func TestSendProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(gatewayResponse{Code: "105"})
	}))
	defer server.Close()

	result := newTestClient(server.URL).Send("0241234567", "hello", "")
	assert.True(t, result.Attempted)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "insufficient balance")
}

func TestSendUnknownProviderCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(gatewayResponse{Code: "999", Message: "strange failure"})
	}))
	defer server.Close()

	result := newTestClient(server.URL).Send("0241234567", "hello", "")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "strange failure")
}

func TestSendWithoutAPIKey(t *testing.T) {
	client := NewClient(config.SMSConfig{BaseURL: "http://example.invalid"})
	result := client.Send("0241234567", "hello", "")
	assert.False(t, result.Attempted, "no request is made without credentials")
	assert.False(t, result.Success)
}
