package delivery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datamartgh/backend/internal/config"
	"github.com/datamartgh/backend/internal/models"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.DeliveryGatewayConfig{
		BaseURL:        serverURL,
		APIKey:         "test-key",
		AgentID:        "agent-1",
		TimeoutSeconds: 5,
	})
}

func TestAttemptDeliverySuccess(t *testing.T) {
	var received deliveryRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/place", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(deliveryResponse{
			Status: "success", Message: "order placed", Reference: "GN-77",
		})
	}))
	defer server.Close()

	result := newTestClient(server.URL).AttemptDelivery(models.BundleTypeMTNUp2U, "0241234567", 2, "1234567890")

	assert.True(t, result.Delivered)
	assert.Equal(t, "GN-77", result.ProviderReference)

	assert.Equal(t, "agent-1", received.AgentID)
	assert.Equal(t, "0241234567", received.RecipientNumber)
	assert.Equal(t, "MTN", received.Network)
	assert.Equal(t, 2000.0, received.Size, "capacity is sent in megabytes")
	assert.Equal(t, "1234567890", received.ReferenceID)
}

func TestAttemptDeliveryProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(deliveryResponse{Status: "failed", Message: "recipient not found"})
	}))
	defer server.Close()

	result := newTestClient(server.URL).AttemptDelivery(models.BundleTypeMTNUp2U, "0241234567", 1, "ref")
	assert.False(t, result.Delivered)
	assert.Equal(t, "recipient not found", result.ProviderMessage)
}

func TestAttemptDeliveryHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	result := newTestClient(server.URL).AttemptDelivery(models.BundleTypeMTNUp2U, "0241234567", 1, "ref")
	assert.False(t, result.Delivered)
	assert.Contains(t, result.ProviderMessage, "gateway status 500")
}

func TestAttemptDeliveryUnreachableGateway(t *testing.T) {
	result := newTestClient("http://127.0.0.1:1").AttemptDelivery(models.BundleTypeMTNUp2U, "0241234567", 1, "ref")
	assert.False(t, result.Delivered)
	assert.NotEmpty(t, result.ProviderMessage)
}

func TestAttemptDeliveryMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway maintenance</html>"))
	}))
	defer server.Close()

	result := newTestClient(server.URL).AttemptDelivery(models.BundleTypeMTNUp2U, "0241234567", 1, "ref")
	assert.False(t, result.Delivered)
	assert.Contains(t, result.ProviderMessage, "malformed gateway response")
}

func TestAutoDelivery(t *testing.T) {
	assert.True(t, AutoDelivery(models.BundleTypeMTNUp2U))
	assert.False(t, AutoDelivery(models.BundleTypeMTNFibre))
	assert.False(t, AutoDelivery(models.BundleTypeTelecel))
	assert.False(t, AutoDelivery(models.BundleTypeAfA))
}
