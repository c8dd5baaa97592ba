package delivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/datamartgh/backend/internal/config"
	"github.com/datamartgh/backend/internal/models"
)

// Result is the normalized outcome of a delivery attempt. Every failure mode
// (timeout, non-2xx, malformed body) lands here as Delivered=false with the
// provider message preserved for operator visibility; the adapter never
// returns an error to its caller.
type Result struct {
	Delivered         bool
	ProviderMessage   string
	ProviderReference string
}

// Client calls the external bundle fulfillment API
type Client struct {
	baseURL    string
	apiKey     string
	agentID    string
	httpClient *http.Client
}

// NewClient creates a new delivery gateway client
func NewClient(cfg config.DeliveryGatewayConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		agentID:    cfg.AgentID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// AutoDelivery reports whether orders of this bundle type are fulfilled
// through the gateway at placement. All other types stay pending for manual
// processing.
func AutoDelivery(t models.BundleType) bool {
	return t == models.BundleTypeMTNUp2U
}

type deliveryRequest struct {
	AgentID         string  `json:"agentId"`
	RecipientNumber string  `json:"recipientNumber"`
	Network         string  `json:"network"`
	Size            float64 `json:"size"` // megabytes
	ReferenceID     string  `json:"referenceId"`
}

type deliveryResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Reference string `json:"reference"`
}

// AttemptDelivery asks the gateway to fulfill a bundle. Capacity is taken in
// gigabytes as stored on the order and converted to the megabyte unit the
// provider expects.
func (c *Client) AttemptDelivery(bundleType models.BundleType, recipientNumber string, capacityGB float64, reference string) Result {
	payload := deliveryRequest{
		AgentID:         c.agentID,
		RecipientNumber: recipientNumber,
		Network:         bundleType.Network(),
		Size:            capacityGB * 1000,
		ReferenceID:     reference,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{ProviderMessage: fmt.Sprintf("encode request: %v", err)}
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/orders/place", bytes.NewBuffer(body))
	if err != nil {
		return Result{ProviderMessage: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).WithField("reference", reference).Warn("delivery gateway unreachable")
		return Result{ProviderMessage: fmt.Sprintf("gateway request failed: %v", err)}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return Result{ProviderMessage: fmt.Sprintf("gateway status %d: %s", resp.StatusCode, string(raw))}
	}

	var parsed deliveryResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Result{ProviderMessage: fmt.Sprintf("malformed gateway response: %s", string(raw))}
	}

	if parsed.Status != "success" {
		return Result{
			ProviderMessage:   parsed.Message,
			ProviderReference: parsed.Reference,
		}
	}

	return Result{
		Delivered:         true,
		ProviderMessage:   parsed.Message,
		ProviderReference: parsed.Reference,
	}
}
