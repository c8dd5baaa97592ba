package paystack

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/datamartgh/backend/internal/config"
)

// Provider talks to the Paystack API for wallet deposit collection
type Provider struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewProvider creates a new Paystack provider
func NewProvider(cfg config.PaystackConfig) *Provider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &Provider{
		secretKey:  cfg.SecretKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type initializeRequest struct {
	Amount      int64  `json:"amount"` // pesewas
	Email       string `json:"email"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// InitializeDeposit starts a Paystack checkout for the given amount in GHS
// and returns the authorization URL the customer completes payment at
func (p *Provider) InitializeDeposit(amount float64, email, reference, callbackURL string) (string, error) {
	payload := initializeRequest{
		Amount:      int64(amount * 100),
		Email:       email,
		Currency:    "GHS",
		Reference:   reference,
		CallbackURL: callbackURL,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, p.baseURL+"/transaction/initialize", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("paystack initialize request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed initializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("error decoding paystack response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !parsed.Status {
		return "", fmt.Errorf("paystack initialize failed: %s", parsed.Message)
	}

	return parsed.Data.AuthorizationURL, nil
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		Status    string `json:"status"`
		Reference string `json:"reference"`
	} `json:"data"`
}

// VerifyDeposit confirms a checkout with Paystack by reference. The amount
// is returned in GHS.
func (p *Provider) VerifyDeposit(reference string) (bool, float64, error) {
	req, err := http.NewRequest(http.MethodGet, p.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return false, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false, 0, fmt.Errorf("paystack verify request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return false, 0, fmt.Errorf("error decoding paystack response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !parsed.Status {
		return false, 0, errors.New("paystack verification failed: " + parsed.Message)
	}

	return parsed.Data.Status == "success", float64(parsed.Data.Amount) / 100, nil
}
