package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/app/config"
	"github.com/kaustubh-ronge/KrishiConnect-sub000/internal/platform/logger"
)

// Gateway is the payment-gateway boundary the checkout and payment services
// depend on.
type Gateway interface {
	// CreateOrder registers a pending charge of amountMinor (currency minor
	// units, paise for INR) and returns the gateway's order id. receipt is
	// the internal order id echoed back on callbacks.
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error)
	// VerifySignature recomputes the HMAC-SHA256 of "orderID|paymentID" with
	// the key secret and compares it to signature.
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
}

type Client struct {
	cfg        config.RazorpayConfig
	httpClient *http.Client
	log        logger.Logger
}

func NewClient(cfg config.RazorpayConfig, log logger.Logger) (*Client, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, fmt.Errorf("razorpay key id and key secret must be configured")
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}, nil
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (string, error) {
	payload, err := json.Marshal(orderRequest{Amount: amountMinor, Currency: currency, Receipt: receipt})
	if err != nil {
		return "", fmt.Errorf("failed to marshal gateway order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build gateway order request: %w", err)
	}
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gateway response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway order creation failed (%d): %s", resp.StatusCode, string(body))
	}

	var orderResp orderResponse
	if err := json.Unmarshal(body, &orderResp); err != nil {
		return "", fmt.Errorf("failed to parse gateway response: %w", err)
	}
	if orderResp.Error != nil {
		return "", fmt.Errorf("gateway error: %s", orderResp.Error.Description)
	}
	if orderResp.ID == "" {
		return "", fmt.Errorf("gateway returned empty order id")
	}

	c.log.Infof("Gateway order %s created for receipt %s (%d %s minor units)",
		orderResp.ID, receipt, amountMinor, currency)
	return orderResp.ID, nil
}

func (c *Client) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	return VerifySignature(gatewayOrderID, gatewayPaymentID, signature, c.cfg.KeySecret)
}

// VerifySignature checks an HMAC-SHA256 hex signature over
// "{orderID}|{paymentID}" against the shared secret.
func VerifySignature(gatewayOrderID, gatewayPaymentID, signature, secret string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
