package sepay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/dormdeli/payment-service/internal/domain/provider"
)

const (
	defaultEndpoint = "https://my.sepay.vn"
	transactionsAPI = "/userapi/transactions/list"
	requestTimeout  = 10 * time.Second
)

// Config holds the SePay account credentials and transfer target.
type Config struct {
	APIKey        string
	AccountNumber string
	AccountName   string
	BankCode      string
	Endpoint      string
}

// Client queries the SePay transaction ledger with a bearer credential.
type Client struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// NewClient creates a SePay ledger client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
		logger: logger,
	}
}

type listTransactionsResponse struct {
	Transactions []provider.LedgerTransaction `json:"transactions"`
}

// ListRecentTransactions fetches the most recent inbound ledger entries.
func (c *Client) ListRecentTransactions(ctx context.Context, limit int) ([]provider.LedgerTransaction, error) {
	url := c.cfg.Endpoint + transactionsAPI + "?limit=" + strconv.Itoa(limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sepay API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("SePay transaction list failed",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(body)))
		return nil, fmt.Errorf("sepay API returned status %d", resp.StatusCode)
	}

	var result listTransactionsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return result.Transactions, nil
}
