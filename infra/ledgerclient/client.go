// Package ledgerclient calls the ledger signing gateway over JSON-RPC.
package ledgerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/amirasaad/ledgersync/pkg/config"
	"github.com/amirasaad/ledgersync/pkg/domain"
	"github.com/amirasaad/ledgersync/pkg/provider/ledger"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	methodRefundOrder             = "escrow_refundOrder"
	methodSetOrderRefunded        = "orders_setOrderRefunded"
	methodSetGAOrderRefunded      = "geneticAnalysisOrders_setGeneticAnalysisOrderRefunded"
	alreadyAppliedMarker          = "already"
	defaultGatewayRequestDeadline = 15 * time.Second
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// Client retries transport failures and 5xx responses a bounded number of
// times. Chain-level rejections are never retried here.
type Client struct {
	url    string
	http   *http.Client
	nextID atomic.Uint64
	logger *slog.Logger
}

func New(cfg *config.Ledger, logger *slog.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.MaxRetries
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = logger
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultGatewayRequestDeadline
	}
	rc.HTTPClient.Timeout = timeout

	return &Client{
		url:    cfg.GatewayURL,
		http:   rc.StandardClient(),
		logger: logger.With("component", "ledgerclient"),
	}
}

func (c *Client) RefundOrder(ctx context.Context, orderID string) error {
	return c.call(ctx, methodRefundOrder, orderID)
}

func (c *Client) SetOrderRefunded(ctx context.Context, orderID string) error {
	return c.call(ctx, methodSetOrderRefunded, orderID)
}

func (c *Client) SetGeneticAnalysisOrderRefunded(ctx context.Context, trackingID string) error {
	return c.call(ctx, methodSetGAOrderRefunded, trackingID)
}

func (c *Client) call(ctx context.Context, method string, params ...any) error {
	log := c.logger.With("method", method)
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: c.nextID.Add(1), Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrOutbound, method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrOutbound, method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("gateway request failed", "error", err)
		return fmt.Errorf("%w: %s: %w", domain.ErrOutbound, method, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: read response: %w", domain.ErrOutbound, method, err)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: %s: gateway status %d", domain.ErrOutbound, method, resp.StatusCode)
	}

	var out rpcResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("%w: %s: decode response: %w", domain.ErrOutbound, method, err)
	}
	if out.Error != nil {
		if strings.Contains(strings.ToLower(out.Error.Message), alreadyAppliedMarker) {
			log.Info("call already applied on chain", "reason", out.Error.Message)
			return fmt.Errorf("%w: %s: %s", domain.ErrAlreadyApplied, method, out.Error.Message)
		}
		log.Warn("call rejected", "code", out.Error.Code, "reason", out.Error.Message)
		return fmt.Errorf("%w: %s: rpc error %d: %s", domain.ErrOutbound, method, out.Error.Code, out.Error.Message)
	}
	log.Info("✅ call submitted", "params", params)
	return nil
}

var _ ledger.Client = (*Client)(nil)
