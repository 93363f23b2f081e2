// Package helius fetches token metadata, holder lists, and enhanced
// transaction history from the Helius API.
package helius

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/guardian-labs/guardian/internal/solana"
)

// Default endpoints.
const (
	DefaultRPCURL = "https://mainnet.helius-rpc.com"
	DefaultAPIURL = "https://api.helius.xyz"
)

// Config configures the Helius client.
type Config struct {
	APIKey     string        `yaml:"api_key"`
	RPCURL     string        `yaml:"rpc_url"`
	APIURL     string        `yaml:"api_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	TxnLimit   int           `yaml:"txn_limit"` // enhanced-API page size, capped at 100
}

// Client talks to the Helius RPC and enhanced-transaction endpoints.
type Client struct {
	config     Config
	httpClient *http.Client
	nextID     atomic.Int64
}

// NewClient creates a Helius client.
func NewClient(config Config) *Client {
	if config.RPCURL == "" {
		config.RPCURL = DefaultRPCURL
	}
	if config.APIURL == "" {
		config.APIURL = DefaultAPIURL
	}
	if config.Timeout == 0 {
		config.Timeout = 20 * time.Second
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 2
	}
	if config.TxnLimit <= 0 || config.TxnLimit > 100 {
		config.TxnLimit = 100
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// rpcRequest is a JSON-RPC 2.0 request.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// rpcResponse is a JSON-RPC 2.0 response.
type rpcResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// doRetry runs one HTTP attempt function under the retry policy: bounded
// attempts with multiplicative backoff, no retry on 4xx client errors.
func (c *Client) doRetry(ctx context.Context, what string, attempt func() ([]byte, int, error)) ([]byte, error) {
	var lastErr error
	for try := 0; try <= c.config.MaxRetries; try++ {
		if try > 0 {
			backoff := time.Duration(float64(time.Second) * pow(1.5, try-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		body, status, err := attempt()
		if err != nil {
			lastErr = fmt.Errorf("helius: %s: %w", what, err)
			log.Warn().Err(err).Str("call", what).Int("attempt", try+1).Msg("helius: request error")
			continue
		}
		if status == http.StatusNotFound {
			return nil, nil
		}
		if status >= 400 && status < 500 {
			return nil, fmt.Errorf("helius: %s: HTTP %d", what, status)
		}
		if status != http.StatusOK {
			lastErr = fmt.Errorf("helius: %s: HTTP %d", what, status)
			log.Warn().Int("status", status).Str("call", what).Int("attempt", try+1).Msg("helius: bad status")
			continue
		}
		return body, nil
	}
	return nil, lastErr
}

func pow(base float64, exp int) float64 {
	out := 1.0
	for i := 0; i < exp; i++ {
		out *= base
	}
	return out
}

// rpc makes one retried JSON-RPC call against the Helius RPC endpoint.
func (c *Client) rpc(ctx context.Context, method string, params any) (json.RawMessage, error) {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("helius: marshal %s request: %w", method, err)
	}
	endpoint := fmt.Sprintf("%s/?api-key=%s", c.config.RPCURL, url.QueryEscape(c.config.APIKey))

	body, err := c.doRetry(ctx, method, func() ([]byte, int, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, 0, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, 0, err
		}
		defer resp.Body.Close()
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, 0, err
		}
		return respBody, resp.StatusCode, nil
	})
	if err != nil || body == nil {
		return nil, err
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, fmt.Errorf("helius: decode %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("helius: %s rpc error %d: %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
	}
	return rpcResp.Result, nil
}

// ---------------------------------------------------------------------------
// getAsset — token metadata
// ---------------------------------------------------------------------------

type assetResult struct {
	Content struct {
		Metadata struct {
			Name        string `json:"name"`
			Symbol      string `json:"symbol"`
			Description string `json:"description"`
		} `json:"metadata"`
		Links struct {
			Image string `json:"image"`
		} `json:"links"`
	} `json:"content"`
	Authorities []struct {
		Address string   `json:"address"`
		Scopes  []string `json:"scopes"`
	} `json:"authorities"`
	TokenInfo struct {
		Supply          json.Number `json:"supply"`
		Decimals        int         `json:"decimals"`
		FreezeAuthority *string     `json:"freeze_authority"`
	} `json:"token_info"`
}

// GetTokenInfo fetches token metadata via getAsset and derives the two
// authority flags the risk engine scores on.
func (c *Client) GetTokenInfo(ctx context.Context, mint string) (solana.TokenData, error) {
	raw, err := c.rpc(ctx, "getAsset", map[string]any{"id": mint})
	if err != nil {
		return solana.TokenData{Address: mint}, err
	}
	if raw == nil {
		return solana.TokenData{Address: mint}, nil
	}

	var asset assetResult
	if err := json.Unmarshal(raw, &asset); err != nil {
		return solana.TokenData{Address: mint}, fmt.Errorf("helius: decode asset: %w", err)
	}

	hasMint := false
	for _, auth := range asset.Authorities {
		for _, scope := range auth.Scopes {
			if scope == "mint" {
				hasMint = true
			}
		}
	}

	supply, supplyErr := decimal.NewFromString(asset.TokenInfo.Supply.String())
	if supplyErr != nil {
		supply = decimal.Zero
	}

	name := asset.Content.Metadata.Name
	if name == "" {
		name = "Unknown"
	}
	symbol := asset.Content.Metadata.Symbol
	if symbol == "" {
		symbol = "???"
	}

	return solana.TokenData{
		Address:                mint,
		Name:                   name,
		Symbol:                 symbol,
		Decimals:               asset.TokenInfo.Decimals,
		Supply:                 supply,
		MintAuthorityRevoked:   !hasMint,
		FreezeAuthorityRevoked: asset.TokenInfo.FreezeAuthority == nil,
		Description:            asset.Content.Metadata.Description,
		Image:                  asset.Content.Links.Image,
	}, nil
}

// ---------------------------------------------------------------------------
// getTokenSupply / getTokenLargestAccounts — holders
// ---------------------------------------------------------------------------

type supplyResult struct {
	Value struct {
		UIAmountString string `json:"uiAmountString"`
	} `json:"value"`
}

// GetTokenSupply returns the token's UI-adjusted total supply.
func (c *Client) GetTokenSupply(ctx context.Context, mint string) (decimal.Decimal, error) {
	raw, err := c.rpc(ctx, "getTokenSupply", []any{mint})
	if err != nil || raw == nil {
		return decimal.Zero, err
	}
	var res supplyResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return decimal.Zero, fmt.Errorf("helius: decode supply: %w", err)
	}
	supply, err := decimal.NewFromString(res.Value.UIAmountString)
	if err != nil {
		return decimal.Zero, nil
	}
	return supply, nil
}

type largestAccountsResult struct {
	Value []struct {
		Address        string `json:"address"`
		UIAmountString string `json:"uiAmountString"`
	} `json:"value"`
}

// GetTopHolders returns the largest token accounts with their supply share.
// Percentages are derived with decimal math and rounded to 4 places; a zero
// supply yields zero percentages rather than a division error.
func (c *Client) GetTopHolders(ctx context.Context, mint string) (solana.HolderSet, error) {
	supply, err := c.GetTokenSupply(ctx, mint)
	if err != nil {
		return solana.HolderSet{}, err
	}

	raw, err := c.rpc(ctx, "getTokenLargestAccounts", []any{mint})
	if err != nil || raw == nil {
		return solana.HolderSet{TotalSupply: supply}, err
	}

	var res largestAccountsResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return solana.HolderSet{TotalSupply: supply}, fmt.Errorf("helius: decode largest accounts: %w", err)
	}

	hundred := decimal.NewFromInt(100)
	holders := make([]solana.HolderInfo, 0, len(res.Value))
	for _, acct := range res.Value {
		amount, err := decimal.NewFromString(acct.UIAmountString)
		if err != nil {
			continue
		}
		var pct float64
		if supply.IsPositive() {
			pct, _ = amount.Div(supply).Mul(hundred).Round(4).Float64()
		}
		holders = append(holders, solana.HolderInfo{
			Address:    acct.Address,
			Amount:     amount,
			Percentage: pct,
		})
	}

	// Largest first. The RPC already orders by amount, but don't rely on it.
	sort.SliceStable(holders, func(i, j int) bool {
		return holders[i].Amount.GreaterThan(holders[j].Amount)
	})

	return solana.HolderSet{Holders: holders, TotalSupply: supply}, nil
}

// ---------------------------------------------------------------------------
// Enhanced transactions
// ---------------------------------------------------------------------------

// GetRecentTransactions fetches recent SWAP transactions for a mint from the
// enhanced-transaction API.
func (c *Client) GetRecentTransactions(ctx context.Context, mint string) ([]solana.Transaction, error) {
	endpoint := fmt.Sprintf("%s/v0/addresses/%s/transactions?api-key=%s&limit=%d&type=SWAP",
		c.config.APIURL, url.PathEscape(mint), url.QueryEscape(c.config.APIKey), c.config.TxnLimit)

	body, err := c.doRetry(ctx, "enhanced-transactions", func() ([]byte, int, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, 0, err
		}
		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, 0, err
		}
		defer resp.Body.Close()
		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, 0, err
		}
		return respBody, resp.StatusCode, nil
	})
	if err != nil || body == nil {
		return nil, err
	}

	var txns []solana.Transaction
	if err := json.Unmarshal(body, &txns); err != nil {
		return nil, fmt.Errorf("helius: decode transactions: %w", err)
	}
	return txns, nil
}
