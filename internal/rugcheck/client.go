package rugcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public RugCheck API root.
const DefaultBaseURL = "https://api.rugcheck.xyz/v1"

// Config configures the RugCheck client.
type Config struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"` // optional; public endpoints work unauthenticated
	Timeout time.Duration `yaml:"timeout"`
}

// Client fetches token reports from RugCheck.xyz.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a RugCheck client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 20 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// GetReport fetches the rug-pull report for a mint. A missing report (404)
// returns (nil, nil): no report is a data condition, not an error.
func (c *Client) GetReport(ctx context.Context, mint string) (*Report, error) {
	url := fmt.Sprintf("%s/tokens/%s/report", c.config.BaseURL, mint)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build rugcheck request: %w", err)
	}
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rugcheck request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		log.Warn().Str("mint", mint).Msg("rugcheck: no report found")
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rugcheck status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read rugcheck response: %w", err)
	}

	var report Report
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("decode rugcheck response: %w", err)
	}
	return &report, nil
}
