// Package rugcheck talks to the RugCheck.xyz report API and exposes the
// pieces of its response the risk engine scores on.
package rugcheck

import "encoding/json"

// Market is one liquidity market entry in a RugCheck report. Only presence
// matters to the risk engine, but the common fields are decoded for display.
type Market struct {
	Pubkey     string `json:"pubkey,omitempty"`
	MarketType string `json:"marketType,omitempty"`
	LP         any    `json:"lp,omitempty"`
}

// RiskItem is one named risk RugCheck itself reports.
type RiskItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Score       int    `json:"score,omitempty"`
	Level       string `json:"level,omitempty"`
}

// TokenMeta is the nested token sub-record some responses carry. Liquidity
// shows up as a number, a list, or not at all, so it stays loosely typed.
type TokenMeta struct {
	Name      string   `json:"name,omitempty"`
	Symbol    string   `json:"symbol,omitempty"`
	Markets   []Market `json:"markets,omitempty"`
	Liquidity any      `json:"liquidity,omitempty"`
}

// Report is the RugCheck response, decoded loosely: the API is third-party
// and shifts shape, so absent or unexpected structure never fails - it just
// resolves to "no evidence".
type Report struct {
	Score     float64    `json:"score,omitempty"`
	Risks     []RiskItem `json:"risks,omitempty"`
	Markets   []Market   `json:"markets,omitempty"`
	TokenMeta *TokenMeta `json:"tokenMeta,omitempty"`
	Token     *TokenMeta `json:"token,omitempty"`
}

// HasLiquidity reports whether the response carries any market or liquidity
// evidence, at the top level or nested in a token sub-record. Nil-safe: a
// missing report means no evidence.
func (r *Report) HasLiquidity() bool {
	if r == nil {
		return false
	}
	if len(r.Markets) > 0 {
		return true
	}
	meta := r.TokenMeta
	if meta == nil {
		meta = r.Token
	}
	if meta == nil {
		return false
	}
	return len(meta.Markets) > 0 || truthy(meta.Liquidity)
}

// truthy mirrors loose-JSON presence semantics: non-zero numbers, non-empty
// strings/lists/objects count as evidence.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	case json.Number:
		return val.String() != "" && val.String() != "0"
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}
