package solana

import (
	"github.com/shopspring/decimal"
)

// Pubkey is a Solana public key (base58 string).
type Pubkey = string

// ---------------------------------------------------------------------------
// Transaction types (Helius enhanced-transaction schema)
// ---------------------------------------------------------------------------

// Transaction is one enhanced transaction as returned by the Helius API.
// Slot and Timestamp are optional: a nil Slot excludes the record from
// bundle and sybil analysis, a nil Timestamp from temporal heuristics.
type Transaction struct {
	Signature      string          `json:"signature,omitempty"`
	FeePayer       string          `json:"feePayer,omitempty"`
	Slot           *uint64         `json:"slot,omitempty"`
	Timestamp      *int64          `json:"timestamp,omitempty"` // unix seconds
	Type           string          `json:"type,omitempty"`
	TokenTransfers []TokenTransfer `json:"tokenTransfers,omitempty"`
}

// TokenTransfer is a single SPL token movement inside a transaction.
// TokenAmount is decoded loosely: Helius emits it as a number, but malformed
// payloads (strings, nulls) show up in the wild and must not be fatal.
type TokenTransfer struct {
	Mint            string `json:"mint,omitempty"`
	TokenAmount     any    `json:"tokenAmount,omitempty"`
	FromUserAccount string `json:"fromUserAccount,omitempty"`
	ToUserAccount   string `json:"toUserAccount,omitempty"`
}

// IsBuy reports whether this transfer counts as a buy for its wallet.
// A non-empty destination wins regardless of the source account.
func (t TokenTransfer) IsBuy() bool {
	return t.ToUserAccount != ""
}

// ---------------------------------------------------------------------------
// Token & holder types
// ---------------------------------------------------------------------------

// TokenData describes an SPL token's metadata plus the authority flags the
// risk engine scores on. BotPercentage is injected by the caller after wallet
// classification has run; the fetch layer leaves it at zero.
type TokenData struct {
	Address                Pubkey          `json:"address"`
	Name                   string          `json:"name"`
	Symbol                 string          `json:"symbol"`
	Decimals               int             `json:"decimals"`
	Supply                 decimal.Decimal `json:"supply"`
	MintAuthorityRevoked   bool            `json:"mint_authority_revoked"`
	FreezeAuthorityRevoked bool            `json:"freeze_authority_revoked"`
	Description            string          `json:"description,omitempty"`
	Image                  string          `json:"image,omitempty"`
	BotPercentage          float64         `json:"bot_percentage,omitempty"`
}

// HolderInfo describes one token holder.
type HolderInfo struct {
	Address    Pubkey          `json:"address"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"` // % of total supply
}

// HolderSet wraps a holder list together with the supply it was derived from.
// Some call sites hand the risk engine this wrapper instead of the bare
// slice; risk.NormalizeHolders accepts both.
type HolderSet struct {
	Holders     []HolderInfo    `json:"holders"`
	TotalSupply decimal.Decimal `json:"total_supply"`
}
