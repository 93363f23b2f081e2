// Package report renders a finished analysis as JSON, HTML, charts, and a
// terminal summary.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/guardian-labs/guardian/internal/bundler"
	"github.com/guardian-labs/guardian/internal/risk"
	"github.com/guardian-labs/guardian/internal/solana"
	"github.com/guardian-labs/guardian/internal/trader"
)

// Analysis is the complete result of one token run.
type Analysis struct {
	RunID       string               `json:"run_id"`
	Mint        string               `json:"mint"`
	GeneratedAt time.Time            `json:"generated_at"`
	Token       solana.TokenData     `json:"token"`
	Holders     []solana.HolderInfo  `json:"holders"`
	Trader      trader.Report        `json:"trader_analysis"`
	Bundles     bundler.Report       `json:"bundle_analysis"`
	Risk        risk.Report          `json:"risk"`
}

// NewAnalysis stamps an analysis with a fresh run ID and timestamp.
func NewAnalysis(mint string, token solana.TokenData, holders []solana.HolderInfo,
	traderReport trader.Report, bundleReport bundler.Report, riskReport risk.Report) Analysis {
	return Analysis{
		RunID:       uuid.NewString(),
		Mint:        mint,
		GeneratedAt: time.Now().UTC(),
		Token:       token,
		Holders:     holders,
		Trader:      traderReport,
		Bundles:     bundleReport,
		Risk:        riskReport,
	}
}
