package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guardian-labs/guardian/internal/bundler"
	"github.com/guardian-labs/guardian/internal/risk"
	"github.com/guardian-labs/guardian/internal/solana"
)

// Writer renders analyses into an output directory.
type Writer struct {
	outputDir string
}

// NewWriter creates a report writer, creating the output directory if needed.
func NewWriter(outputDir string) (*Writer, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Writer{outputDir: outputDir}, nil
}

// traderSummary is the trader report with the per-wallet detail list elided.
type traderSummary struct {
	TotalWallets  int     `json:"total_wallets"`
	RealTraders   int     `json:"real_traders"`
	Bots          int     `json:"bots"`
	WashTraders   int     `json:"wash_traders"`
	SybilWallets  int     `json:"sybil_wallets"`
	BotPercentage float64 `json:"bot_percentage"`
}

// bundleSummary is the bundle report with the group list elided.
type bundleSummary struct {
	TotalBundles            int     `json:"total_bundles"`
	SuspiciousBundles       int     `json:"suspicious_bundles"`
	BundledWalletPercentage float64 `json:"bundled_wallet_percentage"`
}

// jsonReport is the on-disk JSON layout: full risk verdict, summarized
// engine outputs, and a short bundle preview for quick inspection.
type jsonReport struct {
	GeneratedAt         time.Time        `json:"generated_at"`
	RunID               string           `json:"run_id"`
	TokenAddress        string           `json:"token_address"`
	TokenInfo           solana.TokenData `json:"token_info"`
	Risk                risk.Report      `json:"risk"`
	TraderAnalysis      traderSummary    `json:"trader_analysis"`
	BundleAnalysis      bundleSummary    `json:"bundle_analysis"`
	BundleGroupsPreview []bundler.Bundle `json:"bundle_groups_preview"`
	ChartFiles          []string         `json:"chart_files"`
}

// WriteJSON writes the JSON report and returns its path.
func (w *Writer) WriteJSON(a Analysis, chartFiles []string) (string, error) {
	preview := a.Bundles.BundleGroups
	if len(preview) > 5 {
		preview = preview[:5]
	}
	if chartFiles == nil {
		chartFiles = []string{}
	}

	out := jsonReport{
		GeneratedAt:  a.GeneratedAt,
		RunID:        a.RunID,
		TokenAddress: a.Mint,
		TokenInfo:    a.Token,
		Risk:         a.Risk,
		TraderAnalysis: traderSummary{
			TotalWallets:  a.Trader.TotalWallets,
			RealTraders:   a.Trader.RealTraders,
			Bots:          a.Trader.Bots,
			WashTraders:   a.Trader.WashTraders,
			SybilWallets:  a.Trader.SybilWallets,
			BotPercentage: a.Trader.BotPercentage,
		},
		BundleAnalysis: bundleSummary{
			TotalBundles:            a.Bundles.TotalBundles,
			SuspiciousBundles:       a.Bundles.SuspiciousBundles,
			BundledWalletPercentage: a.Bundles.BundledWalletPercentage,
		},
		BundleGroupsPreview: preview,
		ChartFiles:          chartFiles,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	path := filepath.Join(w.outputDir, w.filename(a, "report", "json"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	log.Info().Str("path", path).Msg("report: json written")
	return path, nil
}

// filename builds report_<mint8>_<ts>.<ext>.
func (w *Writer) filename(a Analysis, kind, ext string) string {
	mint := a.Mint
	if len(mint) > 8 {
		mint = mint[:8]
	}
	return fmt.Sprintf("%s_%s_%s.%s", kind, mint, a.GeneratedAt.Format("20060102_150405"), ext)
}
