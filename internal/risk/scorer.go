// Package risk folds every detection signal - token authority flags, holder
// concentration, bundle stats, wallet classification, and the RugCheck report
// - into one bounded, explainable score.
package risk

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/guardian-labs/guardian/internal/bundler"
	"github.com/guardian-labs/guardian/internal/heuristic"
	"github.com/guardian-labs/guardian/internal/rugcheck"
	"github.com/guardian-labs/guardian/internal/solana"
)

// Triggered is one factor that fired, with its weight and explanation.
type Triggered struct {
	Name        string `json:"name"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

// Report is the final verdict plus the raw inputs that produced it, echoed
// for downstream display.
type Report struct {
	TotalScore int         `json:"total_score"`
	RiskLevel  string      `json:"risk_level"`
	Factors    []Triggered `json:"factors"`

	MintAuthorityRevoked    bool    `json:"mint_authority_revoked"`
	FreezeAuthorityRevoked  bool    `json:"freeze_authority_revoked"`
	Top10Concentration      float64 `json:"top10_concentration"`
	LiquidityLocked         bool    `json:"liquidity_locked"`
	BotPercentage           float64 `json:"bot_percentage"`
	BundledWalletPercentage float64 `json:"bundled_wallet_percentage"`
}

// Scorer evaluates the fixed factor catalog. Stateless after construction.
type Scorer struct {
	factors []Factor
	byID    map[string]Factor
}

// NewScorer creates a risk scorer over the fixed catalog.
func NewScorer() *Scorer {
	byID := make(map[string]Factor, len(catalog))
	for _, f := range catalog {
		byID[f.ID] = f
	}
	return &Scorer{factors: catalog, byID: byID}
}

// Factors returns the full catalog (triggered or not), for display.
func (s *Scorer) Factors() []Factor {
	out := make([]Factor, len(s.factors))
	copy(out, s.factors)
	return out
}

// accumulator threads the running points and triggered-factor list through
// the ordered predicate evaluation.
type accumulator struct {
	points    int
	triggered []Triggered
}

func (a *accumulator) add(f Factor) {
	a.points += f.Points
	a.triggered = append(a.triggered, Triggered{
		Name:        f.ID,
		Points:      f.Points,
		Description: f.Description,
	})
}

// NormalizeHolders reduces the accepted holder inputs to one canonical slice.
// Callers hand in either a bare []solana.HolderInfo or a solana.HolderSet
// wrapper (by value or pointer); anything else resolves to no holders.
func NormalizeHolders(v any) []solana.HolderInfo {
	switch h := v.(type) {
	case []solana.HolderInfo:
		return h
	case solana.HolderSet:
		return h.Holders
	case *solana.HolderSet:
		if h == nil {
			return nil
		}
		return h.Holders
	default:
		return nil
	}
}

// Score computes the composite verdict. Every input is optional: a nil
// bundle report, nil RugCheck report, or empty holder list each resolve to
// their conservative default instead of failing.
func (s *Scorer) Score(token solana.TokenData, holders any, bundle *bundler.Report, rug *rugcheck.Report) Report {
	holderList := NormalizeHolders(holders)

	var acc accumulator

	if !token.MintAuthorityRevoked {
		acc.add(s.byID[FactorMintAuthority])
	}
	if !token.FreezeAuthorityRevoked {
		acc.add(s.byID[FactorFreezeAuthority])
	}

	top10 := top10Concentration(holderList)
	switch {
	case top10 > concentrationHighPct:
		acc.add(s.byID[FactorConcentrationHigh])
	case top10 > concentrationMedPct:
		acc.add(s.byID[FactorConcentrationMed])
	}

	var bundledPct float64
	if bundle != nil {
		bundledPct = bundle.BundledWalletPercentage
	}
	if bundledPct > bundlerHighPct {
		acc.add(s.byID[FactorBundlerPercentage])
	}

	if token.BotPercentage > botHighPct {
		acc.add(s.byID[FactorBotPercentage])
	}

	liquidityLocked := rug.HasLiquidity()
	if !liquidityLocked {
		acc.add(s.byID[FactorNoLiquidityInfo])
	}

	if rug != nil && rug.Score > rugcheckHighScore {
		acc.add(s.byID[FactorRugcheckHighRisk])
	}

	total := acc.points
	if total > maxScore {
		total = maxScore
	}
	if acc.triggered == nil {
		acc.triggered = []Triggered{}
	}

	report := Report{
		TotalScore:              total,
		RiskLevel:               levelFor(total),
		Factors:                 acc.triggered,
		MintAuthorityRevoked:    token.MintAuthorityRevoked,
		FreezeAuthorityRevoked:  token.FreezeAuthorityRevoked,
		Top10Concentration:      heuristic.Round2(top10),
		LiquidityLocked:         liquidityLocked,
		BotPercentage:           token.BotPercentage,
		BundledWalletPercentage: bundledPct,
	}

	log.Debug().
		Int("total_score", report.TotalScore).
		Str("risk_level", report.RiskLevel).
		Int("factors", len(report.Factors)).
		Msg("risk: score computed")

	return report
}

// top10Concentration sums the supply share of the 10 largest holders.
func top10Concentration(holders []solana.HolderInfo) float64 {
	if len(holders) == 0 {
		return 0
	}
	sorted := make([]solana.HolderInfo, len(holders))
	copy(sorted, holders)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Percentage > sorted[j].Percentage })
	if len(sorted) > 10 {
		sorted = sorted[:10]
	}
	var sum float64
	for _, h := range sorted {
		sum += h.Percentage
	}
	return sum
}
