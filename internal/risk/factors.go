package risk

// Factor is one entry of the fixed risk catalog.
type Factor struct {
	ID          string `json:"id"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

// Catalog IDs. The catalog itself is built once at startup and never mutated.
const (
	FactorMintAuthority     = "mint_authority_not_revoked"
	FactorFreezeAuthority   = "freeze_authority_not_revoked"
	FactorConcentrationHigh = "top10_concentration_high"
	FactorConcentrationMed  = "top10_concentration_medium"
	FactorBundlerPercentage = "bundler_percentage_high"
	FactorBotPercentage     = "bot_percentage_high"
	FactorNoLiquidityInfo   = "no_liquidity_info"
	FactorRugcheckHighRisk  = "rugcheck_high_risk"
)

// catalog is the fixed, ordered factor table. Evaluation walks it in this
// order, so triggered factors always come out in the same sequence.
var catalog = []Factor{
	{
		ID:          FactorMintAuthority,
		Points:      25,
		Description: "Mint authority has NOT been revoked - developer can mint unlimited tokens",
	},
	{
		ID:          FactorFreezeAuthority,
		Points:      20,
		Description: "Freeze authority has NOT been revoked - developer can freeze holder wallets",
	},
	{
		ID:          FactorConcentrationHigh,
		Points:      20,
		Description: "Top 10 holders own >80% of supply - extreme concentration risk",
	},
	{
		ID:          FactorConcentrationMed,
		Points:      10,
		Description: "Top 10 holders own 50-80% of supply - elevated concentration risk",
	},
	{
		ID:          FactorBundlerPercentage,
		Points:      15,
		Description: "More than 30% of wallets are bundled - likely coordinated launch",
	},
	{
		ID:          FactorBotPercentage,
		Points:      10,
		Description: "More than 50% of active wallets appear to be bots",
	},
	{
		ID:          FactorNoLiquidityInfo,
		Points:      10,
		Description: "No liquidity pool information found - token may be illiquid",
	},
	{
		ID:          FactorRugcheckHighRisk,
		Points:      20,
		Description: "RugCheck.xyz flagged this token as high risk (score > 500)",
	},
}

// Thresholds for the factor predicates.
const (
	concentrationHighPct = 80.0
	concentrationMedPct  = 50.0
	bundlerHighPct       = 30.0
	botHighPct           = 50.0
	rugcheckHighScore    = 500.0
	maxScore             = 100
)

// Risk levels. The threshold value itself belongs to the higher tier.
const (
	LevelLow      = "LOW"      // < 25
	LevelMedium   = "MEDIUM"   // 25-49
	LevelHigh     = "HIGH"     // 50-74
	LevelCritical = "CRITICAL" // >= 75
)

// levelFor maps a total score to its severity band.
func levelFor(score int) string {
	switch {
	case score < 25:
		return LevelLow
	case score < 50:
		return LevelMedium
	case score < 75:
		return LevelHigh
	default:
		return LevelCritical
	}
}
