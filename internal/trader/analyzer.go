// Package trader classifies every wallet seen in a token's transaction set
// into a behavioural category: bot, wash trader, sybil, or real.
package trader

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/guardian-labs/guardian/internal/heuristic"
	"github.com/guardian-labs/guardian/internal/solana"
)

// Label is a wallet behaviour category.
type Label string

const (
	LabelReal       Label = "real"
	LabelBot        Label = "bot"
	LabelWashTrader Label = "wash_trader"
	LabelSybil      Label = "sybil"
)

// Config holds the classification thresholds.
type Config struct {
	// A wallet needs strictly more than this many transactions to be a bot.
	BotMinTxns int `yaml:"bot_min_txns"`

	// Mean gap between consecutive transactions below this flags a bot.
	BotAvgIntervalSecs float64 `yaml:"bot_avg_interval_secs"`

	// A buy and sell of the same mint within this window completes one cycle.
	WashWindowSecs int64 `yaml:"wash_window_secs"`

	// Completed cycles on a single mint needed to flag a wash trader.
	WashMinCycles int `yaml:"wash_min_cycles"`

	// Other fee payers sharing a slot needed before the sybil check runs.
	SybilClusterSize int `yaml:"sybil_cluster_size"`
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		BotMinTxns:         5,
		BotAvgIntervalSecs: 30,
		WashWindowSecs:     3600,
		WashMinCycles:      2,
		SybilClusterSize:   3,
	}
}

// Detail is the per-wallet classification record.
type Detail struct {
	Wallet       string `json:"wallet"`
	Label        Label  `json:"label"`
	TxnCount     int    `json:"txn_count"`
	IsBot        bool   `json:"is_bot"`
	IsWashTrader bool   `json:"is_wash_trader"`
	IsSybil      bool   `json:"is_sybil"`
}

// Report is the aggregated classification result.
type Report struct {
	TotalWallets  int      `json:"total_wallets"`
	RealTraders   int      `json:"real_traders"`
	Bots          int      `json:"bots"`
	WashTraders   int      `json:"wash_traders"`
	SybilWallets  int      `json:"sybil_wallets"`
	TraderDetails []Detail `json:"trader_details"`
	BotPercentage float64  `json:"bot_percentage"`
}

// Analyzer classifies wallet behaviour. Stateless; safe for concurrent use.
type Analyzer struct {
	config Config
}

// NewAnalyzer creates a wallet behaviour analyzer.
func NewAnalyzer(config Config) *Analyzer {
	return &Analyzer{config: config}
}

// slotIndex is the per-invocation slot lookup used by the sybil check:
// distinct fee payers per slot plus every transfer amount that parses.
type slotIndex struct {
	wallets map[uint64]map[string]struct{}
	amounts map[uint64][]float64
}

// Analyze classifies every wallet discovered in the transaction set.
// Holders are accepted for interface symmetry with the other engines but the
// present heuristics do not consume them. Wallets that only ever appear as a
// transfer counterparty have no owned transactions and classify as real.
func (a *Analyzer) Analyze(txns []solana.Transaction, holders []solana.HolderInfo) Report {
	_ = holders

	if len(txns) == 0 {
		return Report{TraderDetails: []Detail{}}
	}

	// Per-wallet owned transactions, in first-seen wallet order so identical
	// inputs always produce identical detail lists.
	walletTxns := make(map[string][]solana.Transaction)
	var walletOrder []string
	register := func(wallet string) {
		if _, ok := walletTxns[wallet]; !ok {
			walletTxns[wallet] = nil
			walletOrder = append(walletOrder, wallet)
		}
	}
	for _, txn := range txns {
		if txn.FeePayer != "" {
			register(txn.FeePayer)
			walletTxns[txn.FeePayer] = append(walletTxns[txn.FeePayer], txn)
		}
		for _, tr := range txn.TokenTransfers {
			if tr.FromUserAccount != "" {
				register(tr.FromUserAccount)
			}
			if tr.ToUserAccount != "" {
				register(tr.ToUserAccount)
			}
		}
	}

	slots := buildSlotIndex(txns)

	details := make([]Detail, 0, len(walletOrder))
	var bots, wash, sybil, real int

	for _, wallet := range walletOrder {
		owned := walletTxns[wallet]
		isBot := a.isBot(owned)
		isWash := a.isWashTrader(owned)
		isSybil := a.isSybil(wallet, slots)

		var label Label
		switch {
		case isBot:
			label = LabelBot
			bots++
		case isWash:
			label = LabelWashTrader
			wash++
		case isSybil:
			label = LabelSybil
			sybil++
		default:
			label = LabelReal
			real++
		}

		details = append(details, Detail{
			Wallet:       wallet,
			Label:        label,
			TxnCount:     len(owned),
			IsBot:        isBot,
			IsWashTrader: isWash,
			IsSybil:      isSybil,
		})
	}

	report := Report{
		TotalWallets:  len(walletOrder),
		RealTraders:   real,
		Bots:          bots,
		WashTraders:   wash,
		SybilWallets:  sybil,
		TraderDetails: details,
		BotPercentage: heuristic.Percentage(bots, len(walletOrder)),
	}

	log.Debug().
		Int("total_wallets", report.TotalWallets).
		Int("bots", bots).
		Int("wash_traders", wash).
		Int("sybil", sybil).
		Float64("bot_pct", report.BotPercentage).
		Msg("trader: classification complete")

	return report
}

// isBot flags wallets firing transactions faster than a human plausibly can:
// more than BotMinTxns transactions with a mean gap under BotAvgIntervalSecs.
func (a *Analyzer) isBot(owned []solana.Transaction) bool {
	if len(owned) <= a.config.BotMinTxns {
		return false
	}

	var timestamps []int64
	for _, txn := range owned {
		if txn.Timestamp != nil {
			timestamps = append(timestamps, *txn.Timestamp)
		}
	}
	if len(timestamps) < 2 {
		return false
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	var total int64
	for i := 1; i < len(timestamps); i++ {
		total += timestamps[i] - timestamps[i-1]
	}
	avg := float64(total) / float64(len(timestamps)-1)
	return avg < a.config.BotAvgIntervalSecs
}

// tradeEvent is a buy or sell of one mint at one timestamp.
type tradeEvent struct {
	ts  int64
	buy bool
}

// isWashTrader flags wallets that repeatedly buy and sell the same mint
// inside the wash window.
func (a *Analyzer) isWashTrader(owned []solana.Transaction) bool {
	if len(owned) < a.config.WashMinCycles*2 {
		return false
	}

	events := make(map[string][]tradeEvent)
	var mintOrder []string
	for _, txn := range owned {
		if txn.Timestamp == nil {
			continue
		}
		for _, tr := range txn.TokenTransfers {
			if tr.Mint == "" {
				continue
			}
			if _, ok := events[tr.Mint]; !ok {
				mintOrder = append(mintOrder, tr.Mint)
			}
			events[tr.Mint] = append(events[tr.Mint], tradeEvent{ts: *txn.Timestamp, buy: tr.IsBuy()})
		}
	}

	for _, mint := range mintOrder {
		evs := events[mint]
		// Stable so same-timestamp events keep their encounter order.
		sort.SliceStable(evs, func(i, j int) bool { return evs[i].ts < evs[j].ts })
		if a.countCycles(evs) >= a.config.WashMinCycles {
			return true
		}
	}
	return false
}

// countCycles counts completed buy→sell round trips inside the wash window.
// A buy arms a single pending timestamp (later buys overwrite it); only an
// in-window sell consumes it. A sell outside the window leaves the pending
// buy dangling, which is intended strictness: that buy can never complete.
func (a *Analyzer) countCycles(events []tradeEvent) int {
	cycles := 0
	var boughtAt *int64
	for _, ev := range events {
		if ev.buy {
			ts := ev.ts
			boughtAt = &ts
		} else if boughtAt != nil && ev.ts-*boughtAt <= a.config.WashWindowSecs {
			cycles++
			boughtAt = nil
		}
	}
	return cycles
}

// buildSlotIndex collects, per slot, the distinct fee payers and every
// transfer amount in the slot that parses as numeric. Transactions missing
// either a slot or a fee payer contribute nothing.
func buildSlotIndex(txns []solana.Transaction) slotIndex {
	idx := slotIndex{
		wallets: make(map[uint64]map[string]struct{}),
		amounts: make(map[uint64][]float64),
	}
	for _, txn := range txns {
		if txn.Slot == nil || txn.FeePayer == "" {
			continue
		}
		slot := *txn.Slot
		if idx.wallets[slot] == nil {
			idx.wallets[slot] = make(map[string]struct{})
		}
		idx.wallets[slot][txn.FeePayer] = struct{}{}
		for _, tr := range txn.TokenTransfers {
			if tr.TokenAmount == nil {
				continue
			}
			if amt, ok := heuristic.ParseAmount(tr.TokenAmount); ok {
				idx.amounts[slot] = append(idx.amounts[slot], amt)
			}
		}
	}
	return idx
}

// isSybil flags wallets that co-appear in a slot with SybilClusterSize or
// more other fee payers where the slot's transfer amounts are near-identical
// (distinct values <= max(1, count/5), i.e. roughly 80%+ the same amount).
// One qualifying slot is enough.
func (a *Analyzer) isSybil(wallet string, idx slotIndex) bool {
	for slot, walletsInSlot := range idx.wallets {
		if _, ok := walletsInSlot[wallet]; !ok {
			continue
		}
		if len(walletsInSlot)-1 < a.config.SybilClusterSize {
			continue
		}
		amounts := idx.amounts[slot]
		if len(amounts) < 2 {
			continue
		}
		distinct := make(map[float64]struct{}, len(amounts))
		for _, amt := range amounts {
			distinct[amt] = struct{}{}
		}
		limit := len(amounts) / 5
		if limit < 1 {
			limit = 1
		}
		if len(distinct) <= limit {
			return true
		}
	}
	return false
}
