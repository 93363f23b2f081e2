// Package bundler detects coordinated wallet bundles: groups of distinct
// wallets all paying for transactions inside the same slot, which on fresh
// memecoin launches is the signature of a bundled (single-operator) buy.
package bundler

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/guardian-labs/guardian/internal/heuristic"
	"github.com/guardian-labs/guardian/internal/solana"
)

// Config holds the bundle detection thresholds.
type Config struct {
	// Minimum distinct fee payers in one slot to call it a bundle.
	BundleMinSize int `yaml:"bundle_min_size"`

	// Bundles at or above this size are suspicious regardless of timing.
	SuspiciousMinSize int `yaml:"suspicious_min_size"`

	// The first N distinct slots (ascending) count as the launch window;
	// any bundle inside it is suspicious.
	EarlySlotWindow int `yaml:"early_slot_window"`
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		BundleMinSize:     3,
		SuspiciousMinSize: 5,
		EarlySlotWindow:   10,
	}
}

// Bundle is one detected group of co-transacting wallets.
type Bundle struct {
	Slot       uint64   `json:"slot"`
	Wallets    []string `json:"wallets"`
	Size       int      `json:"size"`
	TxnCount   int      `json:"txn_count"`
	Suspicious bool     `json:"suspicious"`
}

// Report is the full bundle detection result.
type Report struct {
	TotalBundles            int      `json:"total_bundles"`
	BundleGroups            []Bundle `json:"bundle_groups"`
	SuspiciousBundles       int      `json:"suspicious_bundles"`
	BundledWalletPercentage float64  `json:"bundled_wallet_percentage"`
}

// Detector groups transactions by slot and flags coordinated wallet sets.
// It is stateless; one instance can serve any number of concurrent calls.
type Detector struct {
	config Config
}

// NewDetector creates a bundle detector.
func NewDetector(config Config) *Detector {
	return &Detector{config: config}
}

// slotGroup accumulates per-slot state while scanning the input.
// Wallet order inside a slot is first-encounter order, which keeps the
// output reproducible for identical inputs.
type slotGroup struct {
	slot      uint64
	wallets   []string
	walletSet map[string]struct{}
	txnCount  int
}

// Detect runs bundle detection over a transaction set.
// Transactions without a slot are excluded entirely. The returned bundle
// list is sorted by size descending; equal sizes keep the order their slots
// were first seen in the input (stable sort, relied on for determinism).
func (d *Detector) Detect(txns []solana.Transaction) Report {
	if len(txns) == 0 {
		return Report{BundleGroups: []Bundle{}}
	}

	groups := make(map[uint64]*slotGroup)
	var slotOrder []uint64
	allFeePayers := make(map[string]struct{})

	for _, txn := range txns {
		if txn.FeePayer != "" {
			allFeePayers[txn.FeePayer] = struct{}{}
		}
		if txn.Slot == nil {
			continue
		}
		slot := *txn.Slot
		g, ok := groups[slot]
		if !ok {
			g = &slotGroup{slot: slot, walletSet: make(map[string]struct{})}
			groups[slot] = g
			slotOrder = append(slotOrder, slot)
		}
		g.txnCount++
		if txn.FeePayer != "" {
			if _, seen := g.walletSet[txn.FeePayer]; !seen {
				g.walletSet[txn.FeePayer] = struct{}{}
				g.wallets = append(g.wallets, txn.FeePayer)
			}
		}
	}

	// Launch window: first EarlySlotWindow slots by ascending slot number.
	sortedSlots := make([]uint64, len(slotOrder))
	copy(sortedSlots, slotOrder)
	sort.Slice(sortedSlots, func(i, j int) bool { return sortedSlots[i] < sortedSlots[j] })
	earlySlots := make(map[uint64]struct{})
	for i, slot := range sortedSlots {
		if i >= d.config.EarlySlotWindow {
			break
		}
		earlySlots[slot] = struct{}{}
	}

	var bundles []Bundle
	bundledWallets := make(map[string]struct{})
	suspiciousCount := 0

	for _, slot := range slotOrder {
		g := groups[slot]
		if len(g.wallets) < d.config.BundleMinSize {
			continue
		}
		_, early := earlySlots[slot]
		b := Bundle{
			Slot:       slot,
			Wallets:    g.wallets,
			Size:       len(g.wallets),
			TxnCount:   g.txnCount,
			Suspicious: len(g.wallets) >= d.config.SuspiciousMinSize || early,
		}
		if b.Suspicious {
			suspiciousCount++
		}
		for _, w := range g.wallets {
			bundledWallets[w] = struct{}{}
		}
		bundles = append(bundles, b)
	}

	sort.SliceStable(bundles, func(i, j int) bool { return bundles[i].Size > bundles[j].Size })
	if bundles == nil {
		bundles = []Bundle{}
	}

	report := Report{
		TotalBundles:            len(bundles),
		BundleGroups:            bundles,
		SuspiciousBundles:       suspiciousCount,
		BundledWalletPercentage: heuristic.Percentage(len(bundledWallets), len(allFeePayers)),
	}

	log.Debug().
		Int("total_bundles", report.TotalBundles).
		Int("suspicious", report.SuspiciousBundles).
		Float64("bundled_wallet_pct", report.BundledWalletPercentage).
		Msg("bundler: detection complete")

	return report
}
