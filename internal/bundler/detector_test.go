package bundler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardian-labs/guardian/internal/solana"
)

func makeTxn(feePayer string, slot uint64) solana.Transaction {
	ts := int64(1_700_000_000)
	return solana.Transaction{
		FeePayer:  feePayer,
		Slot:      &slot,
		Timestamp: &ts,
		TokenTransfers: []solana.TokenTransfer{
			{Mint: "mint123", TokenAmount: 100.0, ToUserAccount: feePayer},
		},
	}
}

// makeBundle creates `size` transactions from distinct wallets in one slot.
func makeBundle(slot uint64, size int) []solana.Transaction {
	txns := make([]solana.Transaction, 0, size)
	for i := 0; i < size; i++ {
		txns = append(txns, makeTxn(fmt.Sprintf("wallet_%d_%d", slot, i), slot))
	}
	return txns
}

func TestDetector_BundleInOneSlot(t *testing.T) {
	d := NewDetector(DefaultConfig())
	report := d.Detect(makeBundle(500, 4))

	require.Equal(t, 1, report.TotalBundles)
	assert.Equal(t, uint64(500), report.BundleGroups[0].Slot)
	assert.Equal(t, 4, report.BundleGroups[0].Size)
	assert.Len(t, report.BundleGroups[0].Wallets, 4)
	assert.Equal(t, 4, report.BundleGroups[0].TxnCount)
}

func TestDetector_TwoWalletsPerSlotIsNotABundle(t *testing.T) {
	d := NewDetector(DefaultConfig())

	var txns []solana.Transaction
	for slot := uint64(1); slot <= 10; slot++ {
		txns = append(txns, makeBundle(slot, 2)...)
	}

	report := d.Detect(txns)
	assert.Equal(t, 0, report.TotalBundles)
	assert.Empty(t, report.BundleGroups)
	assert.Equal(t, 0.0, report.BundledWalletPercentage)
}

func TestDetector_DuplicateFeePayerCollapses(t *testing.T) {
	d := NewDetector(DefaultConfig())

	// Two wallets, one of them paying twice in the slot: only 2 distinct.
	txns := []solana.Transaction{
		makeTxn("alice", 77),
		makeTxn("alice", 77),
		makeTxn("bob", 77),
	}
	report := d.Detect(txns)
	assert.Equal(t, 0, report.TotalBundles)

	// Add a third distinct wallet and it becomes a bundle of exactly 3.
	txns = append(txns, makeTxn("carol", 77))
	report = d.Detect(txns)
	require.Equal(t, 1, report.TotalBundles)
	assert.Equal(t, 3, report.BundleGroups[0].Size)
	assert.Equal(t, 4, report.BundleGroups[0].TxnCount)
}

func TestDetector_MissingSlotExcluded(t *testing.T) {
	d := NewDetector(DefaultConfig())

	txns := makeBundle(900, 3)
	noSlot := solana.Transaction{FeePayer: "drifter"}
	txns = append(txns, noSlot)

	report := d.Detect(txns)
	require.Equal(t, 1, report.TotalBundles)
	// The slotless wallet still counts in the fee-payer denominator.
	assert.Equal(t, 75.0, report.BundledWalletPercentage)
}

func TestDetector_SuspiciousBySize(t *testing.T) {
	d := NewDetector(DefaultConfig())

	// Push the big bundle out of the early window with 10 smaller slots first.
	var txns []solana.Transaction
	for slot := uint64(1); slot <= 10; slot++ {
		txns = append(txns, makeBundle(slot, 3)...)
	}
	txns = append(txns, makeBundle(100, 5)...)

	report := d.Detect(txns)
	require.Equal(t, 11, report.TotalBundles)

	for _, b := range report.BundleGroups {
		if b.Slot == 100 {
			assert.True(t, b.Suspicious, "size >= 5 outside launch window is suspicious")
		} else {
			assert.True(t, b.Suspicious, "slots 1..10 are inside the launch window")
		}
	}
	assert.Equal(t, 11, report.SuspiciousBundles)
}

func TestDetector_EarlyWindowIsAscendingNumeric(t *testing.T) {
	d := NewDetector(DefaultConfig())

	// Feed a late slot first: discovery order must not matter for the window.
	var txns []solana.Transaction
	txns = append(txns, makeBundle(5000, 3)...)
	for slot := uint64(1); slot <= 10; slot++ {
		txns = append(txns, makeBundle(slot, 3)...)
	}

	report := d.Detect(txns)
	require.Equal(t, 11, report.TotalBundles)
	for _, b := range report.BundleGroups {
		if b.Slot == 5000 {
			assert.False(t, b.Suspicious, "slot 5000 is the 11th ascending slot")
		} else {
			assert.True(t, b.Suspicious)
		}
	}
}

func TestDetector_SortedBySizeDescStableTies(t *testing.T) {
	d := NewDetector(DefaultConfig())

	var txns []solana.Transaction
	txns = append(txns, makeBundle(30, 3)...) // tie, seen first
	txns = append(txns, makeBundle(10, 4)...)
	txns = append(txns, makeBundle(20, 3)...) // tie, seen second

	report := d.Detect(txns)
	require.Equal(t, 3, report.TotalBundles)
	assert.Equal(t, uint64(10), report.BundleGroups[0].Slot)
	// Equal sizes keep first-encounter slot order.
	assert.Equal(t, uint64(30), report.BundleGroups[1].Slot)
	assert.Equal(t, uint64(20), report.BundleGroups[2].Slot)

	for i := 1; i < len(report.BundleGroups); i++ {
		assert.GreaterOrEqual(t, report.BundleGroups[i-1].Size, report.BundleGroups[i].Size)
	}
}

func TestDetector_BundledWalletPercentage(t *testing.T) {
	d := NewDetector(DefaultConfig())

	// 4 bundled wallets + 4 loners across distinct slots = 50%.
	txns := makeBundle(1, 4)
	for i := 0; i < 4; i++ {
		txns = append(txns, makeTxn(fmt.Sprintf("loner_%d", i), uint64(1000+i)))
	}

	report := d.Detect(txns)
	assert.Equal(t, 50.0, report.BundledWalletPercentage)
	assert.GreaterOrEqual(t, report.BundledWalletPercentage, 0.0)
	assert.LessOrEqual(t, report.BundledWalletPercentage, 100.0)
}

func TestDetector_EmptyInput(t *testing.T) {
	d := NewDetector(DefaultConfig())
	report := d.Detect(nil)

	assert.Equal(t, 0, report.TotalBundles)
	assert.Empty(t, report.BundleGroups)
	assert.Equal(t, 0, report.SuspiciousBundles)
	assert.Equal(t, 0.0, report.BundledWalletPercentage)
}

func TestDetector_SizeMatchesWalletCount(t *testing.T) {
	d := NewDetector(DefaultConfig())

	txns := makeBundle(42, 6)
	txns = append(txns, makeTxn("wallet_42_0", 42)) // duplicate payer

	report := d.Detect(txns)
	require.Equal(t, 1, report.TotalBundles)
	b := report.BundleGroups[0]
	assert.Equal(t, b.Size, len(b.Wallets))
	assert.GreaterOrEqual(t, b.Size, DefaultConfig().BundleMinSize)
}
