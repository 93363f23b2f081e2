package trader

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guardian-labs/guardian/internal/solana"
)

func txnAt(feePayer string, slot uint64, ts int64, transfers ...solana.TokenTransfer) solana.Transaction {
	return solana.Transaction{
		FeePayer:       feePayer,
		Slot:           &slot,
		Timestamp:      &ts,
		TokenTransfers: transfers,
	}
}

func buy(mint string, wallet string, amount any) solana.TokenTransfer {
	return solana.TokenTransfer{Mint: mint, TokenAmount: amount, ToUserAccount: wallet}
}

func sell(mint string, wallet string, amount any) solana.TokenTransfer {
	return solana.TokenTransfer{Mint: mint, TokenAmount: amount, FromUserAccount: wallet}
}

// spaced builds n transactions for one wallet, `gap` seconds apart.
func spaced(wallet string, n int, gap int64) []solana.Transaction {
	txns := make([]solana.Transaction, 0, n)
	for i := 0; i < n; i++ {
		txns = append(txns, txnAt(wallet, uint64(100+i), 1_700_000_000+int64(i)*gap))
	}
	return txns
}

func detailFor(t *testing.T, report Report, wallet string) Detail {
	t.Helper()
	for _, d := range report.TraderDetails {
		if d.Wallet == wallet {
			return d
		}
	}
	t.Fatalf("wallet %s not in trader details", wallet)
	return Detail{}
}

func TestAnalyzer_BotRapidFire(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	report := a.Analyze(spaced("speedy", 10, 5), nil)
	d := detailFor(t, report, "speedy")
	assert.True(t, d.IsBot)
	assert.Equal(t, LabelBot, d.Label)
	assert.Equal(t, 1, report.Bots)
}

func TestAnalyzer_SlowTraderIsNotBot(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	report := a.Analyze(spaced("patient", 10, 120), nil)
	d := detailFor(t, report, "patient")
	assert.False(t, d.IsBot)
	assert.Equal(t, LabelReal, d.Label)
}

func TestAnalyzer_BotNeedsMoreThanMinTxns(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Exactly 5 rapid transactions: at the threshold, not over it.
	report := a.Analyze(spaced("borderline", 5, 1), nil)
	assert.False(t, detailFor(t, report, "borderline").IsBot)

	report = a.Analyze(spaced("overline", 6, 1), nil)
	assert.True(t, detailFor(t, report, "overline").IsBot)
}

func TestAnalyzer_BotNeedsTimestamps(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// 6 transactions, none with a timestamp: temporal heuristic skips them.
	var txns []solana.Transaction
	for i := 0; i < 6; i++ {
		slot := uint64(i)
		txns = append(txns, solana.Transaction{FeePayer: "ghost", Slot: &slot})
	}
	report := a.Analyze(txns, nil)
	assert.False(t, detailFor(t, report, "ghost").IsBot)
}

func TestAnalyzer_IdenticalTimestampsFlagBot(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Six transactions stamped with the same second: mean gap is zero.
	report := a.Analyze(spaced("burst", 6, 0), nil)
	assert.True(t, detailFor(t, report, "burst").IsBot)
}

func TestAnalyzer_WashTraderTwoCycles(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	base := int64(1_700_000_000)
	txns := []solana.Transaction{
		txnAt("washer", 1, base, buy("mintA", "washer", 100.0)),
		txnAt("washer", 2, base+600, sell("mintA", "washer", 100.0)),
		txnAt("washer", 3, base+1200, buy("mintA", "washer", 100.0)),
		txnAt("washer", 4, base+1800, sell("mintA", "washer", 100.0)),
	}

	report := a.Analyze(txns, nil)
	d := detailFor(t, report, "washer")
	assert.True(t, d.IsWashTrader)
	assert.Equal(t, LabelWashTrader, d.Label)
	assert.Equal(t, 1, report.WashTraders)
}

func TestAnalyzer_WashCyclesSplitAcrossMintsDoNotCount(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	base := int64(1_700_000_000)
	txns := []solana.Transaction{
		txnAt("splitter", 1, base, buy("mintA", "splitter", 50.0)),
		txnAt("splitter", 2, base+60, sell("mintA", "splitter", 50.0)),
		txnAt("splitter", 3, base+120, buy("mintB", "splitter", 50.0)),
		txnAt("splitter", 4, base+180, sell("mintB", "splitter", 50.0)),
	}

	report := a.Analyze(txns, nil)
	assert.False(t, detailFor(t, report, "splitter").IsWashTrader,
		"one cycle per mint stays under the per-mint minimum")
}

func TestAnalyzer_OutOfWindowSellLeavesBuyDangling(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	base := int64(1_700_000_000)
	txns := []solana.Transaction{
		// Cycle 1 completes in-window.
		txnAt("edge", 1, base, buy("mintA", "edge", 10.0)),
		txnAt("edge", 2, base+100, sell("mintA", "edge", 10.0)),
		// Buy whose first sell lands outside the window: the pending buy is
		// NOT cleared, but a later in-window sell cannot pair with it either
		// because the sell must come within the window of that same buy.
		txnAt("edge", 3, base+1000, buy("mintA", "edge", 10.0)),
		txnAt("edge", 4, base+1000+3601, sell("mintA", "edge", 10.0)),
		txnAt("edge", 5, base+1000+3700, sell("mintA", "edge", 10.0)),
	}

	report := a.Analyze(txns, nil)
	assert.False(t, detailFor(t, report, "edge").IsWashTrader,
		"only one completed cycle; the dangling buy never completes")
}

func TestAnalyzer_SybilCluster(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// 4 wallets in one slot, all transferring the exact same amount.
	var txns []solana.Transaction
	for i := 0; i < 4; i++ {
		w := fmt.Sprintf("clone_%d", i)
		txns = append(txns, txnAt(w, 555, 1_700_000_000+int64(i), buy("mintA", w, 1000.0)))
	}

	report := a.Analyze(txns, nil)
	for i := 0; i < 4; i++ {
		d := detailFor(t, report, fmt.Sprintf("clone_%d", i))
		assert.True(t, d.IsSybil)
		assert.Equal(t, LabelSybil, d.Label)
	}
	assert.Equal(t, 4, report.SybilWallets)
}

func TestAnalyzer_NoSybilWhenAmountsVary(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	var txns []solana.Transaction
	for i := 0; i < 4; i++ {
		w := fmt.Sprintf("trader_%d", i)
		txns = append(txns, txnAt(w, 555, 1_700_000_000+int64(i), buy("mintA", w, float64(100+i*37))))
	}

	report := a.Analyze(txns, nil)
	for i := 0; i < 4; i++ {
		assert.False(t, detailFor(t, report, fmt.Sprintf("trader_%d", i)).IsSybil)
	}
}

func TestAnalyzer_MalformedAmountsSkipped(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Identical numeric amounts plus garbage values; the garbage is skipped
	// and the identical remainder still trips the sybil check.
	var txns []solana.Transaction
	for i := 0; i < 4; i++ {
		w := fmt.Sprintf("clone_%d", i)
		txns = append(txns, txnAt(w, 9, 1_700_000_000, buy("mintA", w, 500.0)))
	}
	txns[0].TokenTransfers = append(txns[0].TokenTransfers,
		buy("mintA", "clone_0", "not-a-number"))

	report := a.Analyze(txns, nil)
	assert.True(t, detailFor(t, report, "clone_0").IsSybil)
}

func TestAnalyzer_LabelPrecedenceBotWins(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	// Rapid-fire wallet that also completes two wash cycles: bot wins.
	base := int64(1_700_000_000)
	txns := []solana.Transaction{
		txnAt("hybrid", 1, base, buy("mintA", "hybrid", 10.0)),
		txnAt("hybrid", 2, base+5, sell("mintA", "hybrid", 10.0)),
		txnAt("hybrid", 3, base+10, buy("mintA", "hybrid", 10.0)),
		txnAt("hybrid", 4, base+15, sell("mintA", "hybrid", 10.0)),
		txnAt("hybrid", 5, base+20, buy("mintA", "hybrid", 10.0)),
		txnAt("hybrid", 6, base+25, sell("mintA", "hybrid", 10.0)),
	}

	report := a.Analyze(txns, nil)
	d := detailFor(t, report, "hybrid")
	assert.True(t, d.IsBot)
	assert.True(t, d.IsWashTrader)
	assert.Equal(t, LabelBot, d.Label, "bot outranks wash_trader")
}

func TestAnalyzer_CounterpartyOnlyWalletIsReal(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	txns := []solana.Transaction{
		txnAt("payer", 1, 1_700_000_000, solana.TokenTransfer{
			Mint:            "mintA",
			TokenAmount:     25.0,
			FromUserAccount: "payer",
			ToUserAccount:   "bystander",
		}),
	}

	report := a.Analyze(txns, nil)
	assert.Equal(t, 2, report.TotalWallets)
	d := detailFor(t, report, "bystander")
	assert.Equal(t, LabelReal, d.Label)
	assert.Equal(t, 0, d.TxnCount)
}

func TestAnalyzer_BotPercentage(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	txns := spaced("bot_one", 10, 2)
	txns = append(txns, txnAt("human_one", 900, 1_800_000_000))
	txns = append(txns, txnAt("human_two", 901, 1_800_000_100))

	report := a.Analyze(txns, nil)
	assert.Equal(t, 3, report.TotalWallets)
	assert.Equal(t, 1, report.Bots)
	assert.Equal(t, 33.33, report.BotPercentage)
}

func TestAnalyzer_EmptyInput(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	report := a.Analyze(nil, nil)
	assert.Equal(t, 0, report.TotalWallets)
	assert.Empty(t, report.TraderDetails)
	assert.Equal(t, 0.0, report.BotPercentage)
}

func TestAnalyzer_ExactlyOneLabelPerWallet(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())

	txns := spaced("bot", 8, 3)
	txns = append(txns, txnAt("human", 500, 1_800_000_000))

	report := a.Analyze(txns, nil)
	total := report.RealTraders + report.Bots + report.WashTraders + report.SybilWallets
	assert.Equal(t, report.TotalWallets, total)
	for _, d := range report.TraderDetails {
		assert.Contains(t, []Label{LabelReal, LabelBot, LabelWashTrader, LabelSybil}, d.Label)
	}
}
