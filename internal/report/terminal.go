package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/guardian-labs/guardian/internal/risk"
)

// Terminal prints the analysis summary to stdout.
func (w *Writer) Terminal(a Analysis) {
	w.TerminalTo(os.Stdout, a)
}

// TerminalTo prints the analysis summary to the given writer.
func (w *Writer) TerminalTo(out io.Writer, a Analysis) {
	title := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	title.Fprintf(out, "\n%s (%s)\n", a.Token.Name, a.Token.Symbol)
	dim.Fprintf(out, "%s\n\n", a.Mint)

	verdict := levelColor(a.Risk.RiskLevel)
	verdict.Fprintf(out, "  RISK SCORE %d/100 - %s\n\n", a.Risk.TotalScore, a.Risk.RiskLevel)

	if len(a.Risk.Factors) == 0 {
		fmt.Fprintln(out, "  No risk factors triggered.")
	}
	for _, f := range a.Risk.Factors {
		fmt.Fprintf(out, "  [+%d] %s\n", f.Points, f.Description)
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "  Wallets: %d total | %d real | %d bots (%.2f%%) | %d wash | %d sybil\n",
		a.Trader.TotalWallets, a.Trader.RealTraders, a.Trader.Bots,
		a.Trader.BotPercentage, a.Trader.WashTraders, a.Trader.SybilWallets)
	fmt.Fprintf(out, "  Bundles: %d total | %d suspicious | %.2f%% of wallets bundled\n",
		a.Bundles.TotalBundles, a.Bundles.SuspiciousBundles, a.Bundles.BundledWalletPercentage)
	fmt.Fprintf(out, "  Top-10 holder concentration: %.2f%%\n\n", a.Risk.Top10Concentration)

	w.holderTable(out, a)
	w.bundleTable(out, a)
}

// holderTable prints the top holders.
func (w *Writer) holderTable(out io.Writer, a Analysis) {
	holders := a.Holders
	if len(holders) == 0 {
		return
	}
	if len(holders) > 10 {
		holders = holders[:10]
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Holder", "Amount", "% Supply"})
	for _, h := range holders {
		table.Append([]string{
			truncate(h.Address, 12),
			h.Amount.String(),
			fmt.Sprintf("%.4f", h.Percentage),
		})
	}
	table.Render()
	fmt.Fprintln(out)
}

// bundleTable prints the largest detected bundles.
func (w *Writer) bundleTable(out io.Writer, a Analysis) {
	bundles := a.Bundles.BundleGroups
	if len(bundles) == 0 {
		return
	}
	if len(bundles) > 5 {
		bundles = bundles[:5]
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Slot", "Wallets", "Txns", "Suspicious"})
	for _, b := range bundles {
		suspicious := ""
		if b.Suspicious {
			suspicious = "YES"
		}
		table.Append([]string{
			fmt.Sprintf("%d", b.Slot),
			fmt.Sprintf("%d", b.Size),
			fmt.Sprintf("%d", b.TxnCount),
			suspicious,
		})
	}
	table.Render()
	fmt.Fprintln(out)
}

func levelColor(level string) *color.Color {
	switch level {
	case risk.LevelLow:
		return color.New(color.FgGreen, color.Bold)
	case risk.LevelMedium:
		return color.New(color.FgYellow, color.Bold)
	case risk.LevelHigh:
		return color.New(color.FgHiYellow, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
