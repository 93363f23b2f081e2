package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rs/zerolog/log"
)

// WriteCharts renders the chart set for an analysis and returns the paths of
// the files written. A chart with nothing to show is skipped.
func (w *Writer) WriteCharts(a Analysis) ([]string, error) {
	var paths []string

	if a.Trader.TotalWallets > 0 {
		path, err := w.walletPie(a)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	if len(a.Holders) > 0 {
		path, err := w.holderBar(a)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	if a.Bundles.TotalBundles > 0 {
		path, err := w.bundleBar(a)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	path, err := w.riskBar(a)
	if err != nil {
		return paths, err
	}
	paths = append(paths, path)

	log.Info().Int("charts", len(paths)).Msg("report: charts written")
	return paths, nil
}

// walletPie charts the wallet label distribution.
func (w *Writer) walletPie(a Analysis) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{
		Title:    "Wallet classification",
		Subtitle: fmt.Sprintf("%d wallets analysed", a.Trader.TotalWallets),
	}))
	pie.AddSeries("wallets", []opts.PieData{
		{Name: "real", Value: a.Trader.RealTraders},
		{Name: "bot", Value: a.Trader.Bots},
		{Name: "wash_trader", Value: a.Trader.WashTraders},
		{Name: "sybil", Value: a.Trader.SybilWallets},
	})
	return w.renderChart(a, "chart_wallets", pie.Render)
}

// holderBar charts the top holder supply shares.
func (w *Writer) holderBar(a Analysis) (string, error) {
	holders := a.Holders
	if len(holders) > 10 {
		holders = holders[:10]
	}

	labels := make([]string, 0, len(holders))
	values := make([]opts.BarData, 0, len(holders))
	for _, h := range holders {
		addr := h.Address
		if len(addr) > 8 {
			addr = addr[:8]
		}
		labels = append(labels, addr)
		values = append(values, opts.BarData{Value: h.Percentage})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Top holder concentration (% of supply)"}))
	bar.SetXAxis(labels).AddSeries("supply %", values)
	return w.renderChart(a, "chart_holders", bar.Render)
}

// bundleBar charts bundle sizes, largest first.
func (w *Writer) bundleBar(a Analysis) (string, error) {
	bundles := a.Bundles.BundleGroups
	if len(bundles) > 15 {
		bundles = bundles[:15]
	}

	labels := make([]string, 0, len(bundles))
	values := make([]opts.BarData, 0, len(bundles))
	for _, b := range bundles {
		labels = append(labels, fmt.Sprintf("slot %d", b.Slot))
		values = append(values, opts.BarData{Value: b.Size})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{
		Title:    "Wallet bundles by slot",
		Subtitle: fmt.Sprintf("%d suspicious of %d", a.Bundles.SuspiciousBundles, a.Bundles.TotalBundles),
	}))
	bar.SetXAxis(labels).AddSeries("wallets", values)
	return w.renderChart(a, "chart_bundles", bar.Render)
}

// riskBar charts the point contribution of each triggered risk factor. It is
// written even when nothing triggered so every report carries a verdict chart.
func (w *Writer) riskBar(a Analysis) (string, error) {
	factors := a.Risk.Factors

	labels := make([]string, 0, len(factors))
	values := make([]opts.BarData, 0, len(factors))
	for _, f := range factors {
		labels = append(labels, strings.ReplaceAll(f.Name, "_", " "))
		values = append(values, opts.BarData{Value: f.Points})
	}
	if len(labels) == 0 {
		labels = append(labels, "no risk factors triggered")
		values = append(values, opts.BarData{Value: 0})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{
		Title:    fmt.Sprintf("Risk factors, total %d/100 (%s)", a.Risk.TotalScore, a.Risk.RiskLevel),
		Subtitle: fmt.Sprintf("%d factor(s) triggered", len(a.Risk.Factors)),
	}))
	bar.SetXAxis(labels).AddSeries("points", values)
	bar.XYReversal()
	return w.renderChart(a, "chart_risk", bar.Render)
}

type renderFunc func(w io.Writer) error

func (w *Writer) renderChart(a Analysis, kind string, render renderFunc) (string, error) {
	path := filepath.Join(w.outputDir, w.filename(a, kind, "html"))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	defer f.Close()
	if err := render(f); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}
	return path, nil
}
