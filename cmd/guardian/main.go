package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	sol "github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/guardian-labs/guardian/internal/bundler"
	"github.com/guardian-labs/guardian/internal/config"
	"github.com/guardian-labs/guardian/internal/fetch"
	"github.com/guardian-labs/guardian/internal/helius"
	"github.com/guardian-labs/guardian/internal/report"
	"github.com/guardian-labs/guardian/internal/risk"
	"github.com/guardian-labs/guardian/internal/rugcheck"
	"github.com/guardian-labs/guardian/internal/trader"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to YAML configuration file (optional; env vars used otherwise)")
	outputDir := flag.String("output-dir", "", "Override the output directory for reports and charts")
	jsonOnly := flag.Bool("json-only", false, "Only write the JSON report; skip HTML and terminal summary")
	htmlOut := flag.Bool("html", false, "Generate the HTML report")
	noCharts := flag.Bool("no-charts", false, "Skip chart generation")
	logLevel := flag.String("log-level", "", "Override log level (trace|debug|info|warn|error)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: guardian [flags] <token-mint-address>\n\n")
		fmt.Fprintf(os.Stderr, "Analyse a Solana token for rug-pull and manipulation risks.\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return 1
	}
	mint := flag.Arg(0)

	// .env is optional; real environments set the variables directly.
	_ = godotenv.Load()

	var cfg *config.Config
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: failed to load config from %s: %v\n", *configPath, err)
			return 1
		}
		cfg = loaded
	} else {
		cfg = config.FromEnv()
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if *logLevel != "" {
		cfg.General.LogLevel = *logLevel
	}

	setupLogging(cfg.General)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Configuration validation failed")
		return 1
	}
	if cfg.Rugcheck.APIKey == "" {
		log.Warn().Msg("RUGCHECK_API_KEY not set; using unauthenticated public endpoints (rate limits may apply)")
	}

	if _, err := sol.PublicKeyFromBase58(mint); err != nil {
		log.Error().Str("mint", mint).Err(err).Msg("Not a valid Solana mint address")
		return 1
	}

	log.Info().
		Str("instance_id", cfg.General.InstanceID).
		Str("mint", mint).
		Str("output_dir", cfg.Output.Dir).
		Msg("Token Guardian starting")

	heliusClient := helius.NewClient(helius.Config{
		APIKey:     cfg.Helius.APIKey,
		RPCURL:     cfg.Helius.RPCURL,
		APIURL:     cfg.Helius.APIURL,
		Timeout:    time.Duration(cfg.Helius.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Helius.MaxRetries,
		TxnLimit:   cfg.Helius.TxnFetchLimit,
	})
	rugcheckClient := rugcheck.NewClient(rugcheck.Config{
		BaseURL: cfg.Rugcheck.BaseURL,
		APIKey:  cfg.Rugcheck.APIKey,
		Timeout: time.Duration(cfg.Rugcheck.TimeoutSecs) * time.Second,
	})

	ctx := context.Background()
	dataset := fetch.New(heliusClient, rugcheckClient).Fetch(ctx, mint)

	log.Info().Msg("Analysing trader behaviour")
	traderReport := trader.NewAnalyzer(trader.DefaultConfig()).Analyze(dataset.Transactions, dataset.Holders.Holders)

	log.Info().Msg("Detecting wallet bundles")
	bundleReport := bundler.NewDetector(bundler.DefaultConfig()).Detect(dataset.Transactions)

	log.Info().Msg("Computing risk score")
	token := dataset.Token
	token.BotPercentage = traderReport.BotPercentage
	riskReport := risk.NewScorer().Score(token, dataset.Holders, &bundleReport, dataset.Rugcheck)

	analysis := report.NewAnalysis(mint, token, dataset.Holders.Holders, traderReport, bundleReport, riskReport)

	writer, err := report.NewWriter(cfg.Output.Dir)
	if err != nil {
		log.Error().Err(err).Msg("Cannot prepare output directory")
		return 1
	}

	var chartFiles []string
	if !*noCharts && !*jsonOnly {
		chartFiles, err = writer.WriteCharts(analysis)
		if err != nil {
			log.Warn().Err(err).Msg("Chart generation failed; continuing without charts")
		}
	}

	if _, err := writer.WriteJSON(analysis, chartFiles); err != nil {
		log.Warn().Err(err).Msg("JSON report failed")
	}

	if *htmlOut && !*jsonOnly {
		if _, err := writer.WriteHTML(analysis, chartFiles); err != nil {
			log.Warn().Err(err).Msg("HTML report failed")
		}
	}

	if !*jsonOnly {
		writer.Terminal(analysis)
	}

	log.Info().
		Int("total_score", riskReport.TotalScore).
		Str("risk_level", riskReport.RiskLevel).
		Msg("Analysis complete")
	return 0
}

// setupLogging configures zerolog output per config.
func setupLogging(general config.GeneralConfig) {
	level, err := zerolog.ParseLevel(general.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if general.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
