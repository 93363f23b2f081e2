// Package fetch gathers everything the engines need for one token in a
// single concurrent pass. Source failures are absorbed into empty values:
// the detection core never sees an error, only less data.
package fetch

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/guardian-labs/guardian/internal/helius"
	"github.com/guardian-labs/guardian/internal/rugcheck"
	"github.com/guardian-labs/guardian/internal/solana"
)

// Dataset is the combined input for one analysis run. Any field may be its
// zero value when the corresponding source was unavailable.
type Dataset struct {
	Mint         string               `json:"mint"`
	Token        solana.TokenData     `json:"token"`
	Holders      solana.HolderSet     `json:"holders"`
	Transactions []solana.Transaction `json:"transactions"`
	Rugcheck     *rugcheck.Report     `json:"rugcheck,omitempty"`
}

// HeliusSource is the subset of the Helius client the fetcher needs.
type HeliusSource interface {
	GetTokenInfo(ctx context.Context, mint string) (solana.TokenData, error)
	GetTopHolders(ctx context.Context, mint string) (solana.HolderSet, error)
	GetRecentTransactions(ctx context.Context, mint string) ([]solana.Transaction, error)
}

// RugcheckSource is the subset of the RugCheck client the fetcher needs.
type RugcheckSource interface {
	GetReport(ctx context.Context, mint string) (*rugcheck.Report, error)
}

// Fetcher aggregates all external data sources.
type Fetcher struct {
	helius   HeliusSource
	rugcheck RugcheckSource
}

// New creates a fetcher over the two data sources.
func New(h HeliusSource, r RugcheckSource) *Fetcher {
	return &Fetcher{helius: h, rugcheck: r}
}

var _ HeliusSource = (*helius.Client)(nil)
var _ RugcheckSource = (*rugcheck.Client)(nil)

// Fetch gathers the complete dataset for one mint: token metadata, holders,
// transactions, and the RugCheck report, all concurrently. Individual
// failures are logged and swallowed; the returned dataset is always safe to
// hand to the engines.
func (f *Fetcher) Fetch(ctx context.Context, mint string) Dataset {
	ds := Dataset{Mint: mint, Token: solana.TokenData{Address: mint}}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		token, err := f.helius.GetTokenInfo(gctx, mint)
		if err != nil {
			log.Warn().Err(err).Str("mint", mint).Msg("fetch: token metadata unavailable")
			return nil
		}
		ds.Token = token
		return nil
	})
	g.Go(func() error {
		holders, err := f.helius.GetTopHolders(gctx, mint)
		if err != nil {
			log.Warn().Err(err).Str("mint", mint).Msg("fetch: holder list unavailable")
			return nil
		}
		ds.Holders = holders
		return nil
	})
	g.Go(func() error {
		txns, err := f.helius.GetRecentTransactions(gctx, mint)
		if err != nil {
			log.Warn().Err(err).Str("mint", mint).Msg("fetch: transaction history unavailable")
			return nil
		}
		ds.Transactions = txns
		return nil
	})
	g.Go(func() error {
		report, err := f.rugcheck.GetReport(gctx, mint)
		if err != nil {
			log.Warn().Err(err).Str("mint", mint).Msg("fetch: rugcheck report unavailable")
			return nil
		}
		ds.Rugcheck = report
		return nil
	})

	// Goroutines only ever return nil; the group is used for the join and
	// the shared context.
	_ = g.Wait()

	log.Info().
		Str("mint", mint).
		Int("holders", len(ds.Holders.Holders)).
		Int("transactions", len(ds.Transactions)).
		Bool("rugcheck", ds.Rugcheck != nil).
		Msg("fetch: dataset assembled")

	return ds
}
