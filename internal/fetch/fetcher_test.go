package fetch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guardian-labs/guardian/internal/rugcheck"
	"github.com/guardian-labs/guardian/internal/solana"
)

type stubHelius struct {
	token   solana.TokenData
	holders solana.HolderSet
	txns    []solana.Transaction
	err     error
}

func (s *stubHelius) GetTokenInfo(_ context.Context, mint string) (solana.TokenData, error) {
	return s.token, s.err
}

func (s *stubHelius) GetTopHolders(_ context.Context, _ string) (solana.HolderSet, error) {
	return s.holders, s.err
}

func (s *stubHelius) GetRecentTransactions(_ context.Context, _ string) ([]solana.Transaction, error) {
	return s.txns, s.err
}

type stubRugcheck struct {
	report *rugcheck.Report
	err    error
}

func (s *stubRugcheck) GetReport(_ context.Context, _ string) (*rugcheck.Report, error) {
	return s.report, s.err
}

func TestFetcher_AllSourcesHealthy(t *testing.T) {
	h := &stubHelius{
		token:   solana.TokenData{Address: "MintA", Name: "Moon"},
		holders: solana.HolderSet{Holders: []solana.HolderInfo{{Address: "whale", Percentage: 40}}},
		txns:    []solana.Transaction{{FeePayer: "walletA"}},
	}
	r := &stubRugcheck{report: &rugcheck.Report{Score: 120}}

	ds := New(h, r).Fetch(context.Background(), "MintA")
	assert.Equal(t, "Moon", ds.Token.Name)
	assert.Len(t, ds.Holders.Holders, 1)
	assert.Len(t, ds.Transactions, 1)
	assert.NotNil(t, ds.Rugcheck)
}

func TestFetcher_FailuresAbsorbedToEmptyData(t *testing.T) {
	h := &stubHelius{err: errors.New("helius down")}
	r := &stubRugcheck{err: errors.New("rugcheck down")}

	ds := New(h, r).Fetch(context.Background(), "MintA")

	// Every source failed, yet the dataset is complete and analyzable.
	assert.Equal(t, "MintA", ds.Mint)
	assert.Equal(t, "MintA", ds.Token.Address)
	assert.Empty(t, ds.Holders.Holders)
	assert.Empty(t, ds.Transactions)
	assert.Nil(t, ds.Rugcheck)
}
