package rugcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_HasLiquidity(t *testing.T) {
	tests := []struct {
		name   string
		report *Report
		want   bool
	}{
		{"nil report", nil, false},
		{"empty report", &Report{}, false},
		{"top-level markets", &Report{Markets: []Market{{Pubkey: "m1"}}}, true},
		{"tokenMeta markets", &Report{TokenMeta: &TokenMeta{Markets: []Market{{}}}}, true},
		{"token sub-record liquidity number", &Report{Token: &TokenMeta{Liquidity: 1234.5}}, true},
		{"tokenMeta zero liquidity", &Report{TokenMeta: &TokenMeta{Liquidity: 0.0}}, false},
		{"tokenMeta empty list liquidity", &Report{TokenMeta: &TokenMeta{Liquidity: []any{}}}, false},
		{"tokenMeta list liquidity", &Report{TokenMeta: &TokenMeta{Liquidity: []any{"pool"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.HasLiquidity())
		})
	}
}

func TestClient_GetReport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tokens/MintA/report", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"score": 720,
			"risks": [{"name": "Single holder ownership", "level": "danger"}],
			"markets": [{"pubkey": "pool1", "marketType": "raydium"}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	report, err := c.GetReport(context.Background(), "MintA")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 720.0, report.Score)
	assert.True(t, report.HasLiquidity())
	assert.Len(t, report.Risks, 1)
}

func TestClient_GetReportNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	report, err := c.GetReport(context.Background(), "Missing")
	require.NoError(t, err)
	assert.Nil(t, report)
}
