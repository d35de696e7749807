package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNobitex(srv *httptest.Server) *Nobitex {
	n := NewNobitex("test-token")
	n.baseURL = srv.URL
	return n
}

func TestNobitexGetCandles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/market/udf/history", r.URL.Path)
		assert.Equal(t, "BTCIRT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "60", r.URL.Query().Get("resolution"))
		assert.Equal(t, "3", r.URL.Query().Get("countback"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"s": "ok",
			"t": [1704067200, 1704070800, 1704074400],
			"o": [100, 102, 101],
			"h": [103, 104, 105],
			"l": [99, 100, 100],
			"c": [102, 101, 104],
			"v": [10, 12, 9]
		}`))
	}))
	defer srv.Close()

	candles, err := newTestNobitex(srv).GetCandles(context.Background(), "BTCIRT", "1h", 3)
	require.NoError(t, err)
	require.Len(t, candles, 3)

	// параллельные массивы склеиваются по индексу
	first := candles[0]
	assert.Equal(t, time.Unix(1704067200, 0).UTC(), first.Timestamp)
	assert.Equal(t, 100.0, first.Open)
	assert.Equal(t, 103.0, first.High)
	assert.Equal(t, 99.0, first.Low)
	assert.Equal(t, 102.0, first.Close)
	assert.Equal(t, 10.0, first.Volume)
	assert.Equal(t, 104.0, candles[2].Close)
}

func TestNobitexGetCandlesBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"s": "no_data"}`))
	}))
	defer srv.Close()

	_, err := newTestNobitex(srv).GetCandles(context.Background(), "BTCIRT", "1h", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_data")
}

func TestNobitexGetTickerHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestNobitex(srv).GetTicker(context.Background(), "BTCIRT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestNobitexGetBalanceSendsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token test-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"wallets": [
				{"currency": "btc", "balance": "0.5"},
				{"currency": "irt", "balance": "1000000"},
				{"currency": "bad", "balance": "not-a-number"}
			]
		}`))
	}))
	defer srv.Close()

	balances, err := newTestNobitex(srv).GetBalance(context.Background())
	require.NoError(t, err)
	// нечисловой баланс просто пропускается
	require.Len(t, balances, 2)
	assert.Equal(t, 0.5, balances["btc"])
	assert.Equal(t, 1000000.0, balances["irt"])
}
