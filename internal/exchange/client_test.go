package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSymbol(t *testing.T) {
	src, dst, err := splitSymbol("BTCIRT")
	require.NoError(t, err)
	assert.Equal(t, "btc", src)
	assert.Equal(t, "irt", dst)

	// регистр и пробелы не мешают
	src, dst, err = splitSymbol("  ethusdt ")
	require.NoError(t, err)
	assert.Equal(t, "eth", src)
	assert.Equal(t, "usdt", dst)

	_, _, err = splitSymbol("BTCEUR")
	assert.Error(t, err)

	// одна котируемая валюта без базовой — не пара
	_, _, err = splitSymbol("IRT")
	assert.Error(t, err)
}

func TestResolution(t *testing.T) {
	assert.Equal(t, "60", resolution("1h"))
	assert.Equal(t, "D", resolution("1d"))
	// неизвестный таймфрейм падает в часовой
	assert.Equal(t, "60", resolution("7m"))

	assert.Equal(t, int64(3600), timeframeSeconds("1h"))
	assert.Equal(t, int64(86400), timeframeSeconds("1d"))
}

func TestWithRetrySucceedsAfterFailure(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetryGivesUp(t *testing.T) {
	boom := errors.New("down")
	calls := 0
	err := withRetry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := withRetry(ctx, 5, time.Millisecond, func() error {
		calls++
		return errors.New("down")
	})
	require.ErrorIs(t, err, context.Canceled)
	// первая попытка уже ушла, дальше контекст останавливает паузу
	assert.Equal(t, 1, calls)
}
