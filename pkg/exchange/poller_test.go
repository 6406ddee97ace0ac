package exchange_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amirasaad/paycode/pkg/exchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller_RepollsUntilCancelled(t *testing.T) {
	var calls atomic.Int32
	f := fetcherFunc(func(ctx context.Context, currency string) (exchange.Rate, error) {
		calls.Add(1)
		return exchange.Rate{Price: 250000}, nil
	})
	cache := exchange.NewCache(f, exchange.Options{TTL: time.Nanosecond}, discardLogger())
	poller := exchange.NewPoller(cache, []string{"BRL"}, 10*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}

	_, ok := cache.Peek("BRL")
	assert.True(t, ok)
}

func TestPoller_HealsAfterOutage(t *testing.T) {
	var calls atomic.Int32
	f := fetcherFunc(func(ctx context.Context, currency string) (exchange.Rate, error) {
		if calls.Add(1) <= 2 {
			return exchange.Rate{}, errors.New("feed down")
		}
		return exchange.Rate{Price: 250000}, nil
	})
	cache := exchange.NewCache(f, exchange.Options{TTL: time.Nanosecond}, discardLogger())
	poller := exchange.NewPoller(cache, []string{"BRL"}, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Run(ctx)

	require.Eventually(t, func() bool {
		_, ok := cache.Peek("BRL")
		return ok
	}, 2*time.Second, 5*time.Millisecond)
}
