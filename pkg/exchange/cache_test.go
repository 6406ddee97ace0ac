package exchange_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amirasaad/paycode/pkg/exchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFetcher is a mock implementation for testing
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchPrice(ctx context.Context, currency string) (exchange.Rate, error) {
	args := m.Called(ctx, currency)
	return args.Get(0).(exchange.Rate), args.Error(1)
}

func (m *MockFetcher) Name() string {
	return "mock"
}

// fetcherFunc adapts a function to exchange.Fetcher.
type fetcherFunc func(ctx context.Context, currency string) (exchange.Rate, error)

func (f fetcherFunc) FetchPrice(ctx context.Context, currency string) (exchange.Rate, error) {
	return f(ctx, currency)
}

func (f fetcherFunc) Name() string {
	return "func"
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCache(f exchange.Fetcher, clock *fakeClock) *exchange.Cache {
	return exchange.NewCache(f, exchange.Options{Now: clock.Now}, discardLogger())
}

func TestCache_HitAvoidsFetch(t *testing.T) {
	clock := newFakeClock()
	fetcher := new(MockFetcher)
	fetcher.On("FetchPrice", mock.Anything, "BRL").
		Return(exchange.Rate{Price: 250000, Source: "feed"}, nil).Once()
	cache := newCache(fetcher, clock)

	q1, err := cache.GetPrice(context.Background(), "BRL")
	require.NoError(t, err)
	assert.InDelta(t, 250000.0, q1.Price, 0)
	assert.False(t, q1.IsStale)
	assert.Zero(t, q1.Age)
	assert.Equal(t, "BRL", q1.Currency)
	assert.Equal(t, "feed", q1.Source)
	assert.Equal(t, clock.Now(), q1.Timestamp)

	clock.Advance(59 * time.Second)
	q2, err := cache.GetPrice(context.Background(), "BRL")
	require.NoError(t, err)
	assert.InDelta(t, 250000.0, q2.Price, 0)
	assert.False(t, q2.IsStale)
	assert.Equal(t, 59*time.Second, q2.Age)

	fetcher.AssertNumberOfCalls(t, "FetchPrice", 1)
	fetcher.AssertExpectations(t)
}

func TestCache_ExpiredEntryRefetches(t *testing.T) {
	clock := newFakeClock()
	fetcher := new(MockFetcher)
	fetcher.On("FetchPrice", mock.Anything, "BRL").Return(exchange.Rate{Price: 250000}, nil).Once()
	fetcher.On("FetchPrice", mock.Anything, "BRL").Return(exchange.Rate{Price: 260000}, nil).Once()
	cache := newCache(fetcher, clock)

	_, err := cache.GetPrice(context.Background(), "BRL")
	require.NoError(t, err)

	clock.Advance(exchange.DefaultTTL)
	q, err := cache.GetPrice(context.Background(), "BRL")
	require.NoError(t, err)
	assert.InDelta(t, 260000.0, q.Price, 0)
	assert.False(t, q.IsStale)
	assert.Equal(t, "mock", q.Source)

	fetcher.AssertNumberOfCalls(t, "FetchPrice", 2)
}

func TestCache_StaleFallbackOnFetchFailure(t *testing.T) {
	clock := newFakeClock()
	fetcher := new(MockFetcher)
	fetcher.On("FetchPrice", mock.Anything, "BRL").Return(exchange.Rate{Price: 250000}, nil).Once()
	fetcher.On("FetchPrice", mock.Anything, "BRL").Return(exchange.Rate{}, errors.New("connection refused")).Once()
	cache := newCache(fetcher, clock)

	_, err := cache.GetPrice(context.Background(), "BRL")
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	q, err := cache.GetPrice(context.Background(), "BRL")
	require.NoError(t, err)
	assert.InDelta(t, 250000.0, q.Price, 0)
	assert.True(t, q.IsStale)
	assert.Equal(t, 5*time.Minute, q.Age)
}

func TestCache_NoEntryFailurePropagates(t *testing.T) {
	clock := newFakeClock()
	fetcher := new(MockFetcher)
	fetcher.On("FetchPrice", mock.Anything, "BRL").Return(exchange.Rate{}, errors.New("HTTP 500"))
	cache := newCache(fetcher, clock)

	_, err := cache.GetPrice(context.Background(), "BRL")
	require.ErrorIs(t, err, exchange.ErrPriceUnavailable)
	assert.True(t, exchange.IsProviderError(err))

	_, ok := cache.Peek("BRL")
	assert.False(t, ok)
}

func TestCache_NonPositivePriceIsAFailure(t *testing.T) {
	for _, price := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		clock := newFakeClock()
		fetcher := new(MockFetcher)
		fetcher.On("FetchPrice", mock.Anything, "BRL").Return(exchange.Rate{Price: price}, nil)
		cache := newCache(fetcher, clock)

		_, err := cache.GetPrice(context.Background(), "BRL")
		require.ErrorIs(t, err, exchange.ErrPriceUnavailable, "price %v", price)
		require.ErrorIs(t, err, exchange.ErrInvalidPrice, "price %v", price)

		_, ok := cache.Peek("BRL")
		assert.False(t, ok, "price %v must not be cached", price)
	}
}

func TestCache_NonPositivePriceServesStale(t *testing.T) {
	clock := newFakeClock()
	fetcher := new(MockFetcher)
	fetcher.On("FetchPrice", mock.Anything, "BRL").Return(exchange.Rate{Price: 250000}, nil).Once()
	fetcher.On("FetchPrice", mock.Anything, "BRL").Return(exchange.Rate{Price: 0}, nil).Once()
	cache := newCache(fetcher, clock)

	_, err := cache.GetPrice(context.Background(), "BRL")
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	q, err := cache.GetPrice(context.Background(), "BRL")
	require.NoError(t, err)
	assert.InDelta(t, 250000.0, q.Price, 0)
	assert.True(t, q.IsStale)

	peek, ok := cache.Peek("BRL")
	require.True(t, ok)
	assert.InDelta(t, 250000.0, peek.Price, 0)
	assert.Equal(t, 2*time.Minute, peek.Age)
}

func TestCache_FetchTimeout(t *testing.T) {
	slow := fetcherFunc(func(ctx context.Context, _ string) (exchange.Rate, error) {
		<-ctx.Done()
		return exchange.Rate{}, ctx.Err()
	})
	cache := exchange.NewCache(slow, exchange.Options{FetchTimeout: 20 * time.Millisecond}, discardLogger())

	start := time.Now()
	_, err := cache.GetPrice(context.Background(), "BRL")
	require.ErrorIs(t, err, exchange.ErrPriceUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestCache_CancelledFetchLeavesEntryUntouched(t *testing.T) {
	clock := newFakeClock()
	var calls atomic.Int32
	f := fetcherFunc(func(ctx context.Context, _ string) (exchange.Rate, error) {
		if calls.Add(1) == 1 {
			return exchange.Rate{Price: 250000}, nil
		}
		// Ignores cancellation and answers late.
		return exchange.Rate{Price: 1}, nil
	})
	cache := exchange.NewCache(f, exchange.Options{Now: clock.Now}, discardLogger())

	_, err := cache.GetPrice(context.Background(), "BRL")
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q, err := cache.GetPrice(ctx, "BRL")
	require.NoError(t, err)
	assert.True(t, q.IsStale)
	assert.InDelta(t, 250000.0, q.Price, 0)

	peek, ok := cache.Peek("BRL")
	require.True(t, ok)
	assert.InDelta(t, 250000.0, peek.Price, 0)
}

func TestCache_ConcurrentMissesShareOneFetch(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f := fetcherFunc(func(ctx context.Context, _ string) (exchange.Rate, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		return exchange.Rate{Price: 250000}, nil
	})
	cache := exchange.NewCache(f, exchange.Options{}, discardLogger())

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan float64, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q, err := cache.GetPrice(context.Background(), "BRL")
			if err == nil {
				results <- q.Price
			}
		}()
	}

	<-started
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)

	n := 0
	for p := range results {
		assert.InDelta(t, 250000.0, p, 0)
		n++
	}
	assert.Equal(t, callers, n)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_NormalizesCurrency(t *testing.T) {
	clock := newFakeClock()
	fetcher := new(MockFetcher)
	fetcher.On("FetchPrice", mock.Anything, "BRL").Return(exchange.Rate{Price: 250000}, nil).Once()
	cache := newCache(fetcher, clock)

	_, err := cache.GetPrice(context.Background(), " brl ")
	require.NoError(t, err)
	_, err = cache.GetPrice(context.Background(), "BRL")
	require.NoError(t, err)
	fetcher.AssertNumberOfCalls(t, "FetchPrice", 1)

	_, err = cache.GetPrice(context.Background(), "")
	require.ErrorIs(t, err, exchange.ErrInvalidCurrency)
}

func TestCache_Hooks(t *testing.T) {
	clock := newFakeClock()
	fetcher := new(MockFetcher)
	fetcher.On("FetchPrice", mock.Anything, "BRL").Return(exchange.Rate{Price: 250000}, nil).Once()
	fetcher.On("FetchPrice", mock.Anything, "BRL").Return(exchange.Rate{}, errors.New("down")).Once()

	var hits, misses, stale, fetches, fetchErrors int
	cache := exchange.NewCache(fetcher, exchange.Options{
		Now: clock.Now,
		Hooks: exchange.Hooks{
			OnHit:   func(string) { hits++ },
			OnMiss:  func(string) { misses++ },
			OnStale: func(string, time.Duration) { stale++ },
			OnFetch: func(_, _ string, _ time.Duration, err error) {
				fetches++
				if err != nil {
					fetchErrors++
				}
			},
		},
	}, discardLogger())

	ctx := context.Background()
	_, _ = cache.GetPrice(ctx, "BRL")
	_, _ = cache.GetPrice(ctx, "BRL")
	clock.Advance(time.Hour)
	_, _ = cache.GetPrice(ctx, "BRL")

	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, misses)
	assert.Equal(t, 1, stale)
	assert.Equal(t, 2, fetches)
	assert.Equal(t, 1, fetchErrors)
}

func TestNewCache_Defaults(t *testing.T) {
	cache := exchange.NewCache(new(MockFetcher), exchange.Options{}, nil)
	assert.Equal(t, exchange.DefaultTTL, cache.TTL())
}

func TestCache_CallerCancelDoesNotFailSharedFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	var calls atomic.Int32
	f := fetcherFunc(func(ctx context.Context, _ string) (exchange.Rate, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		select {
		case <-release:
			return exchange.Rate{Price: 250000}, nil
		case <-ctx.Done():
			return exchange.Rate{}, ctx.Err()
		}
	})
	cache := exchange.NewCache(f, exchange.Options{}, discardLogger())

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := cache.GetPrice(ctxA, "BRL")
		errA <- err
	}()
	<-started

	type result struct {
		q   exchange.Quote
		err error
	}
	resB := make(chan result, 1)
	go func() {
		q, err := cache.GetPrice(context.Background(), "BRL")
		resB <- result{q, err}
	}()

	time.Sleep(50 * time.Millisecond)
	cancelA()
	err := <-errA
	require.ErrorIs(t, err, exchange.ErrPriceUnavailable)
	require.ErrorIs(t, err, context.Canceled)

	close(release)
	b := <-resB
	require.NoError(t, b.err)
	assert.InDelta(t, 250000.0, b.q.Price, 0)
	assert.False(t, b.q.IsStale)
	assert.Equal(t, int32(1), calls.Load())

	peek, ok := cache.Peek("BRL")
	require.True(t, ok)
	assert.InDelta(t, 250000.0, peek.Price, 0)
}

func TestCache_OldPriceIsStaleRightAfterFetch(t *testing.T) {
	clock := newFakeClock()
	observed := clock.Now().Add(-5 * time.Minute)
	fetcher := new(MockFetcher)
	fetcher.On("FetchPrice", mock.Anything, "BRL").
		Return(exchange.Rate{Price: 250000, Source: "redis", Timestamp: observed}, nil).Once()
	var stale int
	cache := exchange.NewCache(fetcher, exchange.Options{
		Now:   clock.Now,
		Hooks: exchange.Hooks{OnStale: func(string, time.Duration) { stale++ }},
	}, discardLogger())

	q, err := cache.GetPrice(context.Background(), "BRL")
	require.NoError(t, err)
	assert.True(t, q.IsStale)
	assert.Equal(t, 5*time.Minute, q.Age)
	assert.Equal(t, observed, q.Timestamp)

	// Within the TTL of the fetch the entry is not refetched but stays stale.
	clock.Advance(10 * time.Second)
	q, err = cache.GetPrice(context.Background(), "BRL")
	require.NoError(t, err)
	assert.True(t, q.IsStale)
	assert.Equal(t, 5*time.Minute+10*time.Second, q.Age)

	assert.Equal(t, 2, stale)
	fetcher.AssertNumberOfCalls(t, "FetchPrice", 1)
}

func TestCache_RecentPriceTimestampCountsTowardAge(t *testing.T) {
	clock := newFakeClock()
	fetcher := new(MockFetcher)
	fetcher.On("FetchPrice", mock.Anything, "BRL").
		Return(exchange.Rate{Price: 250000, Timestamp: clock.Now().Add(-20 * time.Second)}, nil).Once()
	fetcher.On("FetchPrice", mock.Anything, "USD").
		Return(exchange.Rate{Price: 60000, Timestamp: clock.Now().Add(time.Hour)}, nil).Once()
	cache := newCache(fetcher, clock)

	q, err := cache.GetPrice(context.Background(), "BRL")
	require.NoError(t, err)
	assert.False(t, q.IsStale)
	assert.Equal(t, 20*time.Second, q.Age)

	// Timestamps ahead of the clock are replaced by the fetch time.
	q, err = cache.GetPrice(context.Background(), "USD")
	require.NoError(t, err)
	assert.Zero(t, q.Age)
	assert.Equal(t, clock.Now(), q.Timestamp)
}
