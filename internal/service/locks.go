package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/sonnyholman/novusedge/internal/apperrors"
)

// snapshotWeight is the full weight of the snapshot semaphore. Ordinary
// operations hold weight 1; the refresh pass acquires the whole weight and
// therefore excludes every concurrent position mutation.
const snapshotWeight = 1 << 20

// Gate serializes access to the position set. Two disciplines are
// layered: a per-ticker mutex so operations touching the same position never
// interleave their read-modify-write, and a snapshot semaphore so the price
// refresh sees (and leaves) a quiescent position set. Every acquisition is
// bounded by the configured timeout and surfaces apperrors.ErrLockTimeout
// on expiry, recoverable by caller retry.
type Gate struct {
	timeout time.Duration
	sem     *semaphore.Weighted

	mu      sync.Mutex
	tickers map[string]chan struct{}
}

func NewGate(timeout time.Duration) *Gate {
	return &Gate{
		timeout: timeout,
		sem:     semaphore.NewWeighted(snapshotWeight),
		tickers: make(map[string]chan struct{}),
	}
}

func (g *Gate) tickerLock(ticker string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch, ok := g.tickers[ticker]
	if !ok {
		ch = make(chan struct{}, 1)
		g.tickers[ticker] = ch
	}
	return ch
}

// acquireTicker takes the mutation lock for one ticker.
func (g *Gate) acquireTicker(ctx context.Context, ticker string) (func(), error) {
	ch := g.tickerLock(ticker)

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-timer.C:
		return nil, apperrors.ErrLockTimeout
	case <-ctx.Done():
		return nil, apperrors.ErrLockTimeout
	}
}

// acquireTickers takes the mutation locks for a set of tickers. Locks are
// taken in sorted order so two concurrent multi-ticker operations cannot
// deadlock against each other.
func (g *Gate) acquireTickers(ctx context.Context, tickers []string) (func(), error) {
	sorted := make([]string, len(tickers))
	copy(sorted, tickers)
	sort.Strings(sorted)

	releases := make([]func(), 0, len(sorted))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, t := range sorted {
		release, err := g.acquireTicker(ctx, t)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}

// acquireShared admits one ordinary operation alongside others.
func (g *Gate) acquireShared(ctx context.Context) (func(), error) {
	return g.acquireWeight(ctx, 1)
}

// acquireExclusive takes the whole snapshot weight, blocking new operations
// until released. Operations already holding shared weight finish first.
func (g *Gate) acquireExclusive(ctx context.Context) (func(), error) {
	return g.acquireWeight(ctx, snapshotWeight)
}

func (g *Gate) acquireWeight(ctx context.Context, weight int64) (func(), error) {
	acquireCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.sem.Acquire(acquireCtx, weight); err != nil {
		return nil, apperrors.ErrLockTimeout
	}
	return func() { g.sem.Release(weight) }, nil
}
