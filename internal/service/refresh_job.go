package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/sonnyholman/novusedge/internal/marketdata"
	"github.com/sonnyholman/novusedge/internal/repository"
)

// RefreshJob runs the market refresh on a cron schedule. Each firing pulls
// quotes for every held ticker from the market-data provider and hands them
// to SyncService.Refresh. A pass that already completed today is skipped
// unless forced, so process restarts do not re-run a finished refresh.
type RefreshJob struct {
	cron         *cron.Cron
	schedule     string
	provider     marketdata.Provider
	positionRepo *repository.PositionRepository
	syncService  *SyncService
	log          zerolog.Logger
}

// NewRefreshJob creates a RefreshJob on the given six-field cron schedule.
func NewRefreshJob(
	schedule string,
	provider marketdata.Provider,
	positionRepo *repository.PositionRepository,
	syncService *SyncService,
	log zerolog.Logger,
) *RefreshJob {
	return &RefreshJob{
		cron:         cron.New(cron.WithSeconds()),
		schedule:     schedule,
		provider:     provider,
		positionRepo: positionRepo,
		syncService:  syncService,
		log:          log.With().Str("component", "refresh_job").Logger(),
	}
}

// Start registers the cron entry and starts the scheduler.
func (j *RefreshJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		if _, err := j.RunOnce(context.Background(), false); err != nil {
			j.log.Error().Err(err).Msg("scheduled market refresh failed")
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.log.Info().Str("schedule", j.schedule).Msg("refresh job started")
	return nil
}

// Stop stops the scheduler and waits for a running pass to finish.
func (j *RefreshJob) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.log.Info().Msg("refresh job stopped")
}

// RunOnce executes a single refresh pass. Without force, a pass that already
// completed today is skipped and a zero result returned.
func (j *RefreshJob) RunOnce(ctx context.Context, force bool) (RefreshResult, error) {
	if !force {
		due, err := j.syncService.RefreshDue(ctx, time.Now())
		if err != nil {
			return RefreshResult{}, err
		}
		if !due {
			j.log.Debug().Msg("refresh already ran today, skipping")
			return RefreshResult{}, nil
		}
	}

	positions, err := j.positionRepo.GetAllPositions(ctx)
	if err != nil {
		return RefreshResult{}, err
	}

	tickers := make([]string, 0, len(positions))
	for _, p := range positions {
		tickers = append(tickers, p.Ticker)
	}
	if len(tickers) == 0 {
		j.log.Debug().Msg("no positions to refresh")
		return RefreshResult{RanAt: time.Now().UTC()}, nil
	}

	fetched, err := j.provider.FetchQuotes(ctx, tickers)
	if err != nil {
		return RefreshResult{}, err
	}

	quotes := make(map[string]Quote, len(fetched))
	for symbol, q := range fetched {
		quotes[symbol] = Quote{Price: q.Price, DividendYield: q.DividendYield}
	}
	return j.syncService.Refresh(ctx, quotes)
}
