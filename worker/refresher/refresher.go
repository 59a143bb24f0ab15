// Package refresher periodically re-ticks every market against current
// prices. The event feed only ticks a market when something happens to it; a
// quiet market would otherwise keep a stale price in its USD fields.
package refresher

import (
	"context"
	"time"

	"maplemetrics/core"
	"maplemetrics/service/metrics"
	"maplemetrics/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker market refresh worker
type Worker struct {
	worker.BaseJob
	Config      *core.Config
	MarketStore core.IMarketStore
	Metrics     *metrics.Service
}

// New new refresher worker
func New(cfg *core.Config, marketStore core.IMarketStore, metricsService *metrics.Service) *Worker {
	job := Worker{
		Config:      cfg,
		MarketStore: marketStore,
		Metrics:     metricsService,
	}

	l, _ := time.LoadLocation(job.Config.App.Location)
	job.Cron = cron.New(cron.WithLocation(l))
	spec := "@every 5m"
	job.Cron.AddFunc(spec, job.Run)
	job.OnWork = func() error {
		return job.onWork(context.Background())
	}

	return &job
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "refresher")

	markets, err := w.MarketStore.All(ctx)
	if err != nil {
		log.Errorln("fetch all markets error:", err)
		return err
	}

	// ticks fold into the shared protocol row, so they run sequentially
	now := time.Now().Unix()
	for _, market := range markets {
		event := &core.Event{Timestamp: now}
		if err := w.Metrics.MarketTick(ctx, market, event); err != nil {
			log.WithField("market", market.ID).Errorln("refresh tick error:", err)
		}
	}

	return nil
}
