// Package indexer consumes the inbound chain event feed in order and applies
// each event to the entity graph. A durable checkpoint advances only after an
// event is fully applied, so a crash replays at most the in-flight event;
// every mutation is an idempotent recomputation, which makes the replay safe.
package indexer

import (
	"context"
	"errors"
	"time"

	"maplemetrics/core"
	"maplemetrics/service/graph"
	"maplemetrics/service/metrics"

	"github.com/fox-one/pkg/logger"
)

const (
	checkpointKey = "events_checkpoint"
	limit         = 500
)

// Indexer chain event consumer worker
type Indexer struct {
	propertyStore    core.IPropertyStore
	eventStore       core.IEventStore
	transactionStore core.ITransactionStore
	graphz           *graph.Service
	metricz          *metrics.Service
}

// New new indexer
func New(
	propertyStore core.IPropertyStore,
	eventStore core.IEventStore,
	transactionStore core.ITransactionStore,
	graphService *graph.Service,
	metricsService *metrics.Service) *Indexer {

	return &Indexer{
		propertyStore:    propertyStore,
		eventStore:       eventStore,
		transactionStore: transactionStore,
		graphz:           graphService,
		metricz:          metricsService,
	}
}

// Run run worker
func (w *Indexer) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "indexer")
	ctx = logger.WithContext(ctx, log)

	dur := time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			if err := w.run(ctx); err == nil {
				dur = 100 * time.Millisecond
			} else {
				dur = 500 * time.Millisecond
			}
		}
	}
}

func (w *Indexer) run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	checkpoint, err := w.propertyStore.Get(ctx, checkpointKey)
	if err != nil {
		log.WithError(err).Errorln("property.Get error")
		return err
	}

	events, err := w.eventStore.List(ctx, uint64(checkpoint), limit)
	if err != nil {
		log.WithError(err).Errorln("events.List")
		return err
	}

	if len(events) <= 0 {
		return errors.New("no more events")
	}

	for _, event := range events {
		if err := w.handleEvent(ctx, event); err != nil {
			return err
		}

		if err := w.propertyStore.Save(ctx, checkpointKey, int64(event.ID)); err != nil {
			log.WithError(err).Errorln("property.Save:", event.ID)
			return err
		}
	}

	return nil
}

func (w *Indexer) handleEvent(ctx context.Context, event *core.Event) error {
	log := logger.FromContext(ctx).
		WithField("event", event.ID).
		WithField("kind", event.Kind)
	ctx = logger.WithContext(ctx, log)

	switch event.Kind {
	case core.EventPoolCreated:
		return w.handlePoolCreated(ctx, event)
	case core.EventDeposit:
		return w.handleDeposit(ctx, event)
	case core.EventWithdraw:
		return w.handleWithdraw(ctx, event)
	case core.EventPoolStateChanged:
		return w.handlePoolStateChanged(ctx, event)
	case core.EventFundsWithdrawn:
		return w.handleFundsWithdrawn(ctx, event)
	case core.EventLossesRecognized:
		return w.handleLossesRecognized(ctx, event)
	case core.EventLoanFunded:
		return w.handleLoanFunded(ctx, event)
	case core.EventClaim:
		return w.handleClaim(ctx, event)
	case core.EventDefaultSuffered:
		return w.handleDefaultSuffered(ctx, event)
	case core.EventDrawdown:
		return w.handleDrawdown(ctx, event)
	case core.EventPaymentMade:
		return w.handlePaymentMade(ctx, event)
	case core.EventLiquidation:
		return w.handleLiquidation(ctx, event)
	case core.EventRewardsCreated:
		return w.handleRewardsCreated(ctx, event)
	case core.EventRewardAdded:
		return w.handleRewardAdded(ctx, event)
	case core.EventRewardsDurationUpdated:
		return w.handleRewardsDurationUpdated(ctx, event)
	case core.EventStake:
		return w.handleStake(ctx, event)
	case core.EventUnstake:
		return w.handleUnstake(ctx, event)
	default:
		log.Infoln("skip unknown event kind")
		return nil
	}
}

// tickMarket run one market tick for the market with the given id. Events
// addressed at a market the feed never announced are dropped with a warning
// rather than failing the whole feed.
func (w *Indexer) tickMarket(ctx context.Context, marketID string, event *core.Event) error {
	market, err := w.graphz.Markets.Find(ctx, core.NormalizeAddress(marketID))
	if err != nil {
		return err
	}
	if market == nil {
		logger.FromContext(ctx).WithField("market", marketID).
			Warningln("event for unknown market dropped")
		return nil
	}

	return w.metricz.MarketTick(ctx, market, event)
}
