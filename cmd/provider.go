package cmd

import (
	"time"

	"maplemetrics/core"
	"maplemetrics/service/graph"
	"maplemetrics/service/metrics"
	"maplemetrics/service/oracle"
	"maplemetrics/store/account"
	"maplemetrics/store/event"
	"maplemetrics/store/factory"
	"maplemetrics/store/loan"
	"maplemetrics/store/market"
	"maplemetrics/store/property"
	"maplemetrics/store/protocol"
	"maplemetrics/store/reward"
	"maplemetrics/store/snapshot"
	"maplemetrics/store/stakelocker"
	"maplemetrics/store/token"
	"maplemetrics/store/transaction"

	"github.com/fox-one/pkg/store/db"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

// ---------------store-----------------------------------------

func providePropertyStore(database *db.DB) core.IPropertyStore {
	return property.New(database)
}

func provideMarketStore(database *db.DB) core.IMarketStore {
	return market.New(database)
}

func provideTokenStore(database *db.DB) core.ITokenStore {
	return token.Cache(token.New(database), 5*time.Minute)
}

func provideRewardTokenStore(database *db.DB) core.IRewardTokenStore {
	return token.NewReward(database)
}

func provideProtocolStore(database *db.DB) core.IProtocolStore {
	return protocol.New(database)
}

func provideRewardScheduleStore(database *db.DB) core.IRewardScheduleStore {
	return reward.New(database)
}

func provideStakeLockerStore(database *db.DB) core.IStakeLockerStore {
	return stakelocker.New(database)
}

func provideLoanStore(database *db.DB) core.ILoanStore {
	return loan.New(database)
}

func provideAccountMarketStore(database *db.DB) core.IAccountMarketStore {
	return account.New(database)
}

func providePoolFactoryStore(database *db.DB) core.IPoolFactoryStore {
	return factory.New(database)
}

func provideDailySnapshotStore(database *db.DB) core.IMarketSnapshotStore {
	return snapshot.NewDaily(database)
}

func provideHourlySnapshotStore(database *db.DB) core.IMarketSnapshotStore {
	return snapshot.NewHourly(database)
}

func provideFinancialsStore(database *db.DB) core.IFinancialsStore {
	return snapshot.NewFinancials(database)
}

func provideTransactionStore(database *db.DB) core.ITransactionStore {
	return transaction.New(database)
}

func provideEventStore(database *db.DB) core.IEventStore {
	return event.New(database)
}

// ------------------service------------------------------------

func provideGraphService(database *db.DB) *graph.Service {
	return graph.New(
		provideConfig(),
		provideMarketStore(database),
		provideTokenStore(database),
		provideRewardTokenStore(database),
		provideProtocolStore(database),
		provideRewardScheduleStore(database),
		provideStakeLockerStore(database),
		provideLoanStore(database),
		provideAccountMarketStore(database),
		providePoolFactoryStore(database),
	)
}

func providePriceService(database *db.DB) core.IPriceService {
	return oracle.New(
		provideTokenStore(database),
		oracle.SourcesFromConfig(cfg.Oracle)...,
	)
}

func provideMetricsService(database *db.DB) *metrics.Service {
	return metrics.New(
		provideGraphService(database),
		providePriceService(database),
		provideDailySnapshotStore(database),
		provideHourlySnapshotStore(database),
		provideFinancialsStore(database),
	)
}
