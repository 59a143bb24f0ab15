package metrics

import (
	"context"

	"maplemetrics/core"
	"maplemetrics/pkg/number"
)

// updateSnapshot roll the market's state into its (market, bucket) snapshot.
// Instantaneous fields take a windowed average over the ticks seen so far in
// the bucket; period deltas are recomputed against the baselines captured
// when the bucket was first seen. Buckets with no ticks are never created.
func (s *Service) updateSnapshot(ctx context.Context, store core.IMarketSnapshotStore, market *core.Market, event *core.Event, bucketSeconds int64) error {
	bucket := event.Timestamp / bucketSeconds
	id := core.SnapshotID(market.ID, bucket)

	snapshot, err := store.Find(ctx, id)
	if err != nil {
		return err
	}
	if snapshot == nil {
		snapshot = &core.MarketSnapshot{
			ID:                  id,
			Market:              market.ID,
			InitialDepositUSD:   market.CumulativeDepositUSD,
			InitialBorrowUSD:    market.CumulativeBorrowUSD,
			InitialLiquidateUSD: market.CumulativeLiquidateUSD,
		}
	}

	n := snapshot.TxCount
	snapshot.TotalValueLockedUSD = number.WindowedAverage(snapshot.TotalValueLockedUSD, n, market.TotalValueLockedUSD)
	snapshot.TotalDepositBalanceUSD = number.WindowedAverage(snapshot.TotalDepositBalanceUSD, n, market.TotalDepositBalanceUSD)
	snapshot.CumulativeDepositUSD = number.WindowedAverage(snapshot.CumulativeDepositUSD, n, market.CumulativeDepositUSD)
	snapshot.CumulativeBorrowUSD = number.WindowedAverage(snapshot.CumulativeBorrowUSD, n, market.CumulativeBorrowUSD)
	snapshot.CumulativeLiquidateUSD = number.WindowedAverage(snapshot.CumulativeLiquidateUSD, n, market.CumulativeLiquidateUSD)
	snapshot.InputTokenBalance = number.WindowedAverage(snapshot.InputTokenBalance, n, market.InputTokenBalance)
	snapshot.InputTokenPriceUSD = number.WindowedAverage(snapshot.InputTokenPriceUSD, n, market.InputTokenPriceUSD)
	snapshot.OutputTokenSupply = number.WindowedAverage(snapshot.OutputTokenSupply, n, market.OutputTokenSupply)
	snapshot.OutputTokenPriceUSD = number.WindowedAverage(snapshot.OutputTokenPriceUSD, n, market.OutputTokenPriceUSD)
	snapshot.ExchangeRate = number.WindowedAverage(snapshot.ExchangeRate, n, market.ExchangeRate)

	snapshot.RewardTokenEmissionsAmount = market.RewardTokenEmissionsAmount
	snapshot.RewardTokenEmissionsUSD = market.RewardTokenEmissionsUSD

	snapshot.PeriodDepositUSD = market.CumulativeDepositUSD.Sub(snapshot.InitialDepositUSD)
	snapshot.PeriodBorrowUSD = market.CumulativeBorrowUSD.Sub(snapshot.InitialBorrowUSD)
	snapshot.PeriodLiquidateUSD = market.CumulativeLiquidateUSD.Sub(snapshot.InitialLiquidateUSD)

	snapshot.TxCount = n + 1
	// synthetic refresh events carry no block number; keep the last real one
	if event.BlockNumber > 0 {
		snapshot.BlockNumber = event.BlockNumber
	}
	snapshot.Timestamp = event.Timestamp

	return store.Save(ctx, snapshot)
}
