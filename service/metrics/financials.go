package metrics

import (
	"context"

	"maplemetrics/core"
)

// updateFinancials roll the protocol singleton into its daily snapshot.
// Unlike market snapshots these copy the cumulatives as-is; the last tick of
// the day leaves the closing state.
func (s *Service) updateFinancials(ctx context.Context, protocol *core.Protocol, event *core.Event) error {
	bucket := event.Timestamp / core.SecondsPerDay
	id := core.SnapshotID(protocol.ID, bucket)

	snapshot, err := s.financials.Find(ctx, id)
	if err != nil {
		return err
	}
	if snapshot == nil {
		snapshot = &core.FinancialsDailySnapshot{
			ID:       id,
			Protocol: protocol.ID,
		}
	}

	snapshot.TotalValueLockedUSD = protocol.TotalValueLockedUSD
	snapshot.TotalDepositBalanceUSD = protocol.TotalDepositBalanceUSD
	snapshot.CumulativeDepositUSD = protocol.CumulativeDepositUSD
	snapshot.TotalBorrowBalanceUSD = protocol.TotalBorrowBalanceUSD
	snapshot.CumulativeBorrowUSD = protocol.CumulativeBorrowUSD
	snapshot.CumulativeLiquidateUSD = protocol.CumulativeLiquidateUSD
	snapshot.CumulativeSupplySideRevenueUSD = protocol.CumulativeSupplySideRevenueUSD
	snapshot.CumulativeProtocolSideRevenueUSD = protocol.CumulativeProtocolSideRevenueUSD
	snapshot.CumulativeTotalRevenueUSD = protocol.CumulativeTotalRevenueUSD

	snapshot.TxCount++
	if event.BlockNumber > 0 {
		snapshot.BlockNumber = event.BlockNumber
	}
	snapshot.Timestamp = event.Timestamp

	return s.financials.Save(ctx, snapshot)
}
