package core

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// EventKind named chain event vocabulary, as decoded by the indexing host
type EventKind string

const (
	// EventPoolCreated pool factory spawned a pool
	EventPoolCreated EventKind = "PoolCreated"
	// EventDeposit pool token mint (transfer from the zero address)
	EventDeposit EventKind = "Deposit"
	// EventWithdraw pool token burn (transfer to the zero address)
	EventWithdraw EventKind = "Withdraw"
	// EventPoolStateChanged pool lifecycle state change
	EventPoolStateChanged EventKind = "PoolStateChanged"
	// EventLoanFunded pool funded a loan
	EventLoanFunded EventKind = "LoanFunded"
	// EventClaim pool claimed principal and interest from a loan
	EventClaim EventKind = "Claim"
	// EventDefaultSuffered pool absorbed a loan default
	EventDefaultSuffered EventKind = "DefaultSuffered"
	// EventFundsWithdrawn supplier withdrew earned interest
	EventFundsWithdrawn EventKind = "FundsWithdrawn"
	// EventLossesRecognized losses attributed to an account
	EventLossesRecognized EventKind = "LossesRecognized"
	// EventDrawdown borrower drew down a funded loan
	EventDrawdown EventKind = "Drawdown"
	// EventPaymentMade borrower made a loan payment
	EventPaymentMade EventKind = "PaymentMade"
	// EventLiquidation loan collateral liquidated
	EventLiquidation EventKind = "Liquidation"
	// EventRewardsCreated rewards factory spawned a distributor
	EventRewardsCreated EventKind = "RewardsCreated"
	// EventRewardAdded distributor funded with reward tokens
	EventRewardAdded EventKind = "RewardAdded"
	// EventRewardsDurationUpdated distributor period length changed
	EventRewardsDurationUpdated EventKind = "RewardsDurationUpdated"
	// EventStake stake locker token mint
	EventStake EventKind = "Stake"
	// EventUnstake stake locker token burn
	EventUnstake EventKind = "Unstake"
)

// Params decoded event parameters stored as a json column
type Params map[string]string

// Value implement driver.Valuer
func (p Params) Value() (driver.Value, error) {
	if p == nil {
		p = Params{}
	}
	return json.Marshal(p)
}

// Scan implement sql.Scanner
func (p *Params) Scan(src interface{}) error {
	return scanJSON(src, p)
}

// Event one decoded chain event with its block and transaction context.
// The indexing host guarantees non-decreasing block numbers with possibly
// multiple events per block, in emission order.
type Event struct {
	ID          uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Kind        EventKind `sql:"size:32;index:kind_idx" json:"kind"`
	Address     string    `sql:"size:66;index:address_idx" json:"address"`
	TxHash      string    `sql:"size:66" json:"tx_hash"`
	LogIndex    int64     `json:"log_index"`
	Sender      string    `sql:"size:66" json:"sender"`
	BlockNumber int64     `json:"block_number"`
	Timestamp   int64     `json:"timestamp"`
	Params      Params    `sql:"type:text" json:"params"`
}

// Param raw string parameter, empty when absent
func (e *Event) Param(key string) string {
	if e.Params == nil {
		return ""
	}
	return e.Params[key]
}

// ParamAmount decode an integer amount parameter; zero when absent or
// malformed, mirroring the sentinel-default policy for partial events
func (e *Event) ParamAmount(key string) decimal.Decimal {
	v, err := decimal.NewFromString(e.Param(key))
	if err != nil {
		return decimal.Zero
	}
	return v
}

// ParamAddress decode an address parameter; the zero address when absent
func (e *Event) ParamAddress(key string) string {
	v := e.Param(key)
	if v == "" {
		return ZeroAddress
	}
	return NormalizeAddress(v)
}

// ParamInt decode an integer parameter; zero when absent or malformed
func (e *Event) ParamInt(key string) int64 {
	return cast.ToInt64(e.Param(key))
}

// LogID composite per-log id: "{txHash}-{logIndex}"
func (e *Event) LogID() string {
	return fmt.Sprintf("%s-%d", e.TxHash, e.LogIndex)
}

// IEventStore the inbound event feed written by the indexing host. List
// returns events with id > fromID in insertion order.
type IEventStore interface {
	Create(ctx context.Context, event *Event) error
	List(ctx context.Context, fromID uint64, limit int) ([]*Event, error)
}
