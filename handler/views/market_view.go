package views

import (
	"maplemetrics/core"
)

// Market market view with its token context resolved
type Market struct {
	core.Market
	InputTokenSymbol   string            `json:"input_token_symbol"`
	InputTokenDecimals int32             `json:"input_token_decimals"`
	StakeLockerDetail  *core.StakeLocker `json:"stake_locker_detail,omitempty"`
	Loans              int               `json:"loans"`
}

// Protocol protocol view with market count
type Protocol struct {
	core.Protocol
	Markets int `json:"markets"`
}
