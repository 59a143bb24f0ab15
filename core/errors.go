package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden operation forbidden
	ErrOperationForbidden ErrorCode = 100001

	// ErrMarketNotFound no market
	ErrMarketNotFound ErrorCode = 100100
	// ErrTokenNotFound no token
	ErrTokenNotFound ErrorCode = 100101
	// ErrLoanNotFound no loan
	ErrLoanNotFound ErrorCode = 100102
	// ErrRewardScheduleNotFound no reward schedule
	ErrRewardScheduleNotFound ErrorCode = 100103
	// ErrStakeLockerNotFound no stake locker
	ErrStakeLockerNotFound ErrorCode = 100104
	// ErrSnapshotNotFound no snapshot
	ErrSnapshotNotFound ErrorCode = 100105
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100106
	// ErrInvalidEvent event missing required parameters
	ErrInvalidEvent ErrorCode = 100107
	// ErrInvalidPrice invalid price
	ErrInvalidPrice ErrorCode = 100108
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
