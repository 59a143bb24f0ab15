package graph

import (
	"context"

	"maplemetrics/core"
	"maplemetrics/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// MarketParams optional market creation parameters. Only the market address
// is required for get; everything should be set for create.
type MarketParams struct {
	Name              string
	PoolFactory       string
	Delegate          string
	StakeLocker       string
	InputToken        string
	InputTokenParams  TokenParams
	OutputToken       string
	OutputTokenParams TokenParams
	Timestamp         int64
	BlockNumber       int64
}

// GetOrCreateMarket market by pool address
func (s *Service) GetOrCreateMarket(ctx context.Context, address string, params MarketParams) (*core.Market, error) {
	id := core.NormalizeAddress(address)
	market, err := s.Markets.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if market != nil {
		return market, nil
	}

	protocol, err := s.GetOrCreateProtocol(ctx)
	if err != nil {
		return nil, err
	}

	inputTokenAddress := orZeroAddress(params.InputToken)
	outputTokenAddress := orZeroAddress(params.OutputToken)

	inputToken, err := s.GetOrCreateToken(ctx, inputTokenAddress, params.InputTokenParams)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetOrCreateToken(ctx, outputTokenAddress, params.OutputTokenParams); err != nil {
		return nil, err
	}

	name := params.Name
	if name == "" {
		name = core.UnprovidedName
	}

	// pool tokens are WAD denominated; the pre-supply exchange rate follows
	// the pool's _toWad scaling
	initialExchangeRate := number.Pow10(inputToken.Decimals).Div(number.Pow10(poolWADDecimals))

	market = &core.Market{
		ID:                         id,
		Protocol:                   protocol.ID,
		Name:                       name,
		InputToken:                 core.NormalizeAddress(inputTokenAddress),
		OutputToken:                core.NormalizeAddress(outputTokenAddress),
		RewardTokens:               core.Strings{},
		ExchangeRate:               initialExchangeRate,
		RewardTokenEmissionsAmount: core.Decimals{},
		RewardTokenEmissionsUSD:    core.Decimals{},
		PoolFactory:                core.NormalizeAddress(orZeroAddress(params.PoolFactory)),
		DelegateAddress:            core.NormalizeAddress(orZeroAddress(params.Delegate)),
		StakeLocker:                core.NormalizeAddress(orZeroAddress(params.StakeLocker)),
		CreatedTimestamp:           params.Timestamp,
		CreatedBlockNumber:         params.BlockNumber,
	}
	if err := s.Markets.Save(ctx, market); err != nil {
		return nil, err
	}

	if name == core.UnprovidedName ||
		market.PoolFactory == core.ZeroAddress ||
		market.DelegateAddress == core.ZeroAddress ||
		market.StakeLocker == core.ZeroAddress ||
		market.InputToken == core.ZeroAddress ||
		market.OutputToken == core.ZeroAddress ||
		params.Timestamp == 0 ||
		params.BlockNumber == 0 {
		logger.FromContext(ctx).WithField("market", id).
			Warningln("created market with incomplete params")
	}

	return market, nil
}

// StakeLockerParams optional stake locker creation parameters
type StakeLockerParams struct {
	Market      string
	StakeToken  string
	BlockNumber int64
}

// GetOrCreateStakeLocker stake locker by address
func (s *Service) GetOrCreateStakeLocker(ctx context.Context, address string, params StakeLockerParams) (*core.StakeLocker, error) {
	id := core.NormalizeAddress(address)
	locker, err := s.StakeLockers.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if locker != nil {
		return locker, nil
	}

	locker = &core.StakeLocker{
		ID:            id,
		Market:        core.NormalizeAddress(orZeroAddress(params.Market)),
		StakeToken:    core.NormalizeAddress(orZeroAddress(params.StakeToken)),
		CreationBlock: params.BlockNumber,
	}
	if err := s.StakeLockers.Save(ctx, locker); err != nil {
		return nil, err
	}

	if locker.Market == core.ZeroAddress || locker.StakeToken == core.ZeroAddress || params.BlockNumber == 0 {
		logger.FromContext(ctx).WithField("stake_locker", id).
			Warningln("created stake locker with incomplete params")
	}

	return locker, nil
}

// LoanParams optional loan creation parameters
type LoanParams struct {
	Market      string
	Borrower    string
	Version     core.LoanVersion
	Timestamp   int64
	BlockNumber int64
}

// GetOrCreateLoan loan by contract address
func (s *Service) GetOrCreateLoan(ctx context.Context, address string, params LoanParams) (*core.Loan, error) {
	id := core.NormalizeAddress(address)
	loan, err := s.Loans.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if loan != nil {
		return loan, nil
	}

	version := params.Version
	if version == "" {
		version = core.LoanVersionV1
	}

	loan = &core.Loan{
		ID:                  id,
		Market:              core.NormalizeAddress(orZeroAddress(params.Market)),
		Borrower:            core.NormalizeAddress(orZeroAddress(params.Borrower)),
		Version:             version,
		AmountFunded:        decimal.Zero,
		DrawnDown:           decimal.Zero,
		PrincipalPaid:       decimal.Zero,
		InterestPaid:        decimal.Zero,
		DefaultSuffered:     decimal.Zero,
		CreationTimestamp:   params.Timestamp,
		CreationBlockNumber: params.BlockNumber,
	}
	if err := s.Loans.Save(ctx, loan); err != nil {
		return nil, err
	}

	if loan.Market == core.ZeroAddress || params.BlockNumber == 0 {
		logger.FromContext(ctx).WithField("loan", id).
			Warningln("created loan with incomplete params")
	}

	return loan, nil
}

func orZeroAddress(addr string) string {
	if addr == "" {
		return core.ZeroAddress
	}
	return addr
}
