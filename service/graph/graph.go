// Package graph implements get-or-create semantics over the entity stores.
// Creation with missing optional parameters succeeds with sentinel defaults
// and emits a data-quality warning: chain event order does not guarantee full
// context on first sight of an entity. Re-invocation with different
// parameters on an existing entity is a no-op.
package graph

import (
	"context"

	"maplemetrics/core"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

const poolWADDecimals int32 = 18

// Service entity store facade
type Service struct {
	cfg *core.Config

	Markets         core.IMarketStore
	Tokens          core.ITokenStore
	RewardTokens    core.IRewardTokenStore
	Protocols       core.IProtocolStore
	RewardSchedules core.IRewardScheduleStore
	StakeLockers    core.IStakeLockerStore
	Loans           core.ILoanStore
	AccountMarkets  core.IAccountMarketStore
	PoolFactories   core.IPoolFactoryStore
}

// New new entity store facade
func New(
	cfg *core.Config,
	marketStore core.IMarketStore,
	tokenStore core.ITokenStore,
	rewardTokenStore core.IRewardTokenStore,
	protocolStore core.IProtocolStore,
	rewardScheduleStore core.IRewardScheduleStore,
	stakeLockerStore core.IStakeLockerStore,
	loanStore core.ILoanStore,
	accountMarketStore core.IAccountMarketStore,
	poolFactoryStore core.IPoolFactoryStore) *Service {

	return &Service{
		cfg:             cfg,
		Markets:         marketStore,
		Tokens:          tokenStore,
		RewardTokens:    rewardTokenStore,
		Protocols:       protocolStore,
		RewardSchedules: rewardScheduleStore,
		StakeLockers:    stakeLockerStore,
		Loans:           loanStore,
		AccountMarkets:  accountMarketStore,
		PoolFactories:   poolFactoryStore,
	}
}

// GetOrCreateProtocol the protocol singleton, identified by config
func (s *Service) GetOrCreateProtocol(ctx context.Context) (*core.Protocol, error) {
	id := core.NormalizeAddress(s.cfg.Protocol.ID)
	protocol, err := s.Protocols.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if protocol != nil {
		return protocol, nil
	}

	protocol = &core.Protocol{
		ID:          id,
		Name:        s.cfg.Protocol.Name,
		Slug:        s.cfg.Protocol.Slug,
		Network:     s.cfg.Protocol.Network,
		Type:        "LENDING",
		LendingType: "POOLED",
		RiskType:    "ISOLATED",
		TreasuryFee: s.cfg.Protocol.TreasuryFee,
	}
	if err := s.Protocols.Save(ctx, protocol); err != nil {
		return nil, err
	}

	return protocol, nil
}

// TokenParams optional token creation parameters
type TokenParams struct {
	Name     string
	Symbol   string
	Decimals int32
}

// GetOrCreateToken token by address; unknown decimals default to 18
func (s *Service) GetOrCreateToken(ctx context.Context, address string, params TokenParams) (*core.Token, error) {
	id := core.NormalizeAddress(address)
	token, err := s.Tokens.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if token != nil {
		return token, nil
	}

	decimals := params.Decimals
	if decimals == 0 {
		decimals = 18
	}

	token = &core.Token{
		ID:              id,
		Name:            params.Name,
		Symbol:          params.Symbol,
		Decimals:        decimals,
		LastPriceUSD:    decimal.Zero,
		LastPriceSource: core.PriceSourceNone,
	}
	if err := s.Tokens.Save(ctx, token); err != nil {
		return nil, err
	}

	if id == core.ZeroAddress || params.Decimals == 0 {
		logger.FromContext(ctx).WithField("token", id).
			Warningln("created token with incomplete params")
	}

	return token, nil
}

// GetOrCreateRewardToken reward token record for a token address
func (s *Service) GetOrCreateRewardToken(ctx context.Context, address string) (*core.RewardToken, error) {
	tokenAddress := core.NormalizeAddress(address)
	id := core.RewardTokenTypeDeposit + "-" + tokenAddress

	rewardToken, err := s.RewardTokens.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if rewardToken != nil {
		return rewardToken, nil
	}

	if _, err := s.GetOrCreateToken(ctx, tokenAddress, TokenParams{}); err != nil {
		return nil, err
	}

	rewardToken = &core.RewardToken{
		ID:    id,
		Token: tokenAddress,
		Type:  core.RewardTokenTypeDeposit,
	}
	if err := s.RewardTokens.Save(ctx, rewardToken); err != nil {
		return nil, err
	}

	return rewardToken, nil
}

// PoolFactoryParams optional pool factory creation parameters
type PoolFactoryParams struct {
	Timestamp   int64
	BlockNumber int64
}

// GetOrCreatePoolFactory pool factory by address
func (s *Service) GetOrCreatePoolFactory(ctx context.Context, address string, params PoolFactoryParams) (*core.PoolFactory, error) {
	id := core.NormalizeAddress(address)
	factory, err := s.PoolFactories.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if factory != nil {
		return factory, nil
	}

	factory = &core.PoolFactory{
		ID:                id,
		CreationTimestamp: params.Timestamp,
		CreationBlock:     params.BlockNumber,
	}
	if err := s.PoolFactories.Save(ctx, factory); err != nil {
		return nil, err
	}

	if params.Timestamp == 0 || params.BlockNumber == 0 {
		logger.FromContext(ctx).WithField("factory", id).
			Warningln("created pool factory with incomplete params")
	}

	return factory, nil
}

// GetOrCreateAccountMarket the (account, market) position
func (s *Service) GetOrCreateAccountMarket(ctx context.Context, account string, market *core.Market) (*core.AccountMarket, error) {
	id := core.AccountMarketID(account, market.ID)
	position, err := s.AccountMarkets.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if position != nil {
		return position, nil
	}

	position = &core.AccountMarket{
		ID:                 id,
		Account:            core.NormalizeAddress(account),
		Market:             market.ID,
		RecognizedLosses:   decimal.Zero,
		UnrecognizedLosses: decimal.Zero,
	}
	if err := s.AccountMarkets.Save(ctx, position); err != nil {
		return nil, err
	}

	return position, nil
}
