// Package mem provides in-memory store implementations. They stand in for
// the external persistence host in tests: Save stores a copy, Find returns a
// copy, so mutations only persist through an explicit Save.
package mem

import (
	"context"
	"sort"

	"maplemetrics/core"
)

// Markets in-memory market store
type Markets struct {
	m map[string]core.Market
}

// NewMarkets new in-memory market store
func NewMarkets() *Markets {
	return &Markets{m: make(map[string]core.Market)}
}

func (s *Markets) Save(ctx context.Context, market *core.Market) error {
	s.m[market.ID] = *market
	return nil
}

func (s *Markets) Find(ctx context.Context, id string) (*core.Market, error) {
	if m, ok := s.m[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (s *Markets) All(ctx context.Context) ([]*core.Market, error) {
	ids := make([]string, 0, len(s.m))
	for id := range s.m {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	markets := make([]*core.Market, 0, len(ids))
	for _, id := range ids {
		m := s.m[id]
		markets = append(markets, &m)
	}
	return markets, nil
}

// Tokens in-memory token store
type Tokens struct {
	m map[string]core.Token
}

// NewTokens new in-memory token store
func NewTokens() *Tokens {
	return &Tokens{m: make(map[string]core.Token)}
}

func (s *Tokens) Save(ctx context.Context, token *core.Token) error {
	s.m[token.ID] = *token
	return nil
}

func (s *Tokens) Find(ctx context.Context, id string) (*core.Token, error) {
	if t, ok := s.m[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (s *Tokens) All(ctx context.Context) ([]*core.Token, error) {
	tokens := make([]*core.Token, 0, len(s.m))
	for _, t := range s.m {
		token := t
		tokens = append(tokens, &token)
	}
	return tokens, nil
}

// RewardTokens in-memory reward token store
type RewardTokens struct {
	m map[string]core.RewardToken
}

// NewRewardTokens new in-memory reward token store
func NewRewardTokens() *RewardTokens {
	return &RewardTokens{m: make(map[string]core.RewardToken)}
}

func (s *RewardTokens) Save(ctx context.Context, token *core.RewardToken) error {
	s.m[token.ID] = *token
	return nil
}

func (s *RewardTokens) Find(ctx context.Context, id string) (*core.RewardToken, error) {
	if t, ok := s.m[id]; ok {
		return &t, nil
	}
	return nil, nil
}

// Protocols in-memory protocol store
type Protocols struct {
	m map[string]core.Protocol
}

// NewProtocols new in-memory protocol store
func NewProtocols() *Protocols {
	return &Protocols{m: make(map[string]core.Protocol)}
}

func (s *Protocols) Save(ctx context.Context, protocol *core.Protocol) error {
	s.m[protocol.ID] = *protocol
	return nil
}

func (s *Protocols) Find(ctx context.Context, id string) (*core.Protocol, error) {
	if p, ok := s.m[id]; ok {
		return &p, nil
	}
	return nil, nil
}

// RewardSchedules in-memory reward schedule store
type RewardSchedules struct {
	m map[string]core.RewardSchedule
}

// NewRewardSchedules new in-memory reward schedule store
func NewRewardSchedules() *RewardSchedules {
	return &RewardSchedules{m: make(map[string]core.RewardSchedule)}
}

func (s *RewardSchedules) Save(ctx context.Context, schedule *core.RewardSchedule) error {
	s.m[schedule.ID] = *schedule
	return nil
}

func (s *RewardSchedules) Find(ctx context.Context, id string) (*core.RewardSchedule, error) {
	if r, ok := s.m[id]; ok {
		return &r, nil
	}
	return nil, nil
}

// StakeLockers in-memory stake locker store
type StakeLockers struct {
	m map[string]core.StakeLocker
}

// NewStakeLockers new in-memory stake locker store
func NewStakeLockers() *StakeLockers {
	return &StakeLockers{m: make(map[string]core.StakeLocker)}
}

func (s *StakeLockers) Save(ctx context.Context, locker *core.StakeLocker) error {
	s.m[locker.ID] = *locker
	return nil
}

func (s *StakeLockers) Find(ctx context.Context, id string) (*core.StakeLocker, error) {
	if l, ok := s.m[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (s *StakeLockers) FindByMarket(ctx context.Context, marketID string) (*core.StakeLocker, error) {
	for _, l := range s.m {
		if l.Market == marketID {
			locker := l
			return &locker, nil
		}
	}
	return nil, nil
}

// Loans in-memory loan store
type Loans struct {
	m map[string]core.Loan
}

// NewLoans new in-memory loan store
func NewLoans() *Loans {
	return &Loans{m: make(map[string]core.Loan)}
}

func (s *Loans) Save(ctx context.Context, loan *core.Loan) error {
	s.m[loan.ID] = *loan
	return nil
}

func (s *Loans) Find(ctx context.Context, id string) (*core.Loan, error) {
	if l, ok := s.m[id]; ok {
		return &l, nil
	}
	return nil, nil
}

func (s *Loans) ListByMarket(ctx context.Context, marketID string) ([]*core.Loan, error) {
	var loans []*core.Loan
	for _, l := range s.m {
		if l.Market == marketID {
			loan := l
			loans = append(loans, &loan)
		}
	}
	return loans, nil
}

// AccountMarkets in-memory account-market position store
type AccountMarkets struct {
	m map[string]core.AccountMarket
}

// NewAccountMarkets new in-memory position store
func NewAccountMarkets() *AccountMarkets {
	return &AccountMarkets{m: make(map[string]core.AccountMarket)}
}

func (s *AccountMarkets) Save(ctx context.Context, position *core.AccountMarket) error {
	s.m[position.ID] = *position
	return nil
}

func (s *AccountMarkets) Find(ctx context.Context, id string) (*core.AccountMarket, error) {
	if p, ok := s.m[id]; ok {
		return &p, nil
	}
	return nil, nil
}

// PoolFactories in-memory pool factory store
type PoolFactories struct {
	m map[string]core.PoolFactory
}

// NewPoolFactories new in-memory pool factory store
func NewPoolFactories() *PoolFactories {
	return &PoolFactories{m: make(map[string]core.PoolFactory)}
}

func (s *PoolFactories) Save(ctx context.Context, factory *core.PoolFactory) error {
	s.m[factory.ID] = *factory
	return nil
}

func (s *PoolFactories) Find(ctx context.Context, id string) (*core.PoolFactory, error) {
	if f, ok := s.m[id]; ok {
		return &f, nil
	}
	return nil, nil
}

// Snapshots in-memory market snapshot store for one bucket width
type Snapshots struct {
	m map[string]core.MarketSnapshot
}

// NewSnapshots new in-memory snapshot store
func NewSnapshots() *Snapshots {
	return &Snapshots{m: make(map[string]core.MarketSnapshot)}
}

func (s *Snapshots) Save(ctx context.Context, snapshot *core.MarketSnapshot) error {
	s.m[snapshot.ID] = *snapshot
	return nil
}

func (s *Snapshots) Find(ctx context.Context, id string) (*core.MarketSnapshot, error) {
	if snap, ok := s.m[id]; ok {
		return &snap, nil
	}
	return nil, nil
}

func (s *Snapshots) ListByMarket(ctx context.Context, marketID string, fromTimestamp, toTimestamp int64, limit int) ([]*core.MarketSnapshot, error) {
	var snapshots []*core.MarketSnapshot
	for _, snap := range s.m {
		if snap.Market != marketID {
			continue
		}
		if fromTimestamp > 0 && snap.Timestamp < fromTimestamp {
			continue
		}
		if toTimestamp > 0 && snap.Timestamp > toTimestamp {
			continue
		}
		snapshot := snap
		snapshots = append(snapshots, &snapshot)
	}

	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Timestamp < snapshots[j].Timestamp })
	if limit > 0 && len(snapshots) > limit {
		snapshots = snapshots[:limit]
	}
	return snapshots, nil
}

// Financials in-memory protocol financials snapshot store
type Financials struct {
	m map[string]core.FinancialsDailySnapshot
}

// NewFinancials new in-memory financials store
func NewFinancials() *Financials {
	return &Financials{m: make(map[string]core.FinancialsDailySnapshot)}
}

func (s *Financials) Save(ctx context.Context, snapshot *core.FinancialsDailySnapshot) error {
	s.m[snapshot.ID] = *snapshot
	return nil
}

func (s *Financials) Find(ctx context.Context, id string) (*core.FinancialsDailySnapshot, error) {
	if snap, ok := s.m[id]; ok {
		return &snap, nil
	}
	return nil, nil
}

func (s *Financials) List(ctx context.Context, fromTimestamp, toTimestamp int64, limit int) ([]*core.FinancialsDailySnapshot, error) {
	var snapshots []*core.FinancialsDailySnapshot
	for _, snap := range s.m {
		if fromTimestamp > 0 && snap.Timestamp < fromTimestamp {
			continue
		}
		if toTimestamp > 0 && snap.Timestamp > toTimestamp {
			continue
		}
		snapshot := snap
		snapshots = append(snapshots, &snapshot)
	}

	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Timestamp < snapshots[j].Timestamp })
	if limit > 0 && len(snapshots) > limit {
		snapshots = snapshots[:limit]
	}
	return snapshots, nil
}

// Transactions in-memory transaction store
type Transactions struct {
	rows []core.Transaction
}

// NewTransactions new in-memory transaction store
func NewTransactions() *Transactions {
	return &Transactions{}
}

func (s *Transactions) Create(ctx context.Context, tx *core.Transaction) error {
	s.rows = append(s.rows, *tx)
	return nil
}

func (s *Transactions) ListByMarket(ctx context.Context, marketID string, limit int) ([]*core.Transaction, error) {
	var txs []*core.Transaction
	for i := len(s.rows) - 1; i >= 0; i-- {
		if s.rows[i].Market != marketID {
			continue
		}
		tx := s.rows[i]
		txs = append(txs, &tx)
		if limit > 0 && len(txs) >= limit {
			break
		}
	}
	return txs, nil
}

// Events in-memory event feed
type Events struct {
	rows   []core.Event
	nextID uint64
}

// NewEvents new in-memory event feed
func NewEvents() *Events {
	return &Events{nextID: 1}
}

func (s *Events) Create(ctx context.Context, event *core.Event) error {
	event.ID = s.nextID
	s.nextID++
	s.rows = append(s.rows, *event)
	return nil
}

// NextID the id the next created event will get
func (s *Events) NextID() uint64 {
	return s.nextID
}

func (s *Events) List(ctx context.Context, fromID uint64, limit int) ([]*core.Event, error) {
	var events []*core.Event
	for i := range s.rows {
		if s.rows[i].ID <= fromID {
			continue
		}
		ev := s.rows[i]
		events = append(events, &ev)
		if limit > 0 && len(events) >= limit {
			break
		}
	}
	return events, nil
}

// Properties in-memory checkpoint store
type Properties struct {
	m map[string]int64
}

// NewProperties new in-memory checkpoint store
func NewProperties() *Properties {
	return &Properties{m: make(map[string]int64)}
}

func (s *Properties) Get(ctx context.Context, key string) (int64, error) {
	return s.m[key], nil
}

func (s *Properties) Save(ctx context.Context, key string, value int64) error {
	s.m[key] = value
	return nil
}
