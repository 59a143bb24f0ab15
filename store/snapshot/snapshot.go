package snapshot

import (
	"context"

	"maplemetrics/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

// MarketDailySnapshot daily bucket table
type MarketDailySnapshot struct {
	core.MarketSnapshot
}

// MarketHourlySnapshot hourly bucket table
type MarketHourlySnapshot struct {
	core.MarketSnapshot
}

type dailyStore struct {
	db *db.DB
}

type hourlyStore struct {
	db *db.DB
}

type financialsStore struct {
	db *db.DB
}

// NewDaily new daily market snapshot store
func NewDaily(db *db.DB) core.IMarketSnapshotStore {
	return &dailyStore{db: db}
}

// NewHourly new hourly market snapshot store
func NewHourly(db *db.DB) core.IMarketSnapshotStore {
	return &hourlyStore{db: db}
}

// NewFinancials new protocol financials snapshot store
func NewFinancials(db *db.DB) core.IFinancialsStore {
	return &financialsStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().AutoMigrate(MarketDailySnapshot{}).Error; err != nil {
			return err
		}
		if err := db.Update().AutoMigrate(MarketHourlySnapshot{}).Error; err != nil {
			return err
		}
		if err := db.Update().AutoMigrate(core.FinancialsDailySnapshot{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func upsert(tx *db.DB, model interface{}, id string, value interface{}) error {
	var count int
	if err := tx.View().Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return tx.Update().Create(value).Error
	}

	return tx.Update().Save(value).Error
}

func (s *dailyStore) Save(ctx context.Context, snapshot *core.MarketSnapshot) error {
	return upsert(s.db, MarketDailySnapshot{}, snapshot.ID, &MarketDailySnapshot{MarketSnapshot: *snapshot})
}

func (s *dailyStore) Find(ctx context.Context, id string) (*core.MarketSnapshot, error) {
	var row MarketDailySnapshot
	if err := s.db.View().Where("id = ?", id).First(&row).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	snapshot := row.MarketSnapshot
	return &snapshot, nil
}

func (s *dailyStore) ListByMarket(ctx context.Context, marketID string, fromTimestamp, toTimestamp int64, limit int) ([]*core.MarketSnapshot, error) {
	var rows []*MarketDailySnapshot
	if err := listByMarket(s.db, &rows, marketID, fromTimestamp, toTimestamp, limit); err != nil {
		return nil, err
	}

	snapshots := make([]*core.MarketSnapshot, 0, len(rows))
	for _, row := range rows {
		snapshot := row.MarketSnapshot
		snapshots = append(snapshots, &snapshot)
	}
	return snapshots, nil
}

func (s *hourlyStore) Save(ctx context.Context, snapshot *core.MarketSnapshot) error {
	return upsert(s.db, MarketHourlySnapshot{}, snapshot.ID, &MarketHourlySnapshot{MarketSnapshot: *snapshot})
}

func (s *hourlyStore) Find(ctx context.Context, id string) (*core.MarketSnapshot, error) {
	var row MarketHourlySnapshot
	if err := s.db.View().Where("id = ?", id).First(&row).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	snapshot := row.MarketSnapshot
	return &snapshot, nil
}

func (s *hourlyStore) ListByMarket(ctx context.Context, marketID string, fromTimestamp, toTimestamp int64, limit int) ([]*core.MarketSnapshot, error) {
	var rows []*MarketHourlySnapshot
	if err := listByMarket(s.db, &rows, marketID, fromTimestamp, toTimestamp, limit); err != nil {
		return nil, err
	}

	snapshots := make([]*core.MarketSnapshot, 0, len(rows))
	for _, row := range rows {
		snapshot := row.MarketSnapshot
		snapshots = append(snapshots, &snapshot)
	}
	return snapshots, nil
}

func listByMarket(tx *db.DB, out interface{}, marketID string, fromTimestamp, toTimestamp int64, limit int) error {
	query := tx.View().Where("market = ?", marketID)
	if fromTimestamp > 0 {
		query = query.Where("timestamp >= ?", fromTimestamp)
	}
	if toTimestamp > 0 {
		query = query.Where("timestamp <= ?", toTimestamp)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	return query.Order("timestamp").Find(out).Error
}

func (s *financialsStore) Save(ctx context.Context, snapshot *core.FinancialsDailySnapshot) error {
	return upsert(s.db, core.FinancialsDailySnapshot{}, snapshot.ID, snapshot)
}

func (s *financialsStore) Find(ctx context.Context, id string) (*core.FinancialsDailySnapshot, error) {
	var snapshot core.FinancialsDailySnapshot
	if err := s.db.View().Where("id = ?", id).First(&snapshot).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	return &snapshot, nil
}

func (s *financialsStore) List(ctx context.Context, fromTimestamp, toTimestamp int64, limit int) ([]*core.FinancialsDailySnapshot, error) {
	query := s.db.View().Model(core.FinancialsDailySnapshot{})
	if fromTimestamp > 0 {
		query = query.Where("timestamp >= ?", fromTimestamp)
	}
	if toTimestamp > 0 {
		query = query.Where("timestamp <= ?", toTimestamp)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var snapshots []*core.FinancialsDailySnapshot
	if err := query.Order("timestamp").Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}
