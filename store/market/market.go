package market

import (
	"context"

	"maplemetrics/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type marketStore struct {
	db *db.DB
}

// New new market store
func New(db *db.DB) core.IMarketStore {
	return &marketStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Market{})
		if err := tx.AutoMigrate(core.Market{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *marketStore) Save(ctx context.Context, market *core.Market) error {
	var count int
	if err := s.db.View().Model(core.Market{}).Where("id = ?", market.ID).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return s.db.Update().Create(market).Error
	}

	return s.db.Update().Save(market).Error
}

func (s *marketStore) Find(ctx context.Context, id string) (*core.Market, error) {
	var market core.Market
	if err := s.db.View().Where("id = ?", id).First(&market).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	return &market, nil
}

func (s *marketStore) All(ctx context.Context) ([]*core.Market, error) {
	var markets []*core.Market
	if err := s.db.View().Find(&markets).Error; err != nil {
		return nil, err
	}
	return markets, nil
}
