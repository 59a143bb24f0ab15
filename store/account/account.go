package account

import (
	"context"

	"maplemetrics/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type accountMarketStore struct {
	db *db.DB
}

// New new account-market position store
func New(db *db.DB) core.IAccountMarketStore {
	return &accountMarketStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().AutoMigrate(core.AccountMarket{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *accountMarketStore) Save(ctx context.Context, position *core.AccountMarket) error {
	var count int
	if err := s.db.View().Model(core.AccountMarket{}).Where("id = ?", position.ID).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return s.db.Update().Create(position).Error
	}

	return s.db.Update().Save(position).Error
}

func (s *accountMarketStore) Find(ctx context.Context, id string) (*core.AccountMarket, error) {
	var position core.AccountMarket
	if err := s.db.View().Where("id = ?", id).First(&position).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	return &position, nil
}
