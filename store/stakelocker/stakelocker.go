package stakelocker

import (
	"context"

	"maplemetrics/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type stakeLockerStore struct {
	db *db.DB
}

// New new stake locker store
func New(db *db.DB) core.IStakeLockerStore {
	return &stakeLockerStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().AutoMigrate(core.StakeLocker{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *stakeLockerStore) Save(ctx context.Context, locker *core.StakeLocker) error {
	var count int
	if err := s.db.View().Model(core.StakeLocker{}).Where("id = ?", locker.ID).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return s.db.Update().Create(locker).Error
	}

	return s.db.Update().Save(locker).Error
}

func (s *stakeLockerStore) Find(ctx context.Context, id string) (*core.StakeLocker, error) {
	var locker core.StakeLocker
	if err := s.db.View().Where("id = ?", id).First(&locker).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	return &locker, nil
}

func (s *stakeLockerStore) FindByMarket(ctx context.Context, marketID string) (*core.StakeLocker, error) {
	var locker core.StakeLocker
	if err := s.db.View().Where("market = ?", marketID).First(&locker).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	return &locker, nil
}
