package factory

import (
	"context"

	"maplemetrics/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type factoryStore struct {
	db *db.DB
}

// New new pool factory store
func New(db *db.DB) core.IPoolFactoryStore {
	return &factoryStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().AutoMigrate(core.PoolFactory{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *factoryStore) Save(ctx context.Context, factory *core.PoolFactory) error {
	var count int
	if err := s.db.View().Model(core.PoolFactory{}).Where("id = ?", factory.ID).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return s.db.Update().Create(factory).Error
	}

	return s.db.Update().Save(factory).Error
}

func (s *factoryStore) Find(ctx context.Context, id string) (*core.PoolFactory, error) {
	var factory core.PoolFactory
	if err := s.db.View().Where("id = ?", id).First(&factory).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	return &factory, nil
}
