package protocol

import (
	"context"

	"maplemetrics/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type protocolStore struct {
	db *db.DB
}

// New new protocol store
func New(db *db.DB) core.IProtocolStore {
	return &protocolStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().AutoMigrate(core.Protocol{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *protocolStore) Save(ctx context.Context, protocol *core.Protocol) error {
	var count int
	if err := s.db.View().Model(core.Protocol{}).Where("id = ?", protocol.ID).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return s.db.Update().Create(protocol).Error
	}

	return s.db.Update().Save(protocol).Error
}

func (s *protocolStore) Find(ctx context.Context, id string) (*core.Protocol, error) {
	var protocol core.Protocol
	if err := s.db.View().Where("id = ?", id).First(&protocol).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	return &protocol, nil
}
