package token

import (
	"context"

	"maplemetrics/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type tokenStore struct {
	db *db.DB
}

type rewardTokenStore struct {
	db *db.DB
}

// New new token store
func New(db *db.DB) core.ITokenStore {
	return &tokenStore{db: db}
}

// NewReward new reward token store
func NewReward(db *db.DB) core.IRewardTokenStore {
	return &rewardTokenStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().AutoMigrate(core.Token{}).Error; err != nil {
			return err
		}
		if err := db.Update().AutoMigrate(core.RewardToken{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *tokenStore) Save(ctx context.Context, token *core.Token) error {
	var count int
	if err := s.db.View().Model(core.Token{}).Where("id = ?", token.ID).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return s.db.Update().Create(token).Error
	}

	return s.db.Update().Save(token).Error
}

func (s *tokenStore) Find(ctx context.Context, id string) (*core.Token, error) {
	var token core.Token
	if err := s.db.View().Where("id = ?", id).First(&token).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	return &token, nil
}

func (s *tokenStore) All(ctx context.Context) ([]*core.Token, error) {
	var tokens []*core.Token
	if err := s.db.View().Find(&tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (s *rewardTokenStore) Save(ctx context.Context, token *core.RewardToken) error {
	var count int
	if err := s.db.View().Model(core.RewardToken{}).Where("id = ?", token.ID).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return s.db.Update().Create(token).Error
	}

	return s.db.Update().Save(token).Error
}

func (s *rewardTokenStore) Find(ctx context.Context, id string) (*core.RewardToken, error) {
	var token core.RewardToken
	if err := s.db.View().Where("id = ?", id).First(&token).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	return &token, nil
}
