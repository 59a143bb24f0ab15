package reward

import (
	"context"

	"maplemetrics/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type rewardStore struct {
	db *db.DB
}

// New new reward schedule store
func New(db *db.DB) core.IRewardScheduleStore {
	return &rewardStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().AutoMigrate(core.RewardSchedule{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *rewardStore) Save(ctx context.Context, schedule *core.RewardSchedule) error {
	var count int
	if err := s.db.View().Model(core.RewardSchedule{}).Where("id = ?", schedule.ID).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return s.db.Update().Create(schedule).Error
	}

	return s.db.Update().Save(schedule).Error
}

func (s *rewardStore) Find(ctx context.Context, id string) (*core.RewardSchedule, error) {
	var schedule core.RewardSchedule
	if err := s.db.View().Where("id = ?", id).First(&schedule).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	return &schedule, nil
}
