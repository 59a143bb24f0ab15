package event

import (
	"context"

	"maplemetrics/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/fox-one/pkg/uuid"
)

type eventStore struct {
	db *db.DB
}

// New new event store
func New(db *db.DB) core.IEventStore {
	return &eventStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().AutoMigrate(core.Event{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *eventStore) Create(ctx context.Context, event *core.Event) error {
	// manually injected events carry no tx hash; stamp one so log ids stay unique
	if event.TxHash == "" {
		event.TxHash = uuid.New()
	}

	return s.db.Update().Create(event).Error
}

func (s *eventStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.Event, error) {
	var events []*core.Event
	if err := s.db.View().Where("id > ?", fromID).Order("id").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
