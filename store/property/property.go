package property

import (
	"context"

	"maplemetrics/core"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

type propertyStore struct {
	store property.Store
}

// New new checkpoint property store
func New(db *db.DB) core.IPropertyStore {
	return &propertyStore{store: propertystore.New(db)}
}

func (s *propertyStore) Get(ctx context.Context, key string) (int64, error) {
	v, err := s.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}

	return v.Int64(), nil
}

func (s *propertyStore) Save(ctx context.Context, key string, value int64) error {
	return s.store.Save(ctx, key, value)
}
