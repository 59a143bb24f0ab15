package core

import "context"

// IPropertyStore key-value store for worker checkpoints
type IPropertyStore interface {
	Get(ctx context.Context, key string) (int64, error)
	Save(ctx context.Context, key string, value int64) error
}
