package core

import "context"

// PoolFactory one pool factory contract
type PoolFactory struct {
	ID                string `sql:"size:66;PRIMARY_KEY" json:"id"`
	CreationTimestamp int64  `json:"creation_timestamp"`
	CreationBlock     int64  `json:"creation_block"`
}

// IPoolFactoryStore pool factory store interface. Find returns (nil, nil)
// when absent.
type IPoolFactoryStore interface {
	Save(ctx context.Context, factory *PoolFactory) error
	Find(ctx context.Context, id string) (*PoolFactory, error)
}
