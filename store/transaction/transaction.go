package transaction

import (
	"context"

	"maplemetrics/core"

	"github.com/fox-one/pkg/store/db"
)

type transactionStore struct {
	db *db.DB
}

// New new transaction store
func New(db *db.DB) core.ITransactionStore {
	return &transactionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().AutoMigrate(core.Transaction{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *transactionStore) Create(ctx context.Context, tx *core.Transaction) error {
	return s.db.Update().Create(tx).Error
}

func (s *transactionStore) ListByMarket(ctx context.Context, marketID string, limit int) ([]*core.Transaction, error) {
	query := s.db.View().Where("market = ?", marketID).Order("timestamp desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var txs []*core.Transaction
	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}
