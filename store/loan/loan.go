package loan

import (
	"context"

	"maplemetrics/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type loanStore struct {
	db *db.DB
}

// New new loan store
func New(db *db.DB) core.ILoanStore {
	return &loanStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		if err := db.Update().AutoMigrate(core.Loan{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *loanStore) Save(ctx context.Context, loan *core.Loan) error {
	var count int
	if err := s.db.View().Model(core.Loan{}).Where("id = ?", loan.ID).Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return s.db.Update().Create(loan).Error
	}

	return s.db.Update().Save(loan).Error
}

func (s *loanStore) Find(ctx context.Context, id string) (*core.Loan, error) {
	var loan core.Loan
	if err := s.db.View().Where("id = ?", id).First(&loan).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}

	return &loan, nil
}

func (s *loanStore) ListByMarket(ctx context.Context, marketID string) ([]*core.Loan, error) {
	var loans []*core.Loan
	if err := s.db.View().Where("market = ?", marketID).Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}
