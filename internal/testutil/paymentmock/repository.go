package paymentmock

import (
	"context"

	"github.com/shopspring/decimal"

	domain "loan-management-backend/internal/domain/payment"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn             func(ctx context.Context, p *domain.Payment) error
	GetByTransactionIDFn func(ctx context.Context, txnID string) (*domain.Payment, error)
	ListViewsFn          func(ctx context.Context, f domain.Filter) ([]domain.View, error)
	SumAmountFn          func(ctx context.Context, f domain.Filter) (decimal.Decimal, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByTransactionID(ctx context.Context, txnID string) (*domain.Payment, error) {
	if m.GetByTransactionIDFn != nil {
		return m.GetByTransactionIDFn(ctx, txnID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListViews(ctx context.Context, f domain.Filter) ([]domain.View, error) {
	if m.ListViewsFn != nil {
		return m.ListViewsFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) SumAmount(ctx context.Context, f domain.Filter) (decimal.Decimal, error) {
	if m.SumAmountFn != nil {
		return m.SumAmountFn(ctx, f)
	}
	return decimal.Zero, nil
}
