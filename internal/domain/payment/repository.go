package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByTransactionID(ctx context.Context, txnID string) (*Payment, error)
	ListViews(ctx context.Context, f Filter) ([]View, error)
	// SumAmount is zero for an empty match, never an error
	SumAmount(ctx context.Context, f Filter) (decimal.Decimal, error)
}
