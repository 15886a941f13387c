package uow

import (
	"context"

	"loan-management-backend/internal/domain/loan"
	"loan-management-backend/internal/domain/payment"
	"loan-management-backend/internal/domain/user"
)

// Repos are bound to one transaction.
type Repos struct {
	Users    user.Repository
	Loans    loan.Repository
	Payments payment.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
