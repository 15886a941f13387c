package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the row for the rest of the transaction
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetViewByLoanID(ctx context.Context, loanID string) (*View, error)

	// DecidePending applies d only while the loan is still pending.
	// It reports false when no pending row matched.
	DecidePending(ctx context.Context, loanID string, d Decision) (bool, error)

	List(ctx context.Context, f Filter) ([]Loan, error)
	ListViews(ctx context.Context, f Filter) ([]View, error)
	CountByStatus(ctx context.Context, f Filter) ([]StatusBucket, error)
}
