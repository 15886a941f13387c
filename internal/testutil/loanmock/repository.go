package loanmock

import (
	"context"

	domain "loan-management-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetViewByLoanIDFn      func(ctx context.Context, loanID string) (*domain.View, error)
	DecidePendingFn        func(ctx context.Context, loanID string, d domain.Decision) (bool, error)
	ListFn                 func(ctx context.Context, f domain.Filter) ([]domain.Loan, error)
	ListViewsFn            func(ctx context.Context, f domain.Filter) ([]domain.View, error)
	CountByStatusFn        func(ctx context.Context, f domain.Filter) ([]domain.StatusBucket, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetViewByLoanID(ctx context.Context, loanID string) (*domain.View, error) {
	if m.GetViewByLoanIDFn != nil {
		return m.GetViewByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) DecidePending(ctx context.Context, loanID string, d domain.Decision) (bool, error) {
	if m.DecidePendingFn != nil {
		return m.DecidePendingFn(ctx, loanID, d)
	}
	return false, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) ListViews(ctx context.Context, f domain.Filter) ([]domain.View, error) {
	if m.ListViewsFn != nil {
		return m.ListViewsFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) CountByStatus(ctx context.Context, f domain.Filter) ([]domain.StatusBucket, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx, f)
	}
	return nil, nil
}
