package stats

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"loan-management-backend/internal/domain/access"
	"loan-management-backend/internal/domain/loan"
	"loan-management-backend/internal/domain/payment"
	"loan-management-backend/internal/domain/uow"
	"loan-management-backend/internal/domain/user"
)

// Usecase reads every figure of one dashboard inside a single transaction so
// counts and sums come from the same snapshot.
type Usecase struct{ uow uow.UnitOfWork }

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

// User reports figures over the caller's own loans and payments. Admins get
// their own (normally empty) figures, never the global ones.
func (u *Usecase) User(ctx context.Context, p access.Principal) (*UserStats, error) {
	if err := access.Require(p, access.ViewOwnStats); err != nil {
		return nil, err
	}
	if u.uow == nil {
		return nil, errors.New("stats usecase: unit of work not configured")
	}
	var out UserStats
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		buckets, err := r.Loans.CountByStatus(ctx, loan.Filter{UserID: p.ID})
		if err != nil {
			return err
		}
		paid, err := r.Payments.SumAmount(ctx, payment.Filter{UserID: p.ID})
		if err != nil {
			return err
		}
		out = ForUser(Fold(buckets), paid)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *Usecase) Admin(ctx context.Context, p access.Principal) (*AdminStats, error) {
	if err := access.Require(p, access.ViewAdminStats); err != nil {
		return nil, err
	}
	if u.uow == nil {
		return nil, errors.New("stats usecase: unit of work not configured")
	}
	var out AdminStats
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		buckets, err := r.Loans.CountByStatus(ctx, loan.Filter{})
		if err != nil {
			return err
		}
		users, err := r.Users.CountByRole(ctx, user.RoleUser)
		if err != nil {
			return err
		}
		var paid decimal.Decimal
		if paid, err = r.Payments.SumAmount(ctx, payment.Filter{Status: payment.StatusCompleted}); err != nil {
			return err
		}
		out = ForAdmin(Fold(buckets), users, paid)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
