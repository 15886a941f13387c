package payment

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"loan-management-backend/internal/domain/access"
	"loan-management-backend/internal/domain/apperr"
	"loan-management-backend/internal/domain/loan"
	"loan-management-backend/internal/domain/payment"
	"loan-management-backend/internal/domain/uow"
	"loan-management-backend/pkg/id"
)

type Usecase struct {
	repo payment.Repository
	uow  uow.UnitOfWork
	log  logrus.FieldLogger
}

func NewUsecase(r payment.Repository, tx uow.UnitOfWork, log logrus.FieldLogger) *Usecase {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Usecase{repo: r, uow: tx, log: log}
}

// Pay records a repayment against an approved loan owned by p. The loan row
// stays locked from the eligibility check until the insert commits.
func (u *Usecase) Pay(ctx context.Context, p access.Principal, in PayInput) (*Receipt, error) {
	if err := access.Require(p, access.CreatePayment); err != nil {
		return nil, err
	}
	loanID := strings.TrimSpace(in.LoanID)
	if loanID == "" {
		return nil, apperr.Validation("loan_id is required")
	}
	if !in.Amount.IsPositive() {
		return nil, apperr.Validation("amount must be greater than 0")
	}
	if in.Amount.GreaterThan(loan.MaxAmount) {
		return nil, apperr.Validation("amount must not exceed %s", loan.MaxAmount.StringFixed(2))
	}
	method, err := payment.ParseMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if u.uow == nil {
		return nil, errors.New("payment usecase: unit of work not configured")
	}

	var rec *payment.Payment
	err = u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.UserID != p.ID || l.Status != loan.StatusApproved {
			return payment.ErrInvalidLoan
		}
		rec = &payment.Payment{
			PaymentID:     id.NewID32(),
			LoanID:        l.LoanID,
			UserID:        p.ID,
			Amount:        in.Amount,
			PaymentMethod: method,
			TransactionID: id.NewTransactionID(),
			Notes:         in.Notes,
			Status:        payment.StatusCompleted,
		}
		return r.Payments.Create(ctx, rec)
	})
	if errors.Is(err, loan.ErrNotFound) {
		err = payment.ErrInvalidLoan
	}
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"payment_id":     rec.PaymentID,
		"transaction_id": rec.TransactionID,
		"loan_id":        rec.LoanID,
		"amount":         rec.Amount.String(),
	}).Info("payment recorded")
	return &Receipt{PaymentID: rec.PaymentID, TransactionID: rec.TransactionID}, nil
}

func (u *Usecase) ListMine(ctx context.Context, p access.Principal) ([]payment.View, error) {
	if err := access.Require(p, access.ViewOwnRecords); err != nil {
		return nil, err
	}
	return u.list(ctx, payment.Filter{UserID: p.ID})
}

func (u *Usecase) ListAll(ctx context.Context, p access.Principal) ([]payment.View, error) {
	if err := access.Require(p, access.ListAllPayments); err != nil {
		return nil, err
	}
	return u.list(ctx, payment.Filter{})
}

func (u *Usecase) list(ctx context.Context, f payment.Filter) ([]payment.View, error) {
	out, err := u.repo.ListViews(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []payment.View{}
	}
	return out, nil
}
