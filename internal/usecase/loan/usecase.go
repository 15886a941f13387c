package loan

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"loan-management-backend/internal/domain/access"
	"loan-management-backend/internal/domain/apperr"
	"loan-management-backend/internal/domain/loan"
	"loan-management-backend/internal/domain/uow"
	"loan-management-backend/pkg/id"
)

type Usecase struct {
	repo loan.Repository
	uow  uow.UnitOfWork
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewUsecase(r loan.Repository, tx uow.UnitOfWork, log logrus.FieldLogger) *Usecase {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Usecase{repo: r, uow: tx, log: log, now: time.Now}
}

// Submit creates a pending application for p. The installment is fixed here
// and never recomputed.
func (u *Usecase) Submit(ctx context.Context, p access.Principal, in SubmitInput) (*loan.Loan, error) {
	if err := access.Require(p, access.SubmitLoan); err != nil {
		return nil, err
	}

	lt := loan.Type(strings.ToLower(strings.TrimSpace(in.LoanType)))
	switch {
	case !lt.Valid():
		return nil, apperr.Validation("loan_type must be one of personal, home, car, education, business")
	case !in.Amount.IsPositive():
		return nil, apperr.Validation("amount must be greater than 0")
	case in.Amount.GreaterThan(loan.MaxAmount):
		return nil, apperr.Validation("amount must not exceed %s", loan.MaxAmount.StringFixed(2))
	case in.Term <= 0:
		return nil, apperr.Validation("term must be greater than 0")
	case strings.TrimSpace(in.EmploymentStatus) == "":
		return nil, apperr.Validation("employment_status is required")
	case !in.MonthlyIncome.IsPositive():
		return nil, apperr.Validation("monthly_income must be greater than 0")
	case in.MonthlyIncome.GreaterThan(loan.MaxAmount):
		return nil, apperr.Validation("monthly_income must not exceed %s", loan.MaxAmount.StringFixed(2))
	case strings.TrimSpace(in.Purpose) == "":
		return nil, apperr.Validation("purpose is required")
	}

	emi, err := loan.MonthlyPayment(in.Amount, in.Term, loan.DefaultAnnualRatePercent)
	if err != nil {
		return nil, err
	}
	if !emi.IsPositive() {
		return nil, apperr.Validation("amount is too small for a %d month term", in.Term)
	}

	l := &loan.Loan{
		LoanID:            id.NewID32(),
		UserID:            p.ID,
		LoanType:          lt,
		Principal:         in.Amount,
		TermMonths:        in.Term,
		AnnualRatePercent: loan.DefaultAnnualRatePercent,
		MonthlyPayment:    emi,
		EmploymentStatus:  strings.TrimSpace(in.EmploymentStatus),
		MonthlyIncome:     in.MonthlyIncome,
		Purpose:           strings.TrimSpace(in.Purpose),
		Status:            loan.StatusPending,
	}
	if err := u.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"loan_id": l.LoanID,
		"user_id": l.UserID,
		"amount":  l.Principal.String(),
		"term":    l.TermMonths,
	}).Info("loan submitted")
	return l, nil
}

// Decide moves a pending loan to approved or rejected. A loan that is no
// longer pending, including one decided concurrently, fails with
// loan.ErrAlreadyDecided.
func (u *Usecase) Decide(ctx context.Context, p access.Principal, loanID string, in DecideInput) (*loan.Loan, error) {
	if err := access.Require(p, access.DecideLoan); err != nil {
		return nil, err
	}
	d := loan.Decision{
		Status:    loan.Status(strings.ToLower(strings.TrimSpace(in.Status))),
		Notes:     in.AdminNotes,
		DecidedBy: p.ID,
		DecidedAt: u.now().UTC(),
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if u.uow == nil {
		return nil, errors.New("loan usecase: unit of work not configured")
	}

	var out *loan.Loan
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		if l.Status.Terminal() {
			return loan.ErrAlreadyDecided
		}

		ok, err := r.Loans.DecidePending(ctx, loanID, d)
		if err != nil {
			return err
		}
		if !ok {
			// lost the race to another decision
			return loan.ErrAlreadyDecided
		}

		out, err = r.Loans.GetByLoanID(ctx, loanID)
		return err
	})
	if err != nil {
		return nil, err
	}

	u.log.WithFields(logrus.Fields{
		"loan_id":  out.LoanID,
		"status":   out.Status,
		"admin_id": p.ID,
	}).Info("loan decided")
	return out, nil
}

// Get returns the loan with its owner's contact fields. Unknown ids are
// NotFound before the ownership check runs.
func (u *Usecase) Get(ctx context.Context, p access.Principal, loanID string) (*loan.View, error) {
	v, err := u.repo.GetViewByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if err := access.RequireRead(p, v.UserID); err != nil {
		return nil, err
	}
	return v, nil
}

func (u *Usecase) ListMine(ctx context.Context, p access.Principal) ([]loan.Loan, error) {
	if err := access.Require(p, access.ViewOwnRecords); err != nil {
		return nil, err
	}
	out, err := u.repo.List(ctx, loan.Filter{UserID: p.ID})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []loan.Loan{}
	}
	return out, nil
}

// ListAll is the admin listing; rawStatus "" or "all" disables the filter.
func (u *Usecase) ListAll(ctx context.Context, p access.Principal, rawStatus string) ([]loan.View, error) {
	if err := access.Require(p, access.ListAllLoans); err != nil {
		return nil, err
	}
	status, err := loan.ParseStatusFilter(rawStatus)
	if err != nil {
		return nil, err
	}
	out, err := u.repo.ListViews(ctx, loan.Filter{Status: status})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []loan.View{}
	}
	return out, nil
}
