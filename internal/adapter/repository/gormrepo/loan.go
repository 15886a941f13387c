package gormrepo

import (
	"context"

	loanDomain "loan-management-backend/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	if err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out).Error; err != nil {
		return nil, translate(err, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	q := r.db.WithContext(ctx)
	if supportsRowLocks(q) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out loanDomain.Loan
	if err := q.Where("loan_id = ?", loanID).First(&out).Error; err != nil {
		return nil, translate(err, loanDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) GetViewByLoanID(ctx context.Context, loanID string) (*loanDomain.View, error) {
	var out []loanDomain.View
	err := r.views(ctx).Where("loans.loan_id = ?", loanID).Limit(1).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, loanDomain.ErrNotFound
	}
	return &out[0], nil
}

// DecidePending is a compare-and-set on status: the WHERE clause only
// matches while the loan is pending, so of two racing decisions one wins.
func (r *LoanRepository) DecidePending(ctx context.Context, loanID string, d loanDomain.Decision) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Where("loan_id = ? AND status = ?", loanID, loanDomain.StatusPending).
		Updates(map[string]any{
			"status":      d.Status,
			"admin_notes": d.Notes,
			"approved_by": d.DecidedBy,
			"approved_at": d.DecidedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *LoanRepository) List(ctx context.Context, f loanDomain.Filter) ([]loanDomain.Loan, error) {
	out := []loanDomain.Loan{}
	err := applyLoanFilter(r.db.WithContext(ctx), f, "").
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) ListViews(ctx context.Context, f loanDomain.Filter) ([]loanDomain.View, error) {
	out := []loanDomain.View{}
	err := applyLoanFilter(r.views(ctx), f, "loans.").
		Order("loans.created_at DESC, loans.id DESC").
		Scan(&out).Error
	return out, err
}

func (r *LoanRepository) CountByStatus(ctx context.Context, f loanDomain.Filter) ([]loanDomain.StatusBucket, error) {
	out := []loanDomain.StatusBucket{}
	err := applyLoanFilter(r.db.WithContext(ctx).Model(&loanDomain.Loan{}), f, "").
		Select("status, COUNT(*) AS count, COALESCE(SUM(principal), 0) AS principal").
		Group("status").
		Scan(&out).Error
	return out, err
}

func (r *LoanRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("loans").
		Select("loans.*, COALESCE(users.name, '') AS user_name, COALESCE(users.email, '') AS user_email, COALESCE(users.phone, '') AS user_phone").
		Joins("LEFT JOIN users ON users.user_id = loans.user_id")
}

// applyLoanFilter turns the typed filter into bound parameters; values never
// reach the SQL text.
func applyLoanFilter(q *gorm.DB, f loanDomain.Filter, prefix string) *gorm.DB {
	if f.UserID != "" {
		q = q.Where(prefix+"user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where(prefix+"status = ?", f.Status)
	}
	return q
}
