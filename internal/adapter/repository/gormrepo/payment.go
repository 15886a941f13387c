package gormrepo

import (
	"context"

	paymentDomain "loan-management-backend/internal/domain/payment"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByTransactionID(ctx context.Context, txnID string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", txnID).First(&out).Error; err != nil {
		return nil, translate(err, paymentDomain.ErrNotFound)
	}
	return &out, nil
}

// ListViews joins the loan (type, principal) and the payer (name, email).
func (r *PaymentRepository) ListViews(ctx context.Context, f paymentDomain.Filter) ([]paymentDomain.View, error) {
	out := []paymentDomain.View{}
	q := r.db.WithContext(ctx).
		Table("payments").
		Select("payments.*, COALESCE(loans.loan_type, '') AS loan_type, COALESCE(loans.principal, 0) AS loan_amount, " +
			"COALESCE(users.name, '') AS user_name, COALESCE(users.email, '') AS user_email").
		Joins("LEFT JOIN loans ON loans.loan_id = payments.loan_id").
		Joins("LEFT JOIN users ON users.user_id = payments.user_id")
	err := applyPaymentFilter(q, f, "payments.").
		Order("payments.created_at DESC, payments.id DESC").
		Scan(&out).Error
	return out, err
}

func (r *PaymentRepository) SumAmount(ctx context.Context, f paymentDomain.Filter) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	q := applyPaymentFilter(r.db.WithContext(ctx).Model(&paymentDomain.Payment{}), f, "")
	if err := q.Select("COALESCE(SUM(amount), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func applyPaymentFilter(q *gorm.DB, f paymentDomain.Filter, prefix string) *gorm.DB {
	if f.UserID != "" {
		q = q.Where(prefix+"user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where(prefix+"status = ?", f.Status)
	}
	return q
}
