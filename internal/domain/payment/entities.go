package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"loan-management-backend/internal/domain/apperr"
)

// ErrInvalidLoan covers a missing loan, a loan owned by someone else and a
// loan that is not approved. Callers cannot tell the three apart.
var ErrInvalidLoan = fmt.Errorf("%w: invalid loan or loan not approved", apperr.ErrInvalidLoan)

var ErrNotFound = fmt.Errorf("%w: payment not found", apperr.ErrNotFound)

type Method string

const (
	MethodBankTransfer Method = "bank_transfer"
	MethodDebitCard    Method = "debit_card"
	MethodCreditCard   Method = "credit_card"
	MethodUPI          Method = "upi"
)

// ParseMethod defaults an empty value to bank_transfer.
func ParseMethod(raw string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(raw)))
	switch m {
	case "":
		return MethodBankTransfer, nil
	case MethodBankTransfer, MethodDebitCard, MethodCreditCard, MethodUPI:
		return m, nil
	}
	return "", apperr.Validation("payment_method must be one of bank_transfer, debit_card, credit_card, upi")
}

type Status string

const StatusCompleted Status = "completed"

// Table: payments
type Payment struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	PaymentID     string          `gorm:"size:32;not null;uniqueIndex:ux_payments_payment_id" json:"id"`
	LoanID        string          `gorm:"size:32;not null;index:idx_payments_loan" json:"loan_id"`
	UserID        string          `gorm:"size:32;not null;index:idx_payments_user_created,priority:1" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	PaymentMethod Method          `gorm:"size:32;not null;default:bank_transfer" json:"payment_method"`
	TransactionID string          `gorm:"size:64;not null;uniqueIndex:ux_payments_transaction_id" json:"transaction_id"`
	Notes         *string         `gorm:"type:text" json:"notes"`
	Status        Status          `gorm:"size:16;not null;default:completed" json:"status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index:idx_payments_user_created,priority:2" json:"created_at"`
}

func (Payment) TableName() string { return "payments" }

// View is a payment joined with its loan and payer.
type View struct {
	Payment    `gorm:"embedded"`
	LoanType   string          `json:"loan_type"`
	LoanAmount decimal.Decimal `json:"loan_amount"`
	UserName   string          `json:"user_name,omitempty"`
	UserEmail  string          `json:"user_email,omitempty"`
}

// Filter is the typed predicate for payment queries; zero value matches everything.
type Filter struct {
	UserID string
	Status Status
}
