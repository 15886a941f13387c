package loan

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"loan-management-backend/internal/domain/apperr"
)

var (
	ErrNotFound       = fmt.Errorf("%w: loan not found", apperr.ErrNotFound)
	ErrAlreadyDecided = fmt.Errorf("%w: loan has already been decided", apperr.ErrAlreadyDecided)
	ErrInvalidTerms   = fmt.Errorf("%w: invalid loan terms", apperr.ErrValidation)
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

type Type string

const (
	TypePersonal  Type = "personal"
	TypeHome      Type = "home"
	TypeCar       Type = "car"
	TypeEducation Type = "education"
	TypeBusiness  Type = "business"
)

func (t Type) Valid() bool {
	switch t {
	case TypePersonal, TypeHome, TypeCar, TypeEducation, TypeBusiness:
		return true
	}
	return false
}

// Table: loans
type Loan struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"-"`
	LoanID            string          `gorm:"size:32;not null;uniqueIndex:ux_loans_loan_id" json:"id"`
	UserID            string          `gorm:"size:32;not null;index:idx_loans_user_created,priority:1" json:"user_id"`
	LoanType          Type            `gorm:"size:16;not null" json:"loan_type"`
	Principal         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	TermMonths        int             `gorm:"column:term_months;not null" json:"term"`
	AnnualRatePercent decimal.Decimal `gorm:"column:interest_rate;type:decimal(6,3);not null" json:"interest_rate"`
	MonthlyPayment    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"monthly_payment"`
	EmploymentStatus  string          `gorm:"size:32;not null" json:"employment_status"`
	MonthlyIncome     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"monthly_income"`
	Purpose           string          `gorm:"type:text" json:"purpose"`
	Status            Status          `gorm:"size:16;not null;default:pending;index:idx_loans_status" json:"status"`
	AdminNotes        *string         `gorm:"type:text" json:"admin_notes"`
	ApprovedBy        *string         `gorm:"size:32" json:"approved_by"`
	ApprovedAt        *time.Time      `json:"approved_at"`
	CreatedAt         time.Time       `gorm:"autoCreateTime;index:idx_loans_user_created,priority:2" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// View is a loan joined with its owner, used by admin listings.
type View struct {
	Loan      `gorm:"embedded"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	UserPhone string `json:"user_phone,omitempty"`
}

// Decision is the single allowed transition out of pending.
type Decision struct {
	Status    Status
	Notes     *string
	DecidedBy string
	DecidedAt time.Time
}

func (d Decision) Validate() error {
	if d.Status != StatusApproved && d.Status != StatusRejected {
		return apperr.Validation("status must be one of approved, rejected")
	}
	if strings.TrimSpace(d.DecidedBy) == "" {
		return apperr.Validation("decision requires an admin id")
	}
	return nil
}

// Filter is the typed predicate for loan queries; zero value matches everything.
type Filter struct {
	UserID string
	Status Status
}

// ParseStatusFilter maps a query value to a status predicate.
// "" and "all" mean no restriction.
func ParseStatusFilter(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" || s == "all" {
		return "", nil
	}
	if !s.Valid() {
		return "", apperr.Validation("status must be one of all, pending, approved, rejected")
	}
	return s, nil
}

// StatusBucket is one row of a grouped count over loans.
type StatusBucket struct {
	Status    Status
	Count     int64
	Principal decimal.Decimal
}
