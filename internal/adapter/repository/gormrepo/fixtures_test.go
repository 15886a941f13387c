package gormrepo

import (
	"testing"
	"time"

	loanDomain "loan-management-backend/internal/domain/loan"
	paymentDomain "loan-management-backend/internal/domain/payment"
	userDomain "loan-management-backend/internal/domain/user"
	"loan-management-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedUser(t *testing.T, db *gorm.DB, name string, role userDomain.Role, at time.Time) *userDomain.User {
	t.Helper()
	u := &userDomain.User{
		UserID:       id.NewID32(),
		Name:         name,
		Email:        name + "@loan.test",
		PasswordHash: "x",
		Phone:        "555",
		Role:         role,
		CreatedAt:    at,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func makeLoan(userID string, principal string, status loanDomain.Status, at time.Time) *loanDomain.Loan {
	return &loanDomain.Loan{
		LoanID:            id.NewID32(),
		UserID:            userID,
		LoanType:          loanDomain.TypePersonal,
		Principal:         dec(principal),
		TermMonths:        12,
		AnnualRatePercent: loanDomain.DefaultAnnualRatePercent,
		MonthlyPayment:    dec("100.00"),
		EmploymentStatus:  "employed",
		MonthlyIncome:     dec("4000"),
		Purpose:           "test",
		Status:            status,
		CreatedAt:         at,
	}
}

func seedLoan(t *testing.T, db *gorm.DB, userID, principal string, status loanDomain.Status, at time.Time) *loanDomain.Loan {
	t.Helper()
	l := makeLoan(userID, principal, status, at)
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l
}

func seedPayment(t *testing.T, db *gorm.DB, l *loanDomain.Loan, amount string, at time.Time) *paymentDomain.Payment {
	t.Helper()
	p := &paymentDomain.Payment{
		PaymentID:     id.NewID32(),
		LoanID:        l.LoanID,
		UserID:        l.UserID,
		Amount:        dec(amount),
		PaymentMethod: paymentDomain.MethodBankTransfer,
		TransactionID: id.NewTransactionID(),
		Status:        paymentDomain.StatusCompleted,
		CreatedAt:     at,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}
	return p
}
