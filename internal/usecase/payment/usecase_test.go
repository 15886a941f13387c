package payment

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"

	"loan-management-backend/internal/adapter/repository/gormrepo"
	"loan-management-backend/internal/domain/access"
	"loan-management-backend/internal/domain/apperr"
	"loan-management-backend/internal/domain/loan"
	domain "loan-management-backend/internal/domain/payment"
	"loan-management-backend/internal/domain/uow"
	"loan-management-backend/internal/domain/user"
	"loan-management-backend/internal/testutil/loanmock"
	"loan-management-backend/internal/testutil/paymentmock"
	"loan-management-backend/internal/testutil/testdb"
	"loan-management-backend/internal/testutil/uowmock"
	"loan-management-backend/pkg/id"
)

var (
	alice = access.Principal{ID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Role: user.RoleUser}
	bob   = access.Principal{ID: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", Role: user.RoleUser}
	admin = access.Principal{ID: "cccccccccccccccccccccccccccccccc", Role: user.RoleAdmin}

	txnPattern = regexp.MustCompile(`^TXN[0-9A-F]{32}$`)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedLoan(t *testing.T, db *gorm.DB, owner string, status loan.Status) *loan.Loan {
	t.Helper()
	l := &loan.Loan{
		LoanID:            id.NewID32(),
		UserID:            owner,
		LoanType:          loan.TypeCar,
		Principal:         dec("5000"),
		TermMonths:        24,
		AnnualRatePercent: loan.DefaultAnnualRatePercent,
		MonthlyPayment:    dec("227.28"),
		EmploymentStatus:  "employed",
		MonthlyIncome:     dec("3000"),
		Status:            status,
	}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return l
}

func storeUsecase(t *testing.T) (*Usecase, *gorm.DB) {
	db := testdb.Open(t)
	return NewUsecase(gormrepo.NewPaymentRepository(db), gormrepo.NewGormUoW(db), nil), db
}

func TestPay_ApprovedOwnLoan(t *testing.T) {
	uc, db := storeUsecase(t)
	ctx := context.Background()
	l := seedLoan(t, db, alice.ID, loan.StatusApproved)

	rec, err := uc.Pay(ctx, alice, PayInput{LoanID: l.LoanID, Amount: dec("227.28")})
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if len(rec.PaymentID) != 32 || !txnPattern.MatchString(rec.TransactionID) {
		t.Fatalf("unexpected receipt: %+v", rec)
	}

	stored, err := gormrepo.NewPaymentRepository(db).GetByTransactionID(ctx, rec.TransactionID)
	if err != nil {
		t.Fatalf("stored payment: %v", err)
	}
	if stored.UserID != alice.ID || stored.LoanID != l.LoanID {
		t.Fatalf("payment ownership mismatch: %+v", stored)
	}
	if stored.PaymentMethod != domain.MethodBankTransfer || stored.Status != domain.StatusCompleted {
		t.Fatalf("defaults not applied: %+v", stored)
	}
	if !stored.Amount.Equal(dec("227.28")) {
		t.Fatalf("amount = %s", stored.Amount)
	}
}

func TestPay_IneligibleLoans(t *testing.T) {
	uc, db := storeUsecase(t)
	ctx := context.Background()
	pending := seedLoan(t, db, alice.ID, loan.StatusPending)
	rejected := seedLoan(t, db, alice.ID, loan.StatusRejected)
	foreign := seedLoan(t, db, bob.ID, loan.StatusApproved)

	cases := map[string]string{
		"pending":  pending.LoanID,
		"rejected": rejected.LoanID,
		"foreign":  foreign.LoanID,
		"missing":  "ffffffffffffffffffffffffffffffff",
	}
	for name, loanID := range cases {
		_, err := uc.Pay(ctx, alice, PayInput{LoanID: loanID, Amount: dec("10")})
		if !errors.Is(err, domain.ErrInvalidLoan) {
			t.Fatalf("%s: want ErrInvalidLoan, got %v", name, err)
		}
		if apperr.KindOf(err) != apperr.KindInvalidLoan {
			t.Fatalf("%s: wrong kind %d", name, apperr.KindOf(err))
		}
	}

	var n int64
	if err := db.Model(&domain.Payment{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("no payment should be stored, found %d", n)
	}
}

func TestPay_InputValidation(t *testing.T) {
	uc := NewUsecase(&paymentmock.Repo{}, uowmock.New(), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		p    access.Principal
		in   PayInput
		kind apperr.Kind
	}{
		{"admin may not pay", admin, PayInput{LoanID: "x", Amount: dec("1")}, apperr.KindForbidden},
		{"missing loan id", alice, PayInput{Amount: dec("1")}, apperr.KindValidation},
		{"zero amount", alice, PayInput{LoanID: "x", Amount: decimal.Zero}, apperr.KindValidation},
		{"negative amount", alice, PayInput{LoanID: "x", Amount: dec("-3")}, apperr.KindValidation},
		{"amount above limit", alice, PayInput{LoanID: "x", Amount: dec("10000000000000")}, apperr.KindValidation},
		{"unknown method", alice, PayInput{LoanID: "x", Amount: dec("1"), PaymentMethod: "cash"}, apperr.KindValidation},
	}
	for _, tt := range tests {
		if _, err := uc.Pay(ctx, tt.p, tt.in); apperr.KindOf(err) != tt.kind {
			t.Fatalf("%s: want kind %d, got %v", tt.name, tt.kind, err)
		}
	}
}

func TestPay_MethodAndNotesForwarded(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	l := &loan.Loan{LoanID: "L1", UserID: alice.ID, Status: loan.StatusApproved}
	var created *domain.Payment
	pays := &paymentmock.Repo{
		CreateFn: func(_ context.Context, p *domain.Payment) error {
			created = p
			return nil
		},
	}
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(context.Context, string) (*loan.Loan, error) { return l, nil },
	}
	uc := NewUsecase(pays, uowmock.Passthrough(uow.Repos{Loans: loans, Payments: pays}), logger)

	notes := "first installment"
	rec, err := uc.Pay(context.Background(), alice, PayInput{LoanID: " L1 ", Amount: dec("50"), PaymentMethod: "UPI", Notes: &notes})
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if created == nil || created.PaymentMethod != domain.MethodUPI || created.Notes != &notes || created.LoanID != "L1" {
		t.Fatalf("payment not built from input: %+v", created)
	}
	if rec.TransactionID != created.TransactionID {
		t.Fatal("receipt must echo the stored transaction id")
	}
	if e := hook.LastEntry(); e == nil || e.Message != "payment recorded" {
		t.Fatalf("expected 'payment recorded' log, got %+v", e)
	}
}

func TestPay_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("insert failed")
	l := &loan.Loan{LoanID: "L1", UserID: alice.ID, Status: loan.StatusApproved}
	pays := &paymentmock.Repo{CreateFn: func(context.Context, *domain.Payment) error { return boom }}
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(context.Context, string) (*loan.Loan, error) { return l, nil },
	}
	uc := NewUsecase(pays, uowmock.Passthrough(uow.Repos{Loans: loans, Payments: pays}), nil)
	if _, err := uc.Pay(context.Background(), alice, PayInput{LoanID: "L1", Amount: dec("5")}); !errors.Is(err, boom) {
		t.Fatalf("want store error, got %v", err)
	}
}

func TestTransactionIDsUniqueAcrossPayments(t *testing.T) {
	uc, db := storeUsecase(t)
	ctx := context.Background()
	l := seedLoan(t, db, alice.ID, loan.StatusApproved)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		rec, err := uc.Pay(ctx, alice, PayInput{LoanID: l.LoanID, Amount: dec("1")})
		if err != nil {
			t.Fatalf("Pay #%d: %v", i, err)
		}
		if seen[rec.TransactionID] {
			t.Fatalf("duplicate transaction id %s", rec.TransactionID)
		}
		seen[rec.TransactionID] = true
	}
}

func TestListings(t *testing.T) {
	uc, db := storeUsecase(t)
	ctx := context.Background()
	mine := seedLoan(t, db, alice.ID, loan.StatusApproved)
	theirs := seedLoan(t, db, bob.ID, loan.StatusApproved)
	if _, err := uc.Pay(ctx, alice, PayInput{LoanID: mine.LoanID, Amount: dec("10")}); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Pay(ctx, bob, PayInput{LoanID: theirs.LoanID, Amount: dec("20")}); err != nil {
		t.Fatal(err)
	}

	got, err := uc.ListMine(ctx, alice)
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(got) != 1 || got[0].UserID != alice.ID || got[0].LoanType != string(loan.TypeCar) {
		t.Fatalf("ListMine should only return alice's payment with loan info: %+v", got)
	}
	if !got[0].LoanAmount.Equal(dec("5000")) {
		t.Fatalf("loan amount = %s", got[0].LoanAmount)
	}

	if _, err := uc.ListAll(ctx, alice); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("user ListAll: want Forbidden, got %v", err)
	}
	all, err := uc.ListAll(ctx, admin)
	if err != nil || len(all) != 2 {
		t.Fatalf("admin ListAll: %d rows, err %v", len(all), err)
	}

	empty, err := NewUsecase(&paymentmock.Repo{}, nil, nil).ListMine(ctx, bob)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("empty listing should be non-nil: %#v %v", empty, err)
	}
}
