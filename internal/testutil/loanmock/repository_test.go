package loanmock

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "loan-management-backend/internal/domain/loan"
)

func TestRepo_Create(t *testing.T) {
	ctx := context.Background()
	l := &domain.Loan{LoanID: "LN-1"}

	// Uses provided func
	called := false
	wantErr := errors.New("boom")
	m := &Repo{
		CreateFn: func(gotCtx context.Context, got *domain.Loan) error {
			called = true
			if gotCtx != ctx {
				t.Fatalf("Create ctx mismatch")
			}
			if got != l {
				t.Fatalf("Create arg mismatch")
			}
			return wantErr
		},
	}
	if err := m.Create(ctx, l); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("CreateFn not called")
	}

	// Default (nil func) → no-op, nil error
	m = &Repo{}
	if err := m.Create(ctx, l); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
}

func TestRepo_GetByLoanID(t *testing.T) {
	ctx := context.Background()
	want := &domain.Loan{LoanID: "LN-2"}

	called := false
	m := &Repo{
		GetByLoanIDFn: func(gotCtx context.Context, loanID string) (*domain.Loan, error) {
			called = true
			if loanID != "LN-2" {
				t.Fatalf("GetByLoanID loanID mismatch: got %s", loanID)
			}
			return want, nil
		},
	}
	got, err := m.GetByLoanID(ctx, "LN-2")
	if err != nil || got != want || !called {
		t.Fatalf("GetByLoanID: got=%+v err=%v called=%v", got, err, called)
	}

	// Default (nil func) → context.Canceled
	m = &Repo{}
	got, err = m.GetByLoanID(ctx, "LN-2")
	if err != context.Canceled || got != nil {
		t.Fatalf("GetByLoanID default: want nil, context.Canceled; got %+v, %v", got, err)
	}
}

func TestRepo_GetByLoanIDForUpdate(t *testing.T) {
	ctx := context.Background()
	want := &domain.Loan{LoanID: "LN-5"}

	m := &Repo{
		GetByLoanIDForUpdateFn: func(_ context.Context, loanID string) (*domain.Loan, error) {
			if loanID != "LN-5" {
				t.Fatalf("GetByLoanIDForUpdate loanID mismatch: got %s", loanID)
			}
			return want, nil
		},
	}
	got, err := m.GetByLoanIDForUpdate(ctx, "LN-5")
	if err != nil || got != want {
		t.Fatalf("GetByLoanIDForUpdate: got=%+v err=%v", got, err)
	}

	m = &Repo{}
	if got, err := m.GetByLoanIDForUpdate(ctx, "LN-5"); err != context.Canceled || got != nil {
		t.Fatalf("GetByLoanIDForUpdate default: got %+v, %v", got, err)
	}
}

func TestRepo_GetViewByLoanID(t *testing.T) {
	ctx := context.Background()
	want := &domain.View{Loan: domain.Loan{LoanID: "LN-6"}, UserName: "Jane"}

	m := &Repo{
		GetViewByLoanIDFn: func(context.Context, string) (*domain.View, error) { return want, nil },
	}
	if got, err := m.GetViewByLoanID(ctx, "LN-6"); err != nil || got != want {
		t.Fatalf("GetViewByLoanID: got=%+v err=%v", got, err)
	}

	m = &Repo{}
	if got, err := m.GetViewByLoanID(ctx, "LN-6"); err != context.Canceled || got != nil {
		t.Fatalf("GetViewByLoanID default: got %+v, %v", got, err)
	}
}

func TestRepo_DecidePending(t *testing.T) {
	ctx := context.Background()
	dec := domain.Decision{Status: domain.StatusApproved, DecidedBy: "adm", DecidedAt: time.Now().UTC()}

	m := &Repo{
		DecidePendingFn: func(_ context.Context, loanID string, d domain.Decision) (bool, error) {
			if loanID != "LN-7" || d.Status != domain.StatusApproved || d.DecidedBy != "adm" {
				t.Fatalf("DecidePending args mismatch: %s %+v", loanID, d)
			}
			return true, nil
		},
	}
	if ok, err := m.DecidePending(ctx, "LN-7", dec); !ok || err != nil {
		t.Fatalf("DecidePending: ok=%v err=%v", ok, err)
	}

	m = &Repo{}
	if ok, err := m.DecidePending(ctx, "LN-7", dec); ok || err != context.Canceled {
		t.Fatalf("DecidePending default: ok=%v err=%v", ok, err)
	}
}

func TestRepo_Listings(t *testing.T) {
	ctx := context.Background()
	f := domain.Filter{UserID: "U1", Status: domain.StatusPending}

	m := &Repo{
		ListFn: func(_ context.Context, got domain.Filter) ([]domain.Loan, error) {
			if got != f {
				t.Fatalf("List filter mismatch: %+v", got)
			}
			return []domain.Loan{{LoanID: "A"}}, nil
		},
		ListViewsFn: func(_ context.Context, got domain.Filter) ([]domain.View, error) {
			return []domain.View{{Loan: domain.Loan{LoanID: "B"}}}, nil
		},
		CountByStatusFn: func(_ context.Context, got domain.Filter) ([]domain.StatusBucket, error) {
			return []domain.StatusBucket{{Status: domain.StatusPending, Count: 2}}, nil
		},
	}
	if ls, err := m.List(ctx, f); err != nil || len(ls) != 1 || ls[0].LoanID != "A" {
		t.Fatalf("List: %+v %v", ls, err)
	}
	if vs, err := m.ListViews(ctx, f); err != nil || len(vs) != 1 || vs[0].LoanID != "B" {
		t.Fatalf("ListViews: %+v %v", vs, err)
	}
	if bs, err := m.CountByStatus(ctx, f); err != nil || len(bs) != 1 || bs[0].Count != 2 {
		t.Fatalf("CountByStatus: %+v %v", bs, err)
	}

	// Defaults are empty results
	m = &Repo{}
	if ls, err := m.List(ctx, f); err != nil || ls != nil {
		t.Fatalf("List default: %+v %v", ls, err)
	}
	if vs, err := m.ListViews(ctx, f); err != nil || vs != nil {
		t.Fatalf("ListViews default: %+v %v", vs, err)
	}
	if bs, err := m.CountByStatus(ctx, f); err != nil || bs != nil {
		t.Fatalf("CountByStatus default: %+v %v", bs, err)
	}
}
