package stats

import (
	"github.com/shopspring/decimal"

	"loan-management-backend/internal/domain/loan"
)

// LoanTotals is the per-status fold both dashboards are built from.
type LoanTotals struct {
	Count     int64
	Principal decimal.Decimal
	ByStatus  map[loan.Status]loan.StatusBucket
}

// Fold sums buckets into totals. Statuses absent from buckets count as zero.
func Fold(buckets []loan.StatusBucket) LoanTotals {
	t := LoanTotals{Principal: decimal.Zero, ByStatus: make(map[loan.Status]loan.StatusBucket, len(buckets))}
	for _, b := range buckets {
		t.Count += b.Count
		t.Principal = t.Principal.Add(b.Principal)

		acc := t.ByStatus[b.Status]
		acc.Status = b.Status
		acc.Count += b.Count
		acc.Principal = acc.Principal.Add(b.Principal)
		t.ByStatus[b.Status] = acc
	}
	t.Principal = t.Principal.Round(2)
	return t
}

func (t LoanTotals) count(s loan.Status) int64 { return t.ByStatus[s].Count }

func (t LoanTotals) principal(s loan.Status) decimal.Decimal {
	return t.ByStatus[s].Principal.Round(2)
}

func ForUser(t LoanTotals, paid decimal.Decimal) UserStats {
	return UserStats{
		TotalLoans:    t.Count,
		ActiveLoans:   t.count(loan.StatusApproved),
		PendingLoans:  t.count(loan.StatusPending),
		TotalAmount:   t.Principal,
		TotalPayments: paid.Round(2),
	}
}

func ForAdmin(t LoanTotals, users int64, paid decimal.Decimal) AdminStats {
	return AdminStats{
		TotalApplications:    t.Count,
		PendingApplications:  t.count(loan.StatusPending),
		ApprovedApplications: t.count(loan.StatusApproved),
		RejectedApplications: t.count(loan.StatusRejected),
		TotalUsers:           users,
		TotalDisbursed:       t.principal(loan.StatusApproved),
		TotalRequested:       t.Principal,
		TotalPayments:        paid.Round(2),
	}
}
