package stats

import "github.com/shopspring/decimal"

type UserStats struct {
	TotalLoans    int64           `json:"totalLoans"`
	ActiveLoans   int64           `json:"activeLoans"`
	PendingLoans  int64           `json:"pendingLoans"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalPayments decimal.Decimal `json:"totalPayments"`
}

type AdminStats struct {
	TotalApplications    int64           `json:"totalApplications"`
	PendingApplications  int64           `json:"pendingApplications"`
	ApprovedApplications int64           `json:"approvedApplications"`
	RejectedApplications int64           `json:"rejectedApplications"`
	TotalUsers           int64           `json:"totalUsers"`
	TotalDisbursed       decimal.Decimal `json:"totalDisbursed"`
	TotalRequested       decimal.Decimal `json:"totalRequested"`
	TotalPayments        decimal.Decimal `json:"totalPayments"`
}
