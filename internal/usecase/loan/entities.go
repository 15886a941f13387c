package loan

import (
	"github.com/shopspring/decimal"
)

type SubmitInput struct {
	LoanType         string          `json:"loan_type"`
	Amount           decimal.Decimal `json:"amount"`
	Term             int             `json:"term"`
	EmploymentStatus string          `json:"employment_status"`
	MonthlyIncome    decimal.Decimal `json:"monthly_income"`
	Purpose          string          `json:"purpose"`
}

type DecideInput struct {
	Status     string  `json:"status"`
	AdminNotes *string `json:"admin_notes"`
}
