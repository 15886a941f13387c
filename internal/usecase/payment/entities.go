package payment

import "github.com/shopspring/decimal"

type PayInput struct {
	LoanID        string          `json:"loan_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Notes         *string         `json:"notes"`
}

type Receipt struct {
	PaymentID     string `json:"payment_id"`
	TransactionID string `json:"transaction_id"`
}
