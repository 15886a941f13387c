package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"loan-management-backend/internal/domain/access"
	domain "loan-management-backend/internal/domain/payment"
	"loan-management-backend/internal/usecase/payment"
)

type PaymentService interface {
	Pay(ctx context.Context, p access.Principal, in payment.PayInput) (*payment.Receipt, error)
	ListMine(ctx context.Context, p access.Principal) ([]domain.View, error)
	ListAll(ctx context.Context, p access.Principal) ([]domain.View, error)
}

type PaymentHandler struct{ svc PaymentService }

func NewPaymentHandler(svc PaymentService) *PaymentHandler { return &PaymentHandler{svc: svc} }

type createPaymentRequest struct {
	LoanID        string          `json:"loan_id" validate:"required,hex32"`
	Amount        decimal.Decimal `json:"amount" validate:"dgt0,dec2,dmax"`
	PaymentMethod string          `json:"payment_method" validate:"omitempty,oneof=bank_transfer debit_card credit_card upi"`
	Notes         *string         `json:"notes" validate:"omitempty,max=2000"`
}

// POST /api/payments
func (h *PaymentHandler) Create(c echo.Context) error {
	var req createPaymentRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	r, err := h.svc.Pay(c.Request().Context(), principal(c), payment.PayInput{
		LoanID:        req.LoanID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message":        "Payment successful",
		"payment_id":     r.PaymentID,
		"transaction_id": r.TransactionID,
	})
}

// GET /api/payments/my-payments
func (h *PaymentHandler) ListMine(c echo.Context) error {
	out, err := h.svc.ListMine(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// GET /api/payments
func (h *PaymentHandler) ListAll(c echo.Context) error {
	out, err := h.svc.ListAll(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
