package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"loan-management-backend/internal/domain/access"
	domain "loan-management-backend/internal/domain/loan"
	"loan-management-backend/internal/usecase/loan"
)

type LoanService interface {
	Submit(ctx context.Context, p access.Principal, in loan.SubmitInput) (*domain.Loan, error)
	Decide(ctx context.Context, p access.Principal, loanID string, in loan.DecideInput) (*domain.Loan, error)
	Get(ctx context.Context, p access.Principal, loanID string) (*domain.View, error)
	ListMine(ctx context.Context, p access.Principal) ([]domain.Loan, error)
	ListAll(ctx context.Context, p access.Principal, rawStatus string) ([]domain.View, error)
}

type LoanHandler struct{ svc LoanService }

func NewLoanHandler(svc LoanService) *LoanHandler { return &LoanHandler{svc: svc} }

// Request DTO
type submitLoanRequest struct {
	LoanType         string          `json:"loan_type" validate:"required,oneof=personal home car education business"`
	Amount           decimal.Decimal `json:"amount" validate:"dgt0,dec2,dmax"`
	Term             int             `json:"term" validate:"gte=1,lte=480"`
	EmploymentStatus string          `json:"employment_status" validate:"required,max=32"`
	MonthlyIncome    decimal.Decimal `json:"monthly_income" validate:"dgt0,dec2,dmax"`
	Purpose          string          `json:"purpose" validate:"required,max=2000"`
}

type decideLoanRequest struct {
	Status     string  `json:"status" validate:"required,oneof=approved rejected"`
	AdminNotes *string `json:"admin_notes" validate:"omitempty,max=2000"`
}

// POST /api/loans
func (h *LoanHandler) Submit(c echo.Context) error {
	var req submitLoanRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	l, err := h.svc.Submit(c.Request().Context(), principal(c), loan.SubmitInput{
		LoanType:         req.LoanType,
		Amount:           req.Amount,
		Term:             req.Term,
		EmploymentStatus: req.EmploymentStatus,
		MonthlyIncome:    req.MonthlyIncome,
		Purpose:          req.Purpose,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Loan application submitted",
		"loan":    l,
	})
}

// GET /api/loans/my-loans
func (h *LoanHandler) ListMine(c echo.Context) error {
	out, err := h.svc.ListMine(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// GET /api/loans?status=
func (h *LoanHandler) ListAll(c echo.Context) error {
	out, err := h.svc.ListAll(c.Request().Context(), principal(c), c.QueryParam("status"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// GET /api/loans/:id
func (h *LoanHandler) Get(c echo.Context) error {
	v, err := h.svc.Get(c.Request().Context(), principal(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// PATCH /api/loans/:id/status
func (h *LoanHandler) Decide(c echo.Context) error {
	var req decideLoanRequest
	if err := decode(c, &req); err != nil {
		return err
	}
	l, err := h.svc.Decide(c.Request().Context(), principal(c), c.Param("id"), loan.DecideInput{
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Loan " + string(l.Status) + " successfully",
		"loan":    l,
	})
}
