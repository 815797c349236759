package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/lnvinh/moneykeeper/internal/middleware"
	"github.com/lnvinh/moneykeeper/internal/models"
	"github.com/lnvinh/moneykeeper/internal/service"
)

type createLoanRequest struct {
	Type               string          `json:"type" validate:"required,oneof=lent borrowed"`
	Counterpart        string          `json:"counterpart" validate:"required"`
	CounterpartContact string          `json:"counterpart_contact"`
	Amount             decimal.Decimal `json:"amount" validate:"required"`
	InterestRate       decimal.Decimal `json:"interest_rate"`
	StartDate          time.Time       `json:"start_date" validate:"required"`
	DueDate            time.Time       `json:"due_date" validate:"required"`
	Description        string          `json:"description" validate:"required"`
}

type loanPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

func (a *API) createLoan(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if !a.decodeBody(w, r, &req) {
		return
	}

	loan, err := a.loans.CreateLoan(r.Context(), service.CreateLoanParams{
		AccountID:          middleware.GetAccountID(r.Context()),
		Type:               models.LoanType(req.Type),
		Counterpart:        req.Counterpart,
		CounterpartContact: req.CounterpartContact,
		Amount:             req.Amount,
		InterestRate:       req.InterestRate,
		StartDate:          req.StartDate,
		DueDate:            req.DueDate,
		Description:        req.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, loan)
}

// listLoans supports query filters: type=lent|borrowed, overdue=true and
// free-text search.
func (a *API) listLoans(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.LoanFilter{
		Type:        models.LoanType(q.Get("type")),
		OverdueOnly: q.Get("overdue") == "true",
		Search:      q.Get("search"),
	}

	loans, err := a.loans.ListLoans(r.Context(), middleware.GetAccountID(r.Context()), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if loans == nil {
		loans = []models.Loan{}
	}
	writeJSON(w, http.StatusOK, loans)
}

func (a *API) getLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := a.loans.GetLoan(r.Context(),
		middleware.GetAccountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (a *API) loanSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.loans.Summarize(r.Context(), middleware.GetAccountID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (a *API) makeLoanPayment(w http.ResponseWriter, r *http.Request) {
	var req loanPaymentRequest
	if !a.decodeBody(w, r, &req) {
		return
	}

	loan, err := a.loans.MakeLoanPayment(r.Context(),
		middleware.GetAccountID(r.Context()), chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

func (a *API) deleteLoan(w http.ResponseWriter, r *http.Request) {
	err := a.loans.DeleteLoan(r.Context(),
		middleware.GetAccountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}
