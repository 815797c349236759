// Package handlers exposes the services over a JSON REST API.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lnvinh/moneykeeper/internal/auth"
	"github.com/lnvinh/moneykeeper/internal/middleware"
	"github.com/lnvinh/moneykeeper/internal/models"
	"github.com/lnvinh/moneykeeper/internal/service"
)

// Response is the standard JSON envelope for all API responses.
type Response struct {
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// API bundles the services behind the HTTP surface.
type API struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	wallets       *service.WalletService
	transactions  *service.TransactionService
	billSplits    *service.BillSplitService
	loans         *service.LoanService
	validate      *validator.Validate
}

// New creates the API over the given services.
func New(
	authenticator auth.Authenticator,
	jwtManager *auth.JWTManager,
	wallets *service.WalletService,
	transactions *service.TransactionService,
	billSplits *service.BillSplitService,
	loans *service.LoanService,
) *API {
	return &API{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		wallets:       wallets,
		transactions:  transactions,
		billSplits:    billSplits,
		loans:         loans,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes mounts all API routes on the router. Everything except
// registration and login requires a valid bearer token.
func (a *API) Routes(r chi.Router) {
	r.Post("/auth/register", a.register)
	r.Post("/auth/login", a.login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(a.jwtManager))

		r.Get("/auth/me", a.currentAccount)

		r.Get("/wallets", a.listWallets)
		r.Post("/wallets", a.createWallet)
		r.Get("/wallets/total", a.totalBalance)
		r.Get("/wallets/{id}", a.getWallet)
		r.Put("/wallets/{id}", a.renameWallet)
		r.Delete("/wallets/{id}", a.deleteWallet)
		r.Get("/wallets/{id}/transactions", a.listWalletTransactions)

		r.Get("/transactions", a.listTransactions)
		r.Post("/transactions", a.createTransaction)
		r.Get("/transactions/{id}", a.getTransaction)
		r.Put("/transactions/{id}", a.updateTransaction)
		r.Delete("/transactions/{id}", a.deleteTransaction)

		r.Get("/bill-splits", a.listBillSplits)
		r.Post("/bill-splits", a.createBillSplit)
		r.Get("/bill-splits/unsettled", a.listUnsettledBillSplits)
		r.Get("/bill-splits/{id}", a.getBillSplit)
		r.Delete("/bill-splits/{id}", a.deleteBillSplit)
		r.Put("/bill-splits/{id}/participants/{participantID}", a.updateParticipantPayment)
		r.Post("/bill-splits/{id}/settle", a.settleBillSplit)

		r.Get("/loans", a.listLoans)
		r.Post("/loans", a.createLoan)
		r.Get("/loans/summary", a.loanSummary)
		r.Get("/loans/{id}", a.getLoan)
		r.Delete("/loans/{id}", a.deleteLoan)
		r.Post("/loans/{id}/payments", a.makeLoanPayment)
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Data: data})
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Error: msg})
}

// writeDomainError maps a domain error kind to an HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	switch models.KindOf(err) {
	case models.KindValidation:
		writeError(w, http.StatusBadRequest, err.Error())
	case models.KindNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case models.KindInvalidState:
		writeError(w, http.StatusConflict, err.Error())
	case models.KindInsufficientBalance:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("Unhandled error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody decodes and validates the request body into dst. It writes the
// error response itself and reports whether decoding succeeded.
func (a *API) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	if err := a.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
