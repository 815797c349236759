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

type createTransactionRequest struct {
	WalletID    string          `json:"wallet_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Type        string          `json:"type" validate:"required,oneof=income expense loan_received loan_given"`
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Date        time.Time       `json:"date" validate:"required"`
}

func (a *API) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !a.decodeBody(w, r, &req) {
		return
	}

	tx, err := a.transactions.CreateTransaction(r.Context(), service.CreateTransactionParams{
		AccountID:   middleware.GetAccountID(r.Context()),
		WalletID:    req.WalletID,
		Amount:      req.Amount,
		Type:        models.TransactionType(req.Type),
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// listTransactions returns the account's transactions, optionally narrowed
// by type, category, free-text search, or a from/to date range (RFC 3339
// query params).
func (a *API) listTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := middleware.GetAccountID(ctx)
	q := r.URL.Query()

	var txs []models.Transaction
	var err error

	fromRaw := q.Get("from")
	toRaw := q.Get("to")
	if fromRaw != "" || toRaw != "" {
		from, perr := time.Parse(time.RFC3339, fromRaw)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid from date")
			return
		}
		to, perr := time.Parse(time.RFC3339, toRaw)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "invalid to date")
			return
		}
		txs, err = a.transactions.ListByDateRange(ctx, accountID, from, to)
	} else {
		txs, err = a.transactions.ListTransactions(ctx, accountID, service.TransactionFilter{
			Type:     models.TransactionType(q.Get("type")),
			Category: q.Get("category"),
			Search:   q.Get("search"),
		})
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (a *API) listWalletTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := a.transactions.ListByWallet(r.Context(),
		middleware.GetAccountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (a *API) getTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := a.transactions.GetTransaction(r.Context(),
		middleware.GetAccountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

type updateTransactionRequest struct {
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required"`
}

func (a *API) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if !a.decodeBody(w, r, &req) {
		return
	}

	tx, err := a.transactions.UpdateTransaction(r.Context(),
		middleware.GetAccountID(r.Context()), chi.URLParam(r, "id"),
		service.UpdateTransactionParams{
			Description: req.Description,
			Category:    req.Category,
		})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (a *API) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	err := a.transactions.DeleteTransaction(r.Context(),
		middleware.GetAccountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}
