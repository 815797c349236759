package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/lnvinh/moneykeeper/internal/middleware"
	"github.com/lnvinh/moneykeeper/internal/models"
	"github.com/lnvinh/moneykeeper/internal/service"
)

type createWalletRequest struct {
	Name     string          `json:"name" validate:"required"`
	Type     string          `json:"type" validate:"required,oneof=cash bank e-wallet"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency" validate:"required,oneof=VND USD EUR"`
	BankInfo string          `json:"bank_info"`
	Color    string          `json:"color"`
}

type renameWalletRequest struct {
	Name string `json:"name" validate:"required"`
}

func (a *API) createWallet(w http.ResponseWriter, r *http.Request) {
	var req createWalletRequest
	if !a.decodeBody(w, r, &req) {
		return
	}

	wallet, err := a.wallets.CreateWallet(r.Context(), service.CreateWalletParams{
		AccountID: middleware.GetAccountID(r.Context()),
		Name:      req.Name,
		Type:      models.WalletType(req.Type),
		Balance:   req.Balance,
		Currency:  models.Currency(req.Currency),
		BankInfo:  req.BankInfo,
		Color:     req.Color,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wallet)
}

func (a *API) listWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := a.wallets.ListWallets(r.Context(), middleware.GetAccountID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if wallets == nil {
		wallets = []models.Wallet{}
	}
	writeJSON(w, http.StatusOK, wallets)
}

func (a *API) getWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := a.wallets.GetWallet(r.Context(),
		middleware.GetAccountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (a *API) totalBalance(w http.ResponseWriter, r *http.Request) {
	total, err := a.wallets.TotalBalance(r.Context(), middleware.GetAccountID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"total_balance": total})
}

func (a *API) renameWallet(w http.ResponseWriter, r *http.Request) {
	var req renameWalletRequest
	if !a.decodeBody(w, r, &req) {
		return
	}

	wallet, err := a.wallets.RenameWallet(r.Context(),
		middleware.GetAccountID(r.Context()), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (a *API) deleteWallet(w http.ResponseWriter, r *http.Request) {
	err := a.wallets.DeleteWallet(r.Context(),
		middleware.GetAccountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}
