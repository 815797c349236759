package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lnvinh/moneykeeper/internal/auth"
	"github.com/lnvinh/moneykeeper/internal/middleware"
	"github.com/lnvinh/moneykeeper/internal/models"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Account *models.Account `json:"account"`
	Token   string          `json:"token"`
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !a.decodeBody(w, r, &req) {
		return
	}

	account, err := a.authenticator.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		slog.Warn("Registration failed", "email", req.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidCredentials):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	token, err := a.jwtManager.Generate(account)
	if err != nil {
		slog.Error("Failed to generate token", "account_id", account.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	slog.Info("Account registered", "account_id", account.ID, "email", account.Email)
	writeJSON(w, http.StatusCreated, sessionResponse{Account: account, Token: token})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !a.decodeBody(w, r, &req) {
		return
	}

	account, err := a.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("Login failed", "email", req.Email)
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	token, err := a.jwtManager.Generate(account)
	if err != nil {
		slog.Error("Failed to generate token", "account_id", account.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	slog.Info("Account logged in", "account_id", account.ID)
	writeJSON(w, http.StatusOK, sessionResponse{Account: account, Token: token})
}

func (a *API) currentAccount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"account_id": middleware.GetAccountID(r.Context()),
		"email":      middleware.GetEmail(r.Context()),
	})
}
