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

type billParticipantRequest struct {
	Name    string          `json:"name" validate:"required"`
	Contact string          `json:"contact"`
	Share   decimal.Decimal `json:"share"`
	Amount  decimal.Decimal `json:"amount"`
}

type createBillSplitRequest struct {
	Title        string                   `json:"title" validate:"required"`
	Description  string                   `json:"description"`
	TotalAmount  decimal.Decimal          `json:"total_amount" validate:"required"`
	PayerName    string                   `json:"payer_name" validate:"required"`
	SplitType    string                   `json:"split_type" validate:"required,oneof=equal custom percentage"`
	Date         time.Time                `json:"date" validate:"required"`
	Participants []billParticipantRequest `json:"participants" validate:"required,min=1,dive"`
}

type participantPaymentRequest struct {
	Paid *bool `json:"paid" validate:"required"`
}

func (a *API) createBillSplit(w http.ResponseWriter, r *http.Request) {
	var req createBillSplitRequest
	if !a.decodeBody(w, r, &req) {
		return
	}

	accountID := middleware.GetAccountID(r.Context())
	participants := make([]service.BillParticipantParams, len(req.Participants))
	for i, p := range req.Participants {
		participants[i] = service.BillParticipantParams{
			Name:    p.Name,
			Contact: p.Contact,
			Share:   p.Share,
			Amount:  p.Amount,
		}
	}

	bill, err := a.billSplits.CreateBillSplit(r.Context(), service.CreateBillSplitParams{
		AccountID:    accountID,
		Title:        req.Title,
		Description:  req.Description,
		TotalAmount:  req.TotalAmount,
		PayerID:      accountID,
		PayerName:    req.PayerName,
		SplitType:    models.SplitType(req.SplitType),
		Date:         req.Date,
		Participants: participants,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bill)
}

func (a *API) listBillSplits(w http.ResponseWriter, r *http.Request) {
	bills, err := a.billSplits.ListBillSplits(r.Context(), middleware.GetAccountID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if bills == nil {
		bills = []models.BillSplit{}
	}
	writeJSON(w, http.StatusOK, bills)
}

func (a *API) listUnsettledBillSplits(w http.ResponseWriter, r *http.Request) {
	bills, err := a.billSplits.ListUnsettled(r.Context(), middleware.GetAccountID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if bills == nil {
		bills = []models.BillSplit{}
	}
	writeJSON(w, http.StatusOK, bills)
}

func (a *API) getBillSplit(w http.ResponseWriter, r *http.Request) {
	bill, err := a.billSplits.GetBillSplit(r.Context(),
		middleware.GetAccountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (a *API) updateParticipantPayment(w http.ResponseWriter, r *http.Request) {
	var req participantPaymentRequest
	if !a.decodeBody(w, r, &req) {
		return
	}

	bill, err := a.billSplits.UpdateParticipantPayment(r.Context(),
		middleware.GetAccountID(r.Context()),
		chi.URLParam(r, "id"),
		chi.URLParam(r, "participantID"),
		*req.Paid,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (a *API) settleBillSplit(w http.ResponseWriter, r *http.Request) {
	bill, err := a.billSplits.SettleBillSplit(r.Context(),
		middleware.GetAccountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (a *API) deleteBillSplit(w http.ResponseWriter, r *http.Request) {
	err := a.billSplits.DeleteBillSplit(r.Context(),
		middleware.GetAccountID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}
