package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lnvinh/moneykeeper/internal/calculator"
	"github.com/lnvinh/moneykeeper/internal/models"
	"github.com/lnvinh/moneykeeper/internal/storage"
)

// BillSplitService manages shared expenses and who has paid their part.
type BillSplitService struct {
	billSplits storage.BillSplitRepository
	now        func() time.Time
}

// NewBillSplitService creates a new BillSplitService with the given storage
// backend.
func NewBillSplitService(store storage.Store) *BillSplitService {
	return &BillSplitService{
		billSplits: store.BillSplits(),
		now:        time.Now,
	}
}

// BillParticipantParams describes one participant of a new bill split.
// Which fields matter depends on the split type: equal splits need only the
// name, percentage splits read Share, custom splits read Amount.
type BillParticipantParams struct {
	Name    string
	Contact string
	Share   decimal.Decimal
	Amount  decimal.Decimal
}

// CreateBillSplitParams carries the caller-supplied fields for
// CreateBillSplit.
type CreateBillSplitParams struct {
	AccountID    string
	Title        string
	Description  string
	TotalAmount  decimal.Decimal
	PayerID      string
	PayerName    string
	SplitType    models.SplitType
	Date         time.Time
	Participants []BillParticipantParams
}

// CreateBillSplit computes each participant's share per the split type and
// persists the bill.
func (s *BillSplitService) CreateBillSplit(ctx context.Context, p CreateBillSplitParams) (models.BillSplit, error) {
	inputs, err := resolveShares(p)
	if err != nil {
		return models.BillSplit{}, models.NewValidationError("%s", err)
	}

	bill, err := models.NewBillSplit(models.NewBillSplitParams{
		AccountID:    p.AccountID,
		Title:        p.Title,
		Description:  p.Description,
		TotalAmount:  p.TotalAmount,
		PayerID:      p.PayerID,
		PayerName:    p.PayerName,
		Participants: inputs,
		SplitType:    p.SplitType,
		Date:         p.Date,
	}, s.now())
	if err != nil {
		return models.BillSplit{}, err
	}

	if err := s.billSplits.Save(ctx, bill); err != nil {
		slog.Error("CreateBillSplit failed", "account_id", p.AccountID, "error", err)
		return models.BillSplit{}, err
	}
	slog.Info("Bill split created",
		"bill_id", bill.ID,
		"split_type", bill.SplitType,
		"participants", len(bill.Participants),
	)
	return bill, nil
}

// resolveShares turns the raw participant params into concrete amounts and
// percentages using the split calculator.
func resolveShares(p CreateBillSplitParams) ([]models.ParticipantInput, error) {
	var shares []calculator.Share
	var err error

	switch p.SplitType {
	case models.SplitEqual:
		names := make([]string, len(p.Participants))
		for i, in := range p.Participants {
			names[i] = in.Name
		}
		shares, err = calculator.EqualShares(p.TotalAmount, names)
	case models.SplitPercentage:
		inputs := make([]calculator.PercentInput, len(p.Participants))
		for i, in := range p.Participants {
			inputs[i] = calculator.PercentInput{Name: in.Name, Percent: in.Share}
		}
		shares, err = calculator.PercentageShares(p.TotalAmount, inputs)
	case models.SplitCustom:
		inputs := make([]calculator.AmountInput, len(p.Participants))
		for i, in := range p.Participants {
			inputs[i] = calculator.AmountInput{Name: in.Name, Amount: in.Amount}
		}
		shares, err = calculator.CustomShares(p.TotalAmount, inputs)
	default:
		return nil, models.NewValidationError("invalid split type %q", p.SplitType)
	}
	if err != nil {
		return nil, err
	}

	inputs := make([]models.ParticipantInput, len(shares))
	for i, share := range shares {
		inputs[i] = models.ParticipantInput{
			Name:    share.Name,
			Contact: p.Participants[i].Contact,
			Share:   share.Percent,
			Amount:  share.Amount,
		}
	}
	return inputs, nil
}

// GetBillSplit returns the bill split if it belongs to the account.
func (s *BillSplitService) GetBillSplit(ctx context.Context, accountID, billID string) (models.BillSplit, error) {
	bill, err := s.billSplits.FindByID(ctx, billID)
	if err != nil {
		return models.BillSplit{}, err
	}
	if bill.AccountID != accountID {
		return models.BillSplit{}, models.NewNotFoundError("bill split %s not found", billID)
	}
	return bill, nil
}

// ListBillSplits returns the account's bill splits, newest first.
func (s *BillSplitService) ListBillSplits(ctx context.Context, accountID string) ([]models.BillSplit, error) {
	return s.billSplits.FindByAccountID(ctx, accountID)
}

// ListUnsettled returns the account's unsettled bill splits, newest first.
func (s *BillSplitService) ListUnsettled(ctx context.Context, accountID string) ([]models.BillSplit, error) {
	return s.billSplits.FindUnsettled(ctx, accountID)
}

// UpdateParticipantPayment marks one participant paid or unpaid. The bill
// settles automatically once all participants have paid.
func (s *BillSplitService) UpdateParticipantPayment(ctx context.Context, accountID, billID, participantID string, paid bool) (models.BillSplit, error) {
	bill, err := s.GetBillSplit(ctx, accountID, billID)
	if err != nil {
		return models.BillSplit{}, err
	}

	updated, err := bill.UpdateParticipantPayment(participantID, paid, s.now())
	if err != nil {
		return models.BillSplit{}, err
	}
	if err := s.billSplits.Save(ctx, updated); err != nil {
		slog.Error("UpdateParticipantPayment failed", "bill_id", billID, "error", err)
		return models.BillSplit{}, err
	}
	return updated, nil
}

// SettleBillSplit force-settles a bill, marking all outstanding
// participants as paid.
func (s *BillSplitService) SettleBillSplit(ctx context.Context, accountID, billID string) (models.BillSplit, error) {
	bill, err := s.GetBillSplit(ctx, accountID, billID)
	if err != nil {
		return models.BillSplit{}, err
	}

	settled, err := bill.Settle(s.now())
	if err != nil {
		return models.BillSplit{}, err
	}
	if err := s.billSplits.Save(ctx, settled); err != nil {
		slog.Error("SettleBillSplit failed", "bill_id", billID, "error", err)
		return models.BillSplit{}, err
	}
	slog.Info("Bill split settled", "bill_id", billID)
	return settled, nil
}

// DeleteBillSplit removes a bill split and its participants.
func (s *BillSplitService) DeleteBillSplit(ctx context.Context, accountID, billID string) error {
	if _, err := s.GetBillSplit(ctx, accountID, billID); err != nil {
		return err
	}
	if err := s.billSplits.Delete(ctx, billID); err != nil {
		slog.Error("DeleteBillSplit failed", "bill_id", billID, "error", err)
		return err
	}
	return nil
}
