package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SplitType describes how a bill's total was divided among participants.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitCustom     SplitType = "custom"
	SplitPercentage SplitType = "percentage"
)

// Valid reports whether s is a known split type.
func (s SplitType) Valid() bool {
	switch s {
	case SplitEqual, SplitCustom, SplitPercentage:
		return true
	}
	return false
}

// ShareTolerance is the maximum allowed difference between the sum of
// participant amounts and the bill total. Covers rounding drift when shares
// are derived from percentages or equal division.
var ShareTolerance = decimal.RequireFromString("0.01")

// Participant is one person's share of a bill split. Participants are
// addressed by their stable ID; the name is display-only and may repeat
// within a bill.
type Participant struct {
	// ID is the stable identifier assigned at bill creation (UUID format).
	ID string `json:"id"`

	// Name is the display name of the participant.
	Name string `json:"name"`

	// Contact is an optional phone/email for reminders.
	Contact string `json:"contact,omitempty"`

	// Share is this participant's percentage of the total, 0..100.
	Share decimal.Decimal `json:"share"`

	// Amount is this participant's absolute share of the total.
	Amount decimal.Decimal `json:"amount"`

	// Paid reports whether this participant has settled their share.
	Paid bool `json:"paid"`

	// PaidAt is when the share was marked paid; nil while unpaid.
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

// ParticipantInput carries the caller-supplied fields for one participant.
type ParticipantInput struct {
	Name    string
	Contact string
	Share   decimal.Decimal
	Amount  decimal.Decimal
}

// BillSplit is a multi-participant expense with per-participant payment
// tracking. Settled is recomputed from participant state on every payment
// update; Settle is the only operation that forces it. Methods return a
// modified copy with a fresh participant slice; the receiver is never
// mutated.
type BillSplit struct {
	// ID is the unique identifier for the bill split (UUID format).
	ID string `json:"id"`

	// AccountID is the owning account.
	AccountID string `json:"account_id"`

	// Title is the human-readable name for the bill.
	Title string `json:"title"`

	// Description is an optional longer note.
	Description string `json:"description,omitempty"`

	// TotalAmount is the full bill amount. Invariant: the participant
	// amounts sum to this within ShareTolerance.
	TotalAmount decimal.Decimal `json:"total_amount"`

	// PayerID identifies who fronted the bill.
	PayerID string `json:"payer_id"`

	// PayerName is the payer's display name.
	PayerName string `json:"payer_name"`

	// Participants are the people splitting the bill. Never empty.
	Participants []Participant `json:"participants"`

	// SplitType records how the shares were derived.
	SplitType SplitType `json:"split_type"`

	// Date is when the bill was incurred.
	Date time.Time `json:"date"`

	// Settled is true exactly when every participant has paid.
	Settled bool `json:"settled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBillSplitParams carries the caller-supplied fields for NewBillSplit.
type NewBillSplitParams struct {
	AccountID    string
	Title        string
	Description  string
	TotalAmount  decimal.Decimal
	PayerID      string
	PayerName    string
	Participants []ParticipantInput
	SplitType    SplitType
	Date         time.Time
}

// NewBillSplit validates the parameters and constructs an unsettled bill
// split. Every participant starts unpaid and receives a stable ID.
func NewBillSplit(p NewBillSplitParams, now time.Time) (BillSplit, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return BillSplit{}, NewValidationError("bill split title is required")
	}
	if p.AccountID == "" {
		return BillSplit{}, NewValidationError("account id is required")
	}
	if !p.TotalAmount.IsPositive() {
		return BillSplit{}, NewValidationError("total amount must be positive")
	}
	if p.PayerID == "" {
		return BillSplit{}, NewValidationError("payer is required")
	}
	if !p.SplitType.Valid() {
		return BillSplit{}, NewValidationError("invalid split type %q", p.SplitType)
	}
	if len(p.Participants) == 0 {
		return BillSplit{}, NewValidationError("at least one participant is required")
	}

	hundred := decimal.NewFromInt(100)
	sum := decimal.Zero
	participants := make([]Participant, len(p.Participants))
	for i, in := range p.Participants {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return BillSplit{}, NewValidationError("participant name is required")
		}
		if in.Amount.IsNegative() {
			return BillSplit{}, NewValidationError("participant amount cannot be negative")
		}
		if in.Share.IsNegative() || in.Share.GreaterThan(hundred) {
			return BillSplit{}, NewValidationError("participant share must be between 0 and 100")
		}
		sum = sum.Add(in.Amount)
		participants[i] = Participant{
			ID:      uuid.New().String(),
			Name:    name,
			Contact: strings.TrimSpace(in.Contact),
			Share:   in.Share,
			Amount:  in.Amount,
		}
	}

	if sum.Sub(p.TotalAmount).Abs().GreaterThan(ShareTolerance) {
		return BillSplit{}, NewValidationError(
			"participant amounts (%s) must equal bill total (%s)", sum, p.TotalAmount,
		)
	}

	return BillSplit{
		ID:           uuid.New().String(),
		AccountID:    p.AccountID,
		Title:        title,
		Description:  strings.TrimSpace(p.Description),
		TotalAmount:  p.TotalAmount,
		PayerID:      p.PayerID,
		PayerName:    strings.TrimSpace(p.PayerName),
		Participants: participants,
		SplitType:    p.SplitType,
		Date:         p.Date,
		Settled:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// copyParticipants clones the participant slice so updates never alias the
// receiver's backing array.
func (b BillSplit) copyParticipants() []Participant {
	out := make([]Participant, len(b.Participants))
	copy(out, b.Participants)
	return out
}

// UpdateParticipantPayment returns a copy with the identified participant's
// paid flag set. Settled is recomputed as "every participant paid".
func (b BillSplit) UpdateParticipantPayment(participantID string, paid bool, now time.Time) (BillSplit, error) {
	participants := b.copyParticipants()
	found := false
	for i := range participants {
		if participants[i].ID != participantID {
			continue
		}
		found = true
		participants[i].Paid = paid
		if paid {
			paidAt := now
			participants[i].PaidAt = &paidAt
		} else {
			participants[i].PaidAt = nil
		}
	}
	if !found {
		return BillSplit{}, NewNotFoundError("participant %s not found in bill split %s", participantID, b.ID)
	}

	b.Participants = participants
	b.Settled = allPaid(participants)
	b.UpdatedAt = now
	return b, nil
}

// Settle returns a copy with every participant marked paid and the bill
// settled. Participants that already paid keep their original paid date.
func (b BillSplit) Settle(now time.Time) (BillSplit, error) {
	if b.Settled {
		return BillSplit{}, NewInvalidStateError("bill split %s is already settled", b.ID)
	}

	participants := b.copyParticipants()
	for i := range participants {
		participants[i].Paid = true
		if participants[i].PaidAt == nil {
			paidAt := now
			participants[i].PaidAt = &paidAt
		}
	}

	b.Participants = participants
	b.Settled = true
	b.UpdatedAt = now
	return b, nil
}

// PaymentProgress is the percentage of participants who have paid.
// Returns 0 for an empty participant list rather than dividing by zero.
func (b BillSplit) PaymentProgress() float64 {
	if len(b.Participants) == 0 {
		return 0
	}
	paid := 0
	for _, p := range b.Participants {
		if p.Paid {
			paid++
		}
	}
	return float64(paid) / float64(len(b.Participants)) * 100
}

func allPaid(participants []Participant) bool {
	for _, p := range participants {
		if !p.Paid {
			return false
		}
	}
	return true
}
