package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lnvinh/moneykeeper/internal/models"
)

// BillSplitStore implements storage.BillSplitRepository using SQLite.
// A bill and its participants are written inside one database transaction so
// the aggregate is always stored whole.
type BillSplitStore struct {
	db *sql.DB
}

const billColumns = "id, account_id, title, description, total_amount, payer_id, payer_name, split_type, date, settled, created_at, updated_at"

func scanBillSplit(scanner interface{ Scan(...any) error }) (models.BillSplit, error) {
	var b models.BillSplit
	var total string
	var date, createdAt, updatedAt int64
	var settled int
	err := scanner.Scan(&b.ID, &b.AccountID, &b.Title, &b.Description, &total,
		&b.PayerID, &b.PayerName, &b.SplitType, &date, &settled, &createdAt, &updatedAt)
	if err != nil {
		return models.BillSplit{}, err
	}
	if b.TotalAmount, err = scanDecimal(total); err != nil {
		return models.BillSplit{}, err
	}
	b.Date = unixTime(date)
	b.Settled = settled != 0
	b.CreatedAt = unixTime(createdAt)
	b.UpdatedAt = unixTime(updatedAt)
	return b, nil
}

func (s *BillSplitStore) loadParticipants(ctx context.Context, billID string) ([]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, contact, share, amount, paid, paid_at
		FROM bill_participants WHERE bill_id = ? ORDER BY position`, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		var share, amount string
		var paid int
		var paidAt sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &p.Contact, &share, &amount, &paid, &paidAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if p.Share, err = scanDecimal(share); err != nil {
			return nil, err
		}
		if p.Amount, err = scanDecimal(amount); err != nil {
			return nil, err
		}
		p.Paid = paid != 0
		p.PaidAt = nullTime(paidAt)
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

func (s *BillSplitStore) FindByID(ctx context.Context, id string) (models.BillSplit, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+billColumns+" FROM bill_splits WHERE id = ?", id)
	b, err := scanBillSplit(row)
	if err == sql.ErrNoRows {
		return models.BillSplit{}, models.NewNotFoundError("bill split %s not found", id)
	}
	if err != nil {
		return models.BillSplit{}, fmt.Errorf("failed to get bill split: %w", err)
	}
	if b.Participants, err = s.loadParticipants(ctx, b.ID); err != nil {
		return models.BillSplit{}, err
	}
	return b, nil
}

func (s *BillSplitStore) queryMany(ctx context.Context, where string, args ...any) ([]models.BillSplit, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+billColumns+" FROM bill_splits WHERE "+where+" ORDER BY date DESC", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bill splits: %w", err)
	}
	defer rows.Close()

	var bills []models.BillSplit
	for rows.Next() {
		b, err := scanBillSplit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill split: %w", err)
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bill splits: %w", err)
	}

	for i := range bills {
		if bills[i].Participants, err = s.loadParticipants(ctx, bills[i].ID); err != nil {
			return nil, err
		}
	}
	return bills, nil
}

func (s *BillSplitStore) FindByAccountID(ctx context.Context, accountID string) ([]models.BillSplit, error) {
	return s.queryMany(ctx, "account_id = ?", accountID)
}

func (s *BillSplitStore) FindUnsettled(ctx context.Context, accountID string) ([]models.BillSplit, error) {
	return s.queryMany(ctx, "account_id = ? AND settled = 0", accountID)
}

func (s *BillSplitStore) Save(ctx context.Context, b models.BillSplit) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	settled := 0
	if b.Settled {
		settled = 1
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO bill_splits (`+billColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			total_amount = excluded.total_amount,
			payer_id = excluded.payer_id,
			payer_name = excluded.payer_name,
			split_type = excluded.split_type,
			date = excluded.date,
			settled = excluded.settled,
			updated_at = excluded.updated_at`,
		b.ID, b.AccountID, b.Title, b.Description, b.TotalAmount.String(),
		b.PayerID, b.PayerName, b.SplitType, b.Date.Unix(), settled,
		b.CreatedAt.Unix(), b.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save bill split: %w", err)
	}

	// Rewrite the participant rows wholesale; the aggregate is small and
	// this keeps updates simple.
	if _, err := tx.ExecContext(ctx, "DELETE FROM bill_participants WHERE bill_id = ?", b.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	for i, p := range b.Participants {
		paid := 0
		if p.Paid {
			paid = 1
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO bill_participants (id, bill_id, position, name, contact, share, amount, paid, paid_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, b.ID, i, p.Name, p.Contact, p.Share.String(), p.Amount.String(),
			paid, timePtrToNull(p.PaidAt),
		)
		if err != nil {
			return fmt.Errorf("failed to save participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *BillSplitStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bill_splits WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete bill split: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.NewNotFoundError("bill split %s not found", id)
	}
	return nil
}

func (s *BillSplitStore) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM bill_splits WHERE id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check bill split existence: %w", err)
	}
	return true, nil
}
