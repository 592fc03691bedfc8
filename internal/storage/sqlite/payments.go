package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/confdesk/confdesk/internal/storage"
	"github.com/confdesk/confdesk/pkg/models"
)

// CreatePayment persists a new payment with its discounts.
func (s *SQLiteStore) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	if p.Status == "" {
		p.Status = models.PaymentWaiting
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var confirmedAt any
	if p.ConfirmedAt != nil {
		confirmedAt = p.ConfirmedAt.Unix()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO payments
		 (id, conference_id, payee_id, ident, total, description, detail, status, created_at, confirmed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ConferenceID, p.PayeeID, p.Ident, p.Total,
		p.Description, p.Detail, string(p.Status), p.CreatedAt, confirmedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	// Insert discounts, keeping their order via position.
	for i, d := range p.Discounts {
		var until any
		if d.Until != nil {
			until = d.Until.Unix()
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO discounts (payment_id, position, amount, description, until) VALUES (?, ?, ?, ?, ?)",
			p.ID, i, d.Amount, d.Description, until,
		)
		if err != nil {
			return fmt.Errorf("failed to insert discount: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetPayment retrieves a payment by ID, including discounts in order.
func (s *SQLiteStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	p := &models.Payment{}
	var (
		status      string
		confirmedAt sql.NullInt64
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, conference_id, payee_id, ident, total, description, detail, status, created_at, confirmed_at
		 FROM payments WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.ConferenceID, &p.PayeeID, &p.Ident, &p.Total,
		&p.Description, &p.Detail, &status, &p.CreatedAt, &confirmedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	p.Status = models.PaymentStatus(status)
	if confirmedAt.Valid {
		t := time.Unix(confirmedAt.Int64, 0).UTC()
		p.ConfirmedAt = &t
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT amount, description, until FROM discounts WHERE payment_id = ? ORDER BY position",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get discounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			d     models.Discount
			until sql.NullInt64
		)
		if err := rows.Scan(&d.Amount, &d.Description, &until); err != nil {
			return nil, fmt.Errorf("failed to scan discount: %w", err)
		}
		if until.Valid {
			t := time.Unix(until.Int64, 0).UTC()
			d.Until = &t
		}
		p.Discounts = append(p.Discounts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate discounts: %w", err)
	}

	return p, nil
}

// ConfirmPayment marks a waiting payment as paid at the given time.
func (s *SQLiteStore) ConfirmPayment(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE payments SET status = ?, confirmed_at = ? WHERE id = ? AND status = ?",
		string(models.PaymentPaid), at.Unix(), id, string(models.PaymentWaiting),
	)
	if err != nil {
		return fmt.Errorf("failed to confirm payment: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("payment %s not found or not waiting: %w", id, storage.ErrNotFound)
	}
	return nil
}
