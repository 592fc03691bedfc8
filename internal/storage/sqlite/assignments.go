package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/confdesk/confdesk/internal/storage"
	"github.com/confdesk/confdesk/pkg/models"
)

// CreateAssignment persists a new assignment to the database.
func (s *SQLiteStore) CreateAssignment(ctx context.Context, a *models.Assignment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().Unix()
	}

	problems, err := json.Marshal(a.Problems)
	if err != nil {
		return fmt.Errorf("failed to encode problems: %w", err)
	}

	var answers any
	if a.Answers != nil {
		encoded, err := json.Marshal(a.Answers)
		if err != nil {
			return fmt.Errorf("failed to encode answers: %w", err)
		}
		answers = string(encoded)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assignments
		 (id, conference_id, title, problems, deadline, assignee_id, submitted, answers, answers_seq, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ConferenceID, a.Title, string(problems), a.Deadline.Unix(),
		a.AssigneeID, a.Submitted, answers, a.AnswersSeq, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert assignment: %w", err)
	}
	return nil
}

// GetAssignment retrieves an assignment by ID.
func (s *SQLiteStore) GetAssignment(ctx context.Context, id string) (*models.Assignment, error) {
	a := &models.Assignment{}
	var (
		problems string
		deadline int64
		answers  sql.NullString
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, conference_id, title, problems, deadline, assignee_id, submitted, answers, answers_seq, created_at
		 FROM assignments WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.ConferenceID, &a.Title, &problems, &deadline,
		&a.AssigneeID, &a.Submitted, &answers, &a.AnswersSeq, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("assignment %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	a.Deadline = time.Unix(deadline, 0).UTC()
	if err := json.Unmarshal([]byte(problems), &a.Problems); err != nil {
		return nil, fmt.Errorf("failed to decode problems: %w", err)
	}
	if answers.Valid {
		if err := json.Unmarshal([]byte(answers.String), &a.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode answers: %w", err)
		}
	}
	return a, nil
}

// UpdateAnswers overwrites the assignment's answers if seq advances the
// stored sequence. A stale write (seq <= stored) is acknowledged as a no-op
// so a slow in-flight autosave can never clobber a newer one.
func (s *SQLiteStore) UpdateAnswers(ctx context.Context, id string, answers []string, seq uint64) (bool, error) {
	encoded, err := json.Marshal(answers)
	if err != nil {
		return false, fmt.Errorf("failed to encode answers: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE assignments SET answers = ?, answers_seq = ? WHERE id = ? AND answers_seq < ?",
		string(encoded), seq, id, seq,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update answers: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n > 0 {
		return true, nil
	}

	// Distinguish a stale sequence from a missing assignment.
	var exists int
	err = s.db.QueryRowContext(ctx,
		"SELECT 1 FROM assignments WHERE id = ?", id,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("assignment %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return false, nil
}

// SetSubmitted sets the assignment's submitted flag. Setting it again to the
// same value is a no-op, making repeated submission idempotent.
func (s *SQLiteStore) SetSubmitted(ctx context.Context, id string, submitted bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE assignments SET submitted = ? WHERE id = ?",
		submitted, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update submitted: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("assignment %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
