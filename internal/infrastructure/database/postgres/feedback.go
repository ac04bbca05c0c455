package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turtacn/HazWaste-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/HazWaste-Intelligence/pkg/errors"
)

// Verdict values an analyst can attach to a classification.
const (
	VerdictConfirmed = "confirmed"
	VerdictCorrected = "corrected"
	VerdictRejected  = "rejected"
)

// Feedback is one analyst verdict on a completed classification.
type Feedback struct {
	ID                  uuid.UUID `json:"id"`
	RequestID           string    `json:"requestId"`
	DocumentFingerprint string    `json:"documentFingerprint"`
	AssignedCodes       []string  `json:"assignedCodes"`
	CorrectedCodes      []string  `json:"correctedCodes,omitempty"`
	Verdict             string    `json:"verdict"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
}

// querier is the subset of pgxpool.Pool the store needs.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// FeedbackStore persists feedback records. The log is append-only; records
// are never updated or deleted through this type.
type FeedbackStore struct {
	db     querier
	logger logging.Logger
}

// NewFeedbackStore wires a store over an open pool.
func NewFeedbackStore(db querier, log logging.Logger) *FeedbackStore {
	return &FeedbackStore{db: db, logger: log}
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS classification_feedback (
	id                   UUID PRIMARY KEY,
	request_id           TEXT        NOT NULL,
	document_fingerprint TEXT        NOT NULL,
	assigned_codes       TEXT[]      NOT NULL DEFAULT '{}',
	corrected_codes      TEXT[]      NOT NULL DEFAULT '{}',
	verdict              TEXT        NOT NULL,
	notes                TEXT        NOT NULL DEFAULT '',
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_feedback_fingerprint
	ON classification_feedback (document_fingerprint);
CREATE INDEX IF NOT EXISTS idx_feedback_created_at
	ON classification_feedback (created_at DESC);
`

// EnsureSchema creates the feedback table and indexes if absent.
func (s *FeedbackStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaDDL); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to ensure feedback schema")
	}
	return nil
}

// Append validates and writes one feedback record. A zero ID and CreatedAt
// are filled in.
func (s *FeedbackStore) Append(ctx context.Context, rec Feedback) error {
	switch rec.Verdict {
	case VerdictConfirmed, VerdictCorrected, VerdictRejected:
	default:
		return errors.New(errors.ErrCodeValidation, "verdict must be confirmed, corrected, or rejected")
	}
	if rec.RequestID == "" {
		return errors.New(errors.ErrCodeValidation, "requestId is required")
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO classification_feedback
			(id, request_id, document_fingerprint, assigned_codes, corrected_codes, verdict, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.RequestID, rec.DocumentFingerprint,
		rec.AssignedCodes, rec.CorrectedCodes, rec.Verdict, rec.Notes, rec.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeFeedbackWriteFailed, "failed to append feedback record")
	}

	s.logger.Debug("feedback appended",
		logging.String("request_id", rec.RequestID),
		logging.String("verdict", rec.Verdict),
	)
	return nil
}

// Recent returns up to limit records, newest first.
func (s *FeedbackStore) Recent(ctx context.Context, limit int) ([]Feedback, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, request_id, document_fingerprint, assigned_codes, corrected_codes, verdict, notes, created_at
		FROM classification_feedback
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFeedbackReadFailed, "failed to read feedback records")
	}
	defer rows.Close()

	return scanFeedback(rows)
}

// ByFingerprint returns all records for one document, newest first.
func (s *FeedbackStore) ByFingerprint(ctx context.Context, fingerprint string) ([]Feedback, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, request_id, document_fingerprint, assigned_codes, corrected_codes, verdict, notes, created_at
		FROM classification_feedback
		WHERE document_fingerprint = $1
		ORDER BY created_at DESC`, fingerprint)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFeedbackReadFailed, "failed to read feedback records")
	}
	defer rows.Close()

	return scanFeedback(rows)
}

func scanFeedback(rows pgx.Rows) ([]Feedback, error) {
	var out []Feedback
	for rows.Next() {
		var rec Feedback
		if err := rows.Scan(
			&rec.ID, &rec.RequestID, &rec.DocumentFingerprint,
			&rec.AssignedCodes, &rec.CorrectedCodes,
			&rec.Verdict, &rec.Notes, &rec.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeFeedbackReadFailed, "failed to scan feedback record")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeFeedbackReadFailed, "feedback rows iteration failed")
	}
	return out, nil
}
