package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/vphone/simshop/internal/shop/domain"
	"github.com/vphone/simshop/internal/shop/store"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateVerificationSession(ctx context.Context, rec domain.VerificationRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO verification_sessions (
			id, wizard_id, session_id, environment_id, qr_code_url,
			status, expires_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.WizardID, rec.SessionID, rec.EnvironmentID, rec.QRCodeURL,
		string(rec.Status), rec.ExpiresAt.UTC(), rec.CreatedAt.UTC(), rec.UpdatedAt.UTC(),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *sessionsRepo) GetVerificationSessionByID(ctx context.Context, id string) (domain.VerificationRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, wizard_id, session_id, environment_id, qr_code_url,
			status, expires_at, created_at, updated_at
		FROM verification_sessions WHERE id = ?`, id)

	return scanVerificationRecord(row)
}

func (r *sessionsRepo) ListVerificationSessionsByWizard(ctx context.Context, wizardID string) ([]domain.VerificationRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, wizard_id, session_id, environment_id, qr_code_url,
			status, expires_at, created_at, updated_at
		FROM verification_sessions
		WHERE wizard_id = ?
		ORDER BY created_at ASC, id ASC`, wizardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []domain.VerificationRecord
	for rows.Next() {
		rec, err := scanVerificationRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

func (r *sessionsRepo) UpdateVerificationSessionStatus(ctx context.Context, id string, status domain.Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE verification_sessions
		SET status = ?, updated_at = ?
		WHERE id = ?`, string(status), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *sessionsRepo) DeleteVerificationSessionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM verification_sessions WHERE expires_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVerificationRecord(row rowScanner) (domain.VerificationRecord, error) {
	var (
		rec    domain.VerificationRecord
		status string
	)
	err := row.Scan(
		&rec.ID, &rec.WizardID, &rec.SessionID, &rec.EnvironmentID, &rec.QRCodeURL,
		&status, &rec.ExpiresAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return domain.VerificationRecord{}, mapNotFound(err)
	}
	rec.Status = domain.Status(status)
	return rec, nil
}
