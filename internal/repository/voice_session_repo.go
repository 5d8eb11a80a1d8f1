package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"profile-hub/internal/domain"
)

// VoiceSessionRepository es append-only: no expone actualizaciones ni borrados.
type VoiceSessionRepository interface {
	Create(ctx context.Context, session domain.VoiceSession) error
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.VoiceSession, error)
}

type PgVoiceSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgVoiceSessionRepository(pool *pgxpool.Pool) *PgVoiceSessionRepository {
	return &PgVoiceSessionRepository{pool: pool}
}

func (r *PgVoiceSessionRepository) Create(ctx context.Context, session domain.VoiceSession) error {
	const query = `
		INSERT INTO voice_sessions (id, user_id, transcript, extracted_data, session_metadata, completed, duration_seconds, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.Transcript,
		nullableJSON(session.ExtractedData),
		nullableJSON(session.SessionMetadata),
		session.Completed,
		session.DurationSeconds,
		session.CompletedAt,
		session.CreatedAt,
	)
	return err
}

func (r *PgVoiceSessionRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.VoiceSession, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT id, user_id, transcript, extracted_data, session_metadata, completed, duration_seconds, completed_at, created_at
		FROM voice_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.VoiceSession, error) {
		var s domain.VoiceSession
		var extracted, metadata []byte
		err := row.Scan(
			&s.ID,
			&s.UserID,
			&s.Transcript,
			&extracted,
			&metadata,
			&s.Completed,
			&s.DurationSeconds,
			&s.CompletedAt,
			&s.CreatedAt,
		)
		s.ExtractedData = extracted
		s.SessionMetadata = metadata
		return s, err
	})
}

// nullableJSON evita guardar "null" literal en columnas jsonb.
func nullableJSON(raw []byte) any {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return string(raw)
}
