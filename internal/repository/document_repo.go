package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"profile-hub/internal/domain"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc domain.UploadedDocument) error
	LatestByUser(ctx context.Context, userID string) (domain.UploadedDocument, error)
}

type PgDocumentRepository struct {
	pool *pgxpool.Pool
}

func NewPgDocumentRepository(pool *pgxpool.Pool) *PgDocumentRepository {
	return &PgDocumentRepository{pool: pool}
}

func (r *PgDocumentRepository) Create(ctx context.Context, doc domain.UploadedDocument) error {
	const query = `
		INSERT INTO uploaded_documents (id, user_id, file_path, file_name, file_size, mime_type, content_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		doc.ID,
		doc.UserID,
		doc.FilePath,
		doc.FileName,
		doc.FileSize,
		doc.MimeType,
		doc.ContentHash,
		doc.CreatedAt,
	)
	return err
}

// LatestByUser devuelve el documento vigente: el mas reciente del usuario.
func (r *PgDocumentRepository) LatestByUser(ctx context.Context, userID string) (domain.UploadedDocument, error) {
	const query = `
		SELECT id, user_id, file_path, file_name, file_size, mime_type, content_hash, created_at
		FROM uploaded_documents
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var doc domain.UploadedDocument
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FilePath,
		&doc.FileName,
		&doc.FileSize,
		&doc.MimeType,
		&doc.ContentHash,
		&doc.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UploadedDocument{}, err
	}
	return doc, err
}
