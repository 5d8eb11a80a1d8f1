package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"profile-hub/internal/domain"
)

// Las colecciones hijas se devuelven en orden de insercion.

func (r *PgProfileRepository) ListWorkExperience(ctx context.Context, profileID string) ([]domain.WorkExperience, error) {
	const query = `
		SELECT id, profile_id, company, title, start_date, end_date, is_current, description, created_at
		FROM work_experience
		WHERE profile_id = $1
		ORDER BY position ASC, created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.WorkExperience, error) {
		var w domain.WorkExperience
		err := row.Scan(&w.ID, &w.ProfileID, &w.Company, &w.Title, &w.StartDate, &w.EndDate, &w.IsCurrent, &w.Description, &w.CreatedAt)
		return w, err
	})
}

func (r *PgProfileRepository) ListEducation(ctx context.Context, profileID string) ([]domain.Education, error) {
	const query = `
		SELECT id, profile_id, institution, degree, field_of_study, start_date, end_date, created_at
		FROM education
		WHERE profile_id = $1
		ORDER BY position ASC, created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Education, error) {
		var e domain.Education
		err := row.Scan(&e.ID, &e.ProfileID, &e.Institution, &e.Degree, &e.FieldOfStudy, &e.StartDate, &e.EndDate, &e.CreatedAt)
		return e, err
	})
}

func (r *PgProfileRepository) ListBoardExperience(ctx context.Context, profileID string) ([]domain.BoardExperience, error) {
	const query = `
		SELECT id, profile_id, organization, role, start_date, end_date, description, created_at
		FROM board_experience
		WHERE profile_id = $1
		ORDER BY position ASC, created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.BoardExperience, error) {
		var b domain.BoardExperience
		err := row.Scan(&b.ID, &b.ProfileID, &b.Organization, &b.Role, &b.StartDate, &b.EndDate, &b.Description, &b.CreatedAt)
		return b, err
	})
}

func (r *PgProfileRepository) ListCertifications(ctx context.Context, profileID string) ([]domain.Certification, error) {
	const query = `
		SELECT id, profile_id, name, issuer, issued_date, expiry_date, credential_id, created_at
		FROM certifications
		WHERE profile_id = $1
		ORDER BY position ASC, created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Certification, error) {
		var c domain.Certification
		err := row.Scan(&c.ID, &c.ProfileID, &c.Name, &c.Issuer, &c.IssuedDate, &c.ExpiryDate, &c.CredentialID, &c.CreatedAt)
		return c, err
	})
}
