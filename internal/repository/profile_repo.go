package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"profile-hub/internal/domain"
)

// ProfileRepository persiste el agregado de perfil. Merge es el unico punto de escritura
// de campos y colecciones hijas; MarkVerified el unico que escribe is_verified.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (domain.Profile, error)
	ListWorkExperience(ctx context.Context, profileID string) ([]domain.WorkExperience, error)
	ListEducation(ctx context.Context, profileID string) ([]domain.Education, error)
	ListBoardExperience(ctx context.Context, profileID string) ([]domain.BoardExperience, error)
	ListCertifications(ctx context.Context, profileID string) ([]domain.Certification, error)
	Merge(ctx context.Context, userID string, delta domain.ProfileDelta, now time.Time) (domain.Profile, error)
	MarkVerified(ctx context.Context, userID string, now time.Time) error
}

type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

const profileColumns = `id, full_name, headline, summary, location, phone, linkedin_url, website_url,
	current_title, current_company, years_experience, skills, languages, is_verified, created_at, updated_at`

func scanProfile(row pgx.Row) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID,
		&p.FullName,
		&p.Headline,
		&p.Summary,
		&p.Location,
		&p.Phone,
		&p.LinkedInURL,
		&p.WebsiteURL,
		&p.CurrentTitle,
		&p.CurrentCompany,
		&p.YearsExperience,
		&p.Skills,
		&p.Languages,
		&p.IsVerified,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.Profile{}, err
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Languages == nil {
		p.Languages = []string{}
	}
	return p, nil
}

func (r *PgProfileRepository) GetByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.pool.QueryRow(ctx, query, userID))
}

// Merge aplica el delta en una transaccion: upsert de solo las columnas presentes y
// upsert por clave natural de las entradas hijas. Nunca borra filas hijas.
func (r *PgProfileRepository) Merge(ctx context.Context, userID string, delta domain.ProfileDelta, now time.Time) (domain.Profile, error) {
	var out domain.Profile
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query, args := buildProfileUpsert(userID, delta, now)
		p, err := scanProfile(tx.QueryRow(ctx, query, args...))
		if err != nil {
			return fmt.Errorf("upsert profile: %w", err)
		}
		out = p
		return upsertChildren(ctx, tx, userID, delta, now)
	})
	return out, err
}

func (r *PgProfileRepository) MarkVerified(ctx context.Context, userID string, now time.Time) error {
	const query = `UPDATE profiles SET is_verified = TRUE, updated_at = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, userID, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type column struct {
	name  string
	value any
}

// suppliedColumns traduce el delta a columnas. Solo los campos presentes aparecen.
func suppliedColumns(d domain.ProfileDelta) []column {
	var cols []column
	addText := func(name string, v *string) {
		if v != nil {
			cols = append(cols, column{name: name, value: strings.TrimSpace(*v)})
		}
	}
	addText("full_name", d.FullName)
	addText("headline", d.Headline)
	addText("summary", d.Summary)
	addText("location", d.Location)
	addText("phone", d.Phone)
	addText("linkedin_url", d.LinkedInURL)
	addText("website_url", d.WebsiteURL)
	addText("current_title", d.CurrentTitle)
	addText("current_company", d.CurrentCompany)
	if d.YearsExperience != nil {
		cols = append(cols, column{name: "years_experience", value: *d.YearsExperience})
	}
	if d.Skills != nil {
		cols = append(cols, column{name: "skills", value: nonNilStrings(*d.Skills)})
	}
	if d.Languages != nil {
		cols = append(cols, column{name: "languages", value: nonNilStrings(*d.Languages)})
	}
	return cols
}

func buildProfileUpsert(userID string, d domain.ProfileDelta, now time.Time) (string, []any) {
	cols := suppliedColumns(d)

	names := []string{"id"}
	placeholders := []string{"$1"}
	args := []any{userID}
	updates := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		args = append(args, c.value)
		names = append(names, c.name)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c.name, c.name))
	}
	args = append(args, now)
	names = append(names, "created_at", "updated_at")
	placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)), fmt.Sprintf("$%d", len(args)))
	updates = append(updates, "updated_at = EXCLUDED.updated_at")

	query := fmt.Sprintf(
		`INSERT INTO profiles (%s) VALUES (%s)
		ON CONFLICT (id) DO UPDATE SET %s
		RETURNING %s`,
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
		profileColumns,
	)
	return query, args
}

func upsertChildren(ctx context.Context, q querier, profileID string, d domain.ProfileDelta, now time.Time) error {
	const workQuery = `
		INSERT INTO work_experience (id, profile_id, company, title, start_date, end_date, is_current, description, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM work_experience WHERE profile_id = $2), $9)
		ON CONFLICT (profile_id, company, title, start_date) DO UPDATE SET
			end_date = EXCLUDED.end_date,
			is_current = EXCLUDED.is_current,
			description = EXCLUDED.description
	`
	for _, w := range d.WorkExperience {
		if _, err := q.Exec(ctx, workQuery, uuid.NewString(), profileID,
			strings.TrimSpace(w.Company), strings.TrimSpace(w.Title), strings.TrimSpace(w.StartDate),
			strings.TrimSpace(w.EndDate), w.IsCurrent, w.Description, now); err != nil {
			return fmt.Errorf("upsert work experience: %w", err)
		}
	}

	const educationQuery = `
		INSERT INTO education (id, profile_id, institution, degree, field_of_study, start_date, end_date, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM education WHERE profile_id = $2), $8)
		ON CONFLICT (profile_id, institution, degree, field_of_study) DO UPDATE SET
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date
	`
	for _, e := range d.Education {
		if _, err := q.Exec(ctx, educationQuery, uuid.NewString(), profileID,
			strings.TrimSpace(e.Institution), strings.TrimSpace(e.Degree), strings.TrimSpace(e.FieldOfStudy),
			strings.TrimSpace(e.StartDate), strings.TrimSpace(e.EndDate), now); err != nil {
			return fmt.Errorf("upsert education: %w", err)
		}
	}

	const boardQuery = `
		INSERT INTO board_experience (id, profile_id, organization, role, start_date, end_date, description, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM board_experience WHERE profile_id = $2), $8)
		ON CONFLICT (profile_id, organization, role) DO UPDATE SET
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			description = EXCLUDED.description
	`
	for _, b := range d.BoardExperience {
		if _, err := q.Exec(ctx, boardQuery, uuid.NewString(), profileID,
			strings.TrimSpace(b.Organization), strings.TrimSpace(b.Role), strings.TrimSpace(b.StartDate),
			strings.TrimSpace(b.EndDate), b.Description, now); err != nil {
			return fmt.Errorf("upsert board experience: %w", err)
		}
	}

	const certificationQuery = `
		INSERT INTO certifications (id, profile_id, name, issuer, issued_date, expiry_date, credential_id, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM certifications WHERE profile_id = $2), $8)
		ON CONFLICT (profile_id, name, issuer) DO UPDATE SET
			issued_date = EXCLUDED.issued_date,
			expiry_date = EXCLUDED.expiry_date,
			credential_id = EXCLUDED.credential_id
	`
	for _, c := range d.Certifications {
		if _, err := q.Exec(ctx, certificationQuery, uuid.NewString(), profileID,
			strings.TrimSpace(c.Name), strings.TrimSpace(c.Issuer), strings.TrimSpace(c.IssuedDate),
			strings.TrimSpace(c.ExpiryDate), strings.TrimSpace(c.CredentialID), now); err != nil {
			return fmt.Errorf("upsert certification: %w", err)
		}
	}
	return nil
}

func nonNilStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// IsNotFound agrupa pgx.ErrNoRows para los llamadores que no importan pgx.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
