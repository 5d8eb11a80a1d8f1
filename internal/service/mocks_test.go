package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"profile-hub/internal/domain"
)

type mockProfileRepo struct {
	mu            sync.Mutex
	profiles      map[string]domain.Profile
	work          map[string][]domain.WorkExperience
	education     map[string][]domain.Education
	board         map[string][]domain.BoardExperience
	certs         map[string][]domain.Certification
	mergeErr      error
	listErr       error
	merges        int
	verifiedCalls int
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{
		profiles:  make(map[string]domain.Profile),
		work:      make(map[string][]domain.WorkExperience),
		education: make(map[string][]domain.Education),
		board:     make(map[string][]domain.BoardExperience),
		certs:     make(map[string][]domain.Certification),
	}
}

func (m *mockProfileRepo) GetByUserID(_ context.Context, userID string) (domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return domain.Profile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockProfileRepo) ListWorkExperience(_ context.Context, id string) ([]domain.WorkExperience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.work[id], m.listErr
}

func (m *mockProfileRepo) ListEducation(_ context.Context, id string) ([]domain.Education, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.education[id], m.listErr
}

func (m *mockProfileRepo) ListBoardExperience(_ context.Context, id string) ([]domain.BoardExperience, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.board[id], m.listErr
}

func (m *mockProfileRepo) ListCertifications(_ context.Context, id string) ([]domain.Certification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.certs[id], m.listErr
}

// Merge reproduce la semantica del upsert SQL: solo columnas presentes y claves naturales.
func (m *mockProfileRepo) Merge(_ context.Context, userID string, d domain.ProfileDelta, now time.Time) (domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mergeErr != nil {
		return domain.Profile{}, m.mergeErr
	}
	m.merges++
	p, ok := m.profiles[userID]
	if !ok {
		p = domain.Profile{ID: userID, CreatedAt: now, Skills: []string{}, Languages: []string{}}
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&p.FullName, d.FullName)
	set(&p.Headline, d.Headline)
	set(&p.Summary, d.Summary)
	set(&p.Location, d.Location)
	set(&p.Phone, d.Phone)
	set(&p.LinkedInURL, d.LinkedInURL)
	set(&p.WebsiteURL, d.WebsiteURL)
	set(&p.CurrentTitle, d.CurrentTitle)
	set(&p.CurrentCompany, d.CurrentCompany)
	if d.YearsExperience != nil {
		v := *d.YearsExperience
		p.YearsExperience = &v
	}
	if d.Skills != nil {
		p.Skills = append([]string{}, (*d.Skills)...)
	}
	if d.Languages != nil {
		p.Languages = append([]string{}, (*d.Languages)...)
	}
	p.UpdatedAt = now
	m.profiles[userID] = p

	for _, w := range d.WorkExperience {
		found := false
		for i, existing := range m.work[userID] {
			if existing.Company == w.Company && existing.Title == w.Title && existing.StartDate == w.StartDate {
				m.work[userID][i].EndDate = w.EndDate
				m.work[userID][i].Description = w.Description
				m.work[userID][i].IsCurrent = w.IsCurrent
				found = true
			}
		}
		if !found {
			m.work[userID] = append(m.work[userID], domain.WorkExperience{
				ID: w.Company + "|" + w.Title, ProfileID: userID, Company: w.Company, Title: w.Title,
				StartDate: w.StartDate, EndDate: w.EndDate, IsCurrent: w.IsCurrent, Description: w.Description, CreatedAt: now,
			})
		}
	}
	for _, e := range d.Education {
		found := false
		for _, existing := range m.education[userID] {
			if existing.Institution == e.Institution && existing.Degree == e.Degree && existing.FieldOfStudy == e.FieldOfStudy {
				found = true
			}
		}
		if !found {
			m.education[userID] = append(m.education[userID], domain.Education{
				ProfileID: userID, Institution: e.Institution, Degree: e.Degree, FieldOfStudy: e.FieldOfStudy, CreatedAt: now,
			})
		}
	}
	for _, c := range d.Certifications {
		found := false
		for _, existing := range m.certs[userID] {
			if existing.Name == c.Name && existing.Issuer == c.Issuer {
				found = true
			}
		}
		if !found {
			m.certs[userID] = append(m.certs[userID], domain.Certification{ProfileID: userID, Name: c.Name, Issuer: c.Issuer, CreatedAt: now})
		}
	}
	for _, b := range d.BoardExperience {
		found := false
		for _, existing := range m.board[userID] {
			if existing.Organization == b.Organization && existing.Role == b.Role {
				found = true
			}
		}
		if !found {
			m.board[userID] = append(m.board[userID], domain.BoardExperience{ProfileID: userID, Organization: b.Organization, Role: b.Role, CreatedAt: now})
		}
	}
	return p, nil
}

func (m *mockProfileRepo) MarkVerified(_ context.Context, userID string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	m.verifiedCalls++
	p.IsVerified = true
	p.UpdatedAt = now
	m.profiles[userID] = p
	return nil
}

type mockIdentityRepo struct {
	claims map[string][]domain.IdentityClaim
	err    error
}

func (m *mockIdentityRepo) ListByUser(_ context.Context, userID string) ([]domain.IdentityClaim, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.claims[userID], nil
}

type mockVoiceSessionRepo struct {
	sessions []domain.VoiceSession
	err      error
}

func (m *mockVoiceSessionRepo) Create(_ context.Context, s domain.VoiceSession) error {
	if m.err != nil {
		return m.err
	}
	m.sessions = append(m.sessions, s)
	return nil
}

func (m *mockVoiceSessionRepo) ListByUser(_ context.Context, userID string, limit int) ([]domain.VoiceSession, error) {
	var out []domain.VoiceSession
	for i := len(m.sessions) - 1; i >= 0 && len(out) < limit; i-- {
		if m.sessions[i].UserID == userID {
			out = append(out, m.sessions[i])
		}
	}
	return out, nil
}

type mockDocumentRepo struct {
	docs []domain.UploadedDocument
	err  error
}

func (m *mockDocumentRepo) Create(_ context.Context, doc domain.UploadedDocument) error {
	if m.err != nil {
		return m.err
	}
	m.docs = append(m.docs, doc)
	return nil
}

func (m *mockDocumentRepo) LatestByUser(_ context.Context, userID string) (domain.UploadedDocument, error) {
	for i := len(m.docs) - 1; i >= 0; i-- {
		if m.docs[i].UserID == userID {
			return m.docs[i], nil
		}
	}
	return domain.UploadedDocument{}, pgx.ErrNoRows
}

type mockDocumentStorage struct {
	files   map[string][]byte
	deleted []string
	err     error
}

func newMockDocumentStorage() *mockDocumentStorage {
	return &mockDocumentStorage{files: make(map[string][]byte)}
}

func (m *mockDocumentStorage) Put(_ context.Context, ownerID, fileName string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	path := "uploads/" + ownerID + "/" + fileName
	m.files[path] = data
	return path, nil
}

func (m *mockDocumentStorage) Delete(_ context.Context, path string) error {
	m.deleted = append(m.deleted, path)
	delete(m.files, path)
	return nil
}

type mockSender struct {
	lastTo   string
	lastName string
	calls    int
	err      error
}

func (m *mockSender) SendProfileVerified(_ context.Context, toEmail, name string) error {
	m.calls++
	m.lastTo = toEmail
	m.lastName = name
	return m.err
}

type allowAll struct{ allow bool }

func (a allowAll) Allow(context.Context, string) bool { return a.allow }
