package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"profile-hub/internal/domain"
	"profile-hub/internal/metrics"
	"profile-hub/internal/repository"
)

// DocumentStorage guarda el blob original de un documento subido.
type DocumentStorage interface {
	Put(ctx context.Context, ownerID, fileName string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
}

// FileUpload es el archivo recibido del cliente. Size es el tamaño declarado; el real
// se mide al leer Content.
type FileUpload struct {
	Name    string
	Size    int64
	Content io.Reader
}

// IntakeResult es la salida de la etapa de intake.
type IntakeResult struct {
	Document domain.UploadedDocument
	Content  []byte
}

type CVIntakeConfig struct {
	MaxBytes     int64
	AllowedTypes []string
}

type CVIntakeService struct {
	logger    *zap.Logger
	storage   DocumentStorage
	documents repository.DocumentRepository
	limiter   UploadLimiter
	metrics   *metrics.Metrics
	maxBytes  int64
	allowed   []string
	now       func() time.Time
}

func NewCVIntakeService(
	logger *zap.Logger,
	storage DocumentStorage,
	documents repository.DocumentRepository,
	limiter UploadLimiter,
	cfg CVIntakeConfig,
	m *metrics.Metrics,
) *CVIntakeService {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 10 << 20
	}
	allowed := make([]string, 0, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		if t = strings.TrimSpace(t); t != "" {
			allowed = append(allowed, t)
		}
	}
	return &CVIntakeService{
		logger:    logger,
		storage:   storage,
		documents: documents,
		limiter:   limiter,
		metrics:   m,
		maxBytes:  cfg.MaxBytes,
		allowed:   allowed,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Intake valida y guarda el documento y registra su metadata. No produce campos de perfil.
func (s *CVIntakeService) Intake(ctx context.Context, principal domain.Principal, file FileUpload) (IntakeResult, error) {
	const op = "cv.intake"
	if principal.IsZero() {
		return IntakeResult{}, domain.NotAuthenticated(op)
	}
	if file.Content == nil || strings.TrimSpace(file.Name) == "" {
		s.metrics.ObserveUpload("invalid")
		return IntakeResult{}, domain.Validation(op, "no file uploaded")
	}
	if file.Size > s.maxBytes {
		s.metrics.ObserveUpload("invalid")
		return IntakeResult{}, domain.Validation(op, fmt.Sprintf("file exceeds maximum size of %d bytes", s.maxBytes))
	}
	if s.limiter != nil && !s.limiter.Allow(ctx, principal.ID) {
		s.metrics.ObserveUpload("rate_limited")
		return IntakeResult{}, domain.RateLimited(op)
	}

	data, err := io.ReadAll(io.LimitReader(file.Content, s.maxBytes+1))
	if err != nil {
		s.metrics.ObserveUpload("invalid")
		return IntakeResult{}, domain.Validation(op, "could not read uploaded file")
	}
	if len(data) == 0 {
		s.metrics.ObserveUpload("invalid")
		return IntakeResult{}, domain.Validation(op, "no file uploaded")
	}
	if int64(len(data)) > s.maxBytes {
		s.metrics.ObserveUpload("invalid")
		return IntakeResult{}, domain.Validation(op, fmt.Sprintf("file exceeds maximum size of %d bytes", s.maxBytes))
	}

	mimeType, ok := s.detectAllowed(data)
	if !ok {
		s.metrics.ObserveUpload("invalid")
		return IntakeResult{}, domain.Validation(op, "file type "+mimeType+" is not allowed")
	}

	sum := blake2b.Sum256(data)
	path, err := s.storage.Put(ctx, principal.ID, file.Name, data)
	if err != nil {
		s.metrics.ObserveUpload("error")
		s.logger.Error("store document failed", zap.Error(err), zap.String("principal_id", principal.ID))
		return IntakeResult{}, domain.Storage(op, err)
	}

	doc := domain.UploadedDocument{
		ID:          uuid.NewString(),
		UserID:      principal.ID,
		FilePath:    path,
		FileName:    strings.TrimSpace(file.Name),
		FileSize:    int64(len(data)),
		MimeType:    mimeType,
		ContentHash: hex.EncodeToString(sum[:]),
		CreatedAt:   s.now(),
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		s.metrics.ObserveUpload("error")
		s.logger.Error("insert document metadata failed", zap.Error(err), zap.String("principal_id", principal.ID))
		if derr := s.storage.Delete(ctx, path); derr != nil {
			s.logger.Warn("remove orphan document failed", zap.Error(derr), zap.String("path", path))
		}
		return IntakeResult{}, domain.Storage(op, err)
	}

	s.metrics.ObserveUpload("stored")
	s.logger.Info("cv stored",
		zap.String("principal_id", principal.ID),
		zap.String("document_id", doc.ID),
		zap.String("mime_type", mimeType),
		zap.Int64("size", doc.FileSize),
	)
	return IntakeResult{Document: doc, Content: data}, nil
}

// detectAllowed identifica el tipo por contenido, no por la extension declarada.
func (s *CVIntakeService) detectAllowed(data []byte) (string, bool) {
	detected := mimetype.Detect(data)
	base := strings.TrimSpace(strings.SplitN(detected.String(), ";", 2)[0])
	if len(s.allowed) == 0 {
		return base, true
	}
	for _, a := range s.allowed {
		if detected.Is(a) {
			return base, true
		}
	}
	return base, false
}

// Latest devuelve el documento mas reciente del principal.
func (s *CVIntakeService) Latest(ctx context.Context, principal domain.Principal) (domain.UploadedDocument, error) {
	const op = "cv.latest"
	if principal.IsZero() {
		return domain.UploadedDocument{}, domain.NotAuthenticated(op)
	}
	doc, err := s.documents.LatestByUser(ctx, principal.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return domain.UploadedDocument{}, domain.NotFound(op, "no uploaded document")
		}
		return domain.UploadedDocument{}, domain.Storage(op, err)
	}
	return doc, nil
}
