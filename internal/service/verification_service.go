package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"profile-hub/internal/domain"
	"profile-hub/internal/email"
	"profile-hub/internal/metrics"
	"profile-hub/internal/repository"
)

const DefaultTrustedProvider = "linkedin_oidc"

// VerificationService es el unico camino que escribe is_verified.
type VerificationService struct {
	logger          *zap.Logger
	identities      repository.IdentityRepository
	profiles        repository.ProfileRepository
	sender          email.Sender
	trustedProvider string
	metrics         *metrics.Metrics
	now             func() time.Time
}

func NewVerificationService(
	logger *zap.Logger,
	identities repository.IdentityRepository,
	profiles repository.ProfileRepository,
	sender email.Sender,
	trustedProvider string,
	m *metrics.Metrics,
) *VerificationService {
	if strings.TrimSpace(trustedProvider) == "" {
		trustedProvider = DefaultTrustedProvider
	}
	if sender == nil {
		sender = email.NewDisabledSender("")
	}
	return &VerificationService{
		logger:          logger,
		identities:      identities,
		profiles:        profiles,
		sender:          sender,
		trustedProvider: strings.TrimSpace(trustedProvider),
		metrics:         m,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Verify marca el perfil como verificado si el principal tiene un claim del proveedor
// de confianza. Repetirlo sobre un perfil ya verificado es un exito sin escritura.
func (s *VerificationService) Verify(ctx context.Context, principal domain.Principal) error {
	const op = "profile.verify"
	if principal.IsZero() {
		return domain.NotAuthenticated(op)
	}

	claims, err := s.identities.ListByUser(ctx, principal.ID)
	if err != nil {
		s.metrics.ObserveVerification("error")
		s.logger.Error("identity lookup failed", zap.Error(err), zap.String("principal_id", principal.ID))
		return domain.Upstream(op, err)
	}
	if !hasProvider(claims, s.trustedProvider) {
		s.metrics.ObserveVerification("rejected")
		return domain.Validation(op, "no qualifying identity claim")
	}

	profile, err := s.profiles.GetByUserID(ctx, principal.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			s.metrics.ObserveVerification("not_found")
			return domain.NotFound(op, "profile not found")
		}
		s.metrics.ObserveVerification("error")
		s.logger.Error("get profile failed", zap.Error(err), zap.String("principal_id", principal.ID))
		return domain.Storage(op, err)
	}
	if profile.IsVerified {
		s.metrics.ObserveVerification("already_verified")
		return nil
	}

	if err := s.profiles.MarkVerified(ctx, principal.ID, s.now()); err != nil {
		if repository.IsNotFound(err) {
			s.metrics.ObserveVerification("not_found")
			return domain.NotFound(op, "profile not found")
		}
		s.metrics.ObserveVerification("error")
		s.logger.Error("mark verified failed", zap.Error(err), zap.String("principal_id", principal.ID))
		return domain.Storage(op, err)
	}
	s.metrics.ObserveVerification("verified")
	s.logger.Info("profile verified", zap.String("principal_id", principal.ID), zap.String("provider", s.trustedProvider))

	if principal.Email != "" {
		if err := s.sender.SendProfileVerified(ctx, principal.Email, profile.FullName); err != nil {
			s.logger.Warn("verification email not sent", zap.Error(err), zap.String("principal_id", principal.ID))
		}
	}
	return nil
}

func hasProvider(claims []domain.IdentityClaim, provider string) bool {
	for _, c := range claims {
		if strings.EqualFold(strings.TrimSpace(c.Provider), provider) {
			return true
		}
	}
	return false
}
