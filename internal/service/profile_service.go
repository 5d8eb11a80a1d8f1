package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"profile-hub/internal/domain"
	"profile-hub/internal/metrics"
	"profile-hub/internal/repository"
)

// ProfileService es el dueño del agregado de perfil. Todas las escrituras de campos,
// manuales o derivadas, pasan por MergeUpdate.
type ProfileService struct {
	logger   *zap.Logger
	profiles repository.ProfileRepository
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewProfileService(logger *zap.Logger, profiles repository.ProfileRepository, m *metrics.Metrics) *ProfileService {
	return &ProfileService{
		logger:   logger,
		profiles: profiles,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// authorize exige sesion y que el principal de la sesion sea el dueño del perfil.
func authorize(op string, requester domain.Principal, principalID string) error {
	if requester.IsZero() {
		return domain.NotAuthenticated(op)
	}
	if principalID == "" || requester.ID != principalID {
		return domain.Forbidden(op)
	}
	return nil
}

// GetAggregate devuelve el perfil con sus cuatro colecciones hijas.
func (s *ProfileService) GetAggregate(ctx context.Context, requester domain.Principal, principalID string) (domain.ProfileAggregate, error) {
	const op = "profile.get"
	if err := authorize(op, requester, principalID); err != nil {
		return domain.ProfileAggregate{}, err
	}
	return s.loadAggregate(ctx, op, principalID)
}

// MergeUpdate aplica un upsert a nivel de campo: lo presente sobrescribe, lo ausente
// no se toca, updated_at se refresca y nunca se borran filas hijas.
func (s *ProfileService) MergeUpdate(
	ctx context.Context,
	requester domain.Principal,
	principalID string,
	delta domain.ProfileDelta,
	source domain.MergeSource,
) (domain.ProfileAggregate, error) {
	const op = "profile.merge"
	if err := authorize(op, requester, principalID); err != nil {
		return domain.ProfileAggregate{}, err
	}
	if err := delta.Validate(); err != nil {
		s.metrics.ObserveMerge(string(source), "invalid")
		return domain.ProfileAggregate{}, err
	}

	if _, err := s.profiles.Merge(ctx, principalID, delta, s.now()); err != nil {
		s.metrics.ObserveMerge(string(source), "error")
		s.logger.Error("profile merge failed",
			zap.Error(err),
			zap.String("principal_id", principalID),
			zap.String("source", string(source)),
		)
		return domain.ProfileAggregate{}, domain.Storage(op, err)
	}
	s.metrics.ObserveMerge(string(source), "ok")

	return s.loadAggregate(ctx, op, principalID)
}

func (s *ProfileService) loadAggregate(ctx context.Context, op, principalID string) (domain.ProfileAggregate, error) {
	profile, err := s.profiles.GetByUserID(ctx, principalID)
	if err != nil {
		if repository.IsNotFound(err) {
			return domain.ProfileAggregate{}, domain.NotFound(op, "profile not found")
		}
		s.logger.Error("get profile failed", zap.Error(err), zap.String("principal_id", principalID))
		return domain.ProfileAggregate{}, domain.Storage(op, err)
	}

	agg := domain.NewProfileAggregate(profile)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.profiles.ListWorkExperience(gctx, principalID)
		if err == nil && rows != nil {
			agg.WorkExperience = rows
		}
		return err
	})
	g.Go(func() error {
		rows, err := s.profiles.ListEducation(gctx, principalID)
		if err == nil && rows != nil {
			agg.Education = rows
		}
		return err
	})
	g.Go(func() error {
		rows, err := s.profiles.ListBoardExperience(gctx, principalID)
		if err == nil && rows != nil {
			agg.BoardExperience = rows
		}
		return err
	})
	g.Go(func() error {
		rows, err := s.profiles.ListCertifications(gctx, principalID)
		if err == nil && rows != nil {
			agg.Certifications = rows
		}
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("load profile children failed", zap.Error(err), zap.String("principal_id", principalID))
		return domain.ProfileAggregate{}, domain.Storage(op, err)
	}
	return agg, nil
}
