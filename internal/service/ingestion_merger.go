package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"profile-hub/internal/domain"
)

// ProfileMerger es el punto unico de escritura del perfil que usan las ingestas.
type ProfileMerger interface {
	MergeUpdate(ctx context.Context, requester domain.Principal, principalID string, delta domain.ProfileDelta, source domain.MergeSource) (domain.ProfileAggregate, error)
}

// IngestionMerger traduce datos extraidos (CV, voz) a un delta y los pasa por la misma
// regla de merge que las ediciones manuales.
type IngestionMerger struct {
	logger   *zap.Logger
	profiles ProfileMerger
}

func NewIngestionMerger(logger *zap.Logger, profiles ProfileMerger) *IngestionMerger {
	return &IngestionMerger{logger: logger, profiles: profiles}
}

// Apply mezcla un delta ya decodificado en el perfil del principal.
func (m *IngestionMerger) Apply(ctx context.Context, principal domain.Principal, delta domain.ProfileDelta, source domain.MergeSource) (domain.ProfileAggregate, error) {
	return m.profiles.MergeUpdate(ctx, principal, principal.ID, delta, source)
}

// ApplyRaw decodifica el payload con la politica de ingesta: los campos desconocidos se
// descartan y se registran. Devuelve ok=false si no queda nada que mezclar.
func (m *IngestionMerger) ApplyRaw(ctx context.Context, principal domain.Principal, raw json.RawMessage, source domain.MergeSource) (domain.ProfileAggregate, bool, error) {
	delta, dropped, err := domain.DecodeLenientDelta(raw)
	if err != nil {
		return domain.ProfileAggregate{}, false, err
	}
	if len(dropped) > 0 {
		m.logger.Warn("dropped unknown extracted fields",
			zap.String("principal_id", principal.ID),
			zap.String("source", string(source)),
			zap.Strings("fields", dropped),
		)
	}
	if delta.IsEmpty() {
		return domain.ProfileAggregate{}, false, nil
	}
	agg, err := m.Apply(ctx, principal, delta, source)
	if err != nil {
		return domain.ProfileAggregate{}, false, err
	}
	return agg, true, nil
}
