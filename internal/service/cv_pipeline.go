package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"profile-hub/internal/domain"
)

// CVExtractor convierte el contenido de un documento en datos de perfil.
type CVExtractor interface {
	Extract(ctx context.Context, doc domain.UploadedDocument, content []byte) (json.RawMessage, error)
}

// IngestionStatus es el resultado del merge de datos extraidos, para CV y voz.
type IngestionStatus string

const (
	IngestionSkipped IngestionStatus = "skipped"
	IngestionApplied IngestionStatus = "applied"
	IngestionFailed  IngestionStatus = "failed"
)

// Etapas del pipeline. Una falla en una etapa deja confirmadas las anteriores.
const (
	StageIntake  = "intake"
	StageExtract = "extract"
	StageMerge   = "merge"
)

type ExtractInput struct {
	Principal domain.Principal
	Document  domain.UploadedDocument
	Content   []byte
}

type ExtractOutput struct {
	Principal domain.Principal
	Data      json.RawMessage
}

// CVPipelineResult describe hasta donde llego el documento.
type CVPipelineResult struct {
	Document    domain.UploadedDocument
	Extraction  IngestionStatus
	StoppedAt   string
	ExtractErr  error
	MergedEmpty bool
}

// CVPipeline encadena intake, extraccion y merge.
type CVPipeline struct {
	logger    *zap.Logger
	intake    *CVIntakeService
	extractor CVExtractor
	merger    *IngestionMerger
}

// NewCVPipeline acepta un extractor nil: en ese caso la extraccion se omite.
func NewCVPipeline(logger *zap.Logger, intake *CVIntakeService, extractor CVExtractor, merger *IngestionMerger) *CVPipeline {
	return &CVPipeline{logger: logger, intake: intake, extractor: extractor, merger: merger}
}

// Run devuelve error solo si falla el intake. Las fallas de extraccion o merge quedan en el resultado.
func (p *CVPipeline) Run(ctx context.Context, principal domain.Principal, file FileUpload) (CVPipelineResult, error) {
	stored, err := p.intake.Intake(ctx, principal, file)
	if err != nil {
		return CVPipelineResult{StoppedAt: StageIntake}, err
	}
	result := CVPipelineResult{Document: stored.Document, Extraction: IngestionSkipped}

	if p.extractor == nil {
		result.StoppedAt = StageIntake
		return result, nil
	}

	out, err := p.Extract(ctx, ExtractInput{Principal: principal, Document: stored.Document, Content: stored.Content})
	if err != nil {
		p.logger.Warn("cv extraction failed",
			zap.Error(err),
			zap.String("principal_id", principal.ID),
			zap.String("document_id", stored.Document.ID),
		)
		result.Extraction = IngestionFailed
		result.StoppedAt = StageExtract
		result.ExtractErr = err
		return result, nil
	}

	applied, err := p.Merge(ctx, out)
	if err != nil {
		p.logger.Warn("cv merge failed",
			zap.Error(err),
			zap.String("principal_id", principal.ID),
			zap.String("document_id", stored.Document.ID),
		)
		result.Extraction = IngestionFailed
		result.StoppedAt = StageMerge
		result.ExtractErr = err
		return result, nil
	}
	if applied {
		result.Extraction = IngestionApplied
	} else {
		result.MergedEmpty = true
	}
	result.StoppedAt = StageMerge
	return result, nil
}

// Extract es la etapa de extraccion.
func (p *CVPipeline) Extract(ctx context.Context, in ExtractInput) (ExtractOutput, error) {
	const op = "cv.extract"
	if p.extractor == nil {
		return ExtractOutput{}, domain.Validation(op, "extraction is not configured")
	}
	data, err := p.extractor.Extract(ctx, in.Document, in.Content)
	if err != nil {
		return ExtractOutput{}, domain.Upstream(op, err)
	}
	return ExtractOutput{Principal: in.Principal, Data: data}, nil
}

// Merge es la etapa final: pasa los datos extraidos por el IngestionMerger con origen cv.
func (p *CVPipeline) Merge(ctx context.Context, in ExtractOutput) (bool, error) {
	_, applied, err := p.merger.ApplyRaw(ctx, in.Principal, in.Data, domain.MergeSourceCV)
	return applied, err
}
