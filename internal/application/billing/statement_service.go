package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rogerioboitto/casa-backend/internal/domain/billing"
	"github.com/rogerioboitto/casa-backend/internal/domain/portfolio"
	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
)

// StatementService assembles monthly billing statements from raw artifacts
// and manages the artifact lifecycle. Groups are derived on every read, never
// persisted; the artifacts are the only stored state.
type StatementService struct {
	artifacts  billing.ArtifactRepository
	properties portfolio.PropertyRepository
	calculator *billing.Calculator
	logger     *zap.Logger
}

// NewStatementService creates a statement service
func NewStatementService(
	artifacts billing.ArtifactRepository,
	properties portfolio.PropertyRepository,
	logger *zap.Logger,
) *StatementService {
	return &StatementService{
		artifacts:  artifacts,
		properties: properties,
		calculator: billing.NewCalculator(),
		logger:     logger,
	}
}

// Statements rebuilds every monthly group from the full artifact collection
// and computes consumption figures. When month is non-empty only groups for
// that reference month are returned; the grouping itself always runs over
// the whole collection so previous-month lookups stay correct.
func (s *StatementService) Statements(ctx context.Context, month valueobject.ReferenceMonth) ([]*billing.MonthlyGroup, error) {
	artifacts, err := s.artifacts.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load artifacts: %w", err)
	}
	properties, err := s.properties.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}

	groups := billing.NewGroupBuilder(properties).Build(artifacts)
	ix := billing.BuildReadingIndex(artifacts)
	for _, g := range groups {
		s.calculator.Compute(g, ix)
	}

	if month == "" {
		return groups, nil
	}
	filtered := groups[:0]
	for _, g := range groups {
		if g.Month == month {
			filtered = append(filtered, g)
		}
	}
	return filtered, nil
}

// IngestArtifact classifies and stores a new bill artifact. When another
// artifact already fills the same utility slot for the same group and month,
// ingestion fails with ErrDuplicateSlot unless the caller confirmed the
// overwrite; on confirmed overwrite the conflicting artifact is deleted.
func (s *StatementService) IngestArtifact(ctx context.Context, artifact *billing.BillArtifact, overwrite bool) error {
	if !artifact.Utility.IsValid() {
		return fmt.Errorf("invalid utility %q", artifact.Utility)
	}

	artifact.Kind = billing.Classify(artifact.FileName, artifact.CurrentReading)
	if artifact.ID == "" {
		artifact.ID = uuid.NewString()
	}
	if artifact.UploadedAt.IsZero() {
		artifact.UploadedAt = time.Now().UTC()
	}

	existing, err := s.artifacts.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}
	if conflict := billing.FindConflict(existing, artifact); conflict != nil {
		if !overwrite {
			s.logger.Info("Duplicate slot rejected",
				zap.String("artifact_id", artifact.ID),
				zap.String("conflicting_id", conflict.ID),
				zap.String("month", artifact.ReferenceMonth.String()))
			return billing.ErrDuplicateSlot
		}
		if err := s.artifacts.Delete(ctx, conflict.ID); err != nil {
			return fmt.Errorf("remove overwritten artifact: %w", err)
		}
		s.logger.Info("Artifact overwritten",
			zap.String("replaced_id", conflict.ID),
			zap.String("artifact_id", artifact.ID))
	}

	if err := s.artifacts.Save(ctx, artifact); err != nil {
		return fmt.Errorf("save artifact: %w", err)
	}

	s.logger.Info("Artifact ingested",
		zap.String("artifact_id", artifact.ID),
		zap.String("utility", artifact.Utility.String()),
		zap.String("kind", string(artifact.Kind)),
		zap.String("month", artifact.ReferenceMonth.String()))
	return nil
}

// CorrectReading updates the meter index of an existing artifact. Readings
// are the only mutable field after ingestion; the artifact is reclassified
// as a reading once an index exists.
func (s *StatementService) CorrectReading(ctx context.Context, artifactID string, reading float64) error {
	if _, err := s.artifacts.FindByID(ctx, artifactID); err != nil {
		return err
	}
	if err := s.artifacts.UpdateReading(ctx, artifactID, reading); err != nil {
		return fmt.Errorf("update reading: %w", err)
	}
	s.logger.Info("Reading corrected",
		zap.String("artifact_id", artifactID),
		zap.Float64("reading", reading))
	return nil
}

// DeleteArtifact removes an artifact permanently
func (s *StatementService) DeleteArtifact(ctx context.Context, artifactID string) error {
	if _, err := s.artifacts.FindByID(ctx, artifactID); err != nil {
		return err
	}
	if err := s.artifacts.Delete(ctx, artifactID); err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	s.logger.Info("Artifact deleted", zap.String("artifact_id", artifactID))
	return nil
}
