package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/blueboyrocks/valcheck/internal/interfaces"
	"github.com/blueboyrocks/valcheck/internal/models"
)

// ManifestStorage implements the ManifestStorage interface for Badger
type ManifestStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewManifestStorage creates a new ManifestStorage instance
func NewManifestStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ManifestStorage {
	return &ManifestStorage{
		db:     db,
		logger: logger,
	}
}

// Save inserts or replaces a manifest keyed by report ID
func (s *ManifestStorage) Save(ctx context.Context, manifest *models.ReportManifest) error {
	if manifest == nil || manifest.ReportID == "" {
		return fmt.Errorf("manifest must have a report ID")
	}

	if err := s.db.Store().Upsert(manifest.ReportID, manifest); err != nil {
		return fmt.Errorf("failed to save manifest: %w", err)
	}

	s.logger.Debug().Str("report_id", manifest.ReportID).Msg("Manifest saved")
	return nil
}

// Get retrieves a manifest by report ID
func (s *ManifestStorage) Get(ctx context.Context, reportID string) (*models.ReportManifest, error) {
	var manifest models.ReportManifest
	err := s.db.Store().Get(reportID, &manifest)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrManifestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get manifest: %w", err)
	}

	return &manifest, nil
}

// Delete removes a manifest by report ID
func (s *ManifestStorage) Delete(ctx context.Context, reportID string) error {
	err := s.db.Store().Delete(reportID, &models.ReportManifest{})
	if err == badgerhold.ErrNotFound {
		return interfaces.ErrManifestNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete manifest: %w", err)
	}

	s.logger.Debug().Str("report_id", reportID).Msg("Manifest deleted")
	return nil
}

// List returns all stored manifests
func (s *ManifestStorage) List(ctx context.Context) ([]*models.ReportManifest, error) {
	var manifests []*models.ReportManifest
	if err := s.db.Store().Find(&manifests, nil); err != nil {
		return nil, fmt.Errorf("failed to list manifests: %w", err)
	}
	return manifests, nil
}
