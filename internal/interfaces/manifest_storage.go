package interfaces

import (
	"context"
	"errors"

	"github.com/blueboyrocks/valcheck/internal/models"
)

// ErrManifestNotFound is returned when no manifest exists for a report ID.
var ErrManifestNotFound = errors.New("report manifest not found")

// ManifestStorage persists report manifests keyed by report ID.
type ManifestStorage interface {
	Save(ctx context.Context, manifest *models.ReportManifest) error
	Get(ctx context.Context, reportID string) (*models.ReportManifest, error)
	Delete(ctx context.Context, reportID string) error
	List(ctx context.Context) ([]*models.ReportManifest, error)
}
