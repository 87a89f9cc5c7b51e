package badger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/blueboyrocks/valcheck/internal/common"
	"github.com/blueboyrocks/valcheck/internal/interfaces"
	"github.com/blueboyrocks/valcheck/internal/models"
)

func newTestStorage(t *testing.T) interfaces.ManifestStorage {
	t.Helper()

	logger := arbor.NewLogger()
	db, err := NewBadgerDB(logger, &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "badger"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewManifestStorage(db, logger)
}

func testManifest(reportID string) *models.ReportManifest {
	return &models.ReportManifest{
		ReportID: reportID,
		CriticalValues: map[string]float64{
			"revenue":     6265024,
			"final_value": 2959167,
		},
		ValueAppearances: map[string][]string{
			"revenue": {"executive_summary", "financial_analysis"},
		},
		Consistency: models.ManifestCheck{Passed: true},
		GeneratedAt: time.Now().UTC(),
	}
}

func TestManifestStorage_SaveAndGet(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, testManifest("rpt_001")))

	got, err := storage.Get(ctx, "rpt_001")
	require.NoError(t, err)
	assert.Equal(t, "rpt_001", got.ReportID)
	assert.Equal(t, 6265024.0, got.CriticalValues["revenue"])
	assert.Equal(t, []string{"executive_summary", "financial_analysis"}, got.ValueAppearances["revenue"])
	assert.True(t, got.Consistency.Passed)
}

func TestManifestStorage_SaveUpserts(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	manifest := testManifest("rpt_002")
	require.NoError(t, storage.Save(ctx, manifest))

	manifest.CriticalValues["final_value"] = 3100000
	require.NoError(t, storage.Save(ctx, manifest))

	got, err := storage.Get(ctx, "rpt_002")
	require.NoError(t, err)
	assert.Equal(t, 3100000.0, got.CriticalValues["final_value"])

	all, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestManifestStorage_SaveRejectsMissingID(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	assert.Error(t, storage.Save(ctx, nil))
	assert.Error(t, storage.Save(ctx, &models.ReportManifest{}))
}

func TestManifestStorage_GetNotFound(t *testing.T) {
	storage := newTestStorage(t)

	_, err := storage.Get(context.Background(), "rpt_missing")
	assert.ErrorIs(t, err, interfaces.ErrManifestNotFound)
}

func TestManifestStorage_Delete(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, testManifest("rpt_003")))
	require.NoError(t, storage.Delete(ctx, "rpt_003"))

	_, err := storage.Get(ctx, "rpt_003")
	assert.ErrorIs(t, err, interfaces.ErrManifestNotFound)

	assert.ErrorIs(t, storage.Delete(ctx, "rpt_003"), interfaces.ErrManifestNotFound)
}

func TestManifestStorage_List(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	for _, id := range []string{"rpt_a", "rpt_b", "rpt_c"} {
		require.NoError(t, storage.Save(ctx, testManifest(id)))
	}

	all, err := storage.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	ids := make(map[string]bool)
	for _, manifest := range all {
		ids[manifest.ReportID] = true
	}
	assert.True(t, ids["rpt_a"] && ids["rpt_b"] && ids["rpt_c"])
}
