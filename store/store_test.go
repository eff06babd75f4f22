package store

import (
	"path/filepath"
	"testing"

	"github.com/pivolan/bandwidth_insights/aggregate"
	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", filepath.Join(t.TempDir(), "insights.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func records() []models.ClientRecord {
	return []models.ClientRecord{
		{Serial: "1", Company: "Acme", Branch: "HQ", State: "Lagos", Region: "South West", Network: "WAN", Bandwidth: 100, Status: models.StatusActive, ClientType: models.ClientCorporate, Row: 2},
		{Serial: "2", Company: "Beta", Branch: "Wuse", State: "FCT", Region: "North Central", Network: "Internet", Bandwidth: 50, Status: models.StatusInactive, ClientType: models.ClientRetail, Row: 3},
		{Serial: "3", Company: "Gamma", Branch: "Ibadan", State: "Oyo", Region: "South West", Network: "WAN", Bandwidth: 2.5, Status: models.StatusUnknown, ClientType: models.ClientUnknown, Row: 5},
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("postgres", "whatever", nil)
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestImportAndRead(t *testing.T) {
	s := openTestStore(t)

	n, err := s.Import("batch-1", records())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := s.Records("batch-1")
	require.NoError(t, err)
	assert.Equal(t, records(), got)

	missing, err := s.Records("nope")
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestImportReplacesBatch(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Import("batch-1", records())
	require.NoError(t, err)
	_, err = s.Import("batch-1", records()[:1])
	require.NoError(t, err)
	_, err = s.Import("batch-2", records())
	require.NoError(t, err)

	got, err := s.Records("batch-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	batches, err := s.Batches()
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "batch-2", batches[0].Batch)
	assert.Equal(t, 3, batches[0].Records)
	assert.InDelta(t, 152.5, batches[0].Bandwidth, 1e-9)
	assert.False(t, batches[0].ImportedAt.IsZero())
	assert.Equal(t, 1, batches[1].Records)
}

func TestRegionTotalsMatchAggregate(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Import("batch-1", records())
	require.NoError(t, err)

	got, err := s.RegionTotals("batch-1")
	require.NoError(t, err)
	assert.Equal(t, aggregate.Compute(records()).BandwidthByRegion, got)
}
