package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/pivolan/bandwidth_insights/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "COMPANY NAME,BRANCH/LOCATION,STATE,REGION,WAN/INTERNET CLIENT,BANDWIDTH SUBSCRIPTION (Mbps),CUSTOMER STATUS,CLIENT\n"

func writeCSV(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "clients.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+body), 0644))
	return path
}

func TestOpenAndApply(t *testing.T) {
	path := writeCSV(t, t.TempDir(),
		"Acme,HQ,Lagos,South West,WAN,100,Active,Corporate\n"+
			"Beta,Wuse,FCT,North Central,Internet,50,Disconnected,Retail\n"+
			"Gamma,Ikeja,Lagos,South West,WAN,N/A,Active,Retail\n")

	s, err := Open(path, loader.New(nil))
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, path, s.Source())
	assert.Len(t, s.Records(), 2)
	assert.Equal(t, 1, s.Report().ExcludedCount())

	all := s.Apply(models.Filter{})
	assert.Equal(t, 150.0, all.Metrics.TotalBandwidth)
	assert.Equal(t, 1, all.Metrics.ActiveCount)
	assert.Equal(t, 1, all.Metrics.InactiveCount)

	sw := s.Apply(models.Filter{Regions: []string{"south west"}})
	require.Len(t, sw.Records, 1)
	assert.Equal(t, "Acme", sw.Records[0].Company)
	assert.Equal(t, 100.0, sw.Metrics.TotalBandwidth)

	none := s.Apply(models.Filter{States: []string{"Kano"}})
	assert.Empty(t, none.Records)
	assert.Zero(t, none.Metrics.TotalBandwidth)
	assert.NotNil(t, none.Metrics.BandwidthByRegion)
}

func TestReloadReplacesTable(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "Acme,HQ,Lagos,South West,WAN,100,Active,Corporate\n")

	s, err := Open(path, nil)
	require.NoError(t, err)
	before := s.Apply(models.Filter{})
	firstLoad := s.LoadedAt()

	writeCSV(t, dir, "Acme,HQ,Lagos,South West,WAN,100,Active,Corporate\n"+
		"Beta,Wuse,FCT,North Central,Internet,40,Active,Retail\n")
	require.NoError(t, s.Reload())

	assert.Len(t, s.Records(), 2)
	assert.Equal(t, 140.0, s.Apply(models.Filter{}).Metrics.TotalBandwidth)
	assert.Len(t, before.Records, 1, "views taken before a reload are unaffected")
	assert.False(t, s.LoadedAt().Before(firstLoad))
}

func TestReloadKeepsTableOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "Acme,HQ,Lagos,South West,WAN,100,Active,Corporate\n")

	s, err := Open(path, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("COMPANY NAME,STATE\nAcme,Lagos\n"), 0644))
	err = s.Reload()
	var missing *models.MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Len(t, s.Records(), 1)
}

func TestReloadWithoutSource(t *testing.T) {
	s := FromDataset("", &loader.Dataset{Records: []models.ClientRecord{}})
	assert.Error(t, s.Reload())
}

func TestSnapshot(t *testing.T) {
	ds := &loader.Dataset{
		Records: []models.ClientRecord{
			{Company: "Acme", State: "Lagos", Region: "South West", Bandwidth: 10, Status: models.StatusActive, ClientType: models.ClientCorporate},
			{Company: "Beta", State: "Oyo", Region: "South West", Bandwidth: 30, Status: models.StatusActive, ClientType: models.ClientRetail},
			{Company: "Acme", State: "Lagos", Region: "South West", Bandwidth: 25, Status: models.StatusInactive, ClientType: models.ClientCorporate},
		},
		Report: models.LoadReport{
			Exclusions: []models.DataQualityError{{Row: 5, Column: models.ColumnBandwidth, Value: "N/A"}},
			Conflicts:  2,
		},
	}
	s := FromDataset("", ds)
	v := s.Apply(models.Filter{Statuses: []string{"Active"}})
	snap := s.Snapshot(v, "Bandwidth Insights", 1)

	assert.Equal(t, "Bandwidth Insights", snap.Title)
	assert.Equal(t, "status=Active", snap.Filter)
	assert.Equal(t, 40.0, snap.Metrics.TotalBandwidth)
	require.Len(t, snap.TopRecords, 1)
	assert.Equal(t, "Beta", snap.TopRecords[0].Company)
	require.Len(t, snap.TopCompanies, 1)
	assert.Equal(t, "Beta", snap.TopCompanies[0].Key)
	assert.Equal(t, []string{"Oyo", "Lagos"}, snap.TopStates.Keys())
	assert.Equal(t, 1, snap.Excluded)
	assert.Equal(t, 2, snap.Conflicts)
}
