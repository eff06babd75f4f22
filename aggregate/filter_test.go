package aggregate

import (
	"testing"

	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/stretchr/testify/assert"
)

func companies(records []models.ClientRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Company
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter models.Filter
		want   []string
	}{
		{"No restriction", models.Filter{}, []string{"Zenith", "Acme", "Beta", "Gamma", "Acme"}},
		{"Region", models.Filter{Regions: []string{"South West"}}, []string{"Zenith", "Beta", "Acme"}},
		{"Region is case insensitive", models.Filter{Regions: []string{" south west"}}, []string{"Zenith", "Beta", "Acme"}},
		{"Region and status", models.Filter{Regions: []string{"South West"}, Statuses: []string{"Active"}}, []string{"Zenith", "Beta", "Acme"}},
		{"State set", models.Filter{States: []string{"FCT", "Rivers"}}, []string{"Acme", "Gamma"}},
		{"Client type", models.Filter{ClientTypes: []string{"Retail"}}, []string{"Acme", "Beta"}},
		{"Unknown status", models.Filter{Statuses: []string{"Unknown"}}, []string{"Gamma"}},
		{"Status synonym", models.Filter{Statuses: []string{"Connected"}}, []string{"Zenith", "Beta", "Acme"}},
		{"Status synonym typo", models.Filter{Statuses: []string{"diconnected"}}, []string{"Acme"}},
		{"Client type synonym", models.Filter{ClientTypes: []string{"Corp."}}, []string{"Zenith", "Gamma"}},
		{"Unrecognized status matches nothing", models.Filter{Statuses: []string{"pending"}}, []string{}},
		{"No match", models.Filter{Regions: []string{"North East"}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, companies(Apply(sample(), tt.filter)))
		})
	}
}

func TestApplyIsCommutative(t *testing.T) {
	byRegion := models.Filter{Regions: []string{"South West", "North Central"}}
	byStatus := models.Filter{Statuses: []string{"Active"}}
	byType := models.Filter{ClientTypes: []string{"Retail", "Unknown"}}

	regionThenStatus := Apply(Apply(sample(), byRegion), byStatus)
	statusThenRegion := Apply(Apply(sample(), byStatus), byRegion)
	combined := Apply(sample(), models.Filter{Regions: byRegion.Regions, Statuses: byStatus.Statuses})
	assert.Equal(t, regionThenStatus, statusThenRegion)
	assert.Equal(t, regionThenStatus, combined)

	left := Apply(Apply(Apply(sample(), byRegion), byStatus), byType)
	right := Apply(sample(), models.Filter{Regions: byRegion.Regions, Statuses: byStatus.Statuses, ClientTypes: byType.ClientTypes})
	assert.Equal(t, left, right)
	assert.Equal(t, []string{"Beta", "Acme"}, companies(right))
}

func TestApplyLeavesInputUntouched(t *testing.T) {
	records := sample()
	Apply(records, models.Filter{Regions: []string{"South South"}})
	assert.Equal(t, sample(), records)
}

func TestFilterOptions(t *testing.T) {
	opts := FilterOptions(sample(), nil)
	assert.Equal(t, []string{"North Central", "South South", "South West"}, opts.Regions)
	assert.Equal(t, []string{"FCT", "Lagos", "Oyo", "Rivers"}, opts.States)
	assert.Equal(t, []string{"Active", "Inactive", "Unknown"}, opts.Statuses)
	assert.Equal(t, []string{"Corporate", "Retail", "Unknown"}, opts.ClientTypes)

	opts = FilterOptions(sample(), []string{"South West"})
	assert.Equal(t, []string{"Lagos", "Oyo"}, opts.States)

	opts = FilterOptions(nil, nil)
	assert.Empty(t, opts.Regions)
	assert.Equal(t, []string{"Active", "Inactive"}, opts.Statuses)
}
