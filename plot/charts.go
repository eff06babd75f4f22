package plot

import (
	"errors"

	"github.com/pivolan/bandwidth_insights/domain/models"
)

// Chart is one rendered PNG with the title it was drawn under.
type Chart struct {
	Name  string
	Title string
	PNG   []byte
}

// Charts renders the report figures for a snapshot. Figures with nothing to
// show are left out.
func Charts(snap models.Snapshot) ([]Chart, error) {
	m := snap.Metrics
	bar := func(b models.Breakdown, metric Metric, yName, title string) func() ([]byte, error) {
		return func() ([]byte, error) {
			return DrawPlotBar(NewDataBreakdownForGraph(b, metric, yName, title))
		}
	}
	specs := []struct {
		name  string
		title string
		draw  func() ([]byte, error)
	}{
		{"customers_by_region", "Customers by Region", bar(m.BandwidthByRegion, Customers, "Customers", "Customers by Region")},
		{"bandwidth_by_region", "Bandwidth by Region", bar(m.BandwidthByRegion, Bandwidth, "Mbps", "Bandwidth by Region")},
		{"top_states_by_customers", "Top States by Customers", bar(snap.StatesByCount, Customers, "Customers", "Top States by Customers")},
		{"bandwidth_by_client_type", "Bandwidth by Client Type", bar(m.BandwidthByClient, Bandwidth, "Mbps", "Bandwidth by Client Type")},
		{"customer_status", "Customer Status", func() ([]byte, error) {
			return DrawPie("Customer Status",
				[]string{string(models.StatusActive), string(models.StatusInactive), string(models.StatusUnknown)},
				[]float64{float64(m.ActiveCount), float64(m.InactiveCount), float64(m.UnknownStatusCount)})
		}},
	}

	var charts []Chart
	for _, s := range specs {
		png, err := s.draw()
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			return nil, err
		}
		charts = append(charts, Chart{Name: s.name, Title: s.title, PNG: png})
	}
	return charts, nil
}
