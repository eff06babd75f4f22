package aggregate

import (
	"math"
	"sort"

	"github.com/pivolan/bandwidth_insights/domain/models"
)

// grouper accumulates totals per key and remembers first-encounter order.
type grouper struct {
	index map[string]int
	out   models.Breakdown
}

func newGrouper() *grouper {
	return &grouper{index: map[string]int{}, out: models.Breakdown{}}
}

func (g *grouper) add(key string, bandwidth float64) {
	i, ok := g.index[key]
	if !ok {
		i = len(g.out)
		g.index[key] = i
		g.out = append(g.out, models.GroupTotal{Key: key})
	}
	g.out[i].Bandwidth += bandwidth
	g.out[i].Count++
}

// Compute builds AggregateMetrics over records. Empty input gives zeroed metrics.
func Compute(records []models.ClientRecord) models.AggregateMetrics {
	byRegion := newGrouper()
	byState := newGrouper()
	byNetwork := newGrouper()
	byClient := newGrouper()
	regionClient := map[[2]string]int{}

	m := models.AggregateMetrics{RegionByClient: []models.RegionClientTotal{}}
	values := make([]float64, 0, len(records))

	for _, r := range records {
		m.TotalBandwidth += r.Bandwidth
		m.RecordCount++
		switch r.Status {
		case models.StatusActive:
			m.ActiveCount++
			m.ActiveBandwidth += r.Bandwidth
		case models.StatusInactive:
			m.InactiveCount++
			m.InactiveBandwidth += r.Bandwidth
		default:
			m.UnknownStatusCount++
		}
		switch r.ClientType {
		case models.ClientCorporate:
			m.CorporateCount++
		case models.ClientRetail:
			m.RetailCount++
		}

		byRegion.add(r.Region, r.Bandwidth)
		byState.add(r.State, r.Bandwidth)
		byNetwork.add(r.Network, r.Bandwidth)
		byClient.add(string(r.ClientType), r.Bandwidth)

		key := [2]string{r.Region, string(r.ClientType)}
		i, ok := regionClient[key]
		if !ok {
			i = len(m.RegionByClient)
			regionClient[key] = i
			m.RegionByClient = append(m.RegionByClient, models.RegionClientTotal{Region: r.Region, ClientType: r.ClientType})
		}
		m.RegionByClient[i].Bandwidth += r.Bandwidth
		m.RegionByClient[i].Count++

		values = append(values, r.Bandwidth)
	}

	m.BandwidthByRegion = byRegion.out
	m.BandwidthByState = byState.out
	m.BandwidthByNetwork = byNetwork.out
	m.BandwidthByClient = byClient.out
	if m.RecordCount > 0 {
		m.AverageBandwidth = m.TotalBandwidth / float64(m.RecordCount)
	}
	m.Distribution = distribution(values)
	return m
}

func distribution(values []float64) models.BandwidthStats {
	if len(values) == 0 {
		return models.BandwidthStats{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return models.BandwidthStats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Median: quantile(sorted, 0.5),
		Q1:     quantile(sorted, 0.25),
		Q3:     quantile(sorted, 0.75),
	}
}

// quantile interpolates linearly between the closest ranks of a sorted slice.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p * float64(len(sorted)-1)
	floor := math.Floor(pos)
	ceil := math.Ceil(pos)
	if floor == ceil {
		return sorted[int(pos)]
	}
	lower := sorted[int(floor)]
	upper := sorted[int(ceil)]
	return lower + (pos-floor)*(upper-lower)
}
