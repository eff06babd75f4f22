package aggregate

import (
	"sort"

	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/samber/lo"
)

// TopRecords returns the n records with the highest bandwidth. Ties are broken by
// company name, then branch, so exports are reproducible.
func TopRecords(records []models.ClientRecord, n int) []models.ClientRecord {
	sorted := make([]models.ClientRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Bandwidth != b.Bandwidth {
			return a.Bandwidth > b.Bandwidth
		}
		if a.Company != b.Company {
			return a.Company < b.Company
		}
		return a.Branch < b.Branch
	})
	return limit(sorted, n)
}

// TopByBandwidth orders groups by bandwidth descending, key ascending on ties.
func TopByBandwidth(b models.Breakdown, n int) models.Breakdown {
	sorted := append(models.Breakdown{}, b...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Bandwidth != sorted[j].Bandwidth {
			return sorted[i].Bandwidth > sorted[j].Bandwidth
		}
		return sorted[i].Key < sorted[j].Key
	})
	return limit(sorted, n)
}

// TopByCount orders groups by record count descending, key ascending on ties.
func TopByCount(b models.Breakdown, n int) models.Breakdown {
	sorted := append(models.Breakdown{}, b...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Key < sorted[j].Key
	})
	return limit(sorted, n)
}

// TopCompanies sums bandwidth per company and returns the n largest.
func TopCompanies(records []models.ClientRecord, n int) models.Breakdown {
	g := newGrouper()
	for _, r := range records {
		g.add(r.Company, r.Bandwidth)
	}
	return TopByBandwidth(g.out, n)
}

// TopBranches sums bandwidth per company branch and returns the n largest.
func TopBranches(records []models.ClientRecord, n int) models.Breakdown {
	g := newGrouper()
	for _, r := range records {
		key := r.Company
		if r.Branch != "" {
			key += " / " + r.Branch
		}
		g.add(key, r.Bandwidth)
	}
	return TopByBandwidth(g.out, n)
}

func limit[T any](items []T, n int) []T {
	if n < 0 || n >= len(items) {
		return items
	}
	return lo.Subset(items, 0, uint(n))
}
