package aggregate

import (
	"sort"
	"strings"

	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/pivolan/bandwidth_insights/normalize"
	"github.com/samber/lo"
)

type valueSet map[string]struct{}

func newValueSet(values []string) valueSet {
	if len(values) == 0 {
		return nil
	}
	return lo.SliceToMap(values, func(v string) (string, struct{}) {
		return strings.ToLower(strings.TrimSpace(v)), struct{}{}
	})
}

// canonical rewrites values that name a known category, so "Connected" selects
// Active records. Values that name no category are kept as given.
func canonical[T ~string](values []string, resolve func(string) T, unknown T) []string {
	return lo.Map(values, func(v string, _ int) string {
		if c := resolve(v); c != unknown {
			return string(c)
		}
		return v
	})
}

// has reports whether v is in the set. A nil set accepts everything.
func (s valueSet) has(v string) bool {
	if s == nil {
		return true
	}
	_, ok := s[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// Predicate compiles a filter into a record predicate.
func Predicate(f models.Filter) func(models.ClientRecord) bool {
	regions := newValueSet(f.Regions)
	states := newValueSet(f.States)
	statuses := newValueSet(canonical(f.Statuses, normalize.Status, models.StatusUnknown))
	types := newValueSet(canonical(f.ClientTypes, normalize.ClientType, models.ClientUnknown))
	return func(r models.ClientRecord) bool {
		return regions.has(r.Region) &&
			states.has(r.State) &&
			statuses.has(string(r.Status)) &&
			types.has(string(r.ClientType))
	}
}

// Apply returns the records matching f, in source order. The input is not modified.
func Apply(records []models.ClientRecord, f models.Filter) []models.ClientRecord {
	match := Predicate(f)
	return lo.Filter(records, func(r models.ClientRecord, _ int) bool {
		return match(r)
	})
}

// Options lists the values a filter UI can offer. States are limited to the
// selected regions when any are given.
type Options struct {
	Regions     []string
	States      []string
	Statuses    []string
	ClientTypes []string
}

func FilterOptions(records []models.ClientRecord, selectedRegions []string) Options {
	regions := newValueSet(selectedRegions)
	opts := Options{
		Regions: distinct(lo.Map(records, func(r models.ClientRecord, _ int) string { return r.Region })),
		States: distinct(lo.FilterMap(records, func(r models.ClientRecord, _ int) (string, bool) {
			return r.State, regions.has(r.Region)
		})),
		Statuses:    []string{string(models.StatusActive), string(models.StatusInactive)},
		ClientTypes: []string{string(models.ClientCorporate), string(models.ClientRetail)},
	}
	if lo.SomeBy(records, func(r models.ClientRecord) bool { return r.Status == models.StatusUnknown }) {
		opts.Statuses = append(opts.Statuses, string(models.StatusUnknown))
	}
	if lo.SomeBy(records, func(r models.ClientRecord) bool { return r.ClientType == models.ClientUnknown }) {
		opts.ClientTypes = append(opts.ClientTypes, string(models.ClientUnknown))
	}
	return opts
}

func distinct(values []string) []string {
	out := lo.Uniq(lo.Filter(values, func(v string, _ int) bool { return v != "" }))
	sort.Strings(out)
	return out
}
