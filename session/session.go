package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/pivolan/bandwidth_insights/aggregate"
	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/pivolan/bandwidth_insights/loader"
	uuid "github.com/satori/go.uuid"
)

const (
	topStatesByBandwidth = 5
	topStatesByCount     = 10
)

// Session owns one loaded client table. Views handed out by Apply never alias
// the table, so a Reload does not change a view already in use.
type Session struct {
	mu       sync.RWMutex
	id       uuid.UUID
	source   string
	loadedAt time.Time
	dataset  *loader.Dataset
	loader   *loader.Loader
}

// View is a filtered subset of the table with its metrics.
type View struct {
	Filter  models.Filter
	Records []models.ClientRecord
	Metrics models.AggregateMetrics
}

// Open loads source and starts a session over it.
func Open(source string, l *loader.Loader) (*Session, error) {
	if l == nil {
		l = loader.New(nil)
	}
	ds, err := l.LoadFile(source)
	if err != nil {
		return nil, err
	}
	s := FromDataset(source, ds)
	s.loader = l
	return s, nil
}

// FromDataset wraps an already loaded dataset. source may be empty, in which
// case Reload is not available.
func FromDataset(source string, ds *loader.Dataset) *Session {
	return &Session{
		id:       uuid.NewV4(),
		source:   source,
		loadedAt: time.Now(),
		dataset:  ds,
		loader:   loader.New(nil),
	}
}

func (s *Session) ID() string {
	return s.id.String()
}

func (s *Session) Source() string {
	return s.source
}

func (s *Session) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Records returns a copy of the full normalized table.
func (s *Session) Records() []models.ClientRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ClientRecord{}, s.dataset.Records...)
}

func (s *Session) Report() models.LoadReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset.Report
}

// Reload re-reads the source file and replaces the table in one step. On error
// the previous table stays in place.
func (s *Session) Reload() error {
	if s.source == "" {
		return fmt.Errorf("session %s has no source file", s.ID())
	}
	ds, err := s.loader.LoadFile(s.source)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.dataset = ds
	s.loadedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// Apply filters the table and computes metrics for the result.
func (s *Session) Apply(f models.Filter) View {
	s.mu.RLock()
	records := aggregate.Apply(s.dataset.Records, f)
	s.mu.RUnlock()

	return View{
		Filter:  f,
		Records: records,
		Metrics: aggregate.Compute(records),
	}
}

// Options lists filter choices; states are limited to the selected regions.
func (s *Session) Options(selectedRegions []string) aggregate.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return aggregate.FilterOptions(s.dataset.Records, selectedRegions)
}

// Snapshot prepares the view for the PDF report and the dashboard.
func (s *Session) Snapshot(v View, title string, topN int) models.Snapshot {
	report := s.Report()
	return BuildSnapshot(v, report, title, topN)
}

func BuildSnapshot(v View, report models.LoadReport, title string, topN int) models.Snapshot {
	return models.Snapshot{
		Title:         title,
		GeneratedAt:   time.Now(),
		Filter:        v.Filter.String(),
		Metrics:       v.Metrics,
		TopRecords:    aggregate.TopRecords(v.Records, topN),
		TopCompanies:  aggregate.TopCompanies(v.Records, topN),
		TopBranches:   aggregate.TopBranches(v.Records, topN),
		TopStates:     aggregate.TopByBandwidth(v.Metrics.BandwidthByState, topStatesByBandwidth),
		StatesByCount: aggregate.TopByCount(v.Metrics.BandwidthByState, topStatesByCount),
		Excluded:      report.ExcludedCount(),
		Conflicts:     report.Conflicts,
	}
}
