package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/pivolan/bandwidth_insights/logging"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const batchSize = 500

var ErrUnknownDriver = errors.New("unknown database driver")

// ClientRow is the persisted form of a normalized record. Batch groups the rows
// written by one import.
type ClientRow struct {
	ID         uint   `gorm:"primaryKey"`
	Batch      string `gorm:"size:36;index"`
	Serial     string `gorm:"size:32"`
	Company    string `gorm:"size:255"`
	Branch     string `gorm:"size:255"`
	State      string `gorm:"size:64;index"`
	Region     string `gorm:"size:64;index"`
	Network    string `gorm:"size:64"`
	Bandwidth  float64
	Status     string `gorm:"size:16"`
	ClientType string `gorm:"size:16"`
	SourceRow  int
	ImportedAt time.Time
}

func (ClientRow) TableName() string {
	return "client_records"
}

// BatchInfo describes one import.
type BatchInfo struct {
	Batch      string
	Records    int
	Bandwidth  float64
	ImportedAt time.Time `gorm:"-"`
}

type Store struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// Open connects and migrates the client_records table. SQL statements are
// logged only when log is at debug level.
func Open(driver, dsn string, log *zap.SugaredLogger) (*Store, error) {
	if log == nil {
		log = logging.Nop()
	}
	d, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	mode := logger.Silent
	if log.Desugar().Core().Enabled(zap.DebugLevel) {
		mode = logger.Info
	}
	db, err := gorm.Open(d, &gorm.Config{Logger: logger.Default.LogMode(mode)})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	if err := db.AutoMigrate(&ClientRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Import writes records under batch in one transaction. Rows already stored for
// the same batch are replaced.
func (s *Store) Import(batch string, records []models.ClientRecord) (int, error) {
	now := time.Now().UTC()
	rows := make([]ClientRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, ClientRow{
			Batch:      batch,
			Serial:     r.Serial,
			Company:    r.Company,
			Branch:     r.Branch,
			State:      r.State,
			Region:     r.Region,
			Network:    r.Network,
			Bandwidth:  r.Bandwidth,
			Status:     string(r.Status),
			ClientType: string(r.ClientType),
			SourceRow:  r.Row,
			ImportedAt: now,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("batch = ?", batch).Delete(&ClientRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, batchSize).Error
	})
	if err != nil {
		return 0, fmt.Errorf("import batch %s: %w", batch, err)
	}
	s.log.Infow("records imported", "batch", batch, "rows", len(rows))
	return len(rows), nil
}

// Records reads a batch back in insertion order.
func (s *Store) Records(batch string) ([]models.ClientRecord, error) {
	var rows []ClientRow
	if err := s.db.Where("batch = ?", batch).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]models.ClientRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, models.ClientRecord{
			Serial:     r.Serial,
			Company:    r.Company,
			Branch:     r.Branch,
			State:      r.State,
			Region:     r.Region,
			Network:    r.Network,
			Bandwidth:  r.Bandwidth,
			Status:     models.CustomerStatus(r.Status),
			ClientType: models.ClientType(r.ClientType),
			Row:        r.SourceRow,
		})
	}
	return records, nil
}

// Batches lists stored imports, newest first.
func (s *Store) Batches() ([]BatchInfo, error) {
	var out []BatchInfo
	err := s.db.Model(&ClientRow{}).
		Select("batch, COUNT(*) AS records, SUM(bandwidth) AS bandwidth").
		Group("batch").
		Order("MAX(id) DESC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	for i := range out {
		var first ClientRow
		if err := s.db.Where("batch = ?", out[i].Batch).Order("id").First(&first).Error; err != nil {
			return nil, err
		}
		out[i].ImportedAt = first.ImportedAt
	}
	return out, nil
}

// RegionTotals sums bandwidth per region in the database, ordered by the first
// row of each region.
func (s *Store) RegionTotals(batch string) (models.Breakdown, error) {
	var rows []struct {
		Region    string
		Bandwidth float64
		Count     int
	}
	err := s.db.Model(&ClientRow{}).
		Select("region, SUM(bandwidth) AS bandwidth, COUNT(*) AS count").
		Where("batch = ?", batch).
		Group("region").
		Order("MIN(id)").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(models.Breakdown, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.GroupTotal{Key: r.Region, Bandwidth: r.Bandwidth, Count: r.Count})
	}
	return out, nil
}
