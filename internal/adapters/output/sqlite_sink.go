// internal/adapters/output/sqlite_sink.go
package output

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"dnsrake/internal/core/domain"
	"dnsrake/internal/core/ports"
	"dnsrake/internal/platform/logx"
)

// ScanRunDB es una fila de scan_runs: un run por fila.
type ScanRunDB struct {
	gorm.Model
	Target      string         `gorm:"index;not null"`
	Status      string         `gorm:"not null"`
	Confirmed   int            `gorm:"column:confirmed"`
	Processed   int64          `gorm:"column:processed"`
	Total       int64          `gorm:"column:total"`
	Undecodable int64          `gorm:"column:undecodable"`
	Wildcard    datatypes.JSON `gorm:"column:wildcard"`
	StartedAt   time.Time
	ElapsedMS   int64 `gorm:"column:elapsed_ms"`
}

// TableName nombre fijo de la tabla.
func (ScanRunDB) TableName() string { return "scan_runs" }

// FoundSubdomainDB es una fila de found_subdomains.
type FoundSubdomainDB struct {
	gorm.Model
	ScanRunID uint           `gorm:"index;not null"`
	Name      string         `gorm:"index;not null"`
	Addresses datatypes.JSON `gorm:"column:addresses"`
	FoundAt   time.Time
}

// TableName nombre fijo de la tabla.
func (FoundSubdomainDB) TableName() string { return "found_subdomains" }

// SQLiteSink replica los hallazgos en una base SQLite vía gorm.
// Cada Record es un INSERT propio, confirmado antes de retornar.
type SQLiteSink struct {
	path   string
	target string
	logger logx.Logger

	mu   sync.Mutex
	conn *gorm.DB
	run  *ScanRunDB
}

var _ ports.SummarySink = (*SQLiteSink)(nil)

// NewSQLiteSink crea el sink; la base se abre en Open.
func NewSQLiteSink(path string, target domain.Target, logger logx.Logger) *SQLiteSink {
	if logger == nil {
		logger = logx.Discard()
	}
	return &SQLiteSink{
		path:   path,
		target: target.Root,
		logger: logger.With("component", "sqlite-sink"),
	}
}

// Open abre la base, migra el esquema y registra el run en estado running.
func (s *SQLiteSink) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return nil
	}

	conn, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSinkOpen, s.path, err)
	}

	if err := conn.AutoMigrate(&ScanRunDB{}, &FoundSubdomainDB{}); err != nil {
		closeConn(conn)
		return fmt.Errorf("%w: %s: migrate: %v", domain.ErrSinkOpen, s.path, err)
	}

	run := &ScanRunDB{
		Target:    s.target,
		Status:    domain.ScanStatusRunning.String(),
		StartedAt: time.Now(),
	}
	if err := conn.Create(run).Error; err != nil {
		closeConn(conn)
		return fmt.Errorf("%w: %s: %v", domain.ErrSinkOpen, s.path, err)
	}

	s.conn = conn
	s.run = run
	s.logger.Debug("database opened", "path", s.path, "run_id", run.ID)
	return nil
}

// Record inserta un subdominio confirmado.
func (s *SQLiteSink) Record(sub domain.ConfirmedSubdomain) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return fmt.Errorf("%w: %s: sink not open", domain.ErrSinkWrite, s.path)
	}

	addrs, err := addressesJSON(sub.Addresses)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSinkWrite, s.path, err)
	}

	foundAt := sub.FoundAt
	if foundAt.IsZero() {
		foundAt = time.Now()
	}

	row := &FoundSubdomainDB{
		ScanRunID: s.run.ID,
		Name:      sub.Name,
		Addresses: addrs,
		FoundAt:   foundAt,
	}
	if err := s.conn.Create(row).Error; err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSinkWrite, s.path, err)
	}
	return nil
}

// RecordSummary actualiza la fila del run con el resumen final.
func (s *SQLiteSink) RecordSummary(summary domain.ScanSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return fmt.Errorf("%w: %s: sink not open", domain.ErrSinkWrite, s.path)
	}

	wildcard, err := addressesJSON(summary.Wildcard)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSinkWrite, s.path, err)
	}

	updates := map[string]any{
		"status":      summary.Status.String(),
		"confirmed":   summary.Confirmed,
		"processed":   summary.Processed,
		"total":       summary.Total,
		"undecodable": summary.Undecodable,
		"wildcard":    wildcard,
		"elapsed_ms":  summary.Elapsed.Milliseconds(),
	}
	if err := s.conn.Model(s.run).Updates(updates).Error; err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSinkWrite, s.path, err)
	}
	return nil
}

// Close cierra la conexión subyacente.
func (s *SQLiteSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := closeConn(s.conn)
	s.conn = nil
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrSinkClose, s.path, err)
	}
	return nil
}

// RunID retorna el id del run en scan_runs (0 si nunca se abrió).
func (s *SQLiteSink) RunID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run == nil {
		return 0
	}
	return s.run.ID
}

func closeConn(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func addressesJSON(set domain.AddressSet) (datatypes.JSON, error) {
	raw, err := json.Marshal(set.Strings())
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
