package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Database wraps the GORM DB handle and exposes repository helpers.
type Database struct {
	gorm *gorm.DB
	mu   sync.Mutex
}

// Open initializes the SQLite-backed database at the provided path.
func Open(path string, silent bool) (*Database, error) {
	cfg := &gorm.Config{}
	if silent {
		cfg.Logger = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&Verification{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	if err := db.Exec("PRAGMA synchronous=NORMAL").Error; err != nil {
		logrus.WithError(err).Warn("set synchronous pragma")
	}
	if err := applyIndexes(db); err != nil {
		return nil, fmt.Errorf("apply indexes: %w", err)
	}
	return &Database{gorm: db}, nil
}

// GORM exposes the raw gorm.DB handle.
func (d *Database) GORM() *gorm.DB {
	return d.gorm
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveVerification inserts or updates the verification row for a document.
// Re-scoring the same text replaces the previous result.
func (d *Database) SaveVerification(v *Verification) error {
	if v == nil {
		return errors.New("verification is nil")
	}
	if strings.TrimSpace(v.TextHash) == "" {
		return errors.New("verification text hash is empty")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	columns := []string{
		"request_id",
		"source_url",
		"excerpt",
		"word_count",
		"opinion",
		"probability",
		"verdict",
		"certainty",
		"confidence_pct",
		"base_probability",
		"base_available",
		"zero_shot_probability",
		"zero_shot_available",
		"quality_score",
		"bias_score",
		"political_leaning",
		"note",
		"processing_time_ms",
		"updated_at",
	}
	return d.gorm.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "text_hash"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(v).Error
}

// CountVerifications returns the number of stored verification rows.
func (d *Database) CountVerifications() (int64, error) {
	var count int64
	if err := d.gorm.Model(&Verification{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// VerificationQuery encapsulates filters and pagination for listing rows.
type VerificationQuery struct {
	Query          string
	Verdict        string
	MinProbability float64
	MaxProbability float64
	OpinionOnly    bool
	Sort           string
	Offset         int
	Limit          int
}

// ListVerifications returns paginated verification records applying optional
// filters.
func (d *Database) ListVerifications(opts VerificationQuery) ([]Verification, int64, error) {
	var total int64
	base := d.gorm.Model(&Verification{})
	if opts.Query != "" {
		like := fmt.Sprintf("%%%s%%", opts.Query)
		base = base.Where("excerpt LIKE ? OR source_url LIKE ?", like, like)
	}
	if verdict := strings.TrimSpace(opts.Verdict); verdict != "" {
		base = base.Where("verdict = ?", verdict)
	}
	if opts.MinProbability > 0 {
		base = base.Where("probability >= ?", opts.MinProbability)
	}
	if opts.MaxProbability > 0 {
		base = base.Where("probability <= ?", opts.MaxProbability)
	}
	if opts.OpinionOnly {
		base = base.Where("opinion = ?", true)
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := orderForSort(opts.Sort)
	query := base.Order(order).Offset(opts.Offset)
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	var rows []Verification
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ClearVerifications removes all stored verification rows.
func (d *Database) ClearVerifications() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.gorm.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Verification{}).Error
}

func orderForSort(sort string) string {
	switch strings.ToLower(strings.TrimSpace(sort)) {
	case "probability_asc":
		return "verifications.probability ASC, verifications.id DESC"
	case "probability_desc":
		return "verifications.probability DESC, verifications.id DESC"
	case "created_asc":
		return "verifications.created_at ASC"
	case "created_desc":
		return "verifications.created_at DESC"
	default:
		return "verifications.id DESC"
	}
}

func applyIndexes(db *gorm.DB) error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_verifications_probability ON verifications(probability)",
		"CREATE INDEX IF NOT EXISTS idx_verifications_created_at ON verifications(created_at)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
