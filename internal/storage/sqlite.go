package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hammamikhairi/nutriplan/internal/domain"
	"github.com/hammamikhairi/nutriplan/internal/logger"
)

// Compile-time interface check.
var _ domain.SessionStore = (*SQLiteStore)(nil)

// sessionRecord is the row layout of the sessions table. Nested values are
// stored as JSON text. Timestamps come from the session, so GORM's
// automatic create/update times are off.
type sessionRecord struct {
	ID        string `gorm:"primaryKey;size:64"`
	Paid      bool
	PaidAt    *time.Time
	Quiz      string    `gorm:"type:text"`
	Plan      string    `gorm:"type:text"`
	DietPlan  string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"index;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (sessionRecord) TableName() string { return "sessions" }

// SQLiteConfig holds SQLite configuration.
type SQLiteConfig struct {
	Path  string
	Debug bool
}

// SQLiteStore persists sessions in a SQLite database through GORM.
type SQLiteStore struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewSQLiteStore opens (or creates) the database at cfg.Path and migrates
// the sessions table.
func NewSQLiteStore(cfg SQLiteConfig, log *logger.Logger) (*SQLiteStore, error) {
	level := gormlogger.Silent
	if cfg.Debug {
		level = gormlogger.Info
	}
	gl := gormlogger.New(
		stdLogger(log),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{Logger: gl})
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite %s: %w", cfg.Path, err)
	}
	if err := db.AutoMigrate(&sessionRecord{}); err != nil {
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}

	log.Info("sqlite session store ready at %s", cfg.Path)
	return &SQLiteStore{db: db, log: log}, nil
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save inserts or updates a session.
func (s *SQLiteStore) Save(ctx context.Context, session *domain.Session) error {
	rec, err := toRecord(session)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(rec).Error; err != nil {
		return fmt.Errorf("storage: save session %s: %w", session.ID, err)
	}
	s.log.Debug("saved session %s", session.ID)
	return nil
}

// Load retrieves a session by ID.
func (s *SQLiteStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	var rec sessionRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: load session %s: %w", id, err)
	}
	return fromRecord(&rec)
}

// Delete removes a session by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&sessionRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("storage: delete session %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns every session, oldest first.
func (s *SQLiteStore) List(ctx context.Context) ([]*domain.Session, error) {
	var recs []sessionRecord
	if err := s.db.WithContext(ctx).Order("created_at").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("storage: list sessions: %w", err)
	}
	out := make([]*domain.Session, 0, len(recs))
	for i := range recs {
		sess, err := fromRecord(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, nil
}

func toRecord(s *domain.Session) (*sessionRecord, error) {
	quiz, err := json.Marshal(s.Quiz)
	if err != nil {
		return nil, fmt.Errorf("storage: encode quiz: %w", err)
	}
	rec := &sessionRecord{
		ID:        s.ID,
		Paid:      s.Paid,
		Quiz:      string(quiz),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if !s.PaidAt.IsZero() {
		t := s.PaidAt
		rec.PaidAt = &t
	}
	if s.Plan != nil {
		b, err := json.Marshal(s.Plan)
		if err != nil {
			return nil, fmt.Errorf("storage: encode plan: %w", err)
		}
		rec.Plan = string(b)
	}
	if s.DietPlan != nil {
		b, err := json.Marshal(s.DietPlan)
		if err != nil {
			return nil, fmt.Errorf("storage: encode diet plan: %w", err)
		}
		rec.DietPlan = string(b)
	}
	return rec, nil
}

func fromRecord(rec *sessionRecord) (*domain.Session, error) {
	s := &domain.Session{
		ID:        rec.ID,
		Paid:      rec.Paid,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.PaidAt != nil {
		s.PaidAt = *rec.PaidAt
	}
	if rec.Quiz != "" {
		if err := json.Unmarshal([]byte(rec.Quiz), &s.Quiz); err != nil {
			return nil, fmt.Errorf("storage: decode quiz of %s: %w", rec.ID, err)
		}
	}
	if rec.Plan != "" {
		s.Plan = new(domain.NutritionPlan)
		if err := json.Unmarshal([]byte(rec.Plan), s.Plan); err != nil {
			return nil, fmt.Errorf("storage: decode plan of %s: %w", rec.ID, err)
		}
	}
	if rec.DietPlan != "" {
		s.DietPlan = new(domain.DietPlan)
		if err := json.Unmarshal([]byte(rec.DietPlan), s.DietPlan); err != nil {
			return nil, fmt.Errorf("storage: decode diet plan of %s: %w", rec.ID, err)
		}
	}
	return s, nil
}

// stdLogger adapts our logger to the printf-only writer GORM expects.
func stdLogger(l *logger.Logger) gormlogger.Writer {
	return log.New(l.Writer(), "[SQL] ", log.Ltime)
}
