package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ClientValue is one durable key of one client.
type ClientValue struct {
	ClientID  string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

func (ClientValue) TableName() string { return "portal_client_storage" }

type SQLiteStorage struct {
	db *gorm.DB
}

func OpenSQLiteStorage(path string) (*SQLiteStorage, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return NewSQLiteStorage(db)
}

func NewSQLiteStorage(db *gorm.DB) (*SQLiteStorage, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlite storage requires database handle")
	}
	if err := db.AutoMigrate(&ClientValue{}); err != nil {
		return nil, fmt.Errorf("migrate portal_client_storage: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Load(ctx context.Context, clientID string) (map[string]string, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, ErrClientRequired
	}
	var rows []ClientValue
	if err := s.db.WithContext(ctx).Where("client_id = ?", clientID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query client storage: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

func (s *SQLiteStorage) Put(ctx context.Context, clientID string, values map[string]string) error {
	if strings.TrimSpace(clientID) == "" {
		return ErrClientRequired
	}
	if len(values) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]ClientValue, 0, len(values))
	for k, v := range values {
		rows = append(rows, ClientValue{ClientID: clientID, Key: k, Value: v, UpdatedAt: now})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
}

func (s *SQLiteStorage) Clear(ctx context.Context, clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return ErrClientRequired
	}
	if err := s.db.WithContext(ctx).Where("client_id = ?", clientID).Delete(&ClientValue{}).Error; err != nil {
		return fmt.Errorf("clear client storage: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
