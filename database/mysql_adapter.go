package database

import (
	"errors"
	"fmt"
	"log"
	"time"

	"walrus-extend/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// MySQLDatabase MySQL database implementation
type MySQLDatabase struct {
	db *gorm.DB
}

// MySQLConfig MySQL configuration
type MySQLConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// NewMySQLDatabase create MySQL database instance
func NewMySQLDatabase(config interface{}) (Database, error) {
	cfg, ok := config.(*MySQLConfig)
	if !ok {
		return nil, fmt.Errorf("invalid MySQL config type")
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&model.Preferences{}, &model.TipRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	log.Println("✅ MySQL database connected successfully")
	return &MySQLDatabase{db: db}, nil
}

// GetGormDB underlying gorm handle
func (m *MySQLDatabase) GetGormDB() *gorm.DB {
	return m.db
}

// Preferences operations

func (m *MySQLDatabase) SavePreferences(prefs *model.Preferences) error {
	if prefs.Profile == "" {
		prefs.Profile = model.DefaultProfile
	}
	return m.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(prefs).Error
}

func (m *MySQLDatabase) GetPreferences(profile string) (*model.Preferences, error) {
	if profile == "" {
		profile = model.DefaultProfile
	}
	var prefs model.Preferences
	err := m.db.Where("profile = ?", profile).First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

// TipRecord operations

func (m *MySQLDatabase) CreateTipRecord(record *model.TipRecord) error {
	err := m.db.Create(record).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (m *MySQLDatabase) GetTipRecordByDigest(digest string) (*model.TipRecord, error) {
	var record model.TipRecord
	err := m.db.Where("digest = ?", digest).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (m *MySQLDatabase) ListTipRecordsByBlobID(blobID string, cursor int64, size int) ([]*model.TipRecord, int64, error) {
	return m.listWithCursor(m.db.Where("blob_id = ?", blobID), cursor, size)
}

func (m *MySQLDatabase) ListTipRecordsBySender(sender string, cursor int64, size int) ([]*model.TipRecord, int64, error) {
	return m.listWithCursor(m.db.Where("sender = ?", sender), cursor, size)
}

func (m *MySQLDatabase) listWithCursor(query *gorm.DB, cursor int64, size int) ([]*model.TipRecord, int64, error) {
	size = clampPageSize(size)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	var records []*model.TipRecord
	if err := query.Order("id DESC").Limit(size).Find(&records).Error; err != nil {
		return nil, 0, err
	}

	var nextCursor int64
	if len(records) == size {
		nextCursor = records[len(records)-1].ID
	}
	return records, nextCursor, nil
}

func (m *MySQLDatabase) CountTipRecords() (int64, error) {
	var count int64
	err := m.db.Model(&model.TipRecord{}).Count(&count).Error
	return count, err
}

// General operations

func (m *MySQLDatabase) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
