package database

import (
	"fmt"

	"walrus-extend/conf"
	"walrus-extend/model"
)

// Database interface for different database implementations
type Database interface {
	// Preferences operations
	SavePreferences(prefs *model.Preferences) error
	GetPreferences(profile string) (*model.Preferences, error)

	// TipRecord operations
	CreateTipRecord(record *model.TipRecord) error
	GetTipRecordByDigest(digest string) (*model.TipRecord, error)
	// Cursor pagination, newest first; cursor 0 starts from the newest record
	ListTipRecordsByBlobID(blobID string, cursor int64, size int) ([]*model.TipRecord, int64, error)
	ListTipRecordsBySender(sender string, cursor int64, size int) ([]*model.TipRecord, int64, error)
	CountTipRecords() (int64, error)

	// General operations
	Close() error
}

// DBType database type
type DBType string

const (
	DBTypeMySQL  DBType = "mysql"
	DBTypePebble DBType = "pebble"
)

// NewDatabase opens the database selected by dbType
func NewDatabase(dbType DBType, config interface{}) (Database, error) {
	switch dbType {
	case DBTypeMySQL:
		return NewMySQLDatabase(config)
	case DBTypePebble:
		return NewPebbleDatabase(config)
	default:
		return nil, ErrUnsupportedDBType
	}
}

// NewDatabaseFromConfig opens the database described by cfg
func NewDatabaseFromConfig(cfg conf.DatabaseConfig) (Database, error) {
	switch DBType(cfg.Type) {
	case DBTypeMySQL:
		return NewDatabase(DBTypeMySQL, &MySQLConfig{
			DSN:          cfg.Dsn,
			MaxOpenConns: cfg.MaxOpenConns,
			MaxIdleConns: cfg.MaxIdleConns,
		})
	case DBTypePebble:
		return NewDatabase(DBTypePebble, &PebbleConfig{DataDir: cfg.DataDir})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDBType, cfg.Type)
	}
}

// clampPageSize keeps page sizes within [1, 100]
func clampPageSize(size int) int {
	if size <= 0 {
		return 20
	}
	if size > 100 {
		return 100
	}
	return size
}
