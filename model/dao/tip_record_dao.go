package dao

import (
	"errors"

	"walrus-extend/database"
	"walrus-extend/model"
)

// TipRecordDAO tip record data access object
type TipRecordDAO struct {
	db database.Database
}

// NewTipRecordDAO create tip record DAO instance
func NewTipRecordDAO(db database.Database) *TipRecordDAO {
	return &TipRecordDAO{db: db}
}

// Create create tip record; a record with the same digest is kept as is
func (dao *TipRecordDAO) Create(record *model.TipRecord) error {
	err := dao.db.CreateTipRecord(record)
	if errors.Is(err, database.ErrDuplicate) {
		return nil
	}
	return err
}

// GetByDigest returns nil, nil when no record exists
func (dao *TipRecordDAO) GetByDigest(digest string) (*model.TipRecord, error) {
	record, err := dao.db.GetTipRecordByDigest(digest)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	return record, err
}

// ListByBlobIDWithCursor get tip records of one blob with cursor pagination
// cursor: id of the last record of the previous page (0 for first page)
// Returns: records, nextCursor (0 when no more pages), error
func (dao *TipRecordDAO) ListByBlobIDWithCursor(blobID string, cursor int64, size int) ([]*model.TipRecord, int64, error) {
	return dao.db.ListTipRecordsByBlobID(blobID, cursor, size)
}

// ListBySenderWithCursor get tip records of one sender with cursor pagination
func (dao *TipRecordDAO) ListBySenderWithCursor(sender string, cursor int64, size int) ([]*model.TipRecord, int64, error) {
	return dao.db.ListTipRecordsBySender(sender, cursor, size)
}

// Count number of stored tip records
func (dao *TipRecordDAO) Count() (int64, error) {
	return dao.db.CountTipRecords()
}
