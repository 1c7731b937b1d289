package model

import "time"

// Status transaction status of a tip record
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// RecipientSource where the tip recipient address came from
type RecipientSource string

const (
	RecipientFromRequest RecipientSource = "request"
	RecipientFromOwner   RecipientSource = "owner"
	RecipientFromSender  RecipientSource = "sender-fallback"
)

// TipRecord one submitted tip, kept for history views
type TipRecord struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Digest          string          `gorm:"uniqueIndex;type:varchar(64);not null" json:"digest"` // Transaction digest
	BlobID          string          `gorm:"index;type:varchar(128);not null" json:"blob_id"`
	Network         string          `gorm:"index;type:varchar(20);not null" json:"network"`
	Sender          string          `gorm:"index;type:varchar(66);not null" json:"sender"`
	Recipient       string          `gorm:"type:varchar(66)" json:"recipient"`
	RecipientSource RecipientSource `gorm:"type:varchar(20)" json:"recipient_source"`
	Amount          uint64          `json:"amount"` // Smallest WAL unit
	Status          Status          `gorm:"type:varchar(20);default:'success'" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specify table name
func (TipRecord) TableName() string {
	return "tb_tip_record"
}
