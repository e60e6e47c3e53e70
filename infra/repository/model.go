package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionLog is one row of the append-only transaction ledger.
type TransactionLog struct {
	ID                uint64          `gorm:"primaryKey;autoIncrement"`
	RefNumber         string          `gorm:"column:ref_number;type:varchar(255);not null;uniqueIndex:idx_ref_status,priority:1"`
	ParentID          *uint64         `gorm:"column:parent_id"`
	TransactionType   int             `gorm:"column:transaction_type;type:smallint;not null"`
	TransactionStatus int             `gorm:"column:transaction_status;type:smallint;not null;uniqueIndex:idx_ref_status,priority:2"`
	Address           string          `gorm:"column:address;type:varchar(255);not null"`
	Amount            decimal.Decimal `gorm:"column:amount;type:numeric(40,18);not null"`
	Currency          string          `gorm:"column:currency;type:varchar(16);not null"`
	TransactionHash   string          `gorm:"column:transaction_hash;type:varchar(255)"`
	BlockNumber       uint64          `gorm:"column:block_number;not null"`
	CreatedAt         time.Time       `gorm:"column:created_at;not null"`
}

func (TransactionLog) TableName() string {
	return "transaction_logs"
}

// CompensationEntry journals one compensating call.
type CompensationEntry struct {
	RefNumber string    `gorm:"column:ref_number;type:varchar(255);primaryKey"`
	Action    string    `gorm:"column:action;type:varchar(64);primaryKey"`
	Target    string    `gorm:"column:target;type:varchar(255);not null"`
	State     string    `gorm:"column:state;type:varchar(16);not null;index"`
	Attempts  int       `gorm:"column:attempts;not null"`
	LastError string    `gorm:"column:last_error;type:text"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (CompensationEntry) TableName() string {
	return "compensation_journal"
}

// IngestCursor is the last fully processed block of a stream.
type IngestCursor struct {
	Stream      string    `gorm:"column:stream;type:varchar(128);primaryKey"`
	BlockNumber uint64    `gorm:"column:block_number;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

func (IngestCursor) TableName() string {
	return "ingest_cursors"
}

type Country struct {
	ISO2 string `gorm:"column:iso2;type:char(2);primaryKey"`
	Name string `gorm:"column:name;type:varchar(255);not null"`
}

func (Country) TableName() string {
	return "countries"
}
