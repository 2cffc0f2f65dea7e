package models

import (
	"database/sql"
	"time"
)

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// TransactionRecord is written exactly once per committed transfer and never updated.
type TransactionRecord struct {
	ID               string            `db:"id" json:"id"`
	ReferenceNumber  string            `db:"reference_number" json:"reference_number"`
	UserID           string            `db:"user_id" json:"-"`
	SourceAccountID  string            `db:"source_account_id" json:"source_account_id"`
	SourceDescriptor string            `db:"source_descriptor" json:"source"`
	TransferType     TransferType      `db:"transfer_type" json:"transfer_type"`
	DestinationKind  TransferType      `db:"destination_kind" json:"-"`
	DestinationRef   string            `db:"destination_ref" json:"destination_ref"`
	DestinationName  string            `db:"destination_name" json:"destination"`
	Amount           Amount            `db:"amount" json:"amount"`
	Fee              Amount            `db:"fee" json:"fee"`
	Total            Amount            `db:"total" json:"total"`
	Rail             Rail              `db:"rail" json:"rail"`
	ETA              string            `db:"eta" json:"eta"`
	Purpose          Purpose           `db:"purpose" json:"purpose"`
	Remarks          sql.NullString    `db:"remarks" json:"-"`
	ScheduledFor     sql.NullTime      `db:"scheduled_for" json:"-"`
	Status           TransactionStatus `db:"status" json:"status"`
	CreatedAt        time.Time         `db:"created_at" json:"timestamp"`
}
