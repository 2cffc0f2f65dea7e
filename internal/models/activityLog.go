package models

import "time"

const (
	// ActivityEntityTransfer is used for events on a transfer session
	ActivityEntityTransfer = "transfer"

	// ActivityEntityBeneficiary is used for events on the beneficiaries table
	ActivityEntityBeneficiary = "beneficiary"

	// ActivityEntityCredential is used for transaction password changes
	ActivityEntityCredential = "credential"
)

// ActivityLog is an audit entry. Entity and EntityId together point at the subject of the event.
type ActivityLog struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Entity      string    `db:"entity" json:"entity"`
	EntityId    string    `db:"entity_id" json:"entity_id"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
