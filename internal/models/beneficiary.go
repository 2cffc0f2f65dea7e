package models

import "time"

type BeneficiaryStatus string

const (
	BeneficiaryUnverified BeneficiaryStatus = "unverified"
	BeneficiaryVerified   BeneficiaryStatus = "verified"
)

// Beneficiary is a saved external payee. Once verified only the nickname may change.
type Beneficiary struct {
	ID            string            `db:"id" json:"id"`
	UserID        string            `db:"user_id" json:"-"`
	Name          string            `db:"name" json:"name"`
	Nickname      string            `db:"nickname" json:"nickname,omitempty"`
	AccountNumber string            `db:"account_number" json:"-"`
	RoutingCode   string            `db:"routing_code" json:"routing_code"`
	BankName      string            `db:"bank_name" json:"bank_name"`
	Status        BeneficiaryStatus `db:"status" json:"status"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
	VerifiedAt    *time.Time        `db:"verified_at" json:"verified_at,omitempty"`
}

func (b *Beneficiary) IsVerified() bool {
	return b.Status == BeneficiaryVerified
}
