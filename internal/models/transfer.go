package models

import (
	"strings"
	"time"
)

type TransferType string

const (
	TransferOwnAccount       TransferType = "own-account"
	TransferSavedBeneficiary TransferType = "saved-beneficiary"
	TransferNewBeneficiary   TransferType = "new-beneficiary"
	TransferDirectID         TransferType = "upi-payment"
)

func (t TransferType) Valid() bool {
	switch t {
	case TransferOwnAccount, TransferSavedBeneficiary, TransferNewBeneficiary, TransferDirectID:
		return true
	}
	return false
}

// Destination is one of AccountRef, BeneficiaryRef, NewBeneficiaryInput or DirectIDRef.
type Destination interface {
	// Kind reports the transfer type the destination belongs to.
	Kind() TransferType
	// Fingerprint is a stable text form used in snapshot hashes.
	Fingerprint() string
}

type AccountRef struct {
	AccountID string `json:"account_id"`
}

func (AccountRef) Kind() TransferType    { return TransferOwnAccount }
func (d AccountRef) Fingerprint() string { return "account:" + d.AccountID }

type BeneficiaryRef struct {
	BeneficiaryID string `json:"beneficiary_id"`
}

func (BeneficiaryRef) Kind() TransferType    { return TransferSavedBeneficiary }
func (d BeneficiaryRef) Fingerprint() string { return "beneficiary:" + d.BeneficiaryID }

type NewBeneficiaryInput struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	RoutingCode   string `json:"routing_code"`
}

func (NewBeneficiaryInput) Kind() TransferType { return TransferNewBeneficiary }
func (d NewBeneficiaryInput) Fingerprint() string {
	return "new:" + strings.ToUpper(d.RoutingCode) + ":" + d.AccountNumber + ":" + d.Name
}

type DirectIDRef struct {
	ID string `json:"id"`
}

func (DirectIDRef) Kind() TransferType    { return TransferDirectID }
func (d DirectIDRef) Fingerprint() string { return "vpa:" + strings.ToLower(d.ID) }

type Purpose string

const (
	PurposeFamilyMaintenance Purpose = "family-maintenance"
	PurposeEducation         Purpose = "education"
	PurposeMedical           Purpose = "medical"
	PurposeBusiness          Purpose = "business"
	PurposeLoanRepayment     Purpose = "loan-repayment"
	PurposeInvestment        Purpose = "investment"
	PurposeGift              Purpose = "gift"
	PurposeOthers            Purpose = "others"
)

var purposeLabels = map[Purpose]string{
	PurposeFamilyMaintenance: "Family Maintenance",
	PurposeEducation:         "Education",
	PurposeMedical:           "Medical Expenses",
	PurposeBusiness:          "Business Payment",
	PurposeLoanRepayment:     "Loan Repayment",
	PurposeInvestment:        "Investment",
	PurposeGift:              "Gift",
	PurposeOthers:            "Others",
}

func (p Purpose) Valid() bool {
	_, ok := purposeLabels[p]
	return ok
}

func (p Purpose) Label() string {
	return purposeLabels[p]
}

const MaxRemarksLength = 50

// TransferRequest is the draft owned by a single transfer session.
type TransferRequest struct {
	SourceAccountID string       `json:"source_account_id"`
	Type            TransferType `json:"transfer_type"`
	Destination     Destination  `json:"destination"`
	Amount          Amount       `json:"amount"`
	Purpose         Purpose      `json:"purpose"`
	Remarks         string       `json:"remarks,omitempty"`
	ScheduleDate    *time.Time   `json:"schedule_date,omitempty"`
}

// ResolvedDestination is a validated, display-ready transfer target.
type ResolvedDestination struct {
	Kind          TransferType `json:"kind"`
	ReferenceID   string       `json:"reference_id"`
	DisplayName   string       `json:"display_name"`
	AccountMasked string       `json:"account_masked,omitempty"`
	BankName      string       `json:"bank_name,omitempty"`
}

type Rail string

const (
	RailInstant Rail = "instant"
	RailIMPS    Rail = "imps"
	RailRTGS    Rail = "rtgs"
)

type FeeQuote struct {
	Amount     Amount `json:"amount"`
	Fee        Amount `json:"fee"`
	TotalDebit Amount `json:"total_debit"`
	Rail       Rail   `json:"rail"`
	ETA        string `json:"eta"`
}
