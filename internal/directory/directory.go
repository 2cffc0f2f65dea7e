// Package directory talks to the bank and payment-address directory used to
// verify new beneficiaries and UPI-style identifiers before money is sent.
package directory

import (
	"errors"
)

var (
	// ErrNotRegistered is returned when the directory answered and the account or payee does not exist.
	ErrNotRegistered = errors.New("directory: not registered")

	// ErrUnavailable covers transport failures, 5xx responses and an open circuit.
	ErrUnavailable = errors.New("directory: unavailable")
)

type AccountMatch struct {
	AccountName string `json:"account_name"`
	BankName    string `json:"bank_name"`
}

type Payee struct {
	DisplayName string `json:"display_name"`
}
