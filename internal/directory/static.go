package directory

import (
	"context"
	"strings"
	"unicode"
)

var staticBanks = map[string]string{
	"HDFC": "HDFC Bank",
	"ICIC": "ICICI Bank",
	"UTIB": "Axis Bank",
	"SBIN": "State Bank of India",
	"KKBK": "Kotak Mahindra Bank",
	"PUNB": "Punjab National Bank",
	"BARB": "Bank of Baroda",
	"YESB": "Yes Bank",
}

var staticHandles = map[string]bool{
	"paytm":      true,
	"ybl":        true,
	"okaxis":     true,
	"oksbi":      true,
	"okhdfcbank": true,
	"okicici":    true,
	"upi":        true,
}

// Static answers lookups from fixed tables. It is used when no directory URL is configured.
type Static struct{}

func NewStatic() *Static {
	return &Static{}
}

func (Static) VerifyAccount(ctx context.Context, routingCode, accountNumber string) (AccountMatch, error) {
	if err := ctx.Err(); err != nil {
		return AccountMatch{}, err
	}

	if len(routingCode) < 4 || len(accountNumber) < 9 || len(accountNumber) > 18 || !digitsOnly(accountNumber) {
		return AccountMatch{}, ErrNotRegistered
	}

	bank, ok := staticBanks[strings.ToUpper(routingCode[:4])]
	if !ok {
		return AccountMatch{}, ErrNotRegistered
	}

	return AccountMatch{BankName: bank}, nil
}

func (Static) VerifyDirectID(ctx context.Context, id string) (Payee, error) {
	if err := ctx.Err(); err != nil {
		return Payee{}, err
	}

	local, handle, found := strings.Cut(id, "@")
	if !found || !staticHandles[strings.ToLower(handle)] {
		return Payee{}, ErrNotRegistered
	}

	return Payee{DisplayName: displayName(local)}, nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// displayName turns "priya.sharma" into "Priya Sharma".
func displayName(local string) string {
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || unicode.IsDigit(r)
	})

	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}

	if len(parts) == 0 {
		return local
	}
	return strings.Join(parts, " ")
}
