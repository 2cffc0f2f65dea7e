package models

import "time"

type AccountClass string

const (
	AccountClassSavings AccountClass = "savings"
	AccountClassCurrent AccountClass = "current"
	AccountClassSalary  AccountClass = "salary"
	AccountClassLoan    AccountClass = "loan"
)

// Account is a source account owned by the authenticated user.
// DailyUsed and MonthlyUsed only move when the limit ledger commits a transfer,
// and belong to the IST calendar day recorded in UsageDate.
type Account struct {
	ID               string       `db:"id" json:"id"`
	UserID           string       `db:"user_id" json:"user_id"`
	Label            string       `db:"label" json:"label"`
	Number           string       `db:"account_number" json:"-"`
	Class            AccountClass `db:"class" json:"class"`
	Balance          Amount       `db:"balance" json:"balance"`
	AvailableBalance Amount       `db:"available_balance" json:"available_balance"`
	DailyLimit       Amount       `db:"daily_limit" json:"daily_limit"`
	MonthlyLimit     Amount       `db:"monthly_limit" json:"monthly_limit"`
	DailyUsed        Amount       `db:"daily_used" json:"daily_used"`
	MonthlyUsed      Amount       `db:"monthly_used" json:"monthly_used"`
	UsageDate        time.Time    `db:"usage_date" json:"-"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
}

func (a *Account) DailyRemaining() Amount {
	return a.DailyLimit - a.DailyUsed
}

func (a *Account) MonthlyRemaining() Amount {
	return a.MonthlyLimit - a.MonthlyUsed
}

// IST is the zone in which usage periods roll over.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// UsagePeriod returns the IST calendar day containing t as midnight UTC of that date.
func UsagePeriod(t time.Time) time.Time {
	y, m, d := t.In(IST).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RollUsage zeroes counters whose period ended before now. Daily usage resets at
// midnight IST and monthly usage on the first day of the month. An account with
// no recorded period adopts the current one and keeps its counters.
func (a *Account) RollUsage(now time.Time) {
	if now.IsZero() {
		return
	}

	today := UsagePeriod(now)
	if a.UsageDate.IsZero() {
		a.UsageDate = today
		return
	}

	y, m, d := a.UsageDate.Date()
	last := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if !today.After(last) {
		return
	}

	if today.Year() != last.Year() || today.Month() != last.Month() {
		a.MonthlyUsed = 0
	}
	a.DailyUsed = 0
	a.UsageDate = today
}

// MaskedNumber keeps the last four digits, e.g. ****1234.
func (a *Account) MaskedNumber() string {
	return MaskAccountNumber(a.Number)
}

func MaskAccountNumber(number string) string {
	if len(number) <= 4 {
		return "****" + number
	}
	return "****" + number[len(number)-4:]
}
