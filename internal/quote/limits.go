package quote

import (
	"github.com/cradoe/remitflow/internal/ledger"
	"github.com/cradoe/remitflow/internal/models"
)

// Limits is the headroom summary shown next to the amount field.
type Limits struct {
	TransferType      models.TransferType `json:"transfer_type"`
	DailyLimit        models.Amount       `json:"daily_limit"`
	DailyUsed         models.Amount       `json:"daily_used"`
	DailyRemaining    models.Amount       `json:"daily_remaining"`
	DailyUsedPercent  float64             `json:"daily_used_percent"`
	MonthlyLimit      models.Amount       `json:"monthly_limit"`
	MonthlyUsed       models.Amount       `json:"monthly_used"`
	MonthlyRemaining  models.Amount       `json:"monthly_remaining"`
	MonthlyUsedPct    float64             `json:"monthly_used_percent"`
	PerTransactionCap *models.Amount      `json:"per_transaction_cap,omitempty"`
	MaxSendable       models.Amount       `json:"max_sendable"`
	ProcessingTime    string              `json:"processing_time"`
	Charges           string              `json:"charges"`
}

func (e *Engine) Limits(account *models.Account, t models.TransferType) Limits {
	account = ledger.AsOf(account, e.now())
	headroom := ledger.HeadroomOf(account)

	l := Limits{
		TransferType:     t,
		DailyLimit:       account.DailyLimit,
		DailyUsed:        account.DailyUsed,
		DailyRemaining:   headroom.DailyRemaining,
		DailyUsedPercent: percent(account.DailyUsed, account.DailyLimit),
		MonthlyLimit:     account.MonthlyLimit,
		MonthlyUsed:      account.MonthlyUsed,
		MonthlyRemaining: headroom.MonthlyRemaining,
		MonthlyUsedPct:   percent(account.MonthlyUsed, account.MonthlyLimit),
		MaxSendable:      MaxSendable(account, t),
	}

	if limit, ok := PerTransactionCap(t); ok {
		l.PerTransactionCap = &limit
	}

	if chargeable(t) {
		l.ProcessingTime = "IMPS: " + etaIMPS + " | RTGS: " + etaRTGS
		l.Charges = "₹" + lowFee.String() + " - ₹" + highFee.String()
	} else {
		l.ProcessingTime = etaInstant
		l.Charges = "free"
	}

	return l
}

func percent(used, limit models.Amount) float64 {
	if limit <= 0 {
		return 0
	}
	p := float64(used) / float64(limit) * 100
	if p > 100 {
		return 100
	}
	return float64(int(p*100+0.5)) / 100
}
