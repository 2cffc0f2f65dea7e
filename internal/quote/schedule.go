package quote

import "github.com/cradoe/remitflow/internal/models"

var (
	lowFeeCeiling  = models.Rupees(10000)
	midFeeCeiling  = models.Rupees(100000)
	impsCeiling    = models.Rupees(200000)
	lowFee         = models.Paise(250)
	midFee         = models.Rupees(5)
	highFee        = models.Rupees(15)
	directIDTxnCap = models.Rupees(100000)
)

const (
	etaInstant = "instant"
	etaIMPS    = "30 minutes"
	etaRTGS    = "2–4 hours, business hours only"
)

// chargeable reports whether the transfer type travels over the interbank rails.
func chargeable(t models.TransferType) bool {
	return t == models.TransferSavedBeneficiary || t == models.TransferNewBeneficiary
}

// Fee is the flat charge for moving amount with the given transfer type.
func Fee(t models.TransferType, amount models.Amount) models.Amount {
	if !chargeable(t) {
		return 0
	}

	switch {
	case amount <= lowFeeCeiling:
		return lowFee
	case amount <= midFeeCeiling:
		return midFee
	default:
		return highFee
	}
}

// Route picks the settlement rail and its expected completion time.
func Route(t models.TransferType, amount models.Amount) (models.Rail, string) {
	if !chargeable(t) {
		return models.RailInstant, etaInstant
	}

	if amount <= impsCeiling {
		return models.RailIMPS, etaIMPS
	}
	return models.RailRTGS, etaRTGS
}

// PerTransactionCap returns the single-transfer ceiling for t, if it has one.
func PerTransactionCap(t models.TransferType) (models.Amount, bool) {
	if t == models.TransferDirectID {
		return directIDTxnCap, true
	}
	return 0, false
}
