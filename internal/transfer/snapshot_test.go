package transfer

import (
	"testing"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/stretchr/testify/assert"
)

func snapshotInputs(remarks, referenceID string) (models.TransferRequest, models.ResolvedDestination, models.FeeQuote) {
	req := models.TransferRequest{
		SourceAccountID: "acc-001",
		Type:            models.TransferSavedBeneficiary,
		Destination:     models.BeneficiaryRef{BeneficiaryID: "ben-001"},
		Amount:          models.Rupees(15000),
		Purpose:         models.PurposeFamilyMaintenance,
		Remarks:         remarks,
	}
	dest := models.ResolvedDestination{Kind: models.TransferSavedBeneficiary, ReferenceID: referenceID}
	q := models.FeeQuote{Amount: req.Amount, Fee: models.Rupees(5), TotalDebit: models.Rupees(15005), Rail: models.RailIMPS}
	return req, dest, q
}

func TestSnapshotHash_Deterministic(t *testing.T) {
	req, dest, q := snapshotInputs("rent", "ben-001")

	assert.Equal(t, snapshotHash("s-1", "user-1", req, dest, q), snapshotHash("s-1", "user-1", req, dest, q))
	assert.NotEqual(t, snapshotHash("s-1", "user-1", req, dest, q), snapshotHash("s-2", "user-1", req, dest, q))
}

func TestSnapshotHash_FreeTextCannotShiftFields(t *testing.T) {
	kind := string(models.TransferSavedBeneficiary)

	// joined as key=value lines, both pairs render the same text
	reqA, destA, qA := snapshotInputs("rent\nresolved="+kind+":ben-001", "ben-999")
	reqB, destB, qB := snapshotInputs("rent", "ben-001\nresolved="+kind+":ben-999")

	assert.NotEqual(t,
		snapshotHash("s-1", "user-1", reqA, destA, qA),
		snapshotHash("s-1", "user-1", reqB, destB, qB),
	)
}
