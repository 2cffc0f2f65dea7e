package transfer

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/cradoe/remitflow/internal/models"
	"golang.org/x/exp/slices"
)

// snapshotHash identifies the exact request a user reviewed. Any change to what
// would be sent, to whom, or at what price produces a different hash.
func snapshotHash(sessionID, userID string, req models.TransferRequest, dest models.ResolvedDestination, q models.FeeQuote) string {
	fields := map[string]string{
		"session":     sessionID,
		"user":        userID,
		"source":      req.SourceAccountID,
		"type":        string(req.Type),
		"destination": req.Destination.Fingerprint(),
		"resolved":    string(dest.Kind) + ":" + dest.ReferenceID,
		"amount":      req.Amount.String(),
		"fee":         q.Fee.String(),
		"total":       q.TotalDebit.String(),
		"rail":        string(q.Rail),
		"purpose":     string(req.Purpose),
		"remarks":     req.Remarks,
	}
	if req.ScheduleDate != nil {
		fields["schedule"] = req.ScheduleDate.Format("2006-01-02")
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	// each key and value is length-prefixed so free text cannot pose as another field
	var b strings.Builder
	for _, k := range keys {
		writeField(&b, k)
		writeField(&b, fields[k])
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeField(b *strings.Builder, v string) {
	b.WriteString(strconv.Itoa(len(v)))
	b.WriteByte(':')
	b.WriteString(v)
}
