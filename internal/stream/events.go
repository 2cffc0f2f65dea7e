package stream

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cradoe/remitflow/internal/models"
)

// TransferCommittedTopic carries one TransferCommitted event per committed transfer,
// keyed by reference number.
const TransferCommittedTopic = "transfer.committed"

type TransferCommitted struct {
	RecordID         string         `json:"record_id"`
	ReferenceNumber  string         `json:"reference_number"`
	UserID           string         `json:"user_id"`
	SourceDescriptor string         `json:"source"`
	DestinationName  string         `json:"destination"`
	Amount           models.Amount  `json:"amount"`
	Fee              models.Amount  `json:"fee"`
	Total            models.Amount  `json:"total"`
	Rail             models.Rail    `json:"rail"`
	ETA              string         `json:"eta"`
	Purpose          models.Purpose `json:"purpose"`
	Remarks          string         `json:"remarks,omitempty"`
	ScheduledFor     *time.Time     `json:"scheduled_for,omitempty"`
	CommittedAt      time.Time      `json:"committed_at"`
}

func NewTransferCommitted(record *models.TransactionRecord) TransferCommitted {
	event := TransferCommitted{
		RecordID:         record.ID,
		ReferenceNumber:  record.ReferenceNumber,
		UserID:           record.UserID,
		SourceDescriptor: record.SourceDescriptor,
		DestinationName:  record.DestinationName,
		Amount:           record.Amount,
		Fee:              record.Fee,
		Total:            record.Total,
		Rail:             record.Rail,
		ETA:              record.ETA,
		Purpose:          record.Purpose,
		CommittedAt:      record.CreatedAt,
	}
	if record.Remarks.Valid {
		event.Remarks = record.Remarks.String
	}
	if record.ScheduledFor.Valid {
		scheduled := record.ScheduledFor.Time
		event.ScheduledFor = &scheduled
	}
	return event
}

// PublishCommitted announces a committed transfer on TransferCommittedTopic.
func (st *KafkaStream) PublishCommitted(ctx context.Context, record *models.TransactionRecord) error {
	payload, err := json.Marshal(NewTransferCommitted(record))
	if err != nil {
		return err
	}

	return st.ProduceMessage(ctx, TransferCommittedTopic, record.ReferenceNumber, payload)
}
