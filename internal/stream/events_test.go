package stream

import (
	"database/sql"
	"testing"
	"time"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransferCommitted(t *testing.T) {
	scheduled := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	record := &models.TransactionRecord{
		ID:              "rec-1",
		ReferenceNumber: "TRF20250301093015000001",
		UserID:          "user-1",
		Amount:          models.Rupees(15000),
		Fee:             models.Rupees(5),
		Total:           models.Rupees(15005),
		Rail:            models.RailIMPS,
		Remarks:         sql.NullString{String: "rent", Valid: true},
		ScheduledFor:    sql.NullTime{Time: scheduled, Valid: true},
	}

	event := NewTransferCommitted(record)

	assert.Equal(t, "user-1", event.UserID)
	assert.Equal(t, "rent", event.Remarks)
	require.NotNil(t, event.ScheduledFor)
	assert.True(t, scheduled.Equal(*event.ScheduledFor))

	record.Remarks = sql.NullString{}
	record.ScheduledFor = sql.NullTime{}
	event = NewTransferCommitted(record)

	assert.Empty(t, event.Remarks)
	assert.Nil(t, event.ScheduledFor)
}
