package handler

import (
	"net/http"
	"time"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/cradoe/remitflow/internal/response"
)

type transactionView struct {
	*models.TransactionRecord
	Remarks      string     `json:"remarks,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
}

func newTransactionView(record *models.TransactionRecord) transactionView {
	view := transactionView{TransactionRecord: record}
	if record == nil {
		return view
	}

	if record.Remarks.Valid {
		view.Remarks = record.Remarks.String
	}
	if record.ScheduledFor.Valid {
		date := record.ScheduledFor.Time
		view.ScheduledFor = &date
	}

	return view
}

func (h *RouteHandler) HandleGetTransaction(w http.ResponseWriter, r *http.Request) {
	record, found, err := h.Transactions.FindByReference(r.Context(), userID(r), r.PathValue("reference"))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}

	err = response.JSONOkResponse(w, newTransactionView(record), "", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
