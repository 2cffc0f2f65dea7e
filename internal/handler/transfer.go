package handler

import (
	"net/http"
	"time"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/cradoe/remitflow/internal/request"
	"github.com/cradoe/remitflow/internal/response"
	"github.com/cradoe/remitflow/internal/transfer"
	"github.com/cradoe/remitflow/internal/validator"
)

const scheduleDateLayout = "2006-01-02"

// destinationInput names exactly one transfer target.
type destinationInput struct {
	AccountID      string                      `json:"account_id"`
	BeneficiaryID  string                      `json:"beneficiary_id"`
	NewBeneficiary *models.NewBeneficiaryInput `json:"new_beneficiary"`
	UpiID          string                      `json:"upi_id"`
}

func (d *destinationInput) destination() models.Destination {
	switch {
	case d.AccountID != "":
		return models.AccountRef{AccountID: d.AccountID}
	case d.BeneficiaryID != "":
		return models.BeneficiaryRef{BeneficiaryID: d.BeneficiaryID}
	case d.NewBeneficiary != nil:
		return *d.NewBeneficiary
	default:
		return models.DirectIDRef{ID: d.UpiID}
	}
}

type draftInput struct {
	SourceAccountID *string              `json:"source_account_id"`
	TransferType    *models.TransferType `json:"transfer_type"`
	Destination     *destinationInput    `json:"destination"`
	Amount          *models.Amount       `json:"amount"`
	Purpose         *models.Purpose      `json:"purpose"`
	Remarks         *string              `json:"remarks"`
	ScheduleDate    *string              `json:"schedule_date"`
	Validator       validator.Validator  `json:"-"`
}

// toUpdate checks the request shape. Business rules stay with the session.
func (in *draftInput) toUpdate() transfer.DraftUpdate {
	update := transfer.DraftUpdate{
		SourceAccountID: in.SourceAccountID,
		Type:            in.TransferType,
		Amount:          in.Amount,
		Purpose:         in.Purpose,
		Remarks:         in.Remarks,
	}

	if d := in.Destination; d != nil {
		ok := validator.ExactlyOne(d.AccountID != "", d.BeneficiaryID != "", d.NewBeneficiary != nil, d.UpiID != "")
		in.Validator.Check(ok, "Destination must name exactly one of account_id, beneficiary_id, new_beneficiary or upi_id")
		if ok {
			update.Destination = d.destination()
		}
	}

	if in.ScheduleDate != nil {
		if *in.ScheduleDate == "" {
			update.ClearScheduleDate = true
		} else {
			date, err := time.Parse(scheduleDateLayout, *in.ScheduleDate)
			in.Validator.Check(err == nil, "Schedule date must be in YYYY-MM-DD format")
			if err == nil {
				update.ScheduleDate = &date
			}
		}
	}

	return update
}

func (h *RouteHandler) session(w http.ResponseWriter, r *http.Request) (*transfer.Session, bool) {
	s, err := h.Transfers.Get(r.PathValue("id"), userID(r))
	if err != nil {
		h.ErrHandler.WorkflowFailure(w, r, err, "")
		return nil, false
	}
	return s, true
}

func (h *RouteHandler) HandleTransferOpen(w http.ResponseWriter, r *http.Request) {
	var input draftInput

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	update := input.toUpdate()
	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	s, err := h.Transfers.Open(r.Context(), userID(r), update)
	if err != nil {
		h.ErrHandler.WorkflowFailure(w, r, err, "")
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/v1/transfers/"+s.ID())

	err = response.JSONCreatedResponse(w, s.View(), "Transfer started", headers)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *RouteHandler) HandleTransferGet(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	err := response.JSONOkResponse(w, s.View(), "", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *RouteHandler) HandleTransferUpdate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var input draftInput

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	update := input.toUpdate()
	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	state, err := s.UpdateDraft(r.Context(), update)
	if err != nil {
		h.ErrHandler.WorkflowFailure(w, r, err, string(state))
		return
	}

	err = response.JSONOkResponse(w, s.View(), "Transfer updated", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *RouteHandler) HandleTransferReview(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	review, state, err := s.Review(r.Context())
	if err != nil {
		h.ErrHandler.WorkflowFailure(w, r, err, string(state))
		return
	}

	err = response.JSONOkResponse(w, review, "Review your transfer", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *RouteHandler) HandleTransferVerification(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var input struct {
		Password  string              `json:"password"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Password), "Transaction password is required")
	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	state, err := s.RequestVerification(r.Context(), input.Password)
	if err != nil {
		h.ErrHandler.WorkflowFailure(w, r, err, string(state))
		return
	}

	err = response.JSONOkResponse(w, s.View(), "A verification code has been sent", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *RouteHandler) HandleTransferOtp(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var input struct {
		Otp       string              `json:"otp"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.Matches(input.Otp, validator.RgxOtp), "OTP must be 6 digits")
	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	state, err := s.SubmitOtp(r.Context(), input.Otp)
	if err != nil {
		h.ErrHandler.WorkflowFailure(w, r, err, string(state))
		return
	}

	record, _ := s.Record()

	err = response.JSONOkResponse(w, newTransactionView(record), "Transfer successful", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *RouteHandler) HandleTransferCancel(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	state, err := s.Cancel(r.Context())
	if err != nil {
		h.ErrHandler.WorkflowFailure(w, r, err, string(state))
		return
	}

	err = response.JSONOkResponse(w, s.View(), "Transfer cancelled", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *RouteHandler) HandleTransferActivity(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	logs, err := h.Activity.GetAllByEntity(r.Context(), models.ActivityEntityTransfer, s.ID())
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	err = response.JSONOkResponse(w, logs, "", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
