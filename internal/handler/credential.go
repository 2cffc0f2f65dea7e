package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cradoe/gopass"
	"github.com/cradoe/remitflow/internal/models"
	"github.com/cradoe/remitflow/internal/request"
	"github.com/cradoe/remitflow/internal/response"
	"github.com/cradoe/remitflow/internal/validator"
)

// HandleSetTransactionPassword creates or replaces the password checked before an OTP is sent.
// The contact is required the first time and optional afterwards.
func (h *RouteHandler) HandleSetTransactionPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Password  string              `json:"password"`
		Contact   string              `json:"contact"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	user := userID(r)
	input.Contact = strings.TrimSpace(input.Contact)

	_, errs := gopass.Validate(input.Password)
	if errs != nil {
		h.ErrHandler.FailedValidation(w, r, errs)
		return
	}

	if input.Contact != "" {
		input.Validator.Check(validator.IsContact(input.Contact), "Contact must be a valid email address or phone number")
	} else {
		current, err := h.Credentials.Contact(r.Context(), user)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}
		input.Validator.Check(current != "", "Contact is required")
	}

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	err = h.Credentials.SetTransactionPassword(r.Context(), user, input.Password, input.Contact)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		return h.Activity.Insert(context.Background(), &models.ActivityLog{
			UserID:      user,
			Entity:      models.ActivityEntityCredential,
			EntityId:    user,
			Description: "transaction password updated",
			CreatedAt:   time.Now().UTC(),
		})
	})

	err = response.JSONOkResponse(w, nil, "Transaction password saved", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
