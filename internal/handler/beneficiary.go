package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/cradoe/remitflow/internal/request"
	"github.com/cradoe/remitflow/internal/response"
	"github.com/cradoe/remitflow/internal/validator"
)

const maxNicknameLength = 30

type beneficiaryView struct {
	models.Beneficiary
	AccountNumber string `json:"account_number"`
}

type beneficiaryPage struct {
	Beneficiaries []beneficiaryView `json:"beneficiaries"`
	Total         int               `json:"total"`
	Limit         int               `json:"limit"`
	Offset        int               `json:"offset"`
}

func (h *RouteHandler) HandleListBeneficiaries(w http.ResponseWriter, r *http.Request) {
	query := retrieveUrlQueryValues(r)

	beneficiaries, err := h.Beneficiaries.GetAllByUserId(r.Context(), userID(r))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	search := strings.ToLower(strings.TrimSpace(query.Search))

	matched := make([]beneficiaryView, 0, len(beneficiaries))
	for _, b := range beneficiaries {
		if search != "" &&
			!strings.Contains(strings.ToLower(b.Name), search) &&
			!strings.Contains(strings.ToLower(b.Nickname), search) {
			continue
		}
		matched = append(matched, beneficiaryView{Beneficiary: b, AccountNumber: models.MaskAccountNumber(b.AccountNumber)})
	}

	page := beneficiaryPage{Total: len(matched), Limit: query.Limit, Offset: query.Offset}

	start := min(query.Offset, len(matched))
	end := min(start+query.Limit, len(matched))
	page.Beneficiaries = matched[start:end]

	err = response.JSONOkResponse(w, page, "", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *RouteHandler) HandleUpdateBeneficiaryNickname(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Nickname  string              `json:"nickname"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Nickname = strings.TrimSpace(input.Nickname)
	input.Validator.Check(validator.MaxRunes(input.Nickname, maxNicknameLength), fmt.Sprintf("Nickname must not be more than %d characters", maxNicknameLength))
	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	id := r.PathValue("id")
	user := userID(r)

	updated, err := h.Beneficiaries.UpdateNickname(r.Context(), id, user, input.Nickname)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !updated {
		h.ErrHandler.NotFound(w, r)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		return h.Activity.Insert(context.Background(), &models.ActivityLog{
			UserID:      user,
			Entity:      models.ActivityEntityBeneficiary,
			EntityId:    id,
			Description: "beneficiary nickname updated",
			CreatedAt:   time.Now().UTC(),
		})
	})

	err = response.JSONOkResponse(w, nil, "Beneficiary updated", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
