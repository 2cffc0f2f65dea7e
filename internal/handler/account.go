package handler

import (
	"net/http"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/cradoe/remitflow/internal/response"
)

type accountView struct {
	ID               string              `json:"id"`
	Label            string              `json:"label"`
	AccountNumber    string              `json:"account_number"`
	Class            models.AccountClass `json:"class"`
	AvailableBalance models.Amount       `json:"available_balance"`
}

func (h *RouteHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.GetAllByUserId(r.Context(), userID(r))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	views := make([]accountView, 0, len(accounts))
	for i := range accounts {
		views = append(views, accountView{
			ID:               accounts[i].ID,
			Label:            accounts[i].Label,
			AccountNumber:    accounts[i].MaskedNumber(),
			Class:            accounts[i].Class,
			AvailableBalance: accounts[i].AvailableBalance,
		})
	}

	err = response.JSONOkResponse(w, views, "", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleAccountLimits reports limit headroom for one account and transfer type.
// Without ?type= the own-account figures are returned.
func (h *RouteHandler) HandleAccountLimits(w http.ResponseWriter, r *http.Request) {
	account, found, err := h.Accounts.GetOne(r.Context(), r.PathValue("id"))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if !found || account.UserID != userID(r) {
		h.ErrHandler.NotFound(w, r)
		return
	}

	t := models.TransferOwnAccount
	if v := r.URL.Query().Get("type"); v != "" {
		t = models.TransferType(v)
		if !t.Valid() {
			h.ErrHandler.FailedValidation(w, r, map[string]string{"type": "Unknown transfer type"})
			return
		}
	}

	err = response.JSONOkResponse(w, h.Engine.Limits(account, t), "", nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
