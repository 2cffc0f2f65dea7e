package handler

import (
	"net/http"

	"github.com/cradoe/remitflow/internal/response"
	"github.com/cradoe/remitflow/internal/version"
)

func (h *RouteHandler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	message := "Up and grateful"

	data := map[string]any{
		"Status":         "available",
		"Version":        version.Get(),
		"ActiveSessions": h.Transfers.Registry().Len(),
	}

	err := response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
