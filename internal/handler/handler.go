package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cradoe/remitflow/internal/context"
	"github.com/cradoe/remitflow/internal/errHandler"
	"github.com/cradoe/remitflow/internal/helper"
	"github.com/cradoe/remitflow/internal/quote"
	"github.com/cradoe/remitflow/internal/repository"
	"github.com/cradoe/remitflow/internal/security"
	"github.com/cradoe/remitflow/internal/transfer"
)

type RouteHandler struct {
	ErrHandler    *errHandler.ErrorRepository
	Helper        *helper.HelperRepository
	Logger        *slog.Logger
	Transfers     *transfer.Service
	Engine        *quote.Engine
	Credentials   *security.Credentials
	Accounts      repository.AccountRepository
	Beneficiaries repository.BeneficiaryRepository
	Transactions  repository.TransactionRepository
	Activity      repository.ActivityRepository
}

func NewRouteHandler(handler *RouteHandler) *RouteHandler {
	return &RouteHandler{
		ErrHandler:    handler.ErrHandler,
		Helper:        handler.Helper,
		Logger:        handler.Logger,
		Transfers:     handler.Transfers,
		Engine:        handler.Engine,
		Credentials:   handler.Credentials,
		Accounts:      handler.Accounts,
		Beneficiaries: handler.Beneficiaries,
		Transactions:  handler.Transactions,
		Activity:      handler.Activity,
	}
}

// routes behind RequireAuthenticatedUser always have a user
func userID(r *http.Request) string {
	return context.ContextGetAuthenticatedUser(r).ID
}

type queryStringValues struct {
	Search string
	Limit  int
	Offset int
}

func retrieveUrlQueryValues(r *http.Request) *queryStringValues {
	var queryValues = &queryStringValues{}

	// Parse pagination params
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("page")

	// Default pagination values
	offset := 0
	limit := 10

	if limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}
	queryValues.Limit = limit

	if offsetStr != "" {
		if parsedOffset, err := strconv.Atoi(offsetStr); err == nil && parsedOffset >= 1 {
			offset = (parsedOffset - 1) * limit
		}
	}
	queryValues.Offset = offset

	// search params
	searchQuery := r.URL.Query().Get("search")
	queryValues.Search = searchQuery

	return queryValues
}
