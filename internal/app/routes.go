package app

import (
	"net/http"

	"github.com/cradoe/remitflow/internal/handler"
	"github.com/cradoe/remitflow/internal/middleware"
)

func (app *Application) routes() http.Handler {
	mux := http.NewServeMux()

	middlewareRepo := middleware.New(app.errorHandler, app.Logger, &app.Config)
	routeHandler := handler.NewRouteHandler(&handler.RouteHandler{
		ErrHandler:    app.errorHandler,
		Helper:        app.Helper,
		Logger:        app.Logger,
		Transfers:     app.Transfers,
		Engine:        app.Engine,
		Credentials:   app.Credentials,
		Accounts:      app.DB.Account(),
		Beneficiaries: app.DB.Beneficiary(),
		Transactions:  app.DB.Transaction(),
		Activity:      app.DB.Activity(),
	})

	authenticated := func(fn http.HandlerFunc) http.Handler {
		return middlewareRepo.RequireAuthenticatedUser(fn)
	}

	mux.HandleFunc("GET /status", routeHandler.HandleHealthCheck)
	mux.Handle("GET /metrics", app.Metrics.Handler())

	mux.Handle("GET /v1/accounts", authenticated(routeHandler.HandleListAccounts))
	mux.Handle("GET /v1/accounts/{id}/limits", authenticated(routeHandler.HandleAccountLimits))

	mux.Handle("GET /v1/beneficiaries", authenticated(routeHandler.HandleListBeneficiaries))
	mux.Handle("PATCH /v1/beneficiaries/{id}", authenticated(routeHandler.HandleUpdateBeneficiaryNickname))

	mux.Handle("PUT /v1/credentials/transaction-password", authenticated(routeHandler.HandleSetTransactionPassword))

	mux.Handle("POST /v1/transfers", authenticated(routeHandler.HandleTransferOpen))
	mux.Handle("GET /v1/transfers/{id}", authenticated(routeHandler.HandleTransferGet))
	mux.Handle("PATCH /v1/transfers/{id}", authenticated(routeHandler.HandleTransferUpdate))
	mux.Handle("POST /v1/transfers/{id}/review", authenticated(routeHandler.HandleTransferReview))
	mux.Handle("POST /v1/transfers/{id}/verification", authenticated(routeHandler.HandleTransferVerification))
	mux.Handle("POST /v1/transfers/{id}/otp", authenticated(routeHandler.HandleTransferOtp))
	mux.Handle("POST /v1/transfers/{id}/cancel", authenticated(routeHandler.HandleTransferCancel))
	mux.Handle("GET /v1/transfers/{id}/activity", authenticated(routeHandler.HandleTransferActivity))

	mux.Handle("GET /v1/transactions/{reference}", authenticated(routeHandler.HandleGetTransaction))

	return middlewareRepo.LogAccess(middlewareRepo.RecoverPanic(middlewareRepo.Authenticate(mux)))
}
