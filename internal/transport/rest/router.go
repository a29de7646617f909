package rest

import (
	"net/http"

	"github.com/gorilla/mux"
)

func SetupRoutes(ctrl *Controller, socket *WidgetSocket) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger)

	r.HandleFunc("/health", ctrl.HealthCheck).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/board", ctrl.GetBoard).Methods(http.MethodGet)
	api.HandleFunc("/board/refresh", ctrl.RefreshBoard).Methods(http.MethodPost)
	api.HandleFunc("/market/vusa", ctrl.GetVusaMarket).Methods(http.MethodGet)

	api.HandleFunc("/transactions", ctrl.ListTransactions).Methods(http.MethodGet)
	api.HandleFunc("/transactions", ctrl.CreateTransaction).Methods(http.MethodPost)
	api.HandleFunc("/transactions/report", ctrl.DownloadTransactionsReport).Methods(http.MethodGet)
	api.HandleFunc("/transactions/{id:[0-9]+}", ctrl.GetTransaction).Methods(http.MethodGet)
	api.HandleFunc("/transactions/{id:[0-9]+}", ctrl.UpdateTransaction).Methods(http.MethodPut)
	api.HandleFunc("/transactions/{id:[0-9]+}", ctrl.DeleteTransaction).Methods(http.MethodDelete)

	r.HandleFunc("/ws/widget", socket.Attach).Methods(http.MethodGet)

	return r
}
