package router

import (
	"net/http"

	"github.com/yelrambob/supply-QR/internal/handler"
)

// NewRouter registers every API route on a fresh mux.
func NewRouter(orderHandler *handler.OrderHandler, catalogHandler *handler.CatalogHandler, rosterHandler *handler.RosterHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/orders", orderHandler.SubmitOrder)
	mux.HandleFunc("GET /api/v1/orders", orderHandler.GetOrderLog)
	mux.HandleFunc("GET /api/v1/orders/export", orderHandler.ExportOrderLog)

	mux.HandleFunc("GET /api/v1/catalog", catalogHandler.GetCatalog)
	mux.HandleFunc("PUT /api/v1/catalog", catalogHandler.SaveCatalog)
	mux.HandleFunc("GET /api/v1/freshness", catalogHandler.GetFreshness)

	mux.HandleFunc("GET /api/v1/people", rosterHandler.GetPeople)
	mux.HandleFunc("GET /api/v1/recipients", rosterHandler.GetRecipients)

	return mux
}
