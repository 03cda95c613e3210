package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/yelrambob/supply-QR/internal/service"
	"github.com/yelrambob/supply-QR/pkg/logger"
)

// SubmitOrderRequest carries one user submission: the orderer identity and
// the selected quantities.
type SubmitOrderRequest struct {
	Orderer string              `json:"orderer"`
	Lines   []SubmitLineRequest `json:"lines"`
}

type SubmitLineRequest struct {
	ProductNumber string `json:"product_number"`
	Qty           int    `json:"qty"`
}

// OrderHandler exposes order submission and log access over HTTP.
type OrderHandler struct {
	orderService service.OrderServiceInterface
	logger       *logger.Logger
}

func NewOrderHandler(orderService service.OrderServiceInterface, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       log.WithComponent("order_handler"),
	}
}

// SubmitOrder handles POST /api/v1/orders
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		RequestID:  logger.RequestIDFromContext(r.Context()),
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}

	var submitReq SubmitOrderRequest
	if err := parseRequestBody(r, &submitReq); err != nil {
		h.logger.Warn("Invalid request body for submit order", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// The session lives exactly as long as this submission; quantities are
	// resolved against the catalog inside Submit.
	session := service.NewOrderSession()
	session.SetOrderer(submitReq.Orderer)
	for _, line := range submitReq.Lines {
		if err := session.SetQty(line.ProductNumber, line.Qty); err != nil {
			h.logger.Warn("Invalid quantity in submission", "product_number", line.ProductNumber, "error", err)
			writeErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	result, err := h.orderService.Submit(r.Context(), session)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, service.ErrEmptySelection) || errors.Is(err, service.ErrMissingOrderer) {
			statusCode = http.StatusBadRequest
		}

		h.logger.Warn("Failed to submit order", "error", err)
		writeErrorResponse(w, statusCode, err.Error())
		reqCtx.StatusCode = statusCode
		h.logger.LogResponse(reqCtx)
		return
	}

	writeJSONResponse(w, http.StatusCreated, result)
	reqCtx.StatusCode = http.StatusCreated
	h.logger.LogResponse(reqCtx)
}

// GetOrderLog handles GET /api/v1/orders
func (h *OrderHandler) GetOrderLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.orderService.GetLog(r.Context())
	if err != nil {
		h.logger.Error("Failed to fetch order log", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to fetch order log")
		return
	}

	writeJSONResponse(w, http.StatusOK, entries)
}

// ExportOrderLog handles GET /api/v1/orders/export
func (h *OrderHandler) ExportOrderLog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="orders_log.csv"`)

	if err := h.orderService.ExportLog(r.Context(), w); err != nil {
		// Headers may already be out; log rather than rewrite the response.
		h.logger.Error("Failed to export order log", "error", err)
	}
}
