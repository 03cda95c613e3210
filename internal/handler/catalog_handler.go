package handler

import (
	"net/http"
	"time"

	"github.com/yelrambob/supply-QR/internal/repositories"
	"github.com/yelrambob/supply-QR/internal/service"
	"github.com/yelrambob/supply-QR/models"
	"github.com/yelrambob/supply-QR/pkg/logger"
)

// CatalogHandler exposes the catalog record set and the reconciled
// freshness view.
type CatalogHandler struct {
	catalogRepo      repositories.CatalogRepositoryInterface
	freshnessService service.FreshnessServiceInterface
	logger           *logger.Logger
}

func NewCatalogHandler(catalogRepo repositories.CatalogRepositoryInterface, freshnessService service.FreshnessServiceInterface, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogRepo:      catalogRepo,
		freshnessService: freshnessService,
		logger:           log.WithComponent("catalog_handler"),
	}
}

// GetCatalog handles GET /api/v1/catalog
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalogRepo.Load()
	if err != nil {
		// Reads degrade to an empty record set rather than failing the view.
		h.logger.Warn("Catalog read failed, returning empty catalog", "error", err)
		items = []models.CatalogItem{}
	}

	writeJSONResponse(w, http.StatusOK, items)
}

// SaveCatalog handles PUT /api/v1/catalog
func (h *CatalogHandler) SaveCatalog(w http.ResponseWriter, r *http.Request) {
	reqCtx := &logger.RequestContext{
		RequestID:  logger.RequestIDFromContext(r.Context()),
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		StartTime:  time.Now(),
	}

	var items []models.CatalogItem
	if err := parseRequestBody(r, &items); err != nil {
		h.logger.Warn("Invalid request body for save catalog", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.catalogRepo.Save(items); err != nil {
		h.logger.Error("Failed to save catalog", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to save catalog")
		reqCtx.StatusCode = http.StatusInternalServerError
		h.logger.LogResponse(reqCtx)
		return
	}

	writeJSONResponse(w, http.StatusOK, items)
	reqCtx.StatusCode = http.StatusOK
	h.logger.LogResponse(reqCtx)
}

// GetFreshness handles GET /api/v1/freshness
func (h *CatalogHandler) GetFreshness(w http.ResponseWriter, r *http.Request) {
	rows, err := h.freshnessService.LoadFreshness(r.Context())
	if err != nil {
		h.logger.Error("Failed to load freshness view", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Failed to load freshness view")
		return
	}

	writeJSONResponse(w, http.StatusOK, rows)
}
