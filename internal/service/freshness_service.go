package service

import (
	"context"
	"sort"

	"github.com/yelrambob/supply-QR/internal/repositories"
	"github.com/yelrambob/supply-QR/models"
	"github.com/yelrambob/supply-QR/pkg/logger"
)

type FreshnessServiceInterface interface {
	LoadFreshness(ctx context.Context) ([]models.FreshnessRow, error)
}

// FreshnessService derives the "last ordered" state of every catalog item
// by reducing the full order log against the catalog.
type FreshnessService struct {
	catalogRepo  repositories.CatalogRepositoryInterface
	orderLogRepo repositories.OrderLogRepositoryInterface
	logger       *logger.Logger
}

func NewFreshnessService(catalogRepo repositories.CatalogRepositoryInterface, orderLogRepo repositories.OrderLogRepositoryInterface, log *logger.Logger) *FreshnessService {
	return &FreshnessService{
		catalogRepo:  catalogRepo,
		orderLogRepo: orderLogRepo,
		logger:       log.WithComponent("freshness_service"),
	}
}

// LoadFreshness reads the catalog and the order log and merges them. Read
// failures degrade to empty result sets with a warning; they never abort
// the interaction.
func (s *FreshnessService) LoadFreshness(ctx context.Context) ([]models.FreshnessRow, error) {
	catalog, err := s.catalogRepo.Load()
	if err != nil {
		s.logger.Warn("Catalog read failed, degrading to empty catalog", "error", err)
		catalog = nil
	}

	log, err := s.orderLogRepo.ReadAll(ctx)
	if err != nil {
		s.logger.Warn("Order log read failed, degrading to no history", "error", err)
		log = nil
	}

	rows := Reconcile(log, catalog)
	s.logger.Info("Reconciled freshness", "catalog_items", len(catalog), "log_entries", len(log))
	return rows, nil
}

// LastInfoMap reduces the log to the most recent entry per (item,
// product_number) pair. The log is stably sorted ascending by ordered_at
// first, so entries with equal timestamps resolve to the one appearing
// last in the log's natural order.
func LastInfoMap(log []models.OrderLogEntry) map[models.ItemKey]models.OrderLogEntry {
	sorted := make([]models.OrderLogEntry, len(log))
	copy(sorted, log)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderedAt.Before(sorted[j].OrderedAt)
	})

	last := make(map[models.ItemKey]models.OrderLogEntry, len(sorted))
	for _, entry := range sorted {
		last[entry.Key()] = entry
	}
	return last
}

// Reconcile left-joins the last-order facts onto the catalog: every catalog
// item yields exactly one row, with nil freshness fields when it has no
// history. Rows are ordered most-recently-ordered first; never-ordered
// items sink to the bottom, alphabetically among themselves.
func Reconcile(log []models.OrderLogEntry, catalog []models.CatalogItem) []models.FreshnessRow {
	last := LastInfoMap(log)

	rows := make([]models.FreshnessRow, 0, len(catalog))
	for _, item := range catalog {
		row := models.FreshnessRow{CatalogItem: item}
		if entry, ok := last[item.Key()]; ok {
			orderedAt := entry.OrderedAt
			qty := entry.Qty
			orderer := entry.Orderer
			row.LastOrderedAt = &orderedAt
			row.LastQty = &qty
			row.LastOrderer = &orderer
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].LastOrderedAt, rows[j].LastOrderedAt
		switch {
		case a != nil && b != nil:
			if !a.Equal(*b) {
				return a.After(*b)
			}
			return rows[i].Item < rows[j].Item
		case a != nil:
			return true
		case b != nil:
			return false
		default:
			return rows[i].Item < rows[j].Item
		}
	})

	return rows
}
