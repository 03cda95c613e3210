package repositories

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yelrambob/supply-QR/models"
	"github.com/yelrambob/supply-QR/pkg/logger"
)

// catalogColumns is the full column set, in write order. Input files may
// carry any subset; missing columns fall back to defaults.
var catalogColumns = []string{
	"item",
	"product_number",
	"multiplier",
	"items_per_order",
	"current_qty",
	"sort_order",
	"price",
}

type CatalogRepositoryInterface interface {
	Load() ([]models.CatalogItem, error)
	Save(items []models.CatalogItem) error
}

// CatalogRepository reads and writes the CSV-backed catalog. All type
// coercion happens here, once, so the rest of the system only ever sees
// normalized records.
type CatalogRepository struct {
	path   string
	logger *logger.Logger
}

func NewCatalogRepository(path string, log *logger.Logger) *CatalogRepository {
	return &CatalogRepository{
		path:   path,
		logger: log.WithComponent("catalog_repository"),
	}
}

// Load reads the catalog file. A missing or empty file yields an empty
// catalog, not an error.
func (r *CatalogRepository) Load() ([]models.CatalogItem, error) {
	info, err := os.Stat(r.path)
	if err != nil || info.Size() == 0 {
		r.logger.Debug("Catalog file missing or empty", "path", r.path)
		return []models.CatalogItem{}, nil
	}

	file, err := os.Open(r.path)
	if err != nil {
		r.logger.Error("Failed to open catalog file", "error", err, "path", r.path)
		return nil, fmt.Errorf("failed to open catalog: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		r.logger.Error("Failed to parse catalog file", "error", err, "path", r.path)
		return nil, fmt.Errorf("failed to parse catalog: %v", err)
	}

	if len(records) < 2 {
		return []models.CatalogItem{}, nil
	}

	header := headerIndex(records[0])
	items := make([]models.CatalogItem, 0, len(records)-1)

	for i, record := range records[1:] {
		field := func(name string) string {
			idx, ok := header[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		item := models.CatalogItem{
			Item:          field("item"),
			ProductNumber: field("product_number"),
			Multiplier:    parseIntDefault(field("multiplier"), 1),
			ItemsPerOrder: parseIntDefault(field("items_per_order"), 1),
			CurrentQty:    parseIntDefault(field("current_qty"), 0),
			SortOrder:     parseIntDefault(field("sort_order"), i),
			Price:         parsePriceDefault(field("price")),
		}
		items = append(items, item)
	}

	r.logger.Info("Loaded catalog", "count", len(items), "path", r.path)
	return items, nil
}

// Save rewrites the catalog file with the full column set.
func (r *CatalogRepository) Save(items []models.CatalogItem) error {
	if items == nil {
		return errors.New("catalog items cannot be nil")
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		r.logger.Error("Failed to create data directory", "error", err)
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	tempFile := r.path + ".tmp"
	file, err := os.Create(tempFile)
	if err != nil {
		r.logger.Error("Failed to create temporary catalog file", "error", err)
		return fmt.Errorf("failed to create temporary catalog file: %v", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(catalogColumns); err != nil {
		file.Close()
		return fmt.Errorf("failed to write catalog header: %v", err)
	}

	for _, item := range items {
		record := []string{
			item.Item,
			item.ProductNumber,
			strconv.Itoa(item.Multiplier),
			strconv.Itoa(item.ItemsPerOrder),
			strconv.Itoa(item.CurrentQty),
			strconv.Itoa(item.SortOrder),
			strconv.FormatFloat(item.Price, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			file.Close()
			return fmt.Errorf("failed to write catalog row: %v", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush catalog: %v", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close temporary catalog file: %v", err)
	}

	if err := os.Rename(tempFile, r.path); err != nil {
		r.logger.Error("Failed to replace catalog file", "error", err)
		return fmt.Errorf("failed to replace catalog file: %v", err)
	}

	r.logger.Info("Saved catalog", "count", len(items), "path", r.path)
	return nil
}

// headerIndex maps normalized column names to their positions.
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return index
}

// parseIntDefault coerces a loose numeric cell to int. Values written as
// floats ("2.0") are accepted; anything else falls back to the default.
func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return def
}

// parsePriceDefault coerces a price cell to a non-negative float, defaulting
// to 0 on absence or parse failure.
func parsePriceDefault(s string) float64 {
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}
