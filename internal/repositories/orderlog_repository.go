package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yelrambob/supply-QR/models"
	"github.com/yelrambob/supply-QR/pkg/database"
	"github.com/yelrambob/supply-QR/pkg/logger"
)

// orderTimezone is the zone submissions are stamped in.
const orderTimezone = "America/New_York"

type OrderLogRepositoryInterface interface {
	Append(ctx context.Context, lines []models.OrderLine, orderer string) (time.Time, error)
	ReadAll(ctx context.Context) ([]models.OrderLogEntry, error)
}

// OrderLogRepository persists the append-only orders log in Postgres.
// Entries are never updated or deleted; there is deliberately no method
// for either.
type OrderLogRepository struct {
	db     *database.DB
	logger *logger.Logger
	now    func() time.Time
}

func NewOrderLogRepository(log *logger.Logger, db *database.DB) *OrderLogRepository {
	loc, err := time.LoadLocation(orderTimezone)
	if err != nil {
		log.Warn("Failed to load order timezone, using local time", "timezone", orderTimezone, "error", err)
		loc = time.Local
	}

	return &OrderLogRepository{
		db:     db,
		logger: log.WithComponent("orderlog_repository"),
		now: func() time.Time {
			return time.Now().In(loc).Truncate(time.Second)
		},
	}
}

const appendEntryQuery = `
	INSERT INTO orders_log (item, product_number, qty, ordered_at, orderer)
	VALUES (:item, :product_number, :qty, :ordered_at, :orderer)
`

// Append inserts one row per line, all stamped with a single shared
// timestamp, and returns that timestamp. Inserts are sequential; if one
// fails midway, earlier rows stay in place and the error is reported. The
// store gives no transactional guarantee here and we do not pretend it does.
func (r *OrderLogRepository) Append(ctx context.Context, lines []models.OrderLine, orderer string) (time.Time, error) {
	if len(lines) == 0 {
		return time.Time{}, errors.New("no order lines to append")
	}
	if orderer == "" {
		return time.Time{}, errors.New("orderer cannot be empty")
	}

	orderedAt := r.now()

	for i, line := range lines {
		entry := models.OrderLogEntry{
			Item:          line.Item,
			ProductNumber: line.ProductNumber,
			Qty:           line.Qty,
			OrderedAt:     orderedAt,
			Orderer:       orderer,
		}

		if _, err := r.db.NamedExecContext(ctx, appendEntryQuery, entry); err != nil {
			r.logger.Error("Failed to append order log entry",
				"error", err,
				"product_number", line.ProductNumber,
				"appended", i,
				"total", len(lines))
			return time.Time{}, fmt.Errorf("failed to append order log entry %d of %d: %v", i+1, len(lines), err)
		}
	}

	r.logger.Info("Appended order log entries",
		"count", len(lines),
		"orderer", orderer,
		"ordered_at", orderedAt)
	return orderedAt, nil
}

const readAllQuery = `
	SELECT item, product_number, qty, ordered_at, orderer
	FROM orders_log
	ORDER BY ordered_at DESC
`

// ReadAll returns every log entry, newest first. Callers that need
// reconciliation order re-sort ascending themselves.
func (r *OrderLogRepository) ReadAll(ctx context.Context) ([]models.OrderLogEntry, error) {
	var entries []models.OrderLogEntry
	if err := r.db.SelectContext(ctx, &entries, readAllQuery); err != nil {
		r.logger.Error("Failed to read order log", "error", err)
		return nil, fmt.Errorf("failed to read order log: %v", err)
	}

	r.logger.Debug("Read order log", "count", len(entries))
	return entries, nil
}
