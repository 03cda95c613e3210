package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/yelrambob/supply-QR/internal/repositories"
	"github.com/yelrambob/supply-QR/models"
	"github.com/yelrambob/supply-QR/pkg/logger"
)

var (
	// ErrEmptySelection rejects a submission with zero selected lines.
	ErrEmptySelection = errors.New("no items selected")

	// ErrMissingOrderer rejects a submission without an orderer identity.
	ErrMissingOrderer = errors.New("orderer is required")
)

// SubmitResult reports one committed submission: the shared timestamp, the
// lines as logged (with the prices used for batching), and a non-fatal
// notification warning when the email step failed or was skipped.
type SubmitResult struct {
	OrderedAt           time.Time              `json:"ordered_at"`
	Lines               []models.SubmittedLine `json:"lines"`
	NotificationWarning string                 `json:"notification_warning,omitempty"`
}

type OrderServiceInterface interface {
	Submit(ctx context.Context, session *OrderSession) (*SubmitResult, error)
	GetLog(ctx context.Context) ([]models.OrderLogEntry, error)
	ExportLog(ctx context.Context, w io.Writer) error
}

// OrderService owns the submission workflow: validate, append to the log,
// clear the session, then attempt notification.
type OrderService struct {
	orderLogRepo repositories.OrderLogRepositoryInterface
	catalogRepo  repositories.CatalogRepositoryInterface
	notifier     NotificationServiceInterface
	logger       *logger.Logger
}

func NewOrderService(orderLogRepo repositories.OrderLogRepositoryInterface, catalogRepo repositories.CatalogRepositoryInterface, notifier NotificationServiceInterface, log *logger.Logger) *OrderService {
	return &OrderService{
		orderLogRepo: orderLogRepo,
		catalogRepo:  catalogRepo,
		notifier:     notifier,
		logger:       log.WithComponent("order_service"),
	}
}

// Submit commits the session's selected lines as one order.
//
// Validation failures mutate nothing. A log append failure is returned as
// an error and leaves the session intact so the user can retry; rows
// already appended are not rolled back (the store offers no transaction
// here, and we accept the duplicate-on-retry tradeoff). After a successful
// append the session is cleared and notification is attempted; a
// notification failure is reported in the result, never as an error.
func (s *OrderService) Submit(ctx context.Context, session *OrderSession) (*SubmitResult, error) {
	orderer := strings.TrimSpace(session.Orderer())
	if orderer == "" {
		s.logger.Warn("Submission rejected: missing orderer")
		return nil, ErrMissingOrderer
	}

	catalog, err := s.catalogRepo.Load()
	if err != nil {
		s.logger.Warn("Catalog read failed during submission, degrading to empty catalog", "error", err)
		catalog = nil
	}

	lines := session.SelectedLines(catalog)
	if len(lines) == 0 {
		s.logger.Warn("Submission rejected: empty selection", "orderer", orderer)
		return nil, ErrEmptySelection
	}

	orderedAt, err := s.orderLogRepo.Append(ctx, lines, orderer)
	if err != nil {
		s.logger.Error("Failed to append submission to order log", "error", err, "orderer", orderer)
		return nil, fmt.Errorf("failed to log order: %v", err)
	}

	session.Clear()

	submitted := resolvePrices(lines, catalog)
	result := &SubmitResult{
		OrderedAt: orderedAt,
		Lines:     submitted,
	}

	if err := s.notifier.NotifySubmission(submitted, orderer, orderedAt); err != nil {
		s.logger.Warn("Order logged but notification failed", "error", err, "orderer", orderer)
		result.NotificationWarning = err.Error()
	}

	s.logger.Info("Order submitted",
		"orderer", orderer,
		"lines", len(lines),
		"ordered_at", orderedAt)
	return result, nil
}

// GetLog returns the full order log, newest first. A read failure degrades
// to an empty log with a warning.
func (s *OrderService) GetLog(ctx context.Context) ([]models.OrderLogEntry, error) {
	entries, err := s.orderLogRepo.ReadAll(ctx)
	if err != nil {
		s.logger.Warn("Order log read failed, degrading to empty log", "error", err)
		return []models.OrderLogEntry{}, nil
	}
	return entries, nil
}

// ExportLog streams the full order log as CSV.
func (s *OrderService) ExportLog(ctx context.Context, w io.Writer) error {
	entries, err := s.GetLog(ctx)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"item", "product_number", "qty", "ordered_at", "orderer"}); err != nil {
		return fmt.Errorf("failed to write export header: %v", err)
	}

	for _, entry := range entries {
		record := []string{
			entry.Item,
			entry.ProductNumber,
			strconv.Itoa(entry.Qty),
			entry.OrderedAt.Format(payloadTimeFormat),
			entry.Orderer,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write export row: %v", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %v", err)
	}

	s.logger.Info("Exported order log", "count", len(entries))
	return nil
}

// resolvePrices attaches the catalog's current unit price to each line.
// Prices come from the catalog at submission time, never from history; a
// product missing a price resolves to zero.
func resolvePrices(lines []models.OrderLine, catalog []models.CatalogItem) []models.SubmittedLine {
	prices := make(map[string]float64, len(catalog))
	for _, item := range catalog {
		if _, ok := prices[item.ProductNumber]; !ok {
			prices[item.ProductNumber] = item.Price
		}
	}

	submitted := make([]models.SubmittedLine, 0, len(lines))
	for _, line := range lines {
		submitted = append(submitted, models.SubmittedLine{
			Item:          line.Item,
			ProductNumber: line.ProductNumber,
			Qty:           line.Qty,
			UnitPrice:     prices[line.ProductNumber],
		})
	}
	return submitted
}
