package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/yelrambob/supply-QR/internal/repositories"
	"github.com/yelrambob/supply-QR/models"
	"github.com/yelrambob/supply-QR/pkg/logger"
	"github.com/yelrambob/supply-QR/pkg/mailer"
)

// DefaultBatchCeiling is the cost threshold that splits a submission's
// lines into separate approval groups. The value comes from the business
// side; its exact meaning (a payment processing limit) is not ours to
// interpret, so it stays a configurable constant.
const DefaultBatchCeiling = 4999.0

const payloadTimeFormat = "2006-01-02 15:04:05"

// MailSender is the slice of the mailer this service needs.
type MailSender interface {
	Configured() bool
	Send(subject, body string, to []string) error
}

type NotificationServiceInterface interface {
	NotifySubmission(lines []models.SubmittedLine, orderer string, orderedAt time.Time) error
}

// NotificationService batches a submitted order's lines under the cost
// ceiling, renders the notification payload and hands it to the mail
// transport. Notification failure is always non-fatal to the submission.
type NotificationService struct {
	sender     MailSender
	rosterRepo repositories.RosterRepositoryInterface
	ceiling    float64
	logger     *logger.Logger
}

func NewNotificationService(sender MailSender, rosterRepo repositories.RosterRepositoryInterface, ceiling float64, log *logger.Logger) *NotificationService {
	if ceiling <= 0 {
		ceiling = DefaultBatchCeiling
	}

	return &NotificationService{
		sender:     sender,
		rosterRepo: rosterRepo,
		ceiling:    ceiling,
		logger:     log.WithComponent("notification_service"),
	}
}

// NotifySubmission sends the notification for one committed submission.
// When the transport is not configured it returns mailer.ErrNotConfigured,
// which callers report as a warning while the submission stands.
func (s *NotificationService) NotifySubmission(lines []models.SubmittedLine, orderer string, orderedAt time.Time) error {
	if !s.sender.Configured() {
		s.logger.Warn("Mail transport not configured, skipping notification", "orderer", orderer)
		return mailer.ErrNotConfigured
	}

	batch := BuildBatch(lines, s.ceiling)
	body := RenderPayload(batch, orderer, orderedAt)
	subject := fmt.Sprintf("Supply order: %d item(s) by %s", len(lines), orderer)

	addresses, err := s.rosterRepo.Addresses()
	if err != nil {
		s.logger.Warn("Email roster read failed, relying on default recipients", "error", err)
		addresses = nil
	}

	if err := s.sender.Send(subject, body, addresses); err != nil {
		return fmt.Errorf("notification failed: %v", err)
	}

	s.logger.Info("Submission notification sent",
		"orderer", orderer,
		"lines", len(lines),
		"groups", len(batch.Groups))
	return nil
}

// BuildBatch groups lines into cost-bounded approval groups, iterating in
// submission order. A line is appended to the open group unless its cost
// would push the running subtotal strictly above the ceiling while the
// group is non-empty; then the group is closed and the line starts a new
// one. A single line costing more than the ceiling still forms its own
// group; lines are never split.
func BuildBatch(lines []models.SubmittedLine, ceiling float64) models.NotificationBatch {
	var batch models.NotificationBatch
	var open []string
	var subtotal float64

	for _, line := range lines {
		batch.DetailLines = append(batch.DetailLines,
			fmt.Sprintf("%s (#%s): %d", line.Item, line.ProductNumber, line.Qty))

		cost := line.Cost()
		if len(open) > 0 && subtotal+cost > ceiling {
			batch.Groups = append(batch.Groups, models.NotificationGroup{
				ProductNumbers: open,
				Subtotal:       subtotal,
			})
			open = nil
			subtotal = 0
		}

		open = append(open, line.ProductNumber)
		subtotal += cost
	}

	if len(open) > 0 {
		batch.Groups = append(batch.Groups, models.NotificationGroup{
			ProductNumbers: open,
			Subtotal:       subtotal,
		})
	}

	return batch
}

// RenderPayload assembles the notification body for one submission.
func RenderPayload(batch models.NotificationBatch, orderer string, orderedAt time.Time) string {
	var b strings.Builder

	b.WriteString("<h3>Supply order submitted</h3>\n")
	fmt.Fprintf(&b, "<p><b>Orderer:</b> %s<br><b>Ordered at:</b> %s</p>\n",
		orderer, orderedAt.Format(payloadTimeFormat))

	b.WriteString("<p><b>Items</b></p>\n<ul>\n")
	for _, line := range batch.DetailLines {
		fmt.Fprintf(&b, "<li>%s</li>\n", line)
	}
	b.WriteString("</ul>\n")

	if len(batch.Groups) > 0 {
		b.WriteString("<p><b>Approval groups</b></p>\n<ol>\n")
		for _, group := range batch.Groups {
			fmt.Fprintf(&b, "<li>#%s: subtotal $%.2f</li>\n",
				strings.Join(group.ProductNumbers, ", #"), group.Subtotal)
		}
		b.WriteString("</ol>\n")
	}

	return b.String()
}
