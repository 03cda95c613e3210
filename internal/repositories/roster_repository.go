package repositories

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/yelrambob/supply-QR/models"
	"github.com/yelrambob/supply-QR/pkg/logger"
)

// emailPattern is deliberately loose: any cell containing something shaped
// like an address yields that address, even with surrounding text.
var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

type RosterRepositoryInterface interface {
	People() ([]string, error)
	Emails() ([]models.EmailContact, error)
	Addresses() ([]string, error)
}

// RosterRepository reads the orderer name roster (people.txt) and the
// email roster (emails.csv). Both degrade to empty when the file is
// missing.
type RosterRepository struct {
	peoplePath string
	emailsPath string
	logger     *logger.Logger
}

func NewRosterRepository(peoplePath, emailsPath string, log *logger.Logger) *RosterRepository {
	return &RosterRepository{
		peoplePath: peoplePath,
		emailsPath: emailsPath,
		logger:     log.WithComponent("roster_repository"),
	}
}

// People returns the orderer display names, one per non-blank line.
func (r *RosterRepository) People() ([]string, error) {
	data, err := os.ReadFile(r.peoplePath)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.Debug("People roster missing", "path", r.peoplePath)
			return []string{}, nil
		}
		r.logger.Error("Failed to read people roster", "error", err, "path", r.peoplePath)
		return nil, fmt.Errorf("failed to read people roster: %v", err)
	}

	var people []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			people = append(people, line)
		}
	}

	r.logger.Debug("Loaded people roster", "count", len(people))
	return people, nil
}

// Emails returns the contacts whose rows contain something resembling an
// email address. Rows without a match are dropped silently.
func (r *RosterRepository) Emails() ([]models.EmailContact, error) {
	info, err := os.Stat(r.emailsPath)
	if err != nil || info.Size() == 0 {
		r.logger.Debug("Email roster missing or empty", "path", r.emailsPath)
		return []models.EmailContact{}, nil
	}

	file, err := os.Open(r.emailsPath)
	if err != nil {
		r.logger.Error("Failed to open email roster", "error", err, "path", r.emailsPath)
		return nil, fmt.Errorf("failed to open email roster: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		r.logger.Error("Failed to parse email roster", "error", err, "path", r.emailsPath)
		return nil, fmt.Errorf("failed to parse email roster: %v", err)
	}

	if len(records) == 0 {
		return []models.EmailContact{}, nil
	}

	nameCol, emailCol, hasHeader := locateRosterColumns(records[0])
	rows := records
	if hasHeader {
		rows = records[1:]
	}

	var contacts []models.EmailContact
	for _, record := range rows {
		contact, ok := extractContact(record, nameCol, emailCol)
		if !ok {
			continue
		}
		contacts = append(contacts, contact)
	}

	r.logger.Debug("Loaded email roster", "count", len(contacts))
	return contacts, nil
}

// Addresses returns just the extracted addresses, in roster order.
func (r *RosterRepository) Addresses() ([]string, error) {
	contacts, err := r.Emails()
	if err != nil {
		return nil, err
	}

	addresses := make([]string, 0, len(contacts))
	for _, contact := range contacts {
		addresses = append(addresses, contact.Email)
	}
	return addresses, nil
}

// locateRosterColumns finds loose name/email columns in the header row.
// When neither is present the first row is treated as data.
func locateRosterColumns(header []string) (nameCol, emailCol int, hasHeader bool) {
	nameCol, emailCol = -1, -1
	for i, cell := range header {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		switch {
		case strings.Contains(normalized, "name") && nameCol < 0:
			nameCol = i
		case strings.Contains(normalized, "email") && emailCol < 0:
			emailCol = i
		}
	}
	return nameCol, emailCol, nameCol >= 0 || emailCol >= 0
}

// extractContact pulls an address out of the row, preferring the email
// column but falling back to scanning every cell.
func extractContact(record []string, nameCol, emailCol int) (models.EmailContact, bool) {
	var email string
	if emailCol >= 0 && emailCol < len(record) {
		email = emailPattern.FindString(record[emailCol])
	}
	if email == "" {
		for _, cell := range record {
			if email = emailPattern.FindString(cell); email != "" {
				break
			}
		}
	}
	if email == "" {
		return models.EmailContact{}, false
	}

	var name string
	if nameCol >= 0 && nameCol < len(record) {
		name = strings.TrimSpace(record[nameCol])
	}

	return models.EmailContact{Name: name, Email: email}, true
}
