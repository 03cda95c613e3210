package handler

import (
	"net/http"

	"github.com/yelrambob/supply-QR/internal/repositories"
	"github.com/yelrambob/supply-QR/pkg/logger"
)

// recipientResolver is the slice of the mailer needed to preview the
// resolved recipient set.
type recipientResolver interface {
	Recipients(explicit []string) []string
}

// RosterHandler exposes the orderer name roster and the resolved
// notification recipient set.
type RosterHandler struct {
	rosterRepo repositories.RosterRepositoryInterface
	resolver   recipientResolver
	logger     *logger.Logger
}

func NewRosterHandler(rosterRepo repositories.RosterRepositoryInterface, resolver recipientResolver, log *logger.Logger) *RosterHandler {
	return &RosterHandler{
		rosterRepo: rosterRepo,
		resolver:   resolver,
		logger:     log.WithComponent("roster_handler"),
	}
}

// GetPeople handles GET /api/v1/people
func (h *RosterHandler) GetPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.rosterRepo.People()
	if err != nil {
		h.logger.Warn("People roster read failed, returning empty roster", "error", err)
		people = []string{}
	}

	writeJSONResponse(w, http.StatusOK, people)
}

// GetRecipients handles GET /api/v1/recipients
func (h *RosterHandler) GetRecipients(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.rosterRepo.Addresses()
	if err != nil {
		h.logger.Warn("Email roster read failed, using default recipients only", "error", err)
		addresses = nil
	}

	writeJSONResponse(w, http.StatusOK, h.resolver.Recipients(addresses))
}
