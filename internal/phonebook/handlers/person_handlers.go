package handlers

import (
	"context"
	"net/http"

	"github.com/gartstein/phonebook/internal/phonebook/dto"
	"github.com/gartstein/phonebook/internal/phonebook/models"
	"go.uber.org/zap"
)

// PersonController defines the business logic the person routes invoke.
type PersonController interface {
	ListPersons(ctx context.Context, searchQuery string) ([]models.Person, error)
	GetPerson(ctx context.Context, id uint) (*models.Person, error)
	RandomPerson(ctx context.Context) (*models.Person, error)
	CreatePerson(ctx context.Context, person *models.Person) (*models.Person, error)
	UpdatePerson(ctx context.Context, id uint, person *models.Person) error
	DeletePerson(ctx context.Context, id uint) (*models.Person, error)
}

// PersonHandler serves the /persons routes.
type PersonHandler struct {
	service PersonController
	logger  *zap.Logger
}

// NewPersonHandler constructs a PersonHandler with the given service and logger.
func NewPersonHandler(service PersonController, logger *zap.Logger) *PersonHandler {
	return &PersonHandler{
		service: service,
		logger:  logger.Named("person_handler"),
	}
}

// ListPersons responds with all persons, filtered by the searchQuery
// parameter when present.
func (h *PersonHandler) ListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.service.ListPersons(r.Context(), r.URL.Query().Get("searchQuery"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.FromPersons(persons))
}

func (h *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := entityID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	person, err := h.service.GetPerson(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.FromPerson(person))
}

func (h *PersonHandler) RandomPerson(w http.ResponseWriter, r *http.Request) {
	person, err := h.service.RandomPerson(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.FromPerson(person))
}

// CreatePerson decodes a person and stores it. The response carries no
// company name since the company is not loaded on insert.
func (h *PersonHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	created, err := h.service.CreatePerson(r.Context(), requestToPerson(&req))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.FromPerson(created))
}

// UpdatePerson replaces the person named by the path or query id with the
// request body. The body must carry the same id.
func (h *PersonHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	id, err := entityID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	var req personRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if err := h.service.UpdatePerson(r.Context(), id, requestToPerson(&req)); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeletePerson removes a person and echoes the deleted entity.
func (h *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := entityID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	deleted, err := h.service.DeletePerson(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, deleted)
}
