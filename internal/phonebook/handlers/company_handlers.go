package handlers

import (
	"context"
	"net/http"

	"github.com/gartstein/phonebook/internal/phonebook/dto"
	"github.com/gartstein/phonebook/internal/phonebook/models"
	"go.uber.org/zap"
)

// CompanyController defines the business logic the company routes invoke.
type CompanyController interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompany(ctx context.Context, id uint) (*models.Company, error)
	CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error)
}

// CompanyHandler serves the /companies routes.
type CompanyHandler struct {
	service CompanyController
	logger  *zap.Logger
}

// NewCompanyHandler constructs a CompanyHandler with the given service and logger.
func NewCompanyHandler(service CompanyController, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: service,
		logger:  logger.Named("company_handler"),
	}
}

// ListCompanies responds with every company in display form.
func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.ListCompanies(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.FromCompanies(companies))
}

// GetCompany responds with one company in display form.
func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := entityID(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	company, err := h.service.GetCompany(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.FromCompany(company))
}

// CreateCompany decodes a company and stores it.
func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req companyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	company, err := requestToCompany(&req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	created, err := h.service.CreateCompany(r.Context(), company)
	if err != nil {
		h.logger.Debug("Create company rejected", zap.Error(err))
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.FromCompany(created))
}
