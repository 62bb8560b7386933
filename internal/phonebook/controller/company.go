package controller

import (
	"context"
	"errors"
	"fmt"

	e "github.com/gartstein/phonebook/internal/phonebook/errors"
	"github.com/gartstein/phonebook/internal/phonebook/events"
	"github.com/gartstein/phonebook/internal/phonebook/models"
	"go.uber.org/zap"
)

// CompanyService provides methods to manage companies via repository
// operations and event production.
type CompanyService struct {
	repo     CompanyRepository
	producer EventProducer
	metrics  Metrics
	logger   *zap.Logger
}

// NewCompanyService constructs a CompanyService with a repository,
// an event producer, metrics and a logger.
func NewCompanyService(repo CompanyRepository, producer EventProducer, metrics Metrics, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:     repo,
		producer: producer,
		metrics:  metrics,
		logger:   logger.Named("company_service"),
	}
}

// ListCompanies returns every company with its persons loaded.
func (s *CompanyService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	companies, err := s.repo.ListCompanies(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// GetCompany retrieves a Company with its persons, returning an error if not found.
func (s *CompanyService) GetCompany(ctx context.Context, id uint) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, id, true)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return company, nil
}

// CreateCompany adds a new Company after validating input data and
// ensuring no other company already uses the name.
//
// The name check and the insert are not atomic, two concurrent creates
// with the same name can both succeed.
func (s *CompanyService) CreateCompany(ctx context.Context, company *models.Company) (*models.Company, error) {
	if blank(company.CompanyName) {
		return nil, fmt.Errorf("%w: company name is required", e.ErrInvalidInput)
	}
	if company.RegistrationDate.IsZero() {
		return nil, fmt.Errorf("%w: registration date is required", e.ErrInvalidInput)
	}

	exists, err := s.repo.CompanyExistsByName(ctx, company.CompanyName)
	if err != nil {
		return nil, fmt.Errorf("failed to check name existence: %w", err)
	}
	if exists {
		return nil, e.ErrDuplicateName
	}

	company.ID = 0
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	s.logger.Info("company created",
		zap.Uint("company_id", company.ID),
		zap.String("company_name", company.CompanyName),
	)
	s.metrics.IncrementCompanyCreated()
	s.producer.Produce(ctx, events.CompanyCreated, idKey(company.ID), company)
	return company, nil
}
