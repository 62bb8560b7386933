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

// PersonService provides methods to manage persons via repository
// operations and event production.
type PersonService struct {
	repo     PersonRepository
	producer EventProducer
	metrics  Metrics
	logger   *zap.Logger
}

// NewPersonService constructs a PersonService.
func NewPersonService(repo PersonRepository, producer EventProducer, metrics Metrics, logger *zap.Logger) *PersonService {
	return &PersonService{
		repo:     repo,
		producer: producer,
		metrics:  metrics,
		logger:   logger.Named("person_service"),
	}
}

// ListPersons returns persons with their company loaded. A non-empty
// searchQuery keeps only those whose address, full name, phone number or
// company name contains it, ignoring case.
func (s *PersonService) ListPersons(ctx context.Context, searchQuery string) ([]models.Person, error) {
	persons, err := s.repo.ListPersons(ctx, models.PersonQuery{
		Search:         searchQuery,
		IncludeCompany: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	return persons, nil
}

// GetPerson retrieves a Person with its company, returning an error if not found.
func (s *PersonService) GetPerson(ctx context.Context, id uint) (*models.Person, error) {
	person, err := s.repo.GetPerson(ctx, id, true)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return person, nil
}

// RandomPerson returns one person picked uniformly at random, or
// ErrNotFound when there are none.
func (s *PersonService) RandomPerson(ctx context.Context) (*models.Person, error) {
	person, err := s.repo.RandomPerson(ctx, true)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to pick random person: %w", err)
	}
	return person, nil
}

// CreatePerson validates and stores a new Person.
func (s *PersonService) CreatePerson(ctx context.Context, person *models.Person) (*models.Person, error) {
	if err := validatePerson(person); err != nil {
		return nil, err
	}
	if err := s.ensureCompany(ctx, person.CompanyID); err != nil {
		return nil, err
	}

	person.ID = 0
	if err := s.repo.CreatePerson(ctx, person); err != nil {
		if errors.Is(err, e.ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create person: %w", err)
	}

	s.logger.Info("person created",
		zap.Uint("person_id", person.ID),
		zap.Uint("company_id", person.CompanyID),
	)
	s.metrics.IncrementPersonCreated()
	s.producer.Produce(ctx, events.PersonCreated, idKey(person.ID), person)
	return person, nil
}

// UpdatePerson fully replaces the stored Person identified by id.
//
// When the store reports a concurrency conflict the person is looked up
// again: a vanished record yields ErrNotFound, otherwise the conflict is
// returned to the caller.
func (s *PersonService) UpdatePerson(ctx context.Context, id uint, person *models.Person) error {
	if err := validatePerson(person); err != nil {
		return err
	}
	if id != person.ID {
		return fmt.Errorf("%w: path id %d, body id %d", e.ErrIDMismatch, id, person.ID)
	}
	if err := s.ensureCompany(ctx, person.CompanyID); err != nil {
		return err
	}

	err := s.repo.UpdatePerson(ctx, person)
	if errors.Is(err, e.ErrConcurrencyConflict) {
		exists, existsErr := s.repo.PersonExists(ctx, id)
		if existsErr != nil {
			return fmt.Errorf("failed to check person existence: %w", existsErr)
		}
		if !exists {
			return e.ErrNotFound
		}
		s.logger.Warn("person update conflict",
			zap.Uint("person_id", id),
			zap.Uint("version", person.Version),
		)
		s.metrics.IncrementUpdateConflict()
		return err
	}
	if err != nil {
		if errors.Is(err, e.ErrInvalidInput) {
			return err
		}
		return fmt.Errorf("failed to update person: %w", err)
	}

	s.producer.Produce(ctx, events.PersonUpdated, idKey(id), person)
	return nil
}

// DeletePerson removes a Person and returns its state prior to deletion.
func (s *PersonService) DeletePerson(ctx context.Context, id uint) (*models.Person, error) {
	person, err := s.repo.GetPerson(ctx, id, false)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get person for deletion: %w", err)
	}

	if err := s.repo.DeletePerson(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete person: %w", err)
	}

	s.producer.Produce(ctx, events.PersonDeleted, idKey(id), person)
	return person, nil
}

func (s *PersonService) ensureCompany(ctx context.Context, companyID uint) error {
	exists, err := s.repo.CompanyExists(ctx, companyID)
	if err != nil {
		return fmt.Errorf("failed to check company existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: company %d does not exist", e.ErrInvalidInput, companyID)
	}
	return nil
}

func validatePerson(person *models.Person) error {
	switch {
	case blank(person.FullName):
		return fmt.Errorf("%w: full name is required", e.ErrInvalidInput)
	case blank(person.PhoneNumber):
		return fmt.Errorf("%w: phone number is required", e.ErrInvalidInput)
	case blank(person.Address):
		return fmt.Errorf("%w: address is required", e.ErrInvalidInput)
	case person.CompanyID == 0:
		return fmt.Errorf("%w: company id is required", e.ErrInvalidInput)
	}
	return nil
}
