// Package controller implements the core business logic (service layer)
// for companies and persons, validating input, orchestrating repository
// operations and publishing change events.
package controller

import (
	"context"
	"strconv"
	"strings"

	"github.com/gartstein/phonebook/internal/phonebook/events"
	"github.com/gartstein/phonebook/internal/phonebook/models"
)

// EventProducer publishes change events. Failures are the producer's concern.
type EventProducer interface {
	Produce(ctx context.Context, eventType events.EventType, key string, payload interface{})
}

// Metrics receives domain counters from the services.
type Metrics interface {
	IncrementCompanyCreated()
	IncrementPersonCreated()
	IncrementUpdateConflict()
}

// CompanyRepository defines the storage interface for Company objects.
type CompanyRepository interface {
	ListCompanies(ctx context.Context, includePersons bool) ([]models.Company, error)
	GetCompany(ctx context.Context, id uint, includePersons bool) (*models.Company, error)
	CompanyExistsByName(ctx context.Context, name string) (bool, error)
	CreateCompany(ctx context.Context, company *models.Company) error
}

// PersonRepository defines the storage interface for Person objects.
type PersonRepository interface {
	ListPersons(ctx context.Context, query models.PersonQuery) ([]models.Person, error)
	GetPerson(ctx context.Context, id uint, includeCompany bool) (*models.Person, error)
	RandomPerson(ctx context.Context, includeCompany bool) (*models.Person, error)
	PersonExists(ctx context.Context, id uint) (bool, error)
	CompanyExists(ctx context.Context, id uint) (bool, error)
	CreatePerson(ctx context.Context, person *models.Person) error
	UpdatePerson(ctx context.Context, person *models.Person) error
	DeletePerson(ctx context.Context, id uint) error
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// idKey is the event key of an entity.
func idKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
