package controller

import (
	"context"
	"sync"

	"github.com/gartstein/phonebook/internal/phonebook/events"
	"github.com/gartstein/phonebook/internal/phonebook/models"
)

// MockCompanyRepository implements the CompanyRepository interface for testing
type MockCompanyRepository struct {
	listCompanies       func(context.Context, bool) ([]models.Company, error)
	getCompany          func(context.Context, uint, bool) (*models.Company, error)
	companyExistsByName func(context.Context, string) (bool, error)
	createCompany       func(context.Context, *models.Company) error
}

func (m *MockCompanyRepository) ListCompanies(ctx context.Context, includePersons bool) ([]models.Company, error) {
	return m.listCompanies(ctx, includePersons)
}

func (m *MockCompanyRepository) GetCompany(ctx context.Context, id uint, includePersons bool) (*models.Company, error) {
	return m.getCompany(ctx, id, includePersons)
}

func (m *MockCompanyRepository) CompanyExistsByName(ctx context.Context, name string) (bool, error) {
	return m.companyExistsByName(ctx, name)
}

func (m *MockCompanyRepository) CreateCompany(ctx context.Context, c *models.Company) error {
	return m.createCompany(ctx, c)
}

// MockPersonRepository implements the PersonRepository interface for testing.
// Calls to functions left nil panic, which flags unexpected store access.
type MockPersonRepository struct {
	listPersons   func(context.Context, models.PersonQuery) ([]models.Person, error)
	getPerson     func(context.Context, uint, bool) (*models.Person, error)
	randomPerson  func(context.Context, bool) (*models.Person, error)
	personExists  func(context.Context, uint) (bool, error)
	companyExists func(context.Context, uint) (bool, error)
	createPerson  func(context.Context, *models.Person) error
	updatePerson  func(context.Context, *models.Person) error
	deletePerson  func(context.Context, uint) error
}

func (m *MockPersonRepository) ListPersons(ctx context.Context, q models.PersonQuery) ([]models.Person, error) {
	return m.listPersons(ctx, q)
}

func (m *MockPersonRepository) GetPerson(ctx context.Context, id uint, includeCompany bool) (*models.Person, error) {
	return m.getPerson(ctx, id, includeCompany)
}

func (m *MockPersonRepository) RandomPerson(ctx context.Context, includeCompany bool) (*models.Person, error) {
	return m.randomPerson(ctx, includeCompany)
}

func (m *MockPersonRepository) PersonExists(ctx context.Context, id uint) (bool, error) {
	return m.personExists(ctx, id)
}

func (m *MockPersonRepository) CompanyExists(ctx context.Context, id uint) (bool, error) {
	return m.companyExists(ctx, id)
}

func (m *MockPersonRepository) CreatePerson(ctx context.Context, p *models.Person) error {
	return m.createPerson(ctx, p)
}

func (m *MockPersonRepository) UpdatePerson(ctx context.Context, p *models.Person) error {
	return m.updatePerson(ctx, p)
}

func (m *MockPersonRepository) DeletePerson(ctx context.Context, id uint) error {
	return m.deletePerson(ctx, id)
}

type producedEvent struct {
	EventType events.EventType
	Key       string
	Payload   interface{}
}

// MockProducer is a test double for the Kafka producer.
type MockProducer struct {
	mu             sync.Mutex
	producedEvents []producedEvent
}

func (m *MockProducer) Produce(_ context.Context, eventType events.EventType, key string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.producedEvents = append(m.producedEvents, producedEvent{eventType, key, payload})
}

// MockMetrics counts domain metric calls.
type MockMetrics struct {
	companiesCreated int
	personsCreated   int
	updateConflicts  int
}

func (m *MockMetrics) IncrementCompanyCreated() { m.companiesCreated++ }

func (m *MockMetrics) IncrementPersonCreated() { m.personsCreated++ }

func (m *MockMetrics) IncrementUpdateConflict() { m.updateConflicts++ }
