package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	e "github.com/gartstein/phonebook/internal/phonebook/errors"
	"github.com/gartstein/phonebook/internal/phonebook/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string
}

func (c *Config) dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverPostgres, "":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqliteDialector(c.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

func NewRepository(cfg *Config) (*Repository, error) {
	dialector, err := cfg.dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return newRepository(db)
}

// sqliteDSN turns on foreign key enforcement for every pooled connection.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// newRepository enables foreign keys on sqlite and migrates the schema.
func newRepository(db *gorm.DB) (*Repository, error) {
	if db.Dialector.Name() == DriverSQLite {
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := db.AutoMigrate(&models.Company{}, &models.Person{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) ListCompanies(ctx context.Context, includePersons bool) ([]models.Company, error) {
	var companies []models.Company
	result := r.db.WithContext(ctx).
		Scopes(preload(includePersons, "Persons")).
		Order("companies.id").
		Find(&companies)
	if result.Error != nil {
		return nil, result.Error
	}
	return companies, nil
}

func (r *Repository) GetCompany(ctx context.Context, id uint, includePersons bool) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).
		Scopes(preload(includePersons, "Persons")).
		First(&company, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &company, nil
}

func (r *Repository) CompanyExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("id = ?", id).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

// CompanyExistsByName matches the name exactly, case included.
func (r *Repository) CompanyExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("company_name = ?", name).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	company.Persons = nil
	result := r.db.WithContext(ctx).Create(company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateName
		}
		return result.Error
	}
	return nil
}

func (r *Repository) ListPersons(ctx context.Context, query models.PersonQuery) ([]models.Person, error) {
	var persons []models.Person
	result := r.db.WithContext(ctx).
		Scopes(preload(query.IncludeCompany, "Company"), matching(query.Search)).
		Order("people.id").
		Find(&persons)
	if result.Error != nil {
		return nil, result.Error
	}
	return persons, nil
}

func (r *Repository) GetPerson(ctx context.Context, id uint, includeCompany bool) (*models.Person, error) {
	var person models.Person
	result := r.db.WithContext(ctx).
		Scopes(preload(includeCompany, "Company")).
		First(&person, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &person, nil
}

// RandomPerson picks one person uniformly at random, or returns ErrNotFound
// when there are none.
func (r *Repository) RandomPerson(ctx context.Context, includeCompany bool) (*models.Person, error) {
	var person models.Person
	result := r.db.WithContext(ctx).
		Scopes(preload(includeCompany, "Company")).
		Order("RANDOM()").
		Take(&person)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return &person, nil
}

func (r *Repository) PersonExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Person{}).
		Where("id = ?", id).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

func (r *Repository) CreatePerson(ctx context.Context, person *models.Person) error {
	person.Company = nil
	person.Version = 1
	result := r.db.WithContext(ctx).Create(person)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%w: unknown company", e.ErrInvalidInput)
		}
		return result.Error
	}
	return nil
}

// UpdatePerson replaces every column of the person. A non-zero Version must
// match the stored one; zero skips the check. When no row matches the update
// ErrConcurrencyConflict is returned. On success person.Version holds the
// new stored version.
func (r *Repository) UpdatePerson(ctx context.Context, person *models.Person) error {
	tx := r.db.WithContext(ctx).Model(&models.Person{}).Where("id = ?", person.ID)
	if person.Version != 0 {
		tx = tx.Where("version = ?", person.Version)
	}

	result := tx.Updates(map[string]interface{}{
		"full_name":    person.FullName,
		"phone_number": person.PhoneNumber,
		"address":      person.Address,
		"company_id":   person.CompanyID,
		"version":      gorm.Expr("version + 1"),
	})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%w: unknown company", e.ErrInvalidInput)
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrConcurrencyConflict
	}

	if person.Version != 0 {
		person.Version++
		return nil
	}
	// Unversioned update: report the stored token back.
	var versions []uint
	if err := r.db.WithContext(ctx).Model(&models.Person{}).
		Where("id = ?", person.ID).
		Pluck("version", &versions).Error; err != nil {
		return err
	}
	if len(versions) > 0 {
		person.Version = versions[0]
	}
	return nil
}

func (r *Repository) DeletePerson(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Person{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

func preload(include bool, relation string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if !include {
			return tx
		}
		return tx.Preload(relation)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// matching filters people by a case-insensitive substring of their own text
// fields or of their company name.
func matching(search string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if search == "" {
			return tx
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		return tx.
			Joins("LEFT JOIN companies ON companies.id = people.company_id").
			Where(`LOWER(people.address) LIKE ? ESCAPE '\' OR LOWER(people.full_name) LIKE ? ESCAPE '\' OR `+
				`LOWER(people.phone_number) LIKE ? ESCAPE '\' OR LOWER(companies.company_name) LIKE ? ESCAPE '\'`,
				pattern, pattern, pattern, pattern)
	}
}
