// Package dto converts stored entities into their display form. Every
// function here is pure: the same input always yields the same output.
//
// Derived fields rely on relations being loaded. A company projected without
// its persons reports zero people, a person projected without its company
// has an empty company name.
package dto

import (
	"time"

	"github.com/gartstein/phonebook/internal/phonebook/models"
)

// DisplayCompany is the response shape of a company.
type DisplayCompany struct {
	ID               uint      `json:"id"`
	CompanyName      string    `json:"companyName"`
	RegistrationDate time.Time `json:"registrationDate"`
	NumberOfPeople   int       `json:"numberOfPeople"`
}

// DisplayPerson is the response shape of a person.
type DisplayPerson struct {
	ID          uint   `json:"id"`
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	CompanyName string `json:"companyName"`
}

func FromCompany(company *models.Company) DisplayCompany {
	return DisplayCompany{
		ID:               company.ID,
		CompanyName:      company.CompanyName,
		RegistrationDate: company.RegistrationDate,
		NumberOfPeople:   len(company.Persons),
	}
}

func FromPerson(person *models.Person) DisplayPerson {
	display := DisplayPerson{
		ID:          person.ID,
		FullName:    person.FullName,
		PhoneNumber: person.PhoneNumber,
		Address:     person.Address,
	}
	if person.Company != nil {
		display.CompanyName = person.Company.CompanyName
	}
	return display
}

// FromCompanies keeps the input order. The result is never nil.
func FromCompanies(companies []models.Company) []DisplayCompany {
	out := make([]DisplayCompany, 0, len(companies))
	for i := range companies {
		out = append(out, FromCompany(&companies[i]))
	}
	return out
}

// FromPersons keeps the input order. The result is never nil.
func FromPersons(persons []models.Person) []DisplayPerson {
	out := make([]DisplayPerson, 0, len(persons))
	for i := range persons {
		out = append(out, FromPerson(&persons[i]))
	}
	return out
}
