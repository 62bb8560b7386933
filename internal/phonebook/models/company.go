// Package models defines the phone book domain entities, Company and Person,
// together with the gorm mapping used by the store adapter.
package models

import (
	"time"
)

// Company defines the domain model for a company entity.
type Company struct {
	// ID is assigned by the store on insert.
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`
	// CompanyName must be unique among companies. Uniqueness is checked by the
	// service before insert, the table carries no unique index.
	CompanyName string `gorm:"not null" json:"companyName"`
	// RegistrationDate is a calendar date.
	RegistrationDate time.Time `gorm:"type:date;not null" json:"registrationDate"`
	// Persons is only populated when the query asks for it.
	Persons []Person `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"persons,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Company) TableName() string {
	return "companies"
}
