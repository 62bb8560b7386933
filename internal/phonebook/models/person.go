package models

// Person defines the domain model for a person entity.
type Person struct {
	// ID is assigned by the store on insert.
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName    string `gorm:"not null" json:"fullName"`
	PhoneNumber string `gorm:"not null" json:"phoneNumber"`
	Address     string `gorm:"not null" json:"address"`
	CompanyID   uint   `gorm:"not null;index" json:"companyId"`
	// Version is the optimistic concurrency token. It starts at 1 and every
	// update increments it.
	Version uint `gorm:"not null;default:1" json:"version"`
	// Company is only populated when the query asks for it.
	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "people"
}

// PersonQuery selects people and controls which relations are loaded.
type PersonQuery struct {
	// Search keeps people whose address, full name, phone number or company
	// name contains it, ignoring case. Empty means no filtering.
	Search string
	// IncludeCompany eagerly loads the owning company.
	IncludeCompany bool
}
