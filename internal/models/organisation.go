package models

import "time"

// Organisation is a top-level tenant. Every Base belongs to exactly one
// Organisation, and a user's visibility is gated by their organisation id.
type Organisation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;unique" json:"name"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Bases []Base `gorm:"foreignKey:OrganisationID" json:"bases,omitempty"`
}

// TableName specifies the table name for Organisation model
func (Organisation) TableName() string {
	return "organisations"
}

// Base is a single warehouse/site within an Organisation. A user may only
// read or write a Base whose id is in their permitted base set.
type Base struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganisationID uint      `gorm:"not null;index" json:"organisationId"`
	Name           string    `gorm:"not null" json:"name"`
	Currency       string    `gorm:"type:varchar(10)" json:"currency,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	Organisation Organisation `gorm:"foreignKey:OrganisationID" json:"organisation,omitempty"`
	Locations    []Location   `gorm:"foreignKey:BaseID" json:"locations,omitempty"`
}

// TableName specifies the table name for Base model
func (Base) TableName() string {
	return "bases"
}
