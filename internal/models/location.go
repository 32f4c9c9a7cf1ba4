package models

import "time"

// Location is a named spot inside a Base where boxes are stored.
type Location struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BaseID    uint      `gorm:"not null;index" json:"baseId"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Base  Base  `gorm:"foreignKey:BaseID" json:"base,omitempty"`
	Boxes []Box `gorm:"foreignKey:LocationID" json:"boxes,omitempty"`
}

// TableName specifies the table name for Location model
func (Location) TableName() string {
	return "locations"
}
