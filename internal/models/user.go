package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a staff member or volunteer of an Organisation.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `json:"name,omitempty"`
	Email          string     `gorm:"unique;not null" json:"email"`
	Password       string     `gorm:"not null" json:"-"`
	OrganisationID uint       `gorm:"not null;index" json:"organisationId"`
	IsAdmin        bool       `gorm:"default:false" json:"isAdmin"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Organisation Organisation `gorm:"foreignKey:OrganisationID" json:"organisation,omitempty"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
