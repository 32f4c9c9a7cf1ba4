package models

import (
	"time"

	"gorm.io/gorm"
)

// BoxLabelLength is the fixed maximum length of the human-facing label
// printed on a box. Labels are minted once at creation and never change.
const BoxLabelLength = 11

// BoxStateInStock is the default state assigned at creation.
const BoxStateInStock = "InStock"

// Box is a container of aid items stored at a Location. It is identified
// externally by its LabelIdentifier rather than the database primary key,
// because the label is what scan-driven clients hold. Boxes are never
// physically deleted, only soft-deleted.
type Box struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	LabelIdentifier string `gorm:"uniqueIndex;not null;type:varchar(11)" json:"labelIdentifier"`
	State           string `gorm:"type:varchar(20);not null;default:'InStock'" json:"state"`
	ProductID       uint   `gorm:"not null;index" json:"productId"`
	LocationID      uint   `gorm:"not null;index" json:"locationId"`
	SizeID          *uint  `gorm:"index" json:"sizeId,omitempty"`
	QrCodeID        *uint  `gorm:"uniqueIndex" json:"qrCodeId,omitempty"`
	Items           int    `gorm:"not null" json:"items"`
	Comment         string `gorm:"type:text" json:"comment"`

	CreatedOn        time.Time  `json:"createdOn"`
	CreatedByID      *uint      `json:"createdById,omitempty"`
	LastModifiedOn   time.Time  `json:"lastModifiedOn"`
	LastModifiedByID *uint      `json:"lastModifiedById,omitempty"`
	Ordered          *time.Time `json:"ordered,omitempty"`
	OrderedByID      *uint      `json:"orderedById,omitempty"`
	Picked           *int       `json:"picked,omitempty"`
	PickedByID       *uint      `json:"pickedById,omitempty"`

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product        Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Location       Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Size           *Size    `gorm:"foreignKey:SizeID" json:"size,omitempty"`
	QrCode         *QrCode  `gorm:"foreignKey:QrCodeID" json:"qrCode,omitempty"`
	CreatedBy      *User    `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	LastModifiedBy *User    `gorm:"foreignKey:LastModifiedByID" json:"lastModifiedBy,omitempty"`
}

// TableName specifies the table name for Box model
func (Box) TableName() string {
	return "boxes"
}
