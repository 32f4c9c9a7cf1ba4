package models

import "time"

// ProductCategory groups products (clothing, hygiene, ...).
type ProductCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Label     string    `gorm:"not null;unique" json:"label"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

// TableName specifies the table name for ProductCategory model
func (ProductCategory) TableName() string {
	return "product_categories"
}

// Product is a kind of aid item stocked at a Base. Access to a product is
// scoped through its owning base.
type Product struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BaseID     uint      `gorm:"not null;index" json:"baseId"`
	CategoryID *uint     `gorm:"index" json:"categoryId,omitempty"`
	Name       string    `gorm:"not null" json:"name"`
	Gender     string    `gorm:"type:varchar(20)" json:"gender,omitempty"`
	SizeSeq    *int      `json:"sizeSeq,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Base     Base             `gorm:"foreignKey:BaseID" json:"base,omitempty"`
	Category *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName specifies the table name for Product model
func (Product) TableName() string {
	return "products"
}

// Size is one entry of a size range (e.g. "52 Mixed", "53 S"). Products
// reference a range by its Seq; all sizes sharing the Seq belong to it.
type Size struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Label string `gorm:"not null" json:"label"`
	Seq   int    `gorm:"index" json:"seq"`
}

// TableName specifies the table name for Size model
func (Size) TableName() string {
	return "sizes"
}
