package models

import "time"

// QrCode maps an opaque scanned code to an internal id. At most one Box
// references a given code at a time (unique index on boxes.qr_code_id).
type QrCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null;type:varchar(64)" json:"code"`
	CreatedOn time.Time `json:"createdOn"`
}

// TableName specifies the table name for QrCode model
func (QrCode) TableName() string {
	return "qr_codes"
}
