// Package stock implements the box lifecycle: scan-code resolution, label
// minting, creation and label-keyed updates. All writes are transactional;
// updates lock the target row so concurrent edits to one label serialize.
package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boxaid/boxaid/internal/models"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service owns all box reads and writes. Safe for concurrent use.
type Service struct {
	db       *gorm.DB
	validate *validator.Validate
}

// NewService creates a stock service on top of a live database handle.
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:       db,
		validate: validator.New(),
	}
}

// CreateBoxInput is the validated field set for box creation.
type CreateBoxInput struct {
	ProductID   uint   `json:"productId" validate:"required"`
	LocationID  uint   `json:"locationId" validate:"required"`
	Items       int    `json:"items" validate:"gte=0"`
	SizeID      *uint  `json:"sizeId"`
	QrCode      string `json:"qrCode"`
	Comment     string `json:"comment"`
	CreatedByID uint   `json:"-"`
}

// UpdateBoxInput identifies a box by its durable label and carries the
// field changes. Pointer fields distinguish "not provided" from a zero
// value; every provided field fully overwrites the stored one.
type UpdateBoxInput struct {
	LabelIdentifier  string  `json:"labelIdentifier" validate:"required"`
	ProductID        *uint   `json:"productId"`
	LocationID       *uint   `json:"locationId"`
	SizeID           *uint   `json:"sizeId"`
	Items            *int    `json:"items" validate:"omitempty,gte=0"`
	Comment          *string `json:"comment"`
	LastModifiedByID uint    `json:"-"`
}

// ResolveQrCode maps an opaque scan code to its internal id.
func (s *Service) ResolveQrCode(ctx context.Context, code string) (uint, error) {
	var qr models.QrCode
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&qr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrQrCodeNotFound
	}
	if err != nil {
		return 0, err
	}
	return qr.ID, nil
}

// QrCodeExists reports whether a scan code has a mapping.
func (s *Service) QrCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := s.ResolveQrCode(ctx, code)
	if errors.Is(err, ErrQrCodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateQrCodes mints count fresh scan-code mappings in one transaction.
func (s *Service) CreateQrCodes(ctx context.Context, count int) ([]models.QrCode, error) {
	if count < 1 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}
	codes := make([]models.QrCode, count)
	now := time.Now().UTC()
	for i := range codes {
		codes[i] = models.QrCode{Code: MintQrCode(), CreatedOn: now}
	}
	if err := s.db.WithContext(ctx).Create(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// CreateBox inserts a new box: the optional scan code is resolved first,
// references are checked, default state and timestamps are assigned, and a
// fresh label is minted. The whole operation is one transaction; a failure
// leaves no row behind.
func (s *Service) CreateBox(ctx context.Context, input CreateBoxInput) (*models.Box, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	// A unique violation aborts the surrounding Postgres transaction, so
	// the label-collision retry restarts the whole transaction with a
	// freshly minted label.
	var box *models.Box
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		box, err = s.createBoxOnce(ctx, input)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return box, nil
}

func (s *Service) createBoxOnce(ctx context.Context, input CreateBoxInput) (*models.Box, error) {
	var box *models.Box
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var qrID *uint
		if input.QrCode != "" {
			var qr models.QrCode
			err := tx.Where("code = ?", input.QrCode).First(&qr).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQrCodeNotFound
			}
			if err != nil {
				return err
			}
			var linked int64
			if err := tx.Model(&models.Box{}).Where("qr_code_id = ?", qr.ID).Count(&linked).Error; err != nil {
				return err
			}
			if linked > 0 {
				return ErrQrCodeInUse
			}
			qrID = &qr.ID
		}

		if err := checkReferences(tx, input.ProductID, input.LocationID, input.SizeID); err != nil {
			return err
		}

		now := time.Now().UTC()
		creator := input.CreatedByID
		candidate := &models.Box{
			LabelIdentifier:  MintLabel(),
			State:            models.BoxStateInStock,
			ProductID:        input.ProductID,
			LocationID:       input.LocationID,
			SizeID:           input.SizeID,
			QrCodeID:         qrID,
			Items:            input.Items,
			Comment:          input.Comment,
			CreatedOn:        now,
			CreatedByID:      &creator,
			LastModifiedOn:   now,
			LastModifiedByID: &creator,
		}

		if err := tx.Create(candidate).Error; err != nil {
			return err
		}
		box = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return box, nil
}

// UpdateBoxByLabel looks up a box by its durable label, applies every
// provided field as a full overwrite and re-stamps modification metadata.
// The row is locked for the duration of the transaction so two concurrent
// updates to the same label apply sequentially, never interleaved.
func (s *Service) UpdateBoxByLabel(ctx context.Context, input UpdateBoxInput) (*models.Box, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	var box models.Box
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("label_identifier = ?", input.LabelIdentifier).
			First(&box).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoxNotFound
		}
		if err != nil {
			return err
		}

		if input.ProductID != nil {
			box.ProductID = *input.ProductID
		}
		if input.LocationID != nil {
			box.LocationID = *input.LocationID
		}
		if input.SizeID != nil {
			box.SizeID = input.SizeID
		}
		if input.Items != nil {
			box.Items = *input.Items
		}
		if input.Comment != nil {
			box.Comment = *input.Comment
		}

		if err := checkReferences(tx, box.ProductID, box.LocationID, box.SizeID); err != nil {
			return err
		}

		modifier := input.LastModifiedByID
		box.LastModifiedOn = time.Now().UTC()
		box.LastModifiedByID = &modifier

		return tx.Save(&box).Error
	})
	if err != nil {
		return nil, err
	}
	return &box, nil
}

// GetBoxByLabel fetches a box with its relations preloaded.
func (s *Service) GetBoxByLabel(ctx context.Context, label string) (*models.Box, error) {
	var box models.Box
	err := s.db.WithContext(ctx).
		Preload("Product").Preload("Location").Preload("Size").Preload("QrCode").
		Where("label_identifier = ?", label).
		First(&box).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBoxNotFound
	}
	if err != nil {
		return nil, err
	}
	return &box, nil
}

// DeleteBoxByLabel soft-deletes a box. Rows are never physically removed;
// GORM stamps deleted_at and all reads filter it out.
func (s *Service) DeleteBoxByLabel(ctx context.Context, label string) error {
	result := s.db.WithContext(ctx).Where("label_identifier = ?", label).Delete(&models.Box{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBoxNotFound
	}
	return nil
}

// checkReferences rejects writes with dangling product/location/size
// references instead of leaning on cascade configuration.
func checkReferences(tx *gorm.DB, productID, locationID uint, sizeID *uint) error {
	var count int64
	if err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: product %d", ErrInvalidReference, productID)
	}
	if err := tx.Model(&models.Location{}).Where("id = ?", locationID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: location %d", ErrInvalidReference, locationID)
	}
	if sizeID != nil {
		if err := tx.Model(&models.Size{}).Where("id = ?", *sizeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: size %d", ErrInvalidReference, *sizeID)
		}
	}
	return nil
}
