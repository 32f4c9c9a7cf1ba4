package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/boxaid/boxaid/internal/auth"
	"github.com/boxaid/boxaid/internal/models"
	"github.com/boxaid/boxaid/internal/stock"
	"gorm.io/gorm"
)

type idArgs struct {
	ID uint `json:"id"`
}

type labelArgs struct {
	LabelIdentifier string `json:"labelIdentifier"`
}

type codeArgs struct {
	Code string `json:"code"`
}

type emailArgs struct {
	Email string `json:"email"`
}

// decodeArgs unmarshals field arguments; list fields legitimately pass none.
func decodeArgs(raw json.RawMessage, into interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, into)
}

func (r *Router) resolveBase(ctx context.Context, id *auth.Identity, raw json.RawMessage) (interface{}, error) {
	var args idArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := auth.Authorize(id, auth.ResourceBase, args.ID); err != nil {
		return nil, err
	}
	var base models.Base
	if err := r.db.WithContext(ctx).Preload("Locations").First(&base, args.ID).Error; err != nil {
		return nil, err
	}
	return base, nil
}

// resolveBases lists the identity's permitted bases. Scoping, not denial:
// bases outside the permitted set are simply absent from the result.
func (r *Router) resolveBases(ctx context.Context, id *auth.Identity, _ json.RawMessage) (interface{}, error) {
	var bases []models.Base
	if err := r.db.WithContext(ctx).Where("id IN ?", id.BaseIDs).Find(&bases).Error; err != nil {
		return nil, err
	}
	return bases, nil
}

func (r *Router) resolveOrganisation(ctx context.Context, id *auth.Identity, raw json.RawMessage) (interface{}, error) {
	var args idArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	if err := auth.Authorize(id, auth.ResourceOrganisation, args.ID); err != nil {
		return nil, err
	}
	var org models.Organisation
	if err := r.db.WithContext(ctx).Preload("Bases").First(&org, args.ID).Error; err != nil {
		return nil, err
	}
	return org, nil
}

func (r *Router) resolveOrganisations(ctx context.Context, _ *auth.Identity, _ json.RawMessage) (interface{}, error) {
	var orgs []models.Organisation
	if err := r.db.WithContext(ctx).Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// resolveLocation scopes through the owning base before returning the
// location and its boxes.
func (r *Router) resolveLocation(ctx context.Context, id *auth.Identity, raw json.RawMessage) (interface{}, error) {
	var args idArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	var loc models.Location
	if err := r.db.WithContext(ctx).First(&loc, args.ID).Error; err != nil {
		return nil, err
	}
	if err := auth.Authorize(id, auth.ResourceBase, loc.BaseID); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Preload("Boxes").First(&loc, args.ID).Error; err != nil {
		return nil, err
	}
	return loc, nil
}

func (r *Router) resolveLocations(ctx context.Context, id *auth.Identity, _ json.RawMessage) (interface{}, error) {
	var locs []models.Location
	if err := r.db.WithContext(ctx).Where("base_id IN ?", id.BaseIDs).Find(&locs).Error; err != nil {
		return nil, err
	}
	return locs, nil
}

func (r *Router) resolveProduct(ctx context.Context, id *auth.Identity, raw json.RawMessage) (interface{}, error) {
	var args idArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, args.ID).Error; err != nil {
		return nil, err
	}
	if err := auth.Authorize(id, auth.ResourceBase, product.BaseID); err != nil {
		return nil, err
	}
	return product, nil
}

func (r *Router) resolveProducts(ctx context.Context, id *auth.Identity, _ json.RawMessage) (interface{}, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("base_id IN ?", id.BaseIDs).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Router) resolveProductCategory(ctx context.Context, id *auth.Identity, raw json.RawMessage) (interface{}, error) {
	var args idArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	var category models.ProductCategory
	if err := r.db.WithContext(ctx).First(&category, args.ID).Error; err != nil {
		return nil, err
	}
	// Categories are shared; the product listing under them is scoped.
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("category_id = ? AND base_id IN ?", category.ID, id.BaseIDs).
		Find(&products).Error; err != nil {
		return nil, err
	}
	category.Products = products
	return category, nil
}

func (r *Router) resolveProductCategories(ctx context.Context, _ *auth.Identity, _ json.RawMessage) (interface{}, error) {
	var categories []models.ProductCategory
	if err := r.db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *Router) resolveBox(ctx context.Context, id *auth.Identity, raw json.RawMessage) (interface{}, error) {
	var args labelArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	box, err := r.stock.GetBoxByLabel(ctx, args.LabelIdentifier)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(id, auth.ResourceBase, box.Location.BaseID); err != nil {
		return nil, err
	}
	return box, nil
}

func (r *Router) resolveQrCode(ctx context.Context, id *auth.Identity, raw json.RawMessage) (interface{}, error) {
	var args codeArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	var qr models.QrCode
	err := r.db.WithContext(ctx).Where("code = ?", args.Code).First(&qr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, stock.ErrQrCodeNotFound
	}
	if err != nil {
		return nil, err
	}

	// The linked box is optional; absence is a valid state, not an error.
	result := map[string]interface{}{
		"id":        qr.ID,
		"code":      qr.Code,
		"createdOn": qr.CreatedOn,
		"box":       nil,
	}
	var box models.Box
	err = r.db.WithContext(ctx).Preload("Location").Where("qr_code_id = ?", qr.ID).First(&box).Error
	if err == nil {
		if authErr := auth.Authorize(id, auth.ResourceBase, box.Location.BaseID); authErr != nil {
			return nil, authErr
		}
		result["box"] = box
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return result, nil
}

func (r *Router) resolveQrExists(ctx context.Context, _ *auth.Identity, raw json.RawMessage) (interface{}, error) {
	var args codeArgs
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	return r.stock.QrCodeExists(ctx, args.Code)
}

func (r *Router) resolveUser(ctx context.Context, id *auth.Identity, raw json.RawMessage) (interface{}, error) {
	args := emailArgs{Email: id.Email}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Organisation").
		Where("email = ? AND organisation_id = ?", args.Email, id.OrganisationID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s not found", args.Email)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Router) resolveUsers(ctx context.Context, id *auth.Identity, _ json.RawMessage) (interface{}, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("organisation_id = ?", id.OrganisationID).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
