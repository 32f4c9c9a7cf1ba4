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

// Capability strings required by mutation classes.
const (
	PermStockWrite = "stock:write"
	PermQrCreate   = "qr:create"
)

// actor resolves the acting user row for attribution fields.
func (r *Router) actor(ctx context.Context, id *auth.Identity) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", id.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no user record for %s", id.Email)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// authorizeLocation scopes a location id through its owning base.
func (r *Router) authorizeLocation(ctx context.Context, id *auth.Identity, locationID uint) error {
	var loc models.Location
	err := r.db.WithContext(ctx).First(&loc, locationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: location %d", stock.ErrInvalidReference, locationID)
	}
	if err != nil {
		return err
	}
	return auth.Authorize(id, auth.ResourceBase, loc.BaseID)
}

// resolveCreateBox requires the stock:write capability AND visibility of
// the target location's base; either denial short-circuits before any
// write. The lifecycle manager performs the transactional insert.
func (r *Router) resolveCreateBox(ctx context.Context, id *auth.Identity, raw json.RawMessage) (interface{}, error) {
	if err := auth.RequirePermission(id, PermStockWrite); err != nil {
		return nil, err
	}

	var input stock.CreateBoxInput
	if err := decodeArgs(raw, &input); err != nil {
		return nil, err
	}
	if err := r.authorizeLocation(ctx, id, input.LocationID); err != nil {
		return nil, err
	}

	user, err := r.actor(ctx, id)
	if err != nil {
		return nil, err
	}
	input.CreatedByID = user.ID

	return r.stock.CreateBox(ctx, input)
}

// resolveUpdateBox scopes against the box's current base and, when the box
// is being moved, the destination base too.
func (r *Router) resolveUpdateBox(ctx context.Context, id *auth.Identity, raw json.RawMessage) (interface{}, error) {
	if err := auth.RequirePermission(id, PermStockWrite); err != nil {
		return nil, err
	}

	var input stock.UpdateBoxInput
	if err := decodeArgs(raw, &input); err != nil {
		return nil, err
	}

	box, err := r.stock.GetBoxByLabel(ctx, input.LabelIdentifier)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(id, auth.ResourceBase, box.Location.BaseID); err != nil {
		return nil, err
	}
	if input.LocationID != nil && *input.LocationID != box.LocationID {
		if err := r.authorizeLocation(ctx, id, *input.LocationID); err != nil {
			return nil, err
		}
	}

	user, err := r.actor(ctx, id)
	if err != nil {
		return nil, err
	}
	input.LastModifiedByID = user.ID

	return r.stock.UpdateBoxByLabel(ctx, input)
}

// resolveDeleteBox soft-deletes a box by label.
func (r *Router) resolveDeleteBox(ctx context.Context, id *auth.Identity, raw json.RawMessage) (interface{}, error) {
	if err := auth.RequirePermission(id, PermStockWrite); err != nil {
		return nil, err
	}

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

	if err := r.stock.DeleteBoxByLabel(ctx, args.LabelIdentifier); err != nil {
		return nil, err
	}
	return map[string]interface{}{"labelIdentifier": args.LabelIdentifier, "deleted": true}, nil
}

type createQrCodesArgs struct {
	Count int `json:"count"`
}

// resolveCreateQrCodes mints fresh scan-code mappings.
func (r *Router) resolveCreateQrCodes(ctx context.Context, id *auth.Identity, raw json.RawMessage) (interface{}, error) {
	if err := auth.RequirePermission(id, PermQrCreate); err != nil {
		return nil, err
	}

	args := createQrCodesArgs{Count: 1}
	if err := decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	return r.stock.CreateQrCodes(ctx, args.Count)
}
