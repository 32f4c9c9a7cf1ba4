// Package auth carries the per-request identity and all authorization
// decisions. Handlers build an Identity once from verified token claims
// and pass it explicitly to every check; nothing here reads ambient state.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Claim keys as issued by the token service. Custom claims are namespaced
// to avoid collisions with registered JWT claim names.
const (
	ClaimEmail          = "https://www.boxaid.org/email"
	ClaimOrganisationID = "https://www.boxaid.org/organisation_id"
	ClaimBaseIDs        = "https://www.boxaid.org/base_ids"
	ClaimRoles          = "https://www.boxaid.org/roles"
	ClaimPermissions    = "permissions"
)

// ErrMalformedClaims indicates a verified token whose payload is missing a
// required claim or carries one of the wrong shape. Fatal to the request.
var ErrMalformedClaims = errors.New("malformed token claims")

// Identity is the authenticated principal for one request. It is built
// once from verified claims, never mutated, and discarded at request end.
type Identity struct {
	Email          string
	OrganisationID uint
	BaseIDs        []uint
	Permissions    map[string]bool
	Roles          []string
}

// HasBase reports whether the identity's permitted base set contains id.
func (id *Identity) HasBase(baseID uint) bool {
	for _, b := range id.BaseIDs {
		if b == baseID {
			return true
		}
	}
	return false
}

// HasPermission reports whether the identity carries a capability string.
func (id *Identity) HasPermission(perm string) bool {
	return id.Permissions[perm]
}

// IdentityFromClaims builds an Identity from claims that have already been
// cryptographically verified upstream. It is a pure construction; any
// missing or mis-shaped required claim yields ErrMalformedClaims.
func IdentityFromClaims(claims jwt.MapClaims) (*Identity, error) {
	email, ok := claims[ClaimEmail].(string)
	if !ok || email == "" {
		return nil, fmt.Errorf("%w: %s", ErrMalformedClaims, ClaimEmail)
	}

	orgID, err := claimID(claims[ClaimOrganisationID])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedClaims, ClaimOrganisationID)
	}

	rawBases, ok := claims[ClaimBaseIDs].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMalformedClaims, ClaimBaseIDs)
	}
	baseIDs := make([]uint, 0, len(rawBases))
	for _, raw := range rawBases {
		id, err := claimID(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedClaims, ClaimBaseIDs)
		}
		baseIDs = append(baseIDs, id)
	}

	identity := &Identity{
		Email:          email,
		OrganisationID: orgID,
		BaseIDs:        baseIDs,
		Permissions:    map[string]bool{},
	}

	// Permissions and roles are optional; absence means none granted.
	if rawPerms, ok := claims[ClaimPermissions].([]interface{}); ok {
		for _, raw := range rawPerms {
			if perm, ok := raw.(string); ok {
				identity.Permissions[perm] = true
			}
		}
	}
	if rawRoles, ok := claims[ClaimRoles].([]interface{}); ok {
		for _, raw := range rawRoles {
			if role, ok := raw.(string); ok {
				identity.Roles = append(identity.Roles, role)
			}
		}
	}

	return identity, nil
}

// claimID accepts the id encodings the token service has used over time:
// JSON numbers and decimal strings.
func claimID(raw interface{}) (uint, error) {
	switch v := raw.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("negative id %v", v)
		}
		return uint(v), nil
	case string:
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return 0, err
		}
		return uint(id), nil
	default:
		return 0, fmt.Errorf("unsupported id type %T", raw)
	}
}

type contextKey string

const identityContextKey contextKey = "identity"

// WithIdentity attaches an identity to a request context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext retrieves the identity attached by the middleware.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(*Identity)
	return id, ok
}
