package auth

import "fmt"

// Resource classes the gate knows how to scope directly. Products and
// locations are scoped indirectly: resolvers look up the owning base and
// authorize against ResourceBase.
const (
	ResourceBase         = "base"
	ResourceOrganisation = "organisation"
)

// DenialError is returned when the gate refuses access. It renders as a
// FORBIDDEN error local to the field being resolved; sibling fields in the
// same operation are unaffected.
type DenialError struct {
	Resource   string
	ResourceID uint
	Permission string
}

func (e *DenialError) Error() string {
	if e.Permission != "" {
		return fmt.Sprintf("missing permission %q", e.Permission)
	}
	return fmt.Sprintf("access to %s %d denied", e.Resource, e.ResourceID)
}

// Code returns the user-visible error code for a denial.
func (e *DenialError) Code() string { return "FORBIDDEN" }

// Authorize decides whether the identity may touch the identified resource.
// It only reads; no entity is ever mutated here. Returns nil on allow and
// a *DenialError on deny.
func Authorize(id *Identity, resource string, resourceID uint) error {
	switch resource {
	case ResourceBase:
		if id.HasBase(resourceID) {
			return nil
		}
	case ResourceOrganisation:
		if id.OrganisationID == resourceID {
			return nil
		}
	}
	return &DenialError{Resource: resource, ResourceID: resourceID}
}

// RequirePermission checks a capability string (e.g. "stock:write")
// independently of organisation/base scoping. Mutations that need both a
// capability and a scope must pass both checks before any write.
func RequirePermission(id *Identity, perm string) error {
	if id.HasPermission(perm) {
		return nil
	}
	return &DenialError{Permission: perm}
}
