package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/boxaid/boxaid/internal/auth"
	"github.com/boxaid/boxaid/internal/stock"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// graphRequest is a batch of named fields to resolve in one operation.
// Args are decoded per field by its resolver.
type graphRequest struct {
	Fields map[string]json.RawMessage `json:"fields"`
}

type graphErrorExtensions struct {
	Code string `json:"code"`
}

type graphError struct {
	Message    string               `json:"message"`
	Field      string               `json:"field,omitempty"`
	Extensions graphErrorExtensions `json:"extensions"`
}

// graphResponse is the partial-success envelope: a failed field yields a
// null data entry plus one structured error; siblings are unaffected.
type graphResponse struct {
	Data   map[string]interface{} `json:"data"`
	Errors []graphError           `json:"errors,omitempty"`
}

// resolverFunc resolves a single named field. The identity is passed
// explicitly; resolvers never read it from anywhere else.
type resolverFunc func(ctx context.Context, id *auth.Identity, args json.RawMessage) (interface{}, error)

// handleGraph dispatches each requested field to its resolver and collects
// results into the {data, errors} envelope. A denial or lookup failure is
// local to the field it guards; the batch always returns 200.
func (r *Router) handleGraph(w http.ResponseWriter, req *http.Request) {
	identity, ok := auth.IdentityFromContext(req.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "No identity in request context")
		return
	}

	var body graphRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if len(body.Fields) == 0 {
		respondError(w, http.StatusBadRequest, "No fields requested")
		return
	}

	resolvers := r.resolvers()
	resp := graphResponse{Data: make(map[string]interface{}, len(body.Fields))}

	for field, args := range body.Fields {
		resolve, known := resolvers[field]
		if !known {
			resp.Data[field] = nil
			resp.Errors = append(resp.Errors, graphError{
				Message:    "unknown field " + field,
				Field:      field,
				Extensions: graphErrorExtensions{Code: "BAD_USER_INPUT"},
			})
			continue
		}

		result, err := resolve(req.Context(), identity, args)
		if err != nil {
			resp.Data[field] = nil
			resp.Errors = append(resp.Errors, classifyFieldError(field, err))
			continue
		}
		resp.Data[field] = result
	}

	respondJSON(w, http.StatusOK, resp)
}

// classifyFieldError maps internal error types onto the envelope codes.
func classifyFieldError(field string, err error) graphError {
	code := "INTERNAL_SERVER_ERROR"

	var denial *auth.DenialError
	var validation validator.ValidationErrors
	switch {
	case errors.As(err, &denial):
		code = denial.Code()
	case errors.Is(err, stock.ErrBoxNotFound),
		errors.Is(err, stock.ErrQrCodeNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		code = "NOT_FOUND"
	case errors.Is(err, stock.ErrInvalidReference),
		errors.Is(err, stock.ErrQrCodeInUse),
		errors.Is(err, gorm.ErrDuplicatedKey),
		errors.As(err, &validation):
		code = "BAD_USER_INPUT"
	default:
		log.Printf("graph field %s: %v", field, err)
	}

	return graphError{
		Message:    err.Error(),
		Field:      field,
		Extensions: graphErrorExtensions{Code: code},
	}
}

// resolvers names every resolvable field. Queries read, mutations write
// through the stock service; each one performs its own gate checks before
// touching the identified resource.
func (r *Router) resolvers() map[string]resolverFunc {
	return map[string]resolverFunc{
		// queries
		"base":              r.resolveBase,
		"bases":             r.resolveBases,
		"organisation":      r.resolveOrganisation,
		"organisations":     r.resolveOrganisations,
		"location":          r.resolveLocation,
		"locations":         r.resolveLocations,
		"product":           r.resolveProduct,
		"products":          r.resolveProducts,
		"productCategory":   r.resolveProductCategory,
		"productCategories": r.resolveProductCategories,
		"box":               r.resolveBox,
		"qrCode":            r.resolveQrCode,
		"qrExists":          r.resolveQrExists,
		"user":              r.resolveUser,
		"users":             r.resolveUsers,

		// mutations
		"createBox":     r.resolveCreateBox,
		"updateBox":     r.resolveUpdateBox,
		"deleteBox":     r.resolveDeleteBox,
		"createQrCodes": r.resolveCreateQrCodes,
	}
}
