package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nyxoasis/oasis-backend/api/middleware"
	"github.com/nyxoasis/oasis-backend/api/validators"
	pkgerrors "github.com/nyxoasis/oasis-backend/pkg/errors"
)

// userIDFromRequest resolves the authenticated user's id from the request
// context seeded by the auth middleware.
func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return id, nil
}

// sanitizeStringPtr applies validators.SanitizeString through an optional
// string pointer, leaving nil untouched.
func sanitizeStringPtr(input *string, maxLen int) *string {
	if input == nil {
		return nil
	}
	s := validators.SanitizeString(*input, maxLen)
	return &s
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+param)
	}
	return id, nil
}
