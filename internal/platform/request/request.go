// Copyright (c) 2026 Robin CRM. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts the router's parameter extraction and common body decoding
patterns, so handlers stay focused on orchestration.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robin-crm/robin/internal/platform/apperr"
	"github.com/robin-crm/robin/internal/platform/ctxutil"
	"github.com/robin-crm/robin/internal/platform/sec"
	"github.com/robin-crm/robin/internal/platform/validate"
)

// DecodeJSON reads the request body and decodes it into the target structure.
// Returns [validate.ErrInvalidJSON] if decoding fails.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Identity extracts the verified identity claims from the request context.
// Returns nil if the request is anonymous.
func Identity(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetIdentity(request.Context())
}

// RequiredIdentity ensures the request is authenticated and returns the claims.
//
// Handlers behind the gatekeeper's RequireAuth never see this fail; it is a
// defensive check for routes mounted without the middleware.
func RequiredIdentity(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetIdentity(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("UNAUTHENTICATED", "Authentication required")
	}
	return claims, nil
}
