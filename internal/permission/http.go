// Copyright (c) 2026 Robin CRM. All rights reserved.

package permission

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/robin-crm/robin/internal/platform/request"
	"github.com/robin-crm/robin/internal/platform/respond"
	"github.com/robin-crm/robin/internal/platform/validate"
)

// Handler exposes the permission administration endpoints over HTTP.
//
// The catalog and the current user's accessible modules are available to any
// authenticated caller; reading or editing another user's matrix is mounted
// behind a top-role gate in the server wiring.
type Handler struct {
	service *Service
}

// NewHandler constructs the permission [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the permission routes.
func (handler *Handler) Register(authenticated, topRole chi.Router) {
	authenticated.Get("/permissions/modules", handler.handleCatalog)
	authenticated.Get("/permissions/user-modules", handler.handleUserModules)
	topRole.Get("/permissions/user/{userID}", handler.handleMatrix)
	topRole.Post("/permissions/user/{userID}", handler.handleReplaceGrants)
}

// handleCatalog returns the active modules and the permission catalog.
func (handler *Handler) handleCatalog(writer http.ResponseWriter, request *http.Request) {
	catalog, err := handler.service.ListCatalog(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, catalog)
}

// handleUserModules returns the modules the current identity may see,
// feeding the dashboard navigation.
func (handler *Handler) handleUserModules(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	modules, err := handler.service.ListAccessibleModules(request.Context(), claims.UserID, claims.Role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, modules)
}

// handleMatrix returns the full permission matrix for the named user.
func (handler *Handler) handleMatrix(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userID")

	validator := &validate.Validator{}
	validator.Required("user_id", userID).UUID("user_id", userID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	matrix, err := handler.service.UserPermissionMatrix(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, matrix)
}

// replaceGrantsRequest is the JSON payload for POST /permissions/user/{userID}.
type replaceGrantsRequest struct {
	Grants []GrantInput `json:"grants"`
}

// handleReplaceGrants atomically replaces the named user's grant set. The
// acting administrator is recorded as the grantor on every row.
func (handler *Handler) handleReplaceGrants(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID := requestutil.Param(request, "userID")

	validator := &validate.Validator{}
	validator.Required("user_id", userID).UUID("user_id", userID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload replaceGrantsRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ReplaceUserGrants(request.Context(), userID, claims.UserID, payload.Grants); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
