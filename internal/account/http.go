// Copyright (c) 2026 Robin CRM. All rights reserved.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/robin-crm/robin/internal/platform/request"
	"github.com/robin-crm/robin/internal/platform/respond"
	"github.com/robin-crm/robin/internal/platform/validate"
	"github.com/robin-crm/robin/pkg/pagination"
)

// Handler exposes account administration over HTTP. All routes are mounted
// behind the top-role gate in the server wiring.
type Handler struct {
	service *Service
}

// NewHandler constructs the account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the account administration routes.
func (handler *Handler) Register(topRole chi.Router) {
	topRole.Get("/users", handler.handleList)
	topRole.Post("/users", handler.handleCreate)
	topRole.Patch("/users/{userID}", handler.handleUpdate)
	topRole.Delete("/users/{userID}", handler.handleDeactivate)
}

// handleList returns one page of accounts.
func (handler *Handler) handleList(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, meta, err := handler.service.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, meta)
}

// handleCreate provisions a new account.
func (handler *Handler) handleCreate(writer http.ResponseWriter, request *http.Request) {
	var payload CreateInput
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.
		Required("name", payload.Name).
		MaxLen("name", payload.Name, 120).
		Required("email", payload.Email).
		Email("email", payload.Email).
		Required("password", payload.Password).
		MinLen("password", payload.Password, 8).
		Required("role", payload.Role)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Create(request.Context(), payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

// handleUpdate applies a partial edit to an account.
func (handler *Handler) handleUpdate(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userID")

	validator := &validate.Validator{}
	validator.Required("user_id", userID).UUID("user_id", userID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload UpdateInput
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Update(request.Context(), userID, payload)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// handleDeactivate transitions an account to inactive.
func (handler *Handler) handleDeactivate(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userID")

	validator := &validate.Validator{}
	validator.Required("user_id", userID).UUID("user_id", userID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Deactivate(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
