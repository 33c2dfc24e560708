// Copyright (c) 2026 Robin CRM. All rights reserved.

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robin-crm/robin/internal/platform/constants"
	requestutil "github.com/robin-crm/robin/internal/platform/request"
	"github.com/robin-crm/robin/internal/platform/respond"
	"github.com/robin-crm/robin/internal/platform/validate"
)

// Handler exposes the authentication endpoints over HTTP.
type Handler struct {
	service *Service

	// secureCookies toggles the Secure attribute on the session cookie.
	// Off in development where the dashboard runs over plain HTTP.
	secureCookies bool
}

// NewHandler constructs the authentication [Handler].
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{service: service, secureCookies: secureCookies}
}

// Register mounts the authentication routes.
//
// /login is public; /logout and /me sit behind the gatekeeper's
// RequireAuth in the server wiring.
func (handler *Handler) Register(public, protected chi.Router) {
	public.Post("/auth/login", handler.handleLogin)
	protected.Post("/auth/logout", handler.handleLogout)
	protected.Get("/auth/me", handler.handleMe)
}

// loginRequest is the JSON payload for POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse carries the session token alongside the sanitized profile.
// The token is also set as an HttpOnly cookie for the browser dashboard.
type loginResponse struct {
	User      Profile   `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// handleLogin authenticates a user and establishes a session.
func (handler *Handler) handleLogin(writer http.ResponseWriter, request *http.Request) {
	var payload loginRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.
		Required("email", payload.Email).
		Email("email", payload.Email).
		Required("password", payload.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Login(request.Context(), LoginInput{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookie(writer, result.Token, result.ExpiresAt)

	respond.OK(writer, loginResponse{
		User:      result.User,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

// handleLogout revokes the current session and clears the cookie.
//
// Logout is idempotent: a request without a live session still succeeds and
// still clears any cookie the browser was holding.
func (handler *Handler) handleLogout(writer http.ResponseWriter, request *http.Request) {
	if claims := requestutil.Identity(request); claims != nil {
		if err := handler.service.Logout(request.Context(), claims); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	handler.clearSessionCookie(writer)
	respond.NoContent(writer)
}

// handleMe returns the fresh profile behind the current session token.
func (handler *Handler) handleMe(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.Me(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// # Cookie Management

func (handler *Handler) setSessionCookie(writer http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (handler *Handler) clearSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
