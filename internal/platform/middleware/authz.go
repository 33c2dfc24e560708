// Copyright (c) 2026 Robin CRM. All rights reserved.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/robin-crm/robin/internal/auth"
	"github.com/robin-crm/robin/internal/platform/apperr"
	"github.com/robin-crm/robin/internal/platform/constants"
	"github.com/robin-crm/robin/internal/platform/ctxutil"
	"github.com/robin-crm/robin/internal/platform/respond"
	"github.com/robin-crm/robin/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify session tokens.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the gatekeeper from the concrete
// [sec.TokenService], allowing mocks to be injected in unit tests.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// TokenRevocations answers whether a token ID has been revoked by logout.
type TokenRevocations interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// GrantChecker answers whether a user may view a module. The top-role
// bypass happens in the gatekeeper before this is consulted.
type GrantChecker interface {
	CanView(ctx context.Context, userID, module string) (bool, error)
}

// Authenticate extracts and verifies the session token on every request.
//
// # Flow
//  1. Public paths (login page, login endpoint, health probes) pass
//     through before any token handling. A browser holding a stale cookie
//     must still be able to reach the login form and re-authenticate.
//  2. Look for a token in the 'Authorization: Bearer <token>' header, then
//     in the session cookie (the dashboard uses the cookie, API clients
//     the header).
//  3. If absent, the request proceeds as anonymous; RequireAuth decides
//     later whether anonymous is acceptable for the route.
//  4. If present but invalid, expired, or revoked, the request is rejected
//     immediately: pages are redirected to the login screen with the stale
//     cookie cleared, API calls get a 401.
//  5. On success, the verified identity is injected into the request
//     context. Downstream handlers trust it without re-verification; this
//     middleware is the sole trust boundary.
func Authenticate(routes *RouteMap, verifier TokenVerifier, revocations TokenRevocations) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Public Paths ───────────────────────────────────────────────
			if routes.IsPublic(request.URL.Path) {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Extraction ───────────────────────────────────────────
			tokenStr, found := extractToken(request)
			if !found {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Verification ───────────────────────────────────────────────
			// A malformed header yields an empty token, which fails
			// verification: a bad token and no token end up in the same
			// two branches, never in a third.
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				rejectInvalidToken(writer, request)
				return
			}

			// ── 4. Revocation Check ───────────────────────────────────────────
			revoked, err := revocations.IsRevoked(request.Context(), claims.ID)
			if err != nil {
				// Fail closed: an unreachable denylist means we cannot
				// prove the token is still live.
				respond.Error(writer, request, apperr.StorageUnavailable(err))
				return
			}
			if revoked {
				rejectInvalidToken(writer, request)
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that carry no verified identity.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. Pages are
// redirected to the login screen; API calls get a 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetIdentity(request.Context()) == nil {
			rejectUnauthenticated(writer, request)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireAnyRole blocks requests whose role does not satisfy the required set.
//
// # Usage
//
// Must be registered AFTER [Authenticate]. It implies [RequireAuth], so
// mounting both is unnecessary. The set reads as "any of these roles or
// higher" (see [auth.Role.Satisfies]).
func RequireAnyRole(required ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetIdentity(request.Context())
			if claims == nil {
				rejectUnauthenticated(writer, request)
				return
			}

			role := auth.ParseRole(claims.Role)
			if !role.Satisfies(required...) {
				if IsAPIRoute(request.URL.Path) {
					respond.Error(writer, request, apperr.Forbidden("INSUFFICIENT_ROLE", "Insufficient role for this operation"))
					return
				}
				redirectAccessDenied(writer, request, "")
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// ModuleGate enforces the per-module grant matrix on mapped routes.
//
// # Flow
//  1. Exempt paths pass through untouched.
//  2. The top role bypasses the grant matrix entirely and sees every module.
//  3. Module-mapped paths require a "view" grant for the resolved identity.
//  4. Paths that are neither exempt nor mapped are denied: an unclassified
//     route is treated as unreviewed, not as public.
//
// Denials redirect pages to the dashboard with an access_denied indicator
// naming the module; API calls get a 403. Storage failures deny with a 503,
// never allow.
func ModuleGate(routes *RouteMap, grants GrantChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetIdentity(request.Context())
			if claims == nil {
				rejectUnauthenticated(writer, request)
				return
			}

			path := request.URL.Path
			if routes.IsExempt(path) {
				next.ServeHTTP(writer, request)
				return
			}

			module, mapped := routes.ModuleFor(path)
			if !mapped {
				logger := ctxutil.GetLogger(request.Context())
				logger.WarnContext(request.Context(), "unmapped_route_denied",
					slog.String("path", path),
					slog.String("user_id", claims.UserID),
				)
				rejectModule(writer, request, "")
				return
			}

			if auth.ParseRole(claims.Role).IsTop() {
				next.ServeHTTP(writer, request)
				return
			}

			allowed, err := grants.CanView(request.Context(), claims.UserID, module)
			if err != nil {
				respond.Error(writer, request, apperr.StorageUnavailable(err))
				return
			}
			if !allowed {
				rejectModule(writer, request, module)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Gate Helpers

// extractToken pulls the session token from the Authorization header or,
// failing that, from the session cookie.
func extractToken(request *http.Request) (token string, found bool) {
	if authHeader := request.Header.Get(constants.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1]), true
		}
		// A malformed header still counts as an auth attempt.
		return "", true
	}

	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// rejectUnauthenticated handles requests with no identity: pages go to the
// login screen, API calls get a 401.
func rejectUnauthenticated(writer http.ResponseWriter, request *http.Request) {
	if IsAPIRoute(request.URL.Path) {
		respond.Error(writer, request, apperr.Unauthorized("UNAUTHENTICATED", "Authentication required"))
		return
	}
	http.Redirect(writer, request, constants.LoginPath, http.StatusSeeOther)
}

// rejectInvalidToken handles requests whose token failed verification or was
// revoked. The stale session cookie is cleared so the browser stops
// re-sending it.
func rejectInvalidToken(writer http.ResponseWriter, request *http.Request) {
	if IsAPIRoute(request.URL.Path) {
		respond.Error(writer, request, apperr.Unauthorized("TOKEN_INVALID", "Invalid or expired token"))
		return
	}
	clearSessionCookie(writer)
	http.Redirect(writer, request, constants.LoginPath, http.StatusSeeOther)
}

// rejectModule handles module permission denials. The module name rides
// along in the redirect so the dashboard can render an inline notice.
func rejectModule(writer http.ResponseWriter, request *http.Request, module string) {
	if IsAPIRoute(request.URL.Path) {
		respond.Error(writer, request, apperr.Forbidden("MODULE_PERMISSION_DENIED", "You do not have access to this module"))
		return
	}
	redirectAccessDenied(writer, request, module)
}

// redirectAccessDenied sends the browser back to the dashboard landing page
// with an access_denied indicator, optionally naming the module.
func redirectAccessDenied(writer http.ResponseWriter, request *http.Request, module string) {
	query := url.Values{"error": {"access_denied"}}
	if module != "" {
		query.Set("module", module)
	}
	http.Redirect(writer, request, constants.DashboardPath+"?"+query.Encode(), http.StatusSeeOther)
}

// clearSessionCookie expires the session cookie on the client.
func clearSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
