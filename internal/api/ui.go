// Copyright (c) 2026 Robin CRM. All rights reserved.

package api

import (
	"net/http"
)

// Page rendering belongs to the frontend build that a deployment mounts over
// these paths. The placeholders below keep the browser surface present (and
// therefore gateable) when the server runs standalone, e.g. in development
// or integration tests.

// PlaceholderLogin serves a minimal login shell on the public login path.
func PlaceholderLogin() http.Handler {
	return placeholderPage("robin — sign in")
}

// PlaceholderDashboard serves a minimal dashboard shell. It is only ever
// reached through the gatekeeper, so rendering it means the request carried
// a valid, non-revoked session.
func PlaceholderDashboard() http.Handler {
	return placeholderPage("robin — dashboard")
}

func placeholderPage(title string) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "text/html; charset=utf-8")
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte("<!doctype html><title>" + title + "</title><h1>" + title + "</h1>"))
	})
}
