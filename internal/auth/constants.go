// Copyright (c) 2026 Robin CRM. All rights reserved.

package auth

import "time"

// TokenTTL is the session lifetime. Dashboard sessions are long-lived on
// purpose; revocation via the logout denylist covers the kill-switch need.
const TokenTTL = 7 * 24 * time.Hour
