// Package auth implements the per-resolver authorization gate. The gate runs
// strictly before validation and persistence: a denied request must produce
// zero store calls.
package auth

import (
	"github.com/souqlab/storefront-api/internal/apperr"
	"github.com/souqlab/storefront-api/internal/models"
)

// RequireSession denies with UNAUTHORIZED when no session is present.
func RequireSession(s *models.Session) *apperr.Error {
	if s == nil {
		return apperr.Unauthorized()
	}
	return nil
}

// RequireRole denies with UNAUTHORIZED when the session is absent or its
// role is not one of the accepted roles. A wrong role is an authentication
// failure, not an ownership one.
func RequireRole(s *models.Session, roles ...models.Role) *apperr.Error {
	if s == nil {
		return apperr.Unauthorized()
	}
	for _, r := range roles {
		if s.Role == r {
			return nil
		}
	}
	return apperr.Unauthorized()
}

// RequireAdmin gates admin-only operations.
func RequireAdmin(s *models.Session) *apperr.Error {
	return RequireRole(s, models.RoleAdmin)
}

// RequireOwner denies with FORBIDDEN when the session's user does not own
// the targeted resource. ADMIN bypasses ownership.
func RequireOwner(s *models.Session, ownerID string) *apperr.Error {
	if s == nil {
		return apperr.Unauthorized()
	}
	if s.Role == models.RoleAdmin {
		return nil
	}
	if s.UserID != ownerID {
		return apperr.Forbidden()
	}
	return nil
}
