// Package middleware provides shared request processing for handlers:
// cookie-session authentication, the admin role gate and rate limiting.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arhaval/talent-admin/internal/auth"
)

// identityKey is the context key under which the resolved auth.Identity is
// stored for handlers.
const identityKey = "identity"

// CurrentIdentity returns the identity placed in context by RequireActor or
// RequireAdmin. ok is false when the route was not gated.
func CurrentIdentity(c echo.Context) (auth.Identity, bool) {
	id, ok := c.Get(identityKey).(auth.Identity)
	return id, ok
}

// RequireActor gates a route on a valid session for any of the given
// variants, trying their cookies in order. Every failure mode is a uniform
// 401; callers never learn whether the cookie was missing, expired or the
// account deactivated.
func RequireActor(r *auth.Resolver, variants ...auth.Variant) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := r.ResolveAny(c.Request().Context(), c.Request(), variants...)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// RequireAdmin gates a route on the literal admin role. The two failure
// modes stay distinguishable: no admin session at all is 401, while a valid
// admin-variant session whose role is not "admin" (e.g. staff) is 403.
func RequireAdmin(r *auth.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := r.Resolve(c.Request().Context(), c.Request(), auth.VariantAdmin)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			if !id.IsAdminRole() {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin role required"})
			}
			c.Set(identityKey, id)
			return next(c)
		}
	}
}

// RequireAdminVariant gates a route on any authenticated admin-variant
// session regardless of role. Used by flows that accept staff accounts.
func RequireAdminVariant(r *auth.Resolver) echo.MiddlewareFunc {
	return RequireActor(r, auth.VariantAdmin)
}
