package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
)

// RequireActiveSession runs after the JWT verifier: it rejects tokens
// revoked by a logout and exposes the user ID to downstream handlers.
func RequireActiveSession(ctx iris.Context) {
	if token := FromSessionCookie(ctx); token != "" && SessionRevoked(token) {
		ctx.StopWithJSON(iris.StatusUnauthorized, iris.Map{"error": "Unauthorized"})
		return
	}

	claims := jwt.Get(ctx).(*SessionToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// RequireRole restricts a route to the given roles.
//
// Deliberately unused by the listing routes: the back-office gates on
// session existence alone and the role only drives contact-info priority.
// Kept for the day role-gating is actually wanted.
func RequireRole(roles ...string) iris.Handler {
	return func(ctx iris.Context) {
		claims := jwt.Get(ctx).(*SessionToken)
		if !slices.Contains(roles, claims.Role) {
			ctx.StopWithJSON(iris.StatusForbidden, iris.Map{"error": "forbidden", "message": "insufficient role"})
			return
		}
		ctx.Next()
	}
}
