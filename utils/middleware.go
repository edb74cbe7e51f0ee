package utils

import (
	"condo-management-server/models"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// ClaimsMiddleware extracts the verified access token and stores the caller's
// id and role in the request context for downstream handlers.
func ClaimsMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("role", claims.Role)
	ctx.Next()
}

// PMOnlyMiddleware ensures the requester is a property manager.
func PMOnlyMiddleware(ctx iris.Context) {
	role := models.RoleFromString(ctx.Values().GetString("role"))
	if role != models.RolePropertyManager {
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{"error": "forbidden", "message": "property manager access required"})
		return
	}
	ctx.Next()
}

// ReviewerOnlyMiddleware ensures the requester may review bookings
// (property manager or concierge).
func ReviewerOnlyMiddleware(ctx iris.Context) {
	role := models.RoleFromString(ctx.Values().GetString("role"))
	if !role.CanReview() {
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{"error": "forbidden", "message": "reviewer access required"})
		return
	}
	ctx.Next()
}

// CurrentUserID returns the authenticated caller's id from the request
// context.
func CurrentUserID(ctx iris.Context) uint {
	if id, ok := ctx.Values().Get("userID").(uint); ok {
		return id
	}
	return 0
}

// CurrentRole returns the authenticated caller's role from the request
// context.
func CurrentRole(ctx iris.Context) models.Role {
	return models.RoleFromString(ctx.Values().GetString("role"))
}
