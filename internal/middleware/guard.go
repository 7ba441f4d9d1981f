package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/friendoria/friendoria/internal/auth"
)

// resolveSessionEmail returns the email carried by the request's session
// token, or "" when no valid session is present. Any failure to resolve
// the session is treated the same as an absent session.
func resolveSessionEmail(ctx *gin.Context) string {
	tokenString := extractToken(ctx)
	if tokenString == "" {
		return ""
	}

	token, err := auth.VerifyJWT(tokenString)
	if err != nil {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	email, _ := claims["email"].(string)
	return email
}

func isAuthPage(path string) bool {
	return strings.HasPrefix(path, "/login") || strings.HasPrefix(path, "/register")
}

// AccessGuard gates page navigation. Asset-like paths (anything with a
// file extension) pass through, unauthenticated visitors are sent to the
// sign-in page, signed-in visitors are kept off the sign-in and
// registration pages, and the admin area is restricted to the allow-list.
// API routes are left to AuthMiddleware, which answers 401 instead of
// redirecting.
func AccessGuard(adminEmails []string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		path := ctx.Request.URL.Path

		if strings.HasPrefix(path, "/api/") || strings.Contains(path, ".") {
			ctx.Next()
			return
		}

		email := resolveSessionEmail(ctx)
		loggedIn := email != ""

		if !loggedIn && !isAuthPage(path) {
			ctx.Redirect(http.StatusFound, "/login")
			ctx.Abort()
			return
		}

		if loggedIn && isAuthPage(path) {
			ctx.Redirect(http.StatusFound, "/timeline")
			ctx.Abort()
			return
		}

		if strings.HasPrefix(path, "/admin") && !emailAllowed(email, adminEmails) {
			ctx.Redirect(http.StatusFound, "/")
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}

// AdminRequired restricts an API group to the configured admin emails.
// Runs after AuthMiddleware, so the session user is already in context.
func AdminRequired(adminEmails []string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(ContextUserKey)

		user, ok := value.(AuthenticatedUser)

		if !exists || !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		if !emailAllowed(user.Email, adminEmails) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		ctx.Next()
	}
}

func emailAllowed(email string, allowed []string) bool {
	if email == "" {
		return false
	}
	for _, a := range allowed {
		if strings.EqualFold(a, email) {
			return true
		}
	}
	return false
}
