package auth

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/cardfolio/cardfolio-backend/internal/users"
)

// RequireUser is the ownership guard in front of every card operation.
// With a Firebase client it verifies the Bearer ID token; without one
// (development) it trusts the X-User-Id header. Either way the user row is
// upserted and its database ID stored in the context. No identity → 401.
func RequireUser(authClient *auth.Client, userRepo *users.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := resolveIdentity(c, authClient)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "UNAUTHORIZED"})
			return
		}

		uid, err := userRepo.EnsureUser(c.Request.Context(), identity)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "ensure user: " + err.Error()})
			return
		}

		c.Set(CtxFirebaseUID, identity.FirebaseUID)
		c.Set(CtxUserDBID, uid)
		c.Next()
	}
}

func resolveIdentity(c *gin.Context, authClient *auth.Client) (users.UpsertUser, bool) {
	if authClient == nil {
		// Dev mode: trust headers. Never configure this in production.
		fuid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if fuid == "" {
			return users.UpsertUser{}, false
		}
		return users.UpsertUser{
			FirebaseUID: fuid,
			Email:       c.GetHeader("X-User-Email"),
			DisplayName: c.GetHeader("X-User-Name"),
			PhotoURL:    c.GetHeader("X-User-Photo"),
		}, true
	}

	token := extractToken(c)
	if token == "" {
		return users.UpsertUser{}, false
	}

	decoded, err := authClient.VerifyIDToken(c.Request.Context(), token)
	if err != nil {
		return users.UpsertUser{}, false
	}

	identity := users.UpsertUser{FirebaseUID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		identity.DisplayName = name
	}
	if picture, ok := decoded.Claims["picture"].(string); ok {
		identity.PhotoURL = picture
	}
	return identity, true
}

// extractToken extracts the Bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
