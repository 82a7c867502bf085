package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxUserDBID    = "user_db_id"
)

// UserDBID extracts the authenticated user's database ID from the Gin
// context. Set by RequireUser; empty only on unauthenticated routes.
func UserDBID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserDBID))
}

// UserFirebaseUID extracts the Firebase UID from the Gin context.
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}
