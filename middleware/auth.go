package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justyn/meow/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextTokenKey stores the raw bearer token for revocation on logout.
	ContextTokenKey = "token"

	bearerPrefix = "Bearer "
)

// AuthRequired rejects requests without a valid bearer token and stashes
// the authenticated identity in the Gin context.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, code, msg := bearerToken(ctx)
		if token == "" {
			abortUnauthorized(ctx, code, msg)
			return
		}

		if utils.IsTokenBlacklisted(token) {
			abortUnauthorized(ctx, 40104, "token revoked")
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			abortUnauthorized(ctx, 40105, "invalid token")
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextTokenKey, token)
		ctx.Next()
	}
}

// bearerToken extracts the token from the Authorization header, returning
// an error code and message when the header is absent or malformed.
func bearerToken(ctx *gin.Context) (token string, code int, msg string) {
	header := ctx.GetHeader("Authorization")
	switch {
	case header == "":
		return "", 40101, "authorization header missing"
	case len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix):
		return "", 40102, "invalid authorization header format"
	}
	token = strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", 40103, "empty bearer token"
	}
	return token, 0, ""
}

func abortUnauthorized(ctx *gin.Context, code int, msg string) {
	utils.Error(ctx, http.StatusUnauthorized, code, msg)
	ctx.Abort()
}
