package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wearedood/base-gaming-sdk-unity/common/utils"
	"github.com/wearedood/base-gaming-sdk-unity/models"
)

const (
	PlayerIDKey = "playerID"
	ServerKey   = "server"
)

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.Failed(models.StatusUnauthorized, message))
}

// bearerToken reads the Authorization header, falling back to the token
// query parameter for websocket upgrades.
func bearerToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("token"); token != "" {
			return token, ""
		}
		return "", "authorization header is required"
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return "", "invalid authorization header format"
	}
	return tokenParts[1], ""
}

// AuthMiddleware accepts player and server JWTs.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, problem := bearerToken(c)
		if problem != "" {
			unauthorized(c, problem)
			return
		}

		claims, err := utils.ValidateJwTTokenWithClaims(token)
		if err != nil {
			unauthorized(c, err.Error())
			return
		}
		if claims.PlayerID == "" && !claims.Server {
			unauthorized(c, "token carries no identity")
			return
		}

		c.Set(PlayerIDKey, claims.PlayerID)
		c.Set(ServerKey, claims.Server)
		c.Next()
	}
}

// ServerToServerAuthMiddleware accepts the shared server token or a JWT
// issued to a game server.
func ServerToServerAuthMiddleware(serverToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, problem := bearerToken(c)
		if problem != "" {
			unauthorized(c, problem)
			return
		}

		if serverToken != "" && subtle.ConstantTimeCompare([]byte(token), []byte(serverToken)) == 1 {
			c.Set(ServerKey, true)
			c.Next()
			return
		}

		claims, err := utils.ValidateJwTTokenWithClaims(token)
		if err != nil || !claims.Server {
			unauthorized(c, "invalid token")
			return
		}

		c.Set(ServerKey, true)
		c.Next()
	}
}
