package utils

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var jwtSecret []byte

// ErrNoJWTSecret is returned while no signing secret is set. An empty HMAC
// key would let anyone mint valid tokens.
var ErrNoJWTSecret = errors.New("jwt secret is not configured")

// Claims identifies a game server or a player session.
type Claims struct {
	PlayerID string `json:"playerId"`
	Server   bool   `json:"server,omitempty"`
	jwt.StandardClaims
}

func (c Claims) Valid() error {
	return c.StandardClaims.Valid()
}

func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// GenerateJWTTokenWithClaims signs claims with the secret set by
// SetJWTSecret. Tokens expire after ttl.
func GenerateJWTTokenWithClaims(claims Claims, ttl time.Duration) (string, error) {
	if len(jwtSecret) == 0 {
		return "", ErrNoJWTSecret
	}

	now := time.Now()
	claims.StandardClaims = jwt.StandardClaims{
		ExpiresAt: now.Add(ttl).Unix(),
		IssuedAt:  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateJwTTokenWithClaims(tokenString string) (*Claims, error) {
	if len(jwtSecret) == 0 {
		return nil, ErrNoJWTSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
