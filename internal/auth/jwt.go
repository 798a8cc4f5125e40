// Package auth implements session-token issuance and validation for
// the admin surface. Sessions normally originate from Okta SSO; a
// break-glass local login exists for the seeded admin.
package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"talentgate-backend/internal/model"
)

// SECRET_KEY signs session tokens.
var SECRET_KEY = os.Getenv("SECRET_KEY")

// JwtIssuer identifies tokens minted by this service.
const JwtIssuer = "talentgate"

// AccessClaims are the session claims the admin surface consumes:
// the database user id in Subject plus the two access-tier flags.
type AccessClaims struct {
	jwt.RegisteredClaims
	IsAdmin   bool `json:"isAdmin"`
	HasAccess bool `json:"hasAccess"`
}

// GenerateToken mints a signed access token for the given user.
func GenerateToken(user model.User) (string, error) {
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    JwtIssuer,
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(8 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		IsAdmin:   user.IsAdmin,
		HasAccess: user.HasAccess,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(SECRET_KEY))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %s", err)
	}
	return signed, nil
}

// ValidatedToken parses and verifies an encoded access token.
func ValidatedToken(encodeToken string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(encodeToken, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, isvalid := token.Method.(*jwt.SigningMethodHMAC); !isvalid {
			return nil, fmt.Errorf("Invalid token")
		}
		return []byte(SECRET_KEY), nil
	})
}
