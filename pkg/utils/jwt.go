package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken mints an identity token the middleware accepts. The real
// deployment receives tokens from the authentication service; this helper
// backs the dev issuer and the tests.
func GenerateToken(id uint, role, name, email string) (string, error) {
	claims := jwt.MapClaims{
		"id":    id,
		"role":  role,
		"name":  name,
		"email": email,
		"exp":   time.Now().Add(time.Hour * 24 * 7).Unix(), // 7 days
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
}
