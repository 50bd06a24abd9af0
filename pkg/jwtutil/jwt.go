package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Psychotichub/panel/pkg/config"
)

var (
	secret     = []byte("panel-secret-key")
	expiration = time.Hour * 24
)

// Initialize configures the signing key and token lifetime from config
func Initialize(cfg *config.JWTConfig) {
	if cfg.SigningKey != "" {
		secret = []byte(cfg.SigningKey)
	}
	if cfg.ExpirationHours > 0 {
		expiration = time.Duration(cfg.ExpirationHours) * time.Hour
	}
}

// UserClaims represents the JWT claims for an authenticated caller.
// Site and Company identify the caller's tenant and are empty for
// manager/admin accounts, which are not tenant-scoped.
type UserClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Site     string `json:"site,omitempty"`
	Company  string `json:"company,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a JWT token with user and tenant information
func GenerateToken(username, role, site, company string) (string, error) {
	claims := UserClaims{
		Username: username,
		Role:     role,
		Site:     site,
		Company:  company,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
