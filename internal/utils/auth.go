package utils

import (
	"errors"
	"time"

	"github.com/boxaid/boxaid/internal/auth"
	"github.com/boxaid/boxaid/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken issues an access token carrying the namespaced identity
// claims the middleware later turns into an auth.Identity.
func GenerateToken(user *models.User, baseIDs []uint, permissions []string, secret string) (string, error) {
	ids := make([]interface{}, len(baseIDs))
	for i, id := range baseIDs {
		ids[i] = float64(id)
	}

	claims := jwt.MapClaims{
		auth.ClaimEmail:          user.Email,
		auth.ClaimOrganisationID: float64(user.OrganisationID),
		auth.ClaimBaseIDs:        ids,
		auth.ClaimPermissions:    permissions,
		"sub":                    user.Email,
		"exp":                    time.Now().Add(time.Hour * 8).Unix(),
		"iat":                    time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and validates a token
func ValidateToken(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
