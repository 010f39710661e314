package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service issues and verifies the org-scoped API tokens the engine's
// routes are protected with. User management and login live in the main
// HRIS application; this service only needs the shared signing secret.
type Service interface {
	GenerateAPIToken(userID string, orgID string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey           string
	tokenExpirationTime string
	tokenAuth           *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, tokenExpirationTime string) Service {
	return &JWTService{
		secretKey:           secretKey,
		tokenExpirationTime: tokenExpirationTime,
		tokenAuth:           jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAPIToken(userID string, orgID string) (string, int64, error) {
	expDuration, err := time.ParseDuration(j.tokenExpirationTime)
	if err != nil {
		return "", 0, fmt.Errorf("invalid token expiration: %w", err)
	}
	expiresAt := time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id": userID,
		"org_id":  orgID,
		"type":    "access",
		"exp":     expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}
