package service

import (
	"errors"
	"strings"
	"time"

	"github.com/chroniclecms/chronicle/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthService validates credentials for the admin API. Two forms
// are accepted: a bearer JWT carrying the admin scope, or a static API
// key checked against the configured bcrypt hashes.
type AdminAuthService struct {
	secretKey  string
	adminScope string
	keyHashes  []string
}

func NewAdminAuthService(cfg config.AuthConfig) *AdminAuthService {
	return &AdminAuthService{
		secretKey:  cfg.JWTSecret,
		adminScope: cfg.AdminScope,
		keyHashes:  cfg.AdminKeyHashes,
	}
}

// GenerateAdminToken creates a JWT carrying the admin scope. Used by
// operator tooling to mint short-lived credentials.
func (s *AdminAuthService) GenerateAdminToken(subject string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   subject,
		"scope": s.adminScope,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates the JWT token and returns the claims
func (s *AdminAuthService) ValidateToken(tokenString string) (*jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return &claims, nil
	}

	return nil, errors.New("invalid token")
}

// HasAdminScope reports whether the claims grant admin access. The
// scope claim may be a space-separated string or a list.
func (s *AdminAuthService) HasAdminScope(claims *jwt.MapClaims) bool {
	if claims == nil {
		return false
	}

	switch scopes := (*claims)["scope"].(type) {
	case string:
		for _, scope := range strings.Fields(scopes) {
			if scope == s.adminScope {
				return true
			}
		}
	case []interface{}:
		for _, raw := range scopes {
			if scope, ok := raw.(string); ok && scope == s.adminScope {
				return true
			}
		}
	}

	return false
}

// VerifyAPIKey checks a raw API key against the configured hashes.
func (s *AdminAuthService) VerifyAPIKey(key string) bool {
	if key == "" {
		return false
	}
	for _, hash := range s.keyHashes {
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil {
			return true
		}
	}
	return false
}
