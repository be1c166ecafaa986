package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer     = "kritika"
	accessLifetime  = time.Hour
	refreshLifetime = 7 * 24 * time.Hour
)

// TokenPair is the response body of the token endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type tokenClaims struct {
	// "access" or "refresh"; only access tokens authenticate requests
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService mints and validates the symmetric-signed JWT pair issued
// when a confirmation code is exchanged.
type TokenService struct {
	secret []byte
}

func NewTokenService() *TokenService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
		log.Println("JWT_SECRET not set, using insecure default")
	}
	return &TokenService{secret: []byte(secret)}
}

// NewTokenServiceWithSecret is used by tests.
func NewTokenServiceWithSecret(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// GeneratePair mints an access/refresh token pair for the user.
func (s *TokenService) GeneratePair(userID uint) (*TokenPair, error) {
	access, err := s.sign(userID, "access", accessLifetime)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(userID, "refresh", refreshLifetime)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) sign(userID uint, tokenType string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", tokenType, err)
	}
	return signed, nil
}

// ValidateAccess verifies an access token and returns the user ID it
// was issued for. Refresh tokens are rejected here so they cannot be
// used to authenticate API requests directly.
func (s *TokenService) ValidateAccess(tokenStr string) (uint, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&tokenClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token claims")
	}
	if claims.TokenType != "access" {
		return 0, errors.New("not an access token")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid token subject")
	}
	return uint(id), nil
}
