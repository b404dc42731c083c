package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are the token claims the portal cares about. The subject carries the
// user id, company_id the company the user belongs to.
type Claims struct {
	jwt.RegisteredClaims
	CompanyID uuid.UUID `json:"company_id"`
}

// TokenParser verifies bearer tokens and extracts the caller identity.
type TokenParser struct {
	secret []byte
}

// NewTokenParser creates a TokenParser verifying tokens with the given
// HMAC signing secret.
func NewTokenParser(secret string) *TokenParser {
	return &TokenParser{secret: []byte(secret)}
}

// ParseHeader verifies the Authorization header and returns the identity
// encoded in the token claims.
func (tp *TokenParser) ParseHeader(authHeader string) (Identity, error) {
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return Identity{}, fmt.Errorf("authorization header is not a bearer token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tp.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return Identity{}, fmt.Errorf("token is not valid")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("token subject is not a valid user id: %w", err)
	}
	if claims.CompanyID == uuid.Nil {
		return Identity{}, fmt.Errorf("token carries no company id")
	}

	return Identity{UserID: userID, CompanyID: claims.CompanyID}, nil
}
