package types

import "github.com/golang-jwt/jwt/v5"

// TokenClaims represents the claims in a bearer token issued to API clients
type TokenClaims struct {
	jwt.RegisteredClaims
	ClientName string `json:"client_name,omitempty"`
}
