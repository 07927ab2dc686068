package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the payload of access tokens minted by the external auth API.
type JWTClaims struct {
	UserID   string `json:"user_id,omitempty"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	jwt.RegisteredClaims
}
