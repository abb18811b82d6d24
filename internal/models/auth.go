package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a faculty member.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued token and session info.
type LoginResponse struct {
	AccessToken string      `json:"accessToken"`
	ExpiresIn   int64       `json:"expiresIn"`
	User        SessionUser `json:"user"`
	IssuedAt    time.Time   `json:"issuedAt"`
}

// SessionUser describes the authenticated faculty member.
type SessionUser struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  FacultyRole `json:"role"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	FacultyID string      `json:"faculty_id"`
	Role      FacultyRole `json:"role"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	jwt.RegisteredClaims
}
