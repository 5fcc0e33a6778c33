package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims are the identity claims carried by a session token.
// Verification is a pure function of the token and the signing secret;
// the server keeps no session state.
type SessionClaims struct {
	UserID   string `json:"uid"`
	Email    string `json:"email"`
	Nome     string `json:"nome"`
	BI       string `json:"bi"`
	Role     string `json:"role"`
	GoogleID string `json:"google_id,omitempty"`
	jwt.RegisteredClaims
}

// IdentityClaims are the verified claims extracted from a third-party
// (Google) identity token.
type IdentityClaims struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}
