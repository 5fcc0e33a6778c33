package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Registration conflicts, distinguished by unique constraint
	ErrEmailInUse = errors.New("email already in use")
	ErrBIInUse    = errors.New("BI already in use")

	// Credential lifecycle errors
	ErrInvalidOrExpiredCode = errors.New("invalid or expired reset code")

	// Google sign-in errors
	ErrIdentityTokenInvalid          = errors.New("invalid identity token")
	ErrIdentityProviderNotConfigured = errors.New("identity provider not configured")
	ErrEmailConflict                 = errors.New("email already linked to a different identity")
)
