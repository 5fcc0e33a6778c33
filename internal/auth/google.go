package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/twendycreate/twendy-api/internal/models"
	"google.golang.org/api/idtoken"
)

// IdentityVerifier verifies third-party identity tokens against a configured
// audience and extracts the verified claims.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawToken string) (*models.IdentityClaims, error)
}

// GoogleVerifier validates Google-issued ID tokens. It is constructed once
// at startup and injected; a nil verifier means the feature is disabled.
type GoogleVerifier struct {
	validator *idtoken.Validator
	audience  string
}

// NewGoogleVerifier builds a verifier for tokens issued to clientID.
// Returns an error when clientID is empty so the caller can treat the
// missing configuration as a startup outcome rather than a per-request one.
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, models.ErrIdentityProviderNotConfigured
	}

	validator, err := idtoken.NewValidator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity token validator: %w", err)
	}

	return &GoogleVerifier{
		validator: validator,
		audience:  clientID,
	}, nil
}

// Verify checks the token signature, expiry and audience, returning the
// verified identity claims. Failures are classified for logging only; every
// kind maps to ErrIdentityTokenInvalid for the caller.
func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*models.IdentityClaims, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	payload, err := v.validator.Validate(ctx, rawToken, v.audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrIdentityTokenInvalid, classifyIdentityError(err))
	}

	claims := &models.IdentityClaims{
		Subject: payload.Subject,
	}
	if email, ok := payload.Claims["email"].(string); ok {
		claims.Email = strings.ToLower(email)
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		claims.EmailVerified = verified
	}
	if name, ok := payload.Claims["name"].(string); ok {
		claims.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		claims.Picture = picture
	}

	return claims, nil
}

// classifyIdentityError buckets verification failures for diagnostics.
func classifyIdentityError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "expired"):
		return "expired"
	case strings.Contains(msg, "audience"):
		return "audience mismatch"
	case strings.Contains(msg, "signature"):
		return "signature invalid"
	case strings.Contains(msg, "malformed") || strings.Contains(msg, "invalid token"):
		return "malformed"
	default:
		return "verification failed"
	}
}
