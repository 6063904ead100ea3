// Copyright ConnectHealth and each contributor.
// SPDX-License-Identifier: MIT

// Package auth validates JWT bearer tokens issued by the Heimdall gateway.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/InvestigateHealth/ConnectHealth-v2-sub004/internal/logging"
)

// Default JWKS configuration for the Heimdall sidecar.
const (
	defaultJWKSURL  = "http://heimdall:4457/.well-known/jwks"
	defaultAudience = "links-api"

	jwksCacheTTL = 5 * time.Minute
)

// HeimdallClaims are the custom claims the Heimdall gateway puts in tokens.
type HeimdallClaims struct {
	Principal string `json:"principal"`
	Email     string `json:"email,omitempty"`
}

// Validate checks that the claims carry a principal.
func (c *HeimdallClaims) Validate(_ context.Context) error {
	if c.Principal == "" {
		return errors.New("principal must be provided")
	}
	return nil
}

// JWTAuthConfig is the configuration for JWT validation.
type JWTAuthConfig struct {
	// JWKSURL is the URL of the JWKS endpoint tokens are validated against.
	JWKSURL string

	// Audience is the expected token audience.
	Audience string

	// MockLocalPrincipal bypasses validation and returns this principal.
	// Only meant for local development.
	MockLocalPrincipal string
}

// JWTAuth validates bearer tokens and extracts the caller's principal.
type JWTAuth struct {
	config    JWTAuthConfig
	validator *validator.Validator
}

// NewJWTAuth creates a new JWTAuth from the given configuration.
func NewJWTAuth(config JWTAuthConfig) (*JWTAuth, error) {
	if config.JWKSURL == "" {
		config.JWKSURL = defaultJWKSURL
	}
	if config.Audience == "" {
		config.Audience = defaultAudience
	}

	issuerURL, err := url.Parse(config.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("parsing JWKS URL: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, jwksCacheTTL)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.PS256,
		issuerURL.String(),
		[]string{config.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &HeimdallClaims{}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating JWT validator: %w", err)
	}

	return &JWTAuth{
		config:    config,
		validator: jwtValidator,
	}, nil
}

// ParsePrincipal validates the bearer token and returns the principal claim.
func (a *JWTAuth) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {
	if a.config.MockLocalPrincipal != "" {
		logger.WarnContext(ctx, "returning mock principal instead of validating token",
			"principal", a.config.MockLocalPrincipal)
		return a.config.MockLocalPrincipal, nil
	}

	if a.validator == nil {
		return "", errors.New("JWT validator is not set up")
	}

	token = strings.TrimPrefix(token, "Bearer ")

	parsedJWT, err := a.validator.ValidateToken(ctx, token)
	if err != nil {
		logger.ErrorContext(ctx, "error validating token", logging.ErrKey, err)
		return "", err
	}

	validatedClaims, ok := parsedJWT.(*validator.ValidatedClaims)
	if !ok {
		return "", errors.New("token claims have an unexpected type")
	}

	claims, ok := validatedClaims.CustomClaims.(*HeimdallClaims)
	if !ok {
		return "", errors.New("token custom claims have an unexpected type")
	}

	return claims.Principal, nil
}
