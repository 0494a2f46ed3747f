package websocket

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when JWT validation fails
var ErrInvalidToken = errors.New("invalid token")

// ErrProfileNotFound is returned when profile lookup fails
var ErrProfileNotFound = errors.New("profile not found")

// ProfileLookup provides profile lookup by auth subject
type ProfileLookup interface {
	GetProfileIDByAuthID(authID string) (profileID uuid.UUID, err error)
}

// CustomClaims contains the custom claims from the auth provider's JWT
type CustomClaims struct{}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// JWTValidator validates JWT tokens for WebSocket connections
type JWTValidator struct {
	validator     *validator.Validator
	profileLookup ProfileLookup
}

// NewJWTValidator creates a new JWTValidator
func NewJWTValidator(domain, audience string, profileLookup ProfileLookup) (*JWTValidator, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &JWTValidator{
		validator:     jwtValidator,
		profileLookup: profileLookup,
	}, nil
}

// ValidateToken validates a JWT token and returns the associated profile ID
func (v *JWTValidator) ValidateToken(token string) (profileID uuid.UUID, err error) {
	ctx := context.Background()

	claims, err := v.validator.ValidateToken(ctx, token)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	authID := validatedClaims.RegisteredClaims.Subject

	id, err := v.profileLookup.GetProfileIDByAuthID(authID)
	if err != nil {
		return uuid.Nil, ErrProfileNotFound
	}

	return id, nil
}
