// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/automarket/internal/config"
	"github.com/carterperez-dev/automarket/internal/core"
	"github.com/carterperez-dev/automarket/internal/session"
)

// Verifier checks access tokens minted by the auth service. This service
// never issues tokens; it only needs the public key.
type Verifier struct {
	publicKey jwk.Key
	issuer    string
	audience  string
}

func NewVerifier(cfg config.JWTConfig) (*Verifier, error) {
	publicKeyPEM, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}

	publicKey, err := jwk.ParseKey(publicKeyPEM, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	return NewVerifierFromKey(publicKey, cfg.Issuer, cfg.Audience)
}

func NewVerifierFromKey(key jwk.Key, issuer, audience string) (*Verifier, error) {
	if setErr := key.Set(jwk.AlgorithmKey, jwa.ES256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	return &Verifier{
		publicKey: key,
		issuer:    issuer,
		audience:  audience,
	}, nil
}

func (v *Verifier) VerifyAccessToken(
	_ context.Context,
	tokenString string,
) (*session.User, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.ES256(), v.publicKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != "access" {
		return nil, fmt.Errorf(
			"verify token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	// Tokens minted before verification existed carry no claim; treat
	// them as unverified.
	var verified bool
	if err := token.Get("verified", &verified); err != nil {
		verified = false
	}

	return &session.User{
		ID:       subject,
		Verified: verified,
	}, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}
