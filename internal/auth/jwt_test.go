// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/automarket/internal/config"
	"github.com/carterperez-dev/automarket/internal/core"
)

const (
	testIssuer   = "automarket-auth"
	testAudience = "automarket-web"
)

type keyPair struct {
	private jwk.Key
	public  jwk.Key
}

func newKeyPair(t *testing.T) keyPair {
	t.Helper()

	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	private, err := jwk.Import(raw)
	if err != nil {
		t.Fatalf("import key: %v", err)
	}

	public, err := jwk.PublicKeyOf(private)
	if err != nil {
		t.Fatalf("public key: %v", err)
	}

	return keyPair{private: private, public: public}
}

func (kp keyPair) sign(t *testing.T, build func(*jwt.Builder) *jwt.Builder) string {
	t.Helper()

	now := time.Now()
	b := jwt.NewBuilder().
		Issuer(testIssuer).
		Audience([]string{testAudience}).
		Subject("user-1").
		IssuedAt(now).
		Expiration(now.Add(15 * time.Minute)).
		Claim("type", "access")

	token, err := build(b).Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), kp.private))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(signed)
}

func keep(b *jwt.Builder) *jwt.Builder { return b }

func newTestVerifier(t *testing.T, kp keyPair) *Verifier {
	t.Helper()

	v, err := NewVerifierFromKey(kp.public, testIssuer, testAudience)
	if err != nil {
		t.Fatalf("NewVerifierFromKey: %v", err)
	}
	return v
}

func TestVerifyAccessToken_Valid(t *testing.T) {
	kp := newKeyPair(t)
	v := newTestVerifier(t, kp)

	tests := []struct {
		name         string
		build        func(*jwt.Builder) *jwt.Builder
		wantVerified bool
	}{
		{"no verified claim", keep, false},
		{"verified", func(b *jwt.Builder) *jwt.Builder { return b.Claim("verified", true) }, true},
		{"explicitly unverified", func(b *jwt.Builder) *jwt.Builder { return b.Claim("verified", false) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := v.VerifyAccessToken(context.Background(), kp.sign(t, tt.build))
			if err != nil {
				t.Fatalf("VerifyAccessToken: %v", err)
			}
			if user.ID != "user-1" {
				t.Errorf("ID = %q, want user-1", user.ID)
			}
			if user.Verified != tt.wantVerified {
				t.Errorf("Verified = %v, want %v", user.Verified, tt.wantVerified)
			}
		})
	}
}

func TestVerifyAccessToken_Rejects(t *testing.T) {
	kp := newKeyPair(t)
	v := newTestVerifier(t, kp)
	other := newKeyPair(t)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"garbage", "not-a-token", core.ErrTokenInvalid},
		{"refresh token", kp.sign(t, func(b *jwt.Builder) *jwt.Builder { return b.Claim("type", "refresh") }), core.ErrTokenInvalid},
		{"wrong audience", kp.sign(t, func(b *jwt.Builder) *jwt.Builder { return b.Audience([]string{"someone-else"}) }), core.ErrTokenInvalid},
		{"wrong key", other.sign(t, keep), core.ErrTokenInvalid},
		{"missing subject", kp.sign(t, func(b *jwt.Builder) *jwt.Builder { return b.Subject("") }), core.ErrTokenInvalid},
		{"expired", kp.sign(t, func(b *jwt.Builder) *jwt.Builder {
			return b.IssuedAt(time.Now().Add(-2 * time.Hour)).Expiration(time.Now().Add(-time.Hour))
		}), core.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := v.VerifyAccessToken(context.Background(), tt.token)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if user != nil {
				t.Errorf("user = %+v, want nil", user)
			}
		})
	}
}

func TestNewVerifier_FromPEM(t *testing.T) {
	kp := newKeyPair(t)

	pem, err := jwk.Pem(kp.public)
	if err != nil {
		t.Fatalf("encode public key: %v", err)
	}

	path := filepath.Join(t.TempDir(), "public.pem")
	if err := os.WriteFile(path, pem, 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	v, err := NewVerifier(config.JWTConfig{
		PublicKeyPath: path,
		Issuer:        testIssuer,
		Audience:      testAudience,
	})
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}

	if _, err := v.VerifyAccessToken(context.Background(), kp.sign(t, keep)); err != nil {
		t.Errorf("VerifyAccessToken: %v", err)
	}

	if _, err := NewVerifier(config.JWTConfig{PublicKeyPath: filepath.Join(t.TempDir(), "missing.pem")}); err == nil {
		t.Error("NewVerifier with missing key file: want error")
	}
}
