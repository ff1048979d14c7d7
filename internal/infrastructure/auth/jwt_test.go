package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var verifierNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestVerifier() *TokenVerifier {
	v := NewTokenVerifier(config.JWTConfig{
		Secret:   "test-secret-key-at-least-32-chars!!",
		Issuer:   "billmaster-idp",
		Audience: "billmaster-api",
	})
	v.now = func() time.Time { return verifierNow }
	return v
}

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "billmaster-idp",
			Audience:  jwt.ClaimStrings{"billmaster-api"},
			Subject:   "u-1",
			IssuedAt:  jwt.NewNumericDate(verifierNow.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(verifierNow.Add(time.Hour)),
		},
		Email: "owner@shop.in",
		Name:  "Ravi",
		Role:  "Admin",
	}
}

func TestTokenVerifier_Verify(t *testing.T) {
	v := newTestVerifier()
	secret := []byte("test-secret-key-at-least-32-chars!!")

	t.Run("valid token yields actor", func(t *testing.T) {
		actor, claims, err := v.Verify(sign(t, jwt.SigningMethodHS256, secret, validClaims()))
		require.NoError(t, err)
		assert.Equal(t, identity.Actor{Email: "owner@shop.in", Name: "Ravi", Role: identity.RoleAdmin}, actor)
		assert.Equal(t, "u-1", claims.Subject)
	})

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr error
	}{
		{"empty", func(*testing.T) string { return "" }, ErrMissingToken},
		{"garbage", func(*testing.T) string { return "not.a.jwt" }, ErrInvalidToken},
		{"wrong secret", func(t *testing.T) string {
			return sign(t, jwt.SigningMethodHS256, []byte("another-secret"), validClaims())
		}, ErrInvalidToken},
		{"wrong algorithm", func(t *testing.T) string {
			return sign(t, jwt.SigningMethodHS512, secret, validClaims())
		}, ErrInvalidToken},
		{"expired", func(t *testing.T) string {
			c := validClaims()
			c.ExpiresAt = jwt.NewNumericDate(verifierNow.Add(-time.Second))
			return sign(t, jwt.SigningMethodHS256, secret, c)
		}, ErrExpiredToken},
		{"not yet valid", func(t *testing.T) string {
			c := validClaims()
			c.NotBefore = jwt.NewNumericDate(verifierNow.Add(time.Hour))
			return sign(t, jwt.SigningMethodHS256, secret, c)
		}, ErrTokenNotYetValid},
		{"no expiry", func(t *testing.T) string {
			c := validClaims()
			c.ExpiresAt = nil
			return sign(t, jwt.SigningMethodHS256, secret, c)
		}, ErrInvalidToken},
		{"wrong issuer", func(t *testing.T) string {
			c := validClaims()
			c.Issuer = "someone-else"
			return sign(t, jwt.SigningMethodHS256, secret, c)
		}, ErrInvalidToken},
		{"wrong audience", func(t *testing.T) string {
			c := validClaims()
			c.Audience = jwt.ClaimStrings{"reporting"}
			return sign(t, jwt.SigningMethodHS256, secret, c)
		}, ErrInvalidToken},
		{"unknown role", func(t *testing.T) string {
			c := validClaims()
			c.Role = "auditor"
			return sign(t, jwt.SigningMethodHS256, secret, c)
		}, ErrInvalidClaims},
		{"missing email", func(t *testing.T) string {
			c := validClaims()
			c.Email = " "
			return sign(t, jwt.SigningMethodHS256, secret, c)
		}, ErrInvalidClaims},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := v.Verify(tt.token(t))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestTokenVerifier_Leeway(t *testing.T) {
	v := NewTokenVerifier(config.JWTConfig{Secret: "s", Leeway: 30 * time.Second})
	v.now = func() time.Time { return verifierNow }

	c := validClaims()
	c.ExpiresAt = jwt.NewNumericDate(verifierNow.Add(-10 * time.Second))
	_, _, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte("s"), c))
	assert.NoError(t, err)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def", "abc.def"},
		{"bearer  abc.def ", "abc.def"},
		{"Basic dXNlcg==", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, BearerToken(tt.header))
		})
	}
}
