package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRSAKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return key, string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_2abc",
			Issuer:    "https://clerk.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		SessionID:       "sess_1",
		AuthorizedParty: "https://app.example.com",
	}
}

func TestNewClerkVerifierRequiresKey(t *testing.T) {
	_, err := NewClerkVerifier(context.Background(), ClerkConfig{})
	assert.ErrorIs(t, err, ErrNoKey)

	_, err = NewClerkVerifier(context.Background(), ClerkConfig{PublicKeyPEM: "not a pem"})
	assert.Error(t, err)
}

func TestClerkVerifierRS256(t *testing.T) {
	priv, pub := newRSAKey(t)
	v, err := NewClerkVerifier(context.Background(), ClerkConfig{
		PublicKeyPEM:      pub,
		Issuer:            "https://clerk.example.com",
		AuthorizedParties: []string{"https://app.example.com"},
	})
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), sign(t, jwt.SigningMethodRS256, priv, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", id.UserID)
	assert.Equal(t, "sess_1", id.SessionID)
}

func TestClerkVerifierRejects(t *testing.T) {
	priv, pub := newRSAKey(t)
	other, _ := newRSAKey(t)
	v, err := NewClerkVerifier(context.Background(), ClerkConfig{
		PublicKeyPEM:      pub,
		Issuer:            "https://clerk.example.com",
		AuthorizedParties: []string{"https://app.example.com"},
	})
	require.NoError(t, err)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	noExp := validClaims()
	noExp.ExpiresAt = nil

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "https://evil.example.com"

	wrongParty := validClaims()
	wrongParty.AuthorizedParty = "https://evil.example.com"

	noSubject := validClaims()
	noSubject.Subject = ""

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "garbage", token: "not.a.jwt"},
		{name: "expired", token: sign(t, jwt.SigningMethodRS256, priv, expired), wantErr: jwt.ErrTokenExpired},
		{name: "missing exp", token: sign(t, jwt.SigningMethodRS256, priv, noExp), wantErr: jwt.ErrTokenRequiredClaimMissing},
		{name: "wrong issuer", token: sign(t, jwt.SigningMethodRS256, priv, wrongIssuer), wantErr: jwt.ErrTokenInvalidIssuer},
		{name: "wrong signer", token: sign(t, jwt.SigningMethodRS256, other, validClaims()), wantErr: jwt.ErrTokenSignatureInvalid},
		{name: "hmac token", token: sign(t, jwt.SigningMethodHS256, []byte("secret"), validClaims()), wantErr: jwt.ErrTokenSignatureInvalid},
		{name: "unauthorized party", token: sign(t, jwt.SigningMethodRS256, priv, wrongParty), wantErr: ErrUnauthorizedParty},
		{name: "no subject", token: sign(t, jwt.SigningMethodRS256, priv, noSubject), wantErr: ErrMissingSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := v.Verify(context.Background(), tt.token)
			require.Error(t, err)
			assert.Nil(t, id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestClerkVerifierHMAC(t *testing.T) {
	v, err := NewClerkVerifier(context.Background(), ClerkConfig{Secret: "dev-secret"})
	require.NoError(t, err)

	claims := validClaims()
	claims.AuthorizedParty = "https://anything.example.com"

	id, err := v.Verify(context.Background(), sign(t, jwt.SigningMethodHS256, []byte("dev-secret"), claims))
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", id.UserID)

	_, err = v.Verify(context.Background(), sign(t, jwt.SigningMethodHS256, []byte("wrong"), claims))
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestClerkVerifierEscapedNewlinesInPEM(t *testing.T) {
	priv, pub := newRSAKey(t)
	escaped := ""
	for _, r := range pub {
		if r == '\n' {
			escaped += `\n`
			continue
		}
		escaped += string(r)
	}

	v, err := NewClerkVerifier(context.Background(), ClerkConfig{PublicKeyPEM: escaped})
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), sign(t, jwt.SigningMethodRS256, priv, validClaims()))
	assert.NoError(t, err)
}

func jwksServer(t *testing.T, kid string, pub *rsa.PublicKey) *httptest.Server {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": kid,
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		}},
	})
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func signWithKID(t *testing.T, key *rsa.PrivateKey, kid string, claims Claims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	s, err := tok.SignedString(key)
	require.NoError(t, err)
	return s
}

func TestClerkVerifierJWKS(t *testing.T) {
	priv, _ := newRSAKey(t)
	other, _ := newRSAKey(t)
	srv := jwksServer(t, "k1", &priv.PublicKey)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	v, err := NewClerkVerifier(ctx, ClerkConfig{
		JWKSURL:      srv.URL,
		PublicKeyPEM: "ignored when a JWKS URL is set",
		Issuer:       "https://clerk.example.com",
	})
	require.NoError(t, err)

	id, err := v.Verify(context.Background(), signWithKID(t, priv, "k1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, &Identity{UserID: "user_2abc", SessionID: "sess_1"}, id)

	_, err = v.Verify(context.Background(), signWithKID(t, other, "k1", validClaims()))
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = v.Verify(context.Background(), sign(t, jwt.SigningMethodHS256, []byte("secret"), validClaims()))
	assert.Error(t, err)
}
