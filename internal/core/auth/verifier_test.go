package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"chefmate-api/internal/pkg/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProject = "chefmate-test"

func generateKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims() Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    IssuerFor(testProject),
			Audience:  jwt.ClaimStrings{testProject},
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email: "cook@example.com",
	}
}

func TestVerifier_ValidToken(t *testing.T) {
	key := generateKey(t)
	v := NewVerifier(StaticKeySource{"k1": &key.PublicKey}, testProject, 0)

	user, err := v.Verify(context.Background(), signToken(t, key, "k1", validClaims()))

	require.NoError(t, err)
	assert.Equal(t, "user-1", user.UID)
	assert.Equal(t, "cook@example.com", user.Email)
}

func TestVerifier_Rejections(t *testing.T) {
	key := generateKey(t)
	other := generateKey(t)
	v := NewVerifier(StaticKeySource{"k1": &key.PublicKey}, testProject, 0)

	tests := []struct {
		name  string
		token func() string
	}{
		{"garbage", func() string { return "not-a-token" }},
		{"missing kid", func() string { return signToken(t, key, "", validClaims()) }},
		{"unknown kid", func() string { return signToken(t, key, "k2", validClaims()) }},
		{"wrong key", func() string { return signToken(t, other, "k1", validClaims()) }},
		{"wrong audience", func() string {
			c := validClaims()
			c.Audience = jwt.ClaimStrings{"another-project"}
			return signToken(t, key, "k1", c)
		}},
		{"wrong issuer", func() string {
			c := validClaims()
			c.Issuer = "https://example.com"
			return signToken(t, key, "k1", c)
		}},
		{"expired", func() string {
			c := validClaims()
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
			return signToken(t, key, "k1", c)
		}},
		{"no expiry", func() string {
			c := validClaims()
			c.ExpiresAt = nil
			return signToken(t, key, "k1", c)
		}},
		{"empty subject", func() string {
			c := validClaims()
			c.Subject = ""
			return signToken(t, key, "k1", c)
		}},
		{"hmac", func() string {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
			token.Header["kid"] = "k1"
			s, err := token.SignedString([]byte("secret"))
			require.NoError(t, err)
			return s
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := v.Verify(context.Background(), tt.token())

			assert.Nil(t, user)
			assert.True(t, errors.Is(err, common.ErrUnauthorized), "got %v", err)
		})
	}
}

func TestVerifier_ExpiredMessage(t *testing.T) {
	key := generateKey(t)
	v := NewVerifier(StaticKeySource{"k1": &key.PublicKey}, testProject, 0)
	c := validClaims()
	c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	_, err := v.Verify(context.Background(), signToken(t, key, "k1", c))

	var ce *common.CustomError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Token has expired", ce.Message)
}

func selfSignedPEM(t *testing.T, key *rsa.PrivateKey) string {
	t.Helper()
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "securetoken"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
}

func TestGoogleKeySource_FetchesAndCaches(t *testing.T) {
	key := generateKey(t)
	certs := map[string]string{"k1": selfSignedPEM(t, key)}
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=600, must-revalidate")
		_ = json.NewEncoder(w).Encode(certs)
	}))
	defer server.Close()

	source := NewGoogleKeySource(server.URL, time.Second)
	now := time.Now()
	source.now = func() time.Time { return now }

	got, err := source.PublicKey(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, 0, key.PublicKey.N.Cmp(got.N))

	_, err = source.PublicKey(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "served from cache")

	now = now.Add(11 * time.Minute)
	_, err = source.PublicKey(context.Background(), "k1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "refetched after max-age")

	_, err = source.PublicKey(context.Background(), "missing")
	assert.Error(t, err)
}

func TestGoogleKeySource_EndToEndWithVerifier(t *testing.T) {
	key := generateKey(t)
	certs := map[string]string{"k1": selfSignedPEM(t, key)}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(certs)
	}))
	defer server.Close()

	v := NewVerifier(NewGoogleKeySource(server.URL, time.Second), testProject, time.Second)

	user, err := v.Verify(context.Background(), signToken(t, key, "k1", validClaims()))

	require.NoError(t, err)
	assert.Equal(t, "user-1", user.UID)
}

func TestMaxAge(t *testing.T) {
	assert.Equal(t, 600*time.Second, maxAge("public, max-age=600, must-revalidate"))
	assert.Equal(t, defaultKeyTTL, maxAge("no-cache"))
	assert.Equal(t, defaultKeyTTL, maxAge("max-age=abc"))
	assert.Equal(t, defaultKeyTTL, maxAge(""))
}
