package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jwksServer(t *testing.T, kid string, pub *rsa.PublicKey, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"keys": []map[string]string{{
				"kid": kid,
				"kty": "RSA",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			}},
		})
	}))
}

func TestProviderKeyFunc(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	var hits int32
	srv := jwksServer(t, "k1", &key.PublicKey, &hits)
	defer srv.Close()

	p := NewProvider(srv.URL)

	t.Run("Should verify a token signed by a published key", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
			"sub": "user1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		token.Header["kid"] = "k1"
		signed, err := token.SignedString(key)
		require.NoError(t, err)

		parsed, err := jwt.Parse(signed, p.KeyFunc)
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
		assert.Equal(t, "user1", parsed.Claims.(jwt.MapClaims)["sub"])
	})

	t.Run("Should cache keys between lookups", func(t *testing.T) {
		_, err := p.Key(context.Background(), "k1")
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})

	t.Run("Should report unknown key ids", func(t *testing.T) {
		_, err := p.Key(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("Should reject tokens without kid", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{"sub": "user1"})
		signed, err := token.SignedString(key)
		require.NoError(t, err)

		_, err = jwt.Parse(signed, p.KeyFunc)
		assert.Error(t, err)
	})

	t.Run("Should reject HMAC tokens", func(t *testing.T) {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user1"}).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = jwt.Parse(signed, p.KeyFunc)
		assert.Error(t, err)
	})
}

func TestProviderBadEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewProvider(srv.URL).Key(context.Background(), "k1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrKeyNotFound)
}
