package factory

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"testing"

	"github.com/iulianpascalau/views-badge/services/badge/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestConfig(t *testing.T) config.Config {
	return config.Config{
		ListenAddress:           "127.0.0.1:0",
		BadgeLabel:              "views",
		AnalyticsBaseURL:        "http://127.0.0.1:1",
		BackendTimeoutInSeconds: 1,
		BadgeCacheTTLInSeconds:  2700,
		ReportCacheTTLInSeconds: 2700,
		CacheBackend:            "memory",
		SQLiteDir:               t.TempDir(),
	}
}

func createTestCredentials(t *testing.T) string {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pemKey := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	buff, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   "test-project",
		"private_key":  string(pemKey),
		"client_email": "badge@test-project.iam.gserviceaccount.com",
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
	require.NoError(t, err)

	return base64.StdEncoding.EncodeToString(buff)
}

func TestNewComponentsHandler(t *testing.T) {
	t.Parallel()

	t.Run("invalid credentials should error", func(t *testing.T) {
		handler, err := NewComponentsHandler("not-base64!!!", "123456", createTestConfig(t))

		assert.Nil(t, handler)
		require.Error(t, err)
	})
	t.Run("unknown cache backend should error", func(t *testing.T) {
		cfg := createTestConfig(t)
		cfg.CacheBackend = "memcached"

		handler, err := NewComponentsHandler(createTestCredentials(t), "123456", cfg)

		assert.Nil(t, handler)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown cache backend")
	})
	t.Run("should work with the memory backend", func(t *testing.T) {
		handler, err := NewComponentsHandler(createTestCredentials(t), "123456", createTestConfig(t))
		require.NoError(t, err)
		require.NotNil(t, handler)
		defer handler.Close()

		assert.NotNil(t, handler.GetEngine())
		assert.NotNil(t, handler.GetServer())
	})
	t.Run("should work with the sqlite backend", func(t *testing.T) {
		cfg := createTestConfig(t)
		cfg.CacheBackend = "sqlite"

		handler, err := NewComponentsHandler(createTestCredentials(t), "123456", cfg)
		require.NoError(t, err)
		require.NotNil(t, handler)
		handler.Close()
	})
	t.Run("start and close", func(t *testing.T) {
		handler, err := NewComponentsHandler(createTestCredentials(t), "123456", createTestConfig(t))
		require.NoError(t, err)

		handler.Start()
		assert.NotEmpty(t, handler.GetServer().Address())
		handler.Close()
	})
}
