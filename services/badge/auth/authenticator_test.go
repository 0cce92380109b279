package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestKey(t *testing.T, fields map[string]string) string {
	buff, err := json.Marshal(fields)
	require.NoError(t, err)

	return base64.StdEncoding.EncodeToString(buff)
}

// generateTestPrivateKey creates a real RSA key in PEM format so the oauth2
// library accepts the credential at construction time
func generateTestPrivateKey(t *testing.T) string {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	block := &pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}

	return string(pem.EncodeToMemory(block))
}

func TestNewServiceAccountAuthenticator(t *testing.T) {
	t.Parallel()

	t.Run("not base64 should error", func(t *testing.T) {
		authenticator, err := NewServiceAccountAuthenticator("%%%not-base64%%%")

		assert.Nil(t, authenticator)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not valid base64")
	})
	t.Run("not JSON should error", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte("not a JSON document"))
		authenticator, err := NewServiceAccountAuthenticator(encoded)

		assert.Nil(t, authenticator)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid service account key JSON")
	})
	t.Run("wrong key type should error", func(t *testing.T) {
		encoded := encodeTestKey(t, map[string]string{
			"type": "authorized_user",
		})
		authenticator, err := NewServiceAccountAuthenticator(encoded)

		assert.Nil(t, authenticator)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid service account type")
	})
	t.Run("missing fields should error", func(t *testing.T) {
		encoded := encodeTestKey(t, map[string]string{
			"type":       "service_account",
			"project_id": "test-project",
		})
		authenticator, err := NewServiceAccountAuthenticator(encoded)

		assert.Nil(t, authenticator)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing required field")
	})
	t.Run("should work with a complete key", func(t *testing.T) {
		encoded := encodeTestKey(t, map[string]string{
			"type":         "service_account",
			"project_id":   "test-project",
			"private_key":  generateTestPrivateKey(t),
			"client_email": "badge@test-project.iam.gserviceaccount.com",
			"token_uri":    "https://oauth2.googleapis.com/token",
		})

		authenticator, err := NewServiceAccountAuthenticator(encoded)
		require.NoError(t, err)
		require.NotNil(t, authenticator)
		assert.False(t, authenticator.IsInterfaceNil())
	})
}
