package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// analyticsReadOnlyScope is the only scope the badge service ever needs
const analyticsReadOnlyScope = "https://www.googleapis.com/auth/analytics.readonly"

// serviceAccountKey holds the fields of a service-account credential that are
// validated before the key is handed to the oauth2 library
type serviceAccountKey struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	PrivateKey  string `json:"private_key"`
	ClientEmail string `json:"client_email"`
	TokenURI    string `json:"token_uri"`
}

type serviceAccountAuthenticator struct {
	tokenSource oauth2.TokenSource
}

// NewServiceAccountAuthenticator creates an authenticator from a base64-encoded
// service-account key JSON. The key structure is validated up front, tokens are
// fetched lazily and cached/refreshed by the underlying token source.
func NewServiceAccountAuthenticator(encodedKey string) (*serviceAccountAuthenticator, error) {
	keyJSON, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("credentials are not valid base64: %w", err)
	}

	var key serviceAccountKey
	err = json.Unmarshal(keyJSON, &key)
	if err != nil {
		return nil, fmt.Errorf("invalid service account key JSON: %w", err)
	}

	err = validateServiceAccountKey(key)
	if err != nil {
		return nil, err
	}

	creds, err := google.CredentialsFromJSON(context.Background(), keyJSON, analyticsReadOnlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to create credentials: %w", err)
	}

	return &serviceAccountAuthenticator{
		tokenSource: creds.TokenSource,
	}, nil
}

// GetAccessToken returns a valid bearer token for the analytics backend
func (a *serviceAccountAuthenticator) GetAccessToken(_ context.Context) (string, error) {
	token, err := a.tokenSource.Token()
	if err != nil {
		return "", fmt.Errorf("failed to get access token: %w", err)
	}

	if !token.Valid() {
		return "", fmt.Errorf("token is invalid or expired")
	}

	return token.AccessToken, nil
}

func validateServiceAccountKey(key serviceAccountKey) error {
	if key.Type != "service_account" {
		return fmt.Errorf("invalid service account type: %q", key.Type)
	}
	if len(key.ProjectID) == 0 {
		return fmt.Errorf("service account key missing required field: project_id")
	}
	if len(key.PrivateKey) == 0 {
		return fmt.Errorf("service account key missing required field: private_key")
	}
	if len(key.ClientEmail) == 0 {
		return fmt.Errorf("service account key missing required field: client_email")
	}

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (a *serviceAccountAuthenticator) IsInterfaceNil() bool {
	return a == nil
}
