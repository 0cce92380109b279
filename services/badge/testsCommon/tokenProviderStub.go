package testsCommon

import "context"

// TokenProviderStub -
type TokenProviderStub struct {
	GetAccessTokenHandler func(ctx context.Context) (string, error)
}

// GetAccessToken -
func (stub *TokenProviderStub) GetAccessToken(ctx context.Context) (string, error) {
	if stub.GetAccessTokenHandler != nil {
		return stub.GetAccessTokenHandler(ctx)
	}

	return "test-token", nil
}

// IsInterfaceNil -
func (stub *TokenProviderStub) IsInterfaceNil() bool {
	return stub == nil
}
