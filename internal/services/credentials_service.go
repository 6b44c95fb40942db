package services

import (
	"errors"
	"fmt"
	"os"
)

// providerKeyEnv maps provider ids to the environment variable carrying
// their API key. Keys are read once and passed as values from then on.
var providerKeyEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
	"github":    "GITHUB_TOKEN",
}

type CredentialStore struct {
	keys map[string]string
}

// NewCredentialStore snapshots provider credentials from the environment.
func NewCredentialStore() *CredentialStore {
	keys := make(map[string]string, len(providerKeyEnv))
	for provider, envName := range providerKeyEnv {
		if v := os.Getenv(envName); v != "" {
			keys[provider] = v
		}
	}
	return &CredentialStore{keys: keys}
}

// NewCredentialStoreFromMap builds a store from explicit values, for tests
// and embedders that do not use the environment.
func NewCredentialStoreFromMap(keys map[string]string) *CredentialStore {
	copied := make(map[string]string, len(keys))
	for k, v := range keys {
		copied[k] = v
	}
	return &CredentialStore{keys: copied}
}

// GetAPIKey returns the credential for provider or an error naming the
// missing environment variable.
func (s *CredentialStore) GetAPIKey(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}
	if key, ok := s.keys[provider]; ok && key != "" {
		return key, nil
	}
	if envName, ok := providerKeyEnv[provider]; ok {
		return "", fmt.Errorf("API key for %s is not configured (set %s)", provider, envName)
	}
	return "", fmt.Errorf("unknown provider: %s", provider)
}

// OptionalAPIKey returns the credential for provider, or empty when unset.
func (s *CredentialStore) OptionalAPIKey(provider string) string {
	return s.keys[provider]
}
