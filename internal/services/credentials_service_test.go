package services

import (
	"strings"
	"testing"
)

func TestCredentialStoreFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("ANTHROPIC_API_KEY", "")

	s := NewCredentialStore()
	key, err := s.GetAPIKey("openai")
	if err != nil {
		t.Fatalf("GetAPIKey(openai): %v", err)
	}
	if key != "sk-env" {
		t.Errorf("key = %q", key)
	}

	_, err = s.GetAPIKey("anthropic")
	if err == nil || !strings.Contains(err.Error(), "ANTHROPIC_API_KEY") {
		t.Errorf("err = %v, want message naming ANTHROPIC_API_KEY", err)
	}
}

func TestCredentialStoreUnknownProvider(t *testing.T) {
	s := NewCredentialStoreFromMap(map[string]string{"openai": "sk"})
	if _, err := s.GetAPIKey("mistral"); err == nil {
		t.Error("expected error for unknown provider")
	}
	if _, err := s.GetAPIKey(""); err == nil {
		t.Error("expected error for empty provider")
	}
}

func TestOptionalAPIKey(t *testing.T) {
	s := NewCredentialStoreFromMap(map[string]string{"github": "ghp_x"})
	if got := s.OptionalAPIKey("github"); got != "ghp_x" {
		t.Errorf("OptionalAPIKey = %q", got)
	}
	if got := s.OptionalAPIKey("gemini"); got != "" {
		t.Errorf("unset provider returned %q", got)
	}
}
