package instance

import "testing"

func TestGetIDPrefersExplicitEnv(t *testing.T) {
	t.Setenv("VAULT_INSTANCE_ID", "api-7")
	if got := GetID(); got != "api-7" {
		t.Fatalf("expected api-7, got %q", got)
	}
}

func TestGetIDFallsBackToHostname(t *testing.T) {
	t.Setenv("VAULT_INSTANCE_ID", "")
	if got := GetID(); got == "" {
		t.Fatal("expected a non-empty id")
	}
}
