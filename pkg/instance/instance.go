package instance

import (
	"os"

	"github.com/shamsoul-ali/THE-VAULT/pkg/env"
)

const fallbackID = "vault-api-0"

// GetID names this API replica in logs. VAULT_INSTANCE_ID wins, then the
// container hostname.
func GetID() string {
	if id := env.Get("VAULT_INSTANCE_ID", ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
