package upload

import "time"

type (
	// Intent is consumed once by the credential issuer.
	Intent struct {
		Filename    string
		ContentType string
	}
	StorageKey string

	WriteCredential struct {
		URL       string
		Method    string
		Headers   map[string]string
		ExpiresAt time.Time
	}
	PublicAssetRef struct {
		URL string
	}
	Target struct {
		Key         StorageKey
		WriteTarget WriteCredential
		PublicRef   PublicAssetRef
	}
)

func (k StorageKey) String() string { return string(k) }

// Expired reports whether the credential can no longer be used at t.
func (c WriteCredential) Expired(t time.Time) bool {
	return !c.ExpiresAt.IsZero() && !t.Before(c.ExpiresAt)
}
