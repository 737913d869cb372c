// Package metadata stores small client settings, such as the device token,
// in the local database.
package metadata

import "context"

const (
	KeyDeviceToken = "device_token"
	KeyLastSyncAt  = "last_sync_at"
	// Outbox encryption parameters, base64 encoded.
	KeyOutboxSalt     = "outbox_salt"
	KeyOutboxVerifier = "outbox_verifier"
)

type Repository interface {
	// Get returns "" and no error when key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
