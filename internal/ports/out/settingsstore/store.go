package settingsstore

import (
	"context"
	"errors"
)

// ErrNotFound indicates no value is stored under the requested key.
var ErrNotFound = errors.New("setting not found")

// Store persists system settings as string key/value pairs. Values are
// long-form text blocks (consent/legal texts); each upsert overwrites the
// prior value in place, with no versioning.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Upsert(ctx context.Context, key, value string) error
}
