// Package repostate holds per-opened-repository memory: the decoded
// repository descriptor, the derived key, the in-memory file map, and the
// access-token set that gates commands against the repository.
package repostate

import (
	"time"

	"github.com/google/uuid"
)

// TokenIdleTimeout is how long a token may go unused before CheckToken
// starts reporting it as invalid.
const TokenIdleTimeout = 20 * time.Minute

// AccessToken is an opaque 128-bit capability minted on a successful
// OpenRepository and touched on every command that presents it.
type AccessToken struct {
	ID         uuid.UUID
	LastAccess time.Time
}

// newAccessToken mints a fresh token timestamped at now.
func newAccessToken(now time.Time) AccessToken {
	return AccessToken{ID: uuid.New(), LastAccess: now}
}

func (t AccessToken) idleFor(now time.Time) time.Duration {
	return now.Sub(t.LastAccess)
}
