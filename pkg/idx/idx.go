// Package idx generates prefixed, lexicographically sortable entity IDs
// backed by ULIDs. An ID looks like "user_01JD0Z3V9QK6H8W2M4N5P6R7S8";
// the prefix names the entity kind and the ULID carries the creation time.
package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entity prefixes used across the service.
const (
	PrefixUser  = "user"
	PrefixReset = "reset"
)

// ErrInvalid reports a malformed prefixed ID.
var ErrInvalid = errors.New("idx: invalid id")

var (
	globalOnce sync.Once
	global     *generator
)

// generator safely produces ULIDs concurrently from a monotonic source.
type generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func (g *generator) newAt(t time.Time) ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy)
}

func initGlobal() {
	global = &generator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// New returns a new prefixed ID using the current time in UTC.
func New(prefix string) string {
	return NewAt(prefix, time.Now().UTC())
}

// NewAt generates an ID at the provided time (UTC). Useful for tests.
func NewAt(prefix string, t time.Time) string {
	globalOnce.Do(initGlobal)
	return prefix + "_" + global.newAt(t).String()
}

// Parse splits a prefixed ID into its prefix and validates the ULID part.
func Parse(s string) (prefix string, err error) {
	s = strings.TrimSpace(s)
	i := strings.LastIndexByte(s, '_')
	if i <= 0 || i == len(s)-1 {
		return "", ErrInvalid
	}
	if _, err := ulid.ParseStrict(s[i+1:]); err != nil {
		return "", ErrInvalid
	}
	return s[:i], nil
}

// Time extracts the embedded UTC timestamp from a prefixed ID.
// Returns the zero time for malformed IDs.
func Time(s string) time.Time {
	i := strings.LastIndexByte(s, '_')
	if i < 0 {
		return time.Time{}
	}
	u, err := ulid.ParseStrict(s[i+1:])
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time())
}
