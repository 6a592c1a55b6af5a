package cache

import "fmt"

// Key layouts of everything the service keeps in Redis.
const (
	SessionKeyPrefix = "session:%s"
)

// SessionKey returns the Redis key holding the session for token.
func SessionKey(token string) string {
	return fmt.Sprintf(SessionKeyPrefix, token)
}
