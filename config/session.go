package config

import (
	"crypto/sha256"
	"log/slog"
	"time"
)

const (
	SessionCookieName = "admin-session"
	DefaultSessionTTL = 7 * 24 * time.Hour
)

// SessionSigningKey returns the key used to sign session cookies. Outside
// production an unset SESSION_SECRET falls back to a key derived from the
// stage key so local setups only need STAGE_KEY.
func (c *Config) SessionSigningKey() []byte {
	if c.SessionSecret != "" {
		return []byte(c.SessionSecret)
	}
	slog.Warn("SESSION_SECRET is not set, deriving a development signing key", slog.String("env", c.Env))
	sum := sha256.Sum256([]byte("stagestream-session:" + c.StageKey))
	return sum[:]
}
