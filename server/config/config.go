// Package config holds glaemscribe server configuration, notably the
// admin token used to guard /admin endpoints. Following the rule that a
// secret is never persisted verbatim, this domain has no user/password
// login system, so there is one shared admin token hashed with bcrypt
// instead of a full username/password store.
package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Config is the resolved runtime configuration for the glaemscribe server.
type Config struct {
	ListenAddress string
	BundleDir     string
	StorageDir    string
	UnauthDelayMS int

	// AdminTokenHash is the bcrypt hash of the plaintext admin token, as
	// produced by HashAdminToken. The /admin middleware in server/middle
	// compares the bearer token against the plaintext token and does not
	// read this field.
	AdminTokenHash string
}

// HashAdminToken bcrypt-hashes a plaintext admin token for storage in
// Config.AdminTokenHash. The plaintext itself is never written to disk.
func HashAdminToken(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing admin token: %w", err)
	}
	return string(hash), nil
}

// VerifyAdminToken reports whether plaintext matches the hash produced by
// HashAdminToken.
func VerifyAdminToken(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// GenerateAdminToken returns a random URL-safe token suitable for use as a
// freshly provisioned admin secret, for operators who don't want to pick
// one themselves.
func GenerateAdminToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating admin token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Env var names read by the CLI when building a Config.
const (
	EnvListen     = "GLAEMSCRIBE_LISTEN_ADDRESS"
	EnvBundle     = "GLAEMSCRIBE_BUNDLE_DIR"
	EnvStorage    = "GLAEMSCRIBE_STORAGE_DIR"
	EnvAdminToken = "GLAEMSCRIBE_ADMIN_TOKEN"
)

// FromEnv fills in any fields of cfg left at their zero value from the
// corresponding environment variable, if set. AdminTokenHash is computed
// from EnvAdminToken's plaintext if cfg.AdminTokenHash is still empty.
func FromEnv(cfg Config) (Config, error) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = os.Getenv(EnvListen)
	}
	if cfg.BundleDir == "" {
		cfg.BundleDir = os.Getenv(EnvBundle)
	}
	if cfg.StorageDir == "" {
		cfg.StorageDir = os.Getenv(EnvStorage)
	}
	if cfg.AdminTokenHash == "" {
		if plain := os.Getenv(EnvAdminToken); plain != "" {
			hash, err := HashAdminToken(plain)
			if err != nil {
				return cfg, err
			}
			cfg.AdminTokenHash = hash
		}
	}
	return cfg, nil
}
