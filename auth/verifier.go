// Package auth checks viewer credentials and tracks who is signed in.
package auth

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"thinky/config"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/bcrypt"
)

// Verifier decides whether a username and password pair is valid.
type Verifier interface {
	Verify(username, password string) bool
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(username, password string) bool

func (f VerifierFunc) Verify(username, password string) bool { return f(username, password) }

// defaultAccounts are written to accounts.toml on first run.
var defaultAccounts = map[string]string{
	"gillian": "1234",
	"zabdy":   "5678",
}

var hashCost = bcrypt.DefaultCost

// BcryptVerifier holds bcrypt hashes keyed by username.
type BcryptVerifier struct {
	mu     sync.RWMutex
	hashes map[string][]byte
}

func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{hashes: make(map[string][]byte)}
}

// Verify compares password against the stored hash for username.
// Usernames are matched case-insensitively.
func (v *BcryptVerifier) Verify(username, password string) bool {
	v.mu.RLock()
	hash, ok := v.hashes[normalize(username)]
	v.mu.RUnlock()
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// SetPassword hashes password and stores it for username.
func (v *BcryptVerifier) SetPassword(username, password string) error {
	name := normalize(username)
	if name == "" {
		return fmt.Errorf("username is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	v.mu.Lock()
	v.hashes[name] = hash
	v.mu.Unlock()
	return nil
}

// Usernames returns the known accounts, sorted.
func (v *BcryptVerifier) Usernames() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	names := make([]string, 0, len(v.hashes))
	for name := range v.hashes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

type accountsFile struct {
	Accounts map[string]string `toml:"accounts"`
}

func accountsPath(dataDir string) string {
	return filepath.Join(dataDir, "accounts.toml")
}

// LoadAccounts reads accounts.toml from dataDir, creating it with the
// default accounts if it does not exist.
func LoadAccounts(dataDir string) (*BcryptVerifier, error) {
	path := accountsPath(dataDir)
	v := NewBcryptVerifier()

	if !config.FileExists(path) {
		for name, password := range defaultAccounts {
			if err := v.SetPassword(name, password); err != nil {
				return nil, err
			}
		}
		if err := v.Save(dataDir); err != nil {
			return nil, err
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Auth] created %s with %d default accounts", path, len(defaultAccounts))
		}
		return v, nil
	}

	var af accountsFile
	if _, err := toml.DecodeFile(path, &af); err != nil {
		return nil, fmt.Errorf("failed to parse accounts file: %w", err)
	}
	for name, hash := range af.Accounts {
		v.hashes[normalize(name)] = []byte(hash)
	}
	return v, nil
}

// Save writes the hashes to accounts.toml with 0600 permissions.
func (v *BcryptVerifier) Save(dataDir string) error {
	if err := config.EnsureDir(dataDir); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	v.mu.RLock()
	af := accountsFile{Accounts: make(map[string]string, len(v.hashes))}
	for name, hash := range v.hashes {
		af.Accounts[name] = string(hash)
	}
	v.mu.RUnlock()

	f, err := os.OpenFile(accountsPath(dataDir), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create accounts file: %w", err)
	}
	return writeAccounts(f, af)
}

// writeAccounts encodes af into w and closes it. A failed close is reported
// since the hashes may not have reached disk.
func writeAccounts(w io.WriteCloser, af accountsFile) (err error) {
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close accounts file: %w", cerr)
		}
	}()

	if err := toml.NewEncoder(w).Encode(af); err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}
	return nil
}
