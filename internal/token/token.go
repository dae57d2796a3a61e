// Package token manages the bearer token protecting the JSON-RPC
// surface. The token lives in the operating system's keyring service;
// on headless hosts without one it falls back to a 0600 file under the
// config directory.
package token

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	serviceName   = "tasknap"
	accountName   = "rpc-token"
	tokenFileName = "rpc.token"
	tokenFileMode = 0600
	tokenBytes    = 32
)

var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
	randRead      = rand.Read
)

// Store resolves the RPC bearer token for one config directory.
type Store struct {
	configDir string
}

// NewStore creates a token store rooted at the given config directory.
func NewStore(configDir string) *Store {
	return &Store{configDir: configDir}
}

func (s *Store) filePath() string {
	return filepath.Join(s.configDir, tokenFileName)
}

// Load returns the stored token, generating and persisting a fresh one
// on first use.
func (s *Store) Load() (string, error) {
	if tok, err := keyringGet(serviceName, accountName); err == nil && validToken(tok) {
		return tok, nil
	}
	if data, err := os.ReadFile(s.filePath()); err == nil {
		tok := strings.TrimSpace(string(data))
		if validToken(tok) {
			return tok, nil
		}
	}
	return s.generate()
}

func (s *Store) generate() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := randRead(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	tok := hex.EncodeToString(raw)
	if err := keyringSet(serviceName, accountName, tok); err == nil {
		return tok, nil
	}
	// No keyring service (headless session, locked keychain); keep the
	// token in a private file instead
	if err := s.writeFile(tok); err != nil {
		return "", err
	}
	return tok, nil
}

// writeFile writes the token atomically: temp file, chmod, rename.
func (s *Store) writeFile(tok string) error {
	if err := os.MkdirAll(s.configDir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.configDir, ".rpc.token.tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(tok); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, tokenFileMode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.filePath()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename token file: %w", err)
	}
	return nil
}

// Reset removes the token from both backends. The next Load mints a
// new one, invalidating every client that held the old token.
func (s *Store) Reset() error {
	kerr := keyringDelete(serviceName, accountName)
	if kerr == keyring.ErrNotFound {
		kerr = nil
	}
	ferr := os.Remove(s.filePath())
	if os.IsNotExist(ferr) {
		ferr = nil
	}
	if kerr != nil {
		return kerr
	}
	return ferr
}

// Equal compares a presented token against the expected one in
// constant time.
func Equal(presented, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) == 1
}

func validToken(tok string) bool {
	if len(tok) != tokenBytes*2 {
		return false
	}
	_, err := hex.DecodeString(tok)
	return err == nil
}
