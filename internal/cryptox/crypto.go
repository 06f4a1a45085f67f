// Package cryptox seals small secrets, such as stored tokens, at rest.
package cryptox

import (
	"crypto/cipher"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/docassist/internal/common"
	"github.com/dmitrijs2005/docassist/internal/filex"
	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the length of a sealing key in bytes.
const KeySize = chacha20poly1305.KeySize

var (
	ErrBadKey     = errors.New("invalid sealing key")
	ErrCiphertext = errors.New("ciphertext is malformed or was tampered with")
)

// Sealer encrypts and authenticates values. Output of Seal is the random
// nonce followed by the XChaCha20-Poly1305 ciphertext.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer builds a Sealer from a KeySize-byte key.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrBadKey, KeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadKey, err)
	}
	return &Sealer{aead: aead}, nil
}

func (s *Sealer) Seal(plaintext []byte) []byte {
	nonce := common.GenerateRandByteArray(s.aead.NonceSize())
	return s.aead.Seal(nonce, nonce, plaintext, nil)
}

func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	ns := s.aead.NonceSize()
	if len(sealed) < ns+s.aead.Overhead() {
		return nil, ErrCiphertext
	}
	plain, err := s.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return nil, ErrCiphertext
	}
	return plain, nil
}

// LoadOrCreateKey reads the key stored at path, creating a fresh random one
// with 0600 permissions when the file does not exist yet.
func LoadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(key) != KeySize {
			return nil, fmt.Errorf("%w: %s holds %d bytes", ErrBadKey, path, len(key))
		}
		return key, nil
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("read key: %w", err)
	}

	if err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}
	key = common.GenerateRandByteArray(KeySize)
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("write key: %w", err)
	}
	return key, nil
}
