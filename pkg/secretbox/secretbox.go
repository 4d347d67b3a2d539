// Package secretbox seals short secrets, such as creator API keys, for storage.
// Sealed values are base64(nonce || ciphertext) under XChaCha20-Poly1305.
package secretbox

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/fatflowers/paylist/pkg/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/chacha20poly1305"
)

var ErrMalformed = errors.New("secretbox: malformed sealed value")

type Box struct {
	aead cipher.AEAD
}

func New(key []byte) (*Box, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("secretbox: %w", err)
	}
	return &Box{aead: aead}, nil
}

// NewFromConfig builds a Box from secrets.encryption_key. It returns a nil Box
// when no key is configured, which leaves Kit sync disabled.
func NewFromConfig(cfg *config.Config, log *zap.SugaredLogger) (*Box, error) {
	if cfg.Secrets.EncryptionKey == "" {
		log.Warnw("secretbox_disabled", "reason", "secrets.encryption_key is not set")
		return nil, nil
	}
	key, err := cfg.Secrets.EncryptionKeyBytes()
	if err != nil {
		return nil, err
	}
	return New(key)
}

// Seal encrypts plaintext with a fresh random nonce.
func (b *Box) Seal(plaintext string) (string, error) {
	nonce := make([]byte, b.aead.NonceSize(), b.aead.NonceSize()+len(plaintext)+b.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("secretbox: read nonce: %w", err)
	}
	out := b.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (b *Box) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrMalformed
	}
	if len(raw) < b.aead.NonceSize()+b.aead.Overhead() {
		return "", ErrMalformed
	}
	nonce, ciphertext := raw[:b.aead.NonceSize()], raw[b.aead.NonceSize():]
	plain, err := b.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("secretbox: open: %w", err)
	}
	return string(plain), nil
}

var Module = fx.Options(
	fx.Provide(NewFromConfig),
)
