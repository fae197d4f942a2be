package cryptography

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/identity"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"
)

// aesCipher implements identity.Cipher with AES-256-GCM. The nonce is
// prepended to every ciphertext.
type aesCipher struct {
	aead   cipher.AEAD
	logger logger.Logger
}

// NewAESCipher creates a cipher from a 32 byte key
func NewAESCipher(key []byte, logger logger.Logger) (identity.Cipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid AES key size %d: expected 32 bytes", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &aesCipher{
		aead:   aead,
		logger: logger,
	}, nil
}

// Encrypt seals plaintext with a random nonce
func (c *aesCipher) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a ciphertext produced by Encrypt
func (c *aesCipher) Decrypt(ciphertext []byte) ([]byte, error) {
	nonceSize := c.aead.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		c.logger.Warn("Failed to decrypt stored secret")
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}
