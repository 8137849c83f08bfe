package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	serrors "github.com/sealbox/sealbox/internal/errors"
)

const (
	// SymmetricKeySize is the length of the per-message AES-256 key.
	SymmetricKeySize = 32

	// NonceSize is the length of the random GCM nonce prepended to the
	// sealed payload.
	NonceSize = 12

	// TagSize is the length of the GCM authentication tag appended to the
	// sealed payload.
	TagSize = 16
)

// NewSymmetricKey generates a new random 256-bit symmetric key.
func NewSymmetricKey() ([]byte, error) {
	key := make([]byte, SymmetricKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate symmetric key: %w", err)
	}
	return key, nil
}

// Seal encrypts plaintext with AES-256-GCM under key and returns
// nonce || ciphertext || tag. The nonce is random per call, so sealing the
// same plaintext twice produces different output.
func Seal(plaintext, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends ciphertext+tag to the nonce, yielding the full layout.
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a nonce || ciphertext || tag payload produced by Seal.
// The authentication check is atomic with decryption: on a tag mismatch no
// plaintext is returned, only ErrDecryptionFailed.
func Open(sealed, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(sealed) < NonceSize+TagSize {
		return nil, fmt.Errorf("%w: sealed payload too short (%d bytes)", serrors.ErrEnvelopeFormat, len(sealed))
	}

	nonce, ciphertext := sealed[:NonceSize], sealed[NonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, serrors.ErrDecryptionFailed
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != SymmetricKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", serrors.ErrInvalidKeyLength, SymmetricKeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GCM mode: %w", err)
	}
	return aead, nil
}

// Wipe zeroes a key buffer. The encrypt and decrypt pipelines call this as
// soon as the symmetric key has served its single use.
func Wipe(key []byte) {
	for i := range key {
		key[i] = 0
	}
}
