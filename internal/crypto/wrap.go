package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	serrors "github.com/sealbox/sealbox/internal/errors"
)

// MinWrapBits is the smallest RSA modulus accepted for wrapping a symmetric
// key. Smaller keys (notably 1024-bit) are rejected up front rather than
// relying on the OAEP capacity check alone.
const MinWrapBits = 2048

// WrapKey encrypts a symmetric key under an RSA public key using OAEP with
// SHA-256. The key size is validated before the operation so an undersized
// key pair surfaces as ErrKeyTooSmall instead of an opaque library failure.
func WrapKey(symKey []byte, publicKey *rsa.PublicKey) ([]byte, error) {
	if len(symKey) != SymmetricKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", serrors.ErrInvalidKeyLength, SymmetricKeySize, len(symKey))
	}

	bits := publicKey.N.BitLen()
	if bits < MinWrapBits || maxOAEPPayload(publicKey) < len(symKey) {
		return nil, fmt.Errorf("%w: %d-bit RSA key cannot carry a %d-bit symmetric key",
			serrors.ErrKeyTooSmall, bits, len(symKey)*8)
	}

	sealedKey, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, publicKey, symKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap symmetric key: %w", err)
	}
	return sealedKey, nil
}

// UnwrapKey decrypts a wrapped symmetric key with an RSA private key.
// Every failure mode (bad padding, wrong key, malformed ciphertext length)
// collapses into ErrDecryptionFailed so callers cannot be used as a
// padding oracle.
func UnwrapKey(sealedKey []byte, privateKey *rsa.PrivateKey) ([]byte, error) {
	symKey, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, privateKey, sealedKey, nil)
	if err != nil {
		return nil, serrors.ErrDecryptionFailed
	}
	return symKey, nil
}

// maxOAEPPayload returns the largest message the key can encrypt under
// OAEP with SHA-256.
func maxOAEPPayload(publicKey *rsa.PublicKey) int {
	return publicKey.Size() - 2*sha256.Size - 2
}
