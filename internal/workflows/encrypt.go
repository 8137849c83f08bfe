package workflows

import (
	"context"

	"github.com/sealbox/sealbox/internal/compress"
	"github.com/sealbox/sealbox/internal/crypto"
	"github.com/sealbox/sealbox/internal/envelope"
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	// InputPath is the plaintext file to encrypt.
	InputPath string

	// PublicKeyPath is the recipient's PEM public key.
	PublicKeyPath string

	// OutputPath is where the ciphertext artifact is written.
	OutputPath string

	// Armor base64-encodes the envelope for text-only transport.
	Armor bool
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	// InputPath is the encrypted source file.
	InputPath string

	// OutputPath is the written ciphertext artifact.
	OutputPath string

	// InputSize is the plaintext size in bytes.
	InputSize int

	// CompressedSize is the plaintext size after gzip.
	CompressedSize int

	// SealedKeyLen is the wrapped symmetric key's length, which equals the
	// RSA modulus size in bytes.
	SealedKeyLen int

	// OutputSize is the final artifact size in bytes.
	OutputSize int

	// Armored indicates whether the artifact is base64 text.
	Armored bool
}

// Encrypt runs the encryption pipeline on a single file: read, compress,
// generate a fresh symmetric key, seal the payload, wrap the key under the
// recipient's public key, frame the envelope, optionally armor it, and
// atomically write the artifact.
//
// The symmetric key exists only for the duration of this call and is wiped
// before returning. Key loading and input reading happen before the first
// pipeline stage, so an unreadable input or invalid public key aborts with
// no side effects.
func Encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	publicKey, err := crypto.LoadPublicKey(opts.PublicKeyPath)
	if err != nil {
		return nil, err
	}

	plaintext, err := readInput(opts.InputPath)
	if err != nil {
		return nil, err
	}

	compressed, err := compress.Compress(plaintext)
	if err != nil {
		return nil, err
	}

	symKey, err := crypto.NewSymmetricKey()
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(symKey)

	sealedPayload, err := crypto.Seal(compressed, symKey)
	if err != nil {
		return nil, err
	}

	sealedKey, err := crypto.WrapKey(symKey, publicKey)
	if err != nil {
		return nil, err
	}

	blob := envelope.Encode(sealedKey, sealedPayload)
	if opts.Armor {
		blob = envelope.Armor(blob)
	}

	if err := writeOutput(opts.OutputPath, blob, 0644); err != nil { // #nosec G306 -- ciphertext artifacts are not secrets
		return nil, err
	}

	return &EncryptResult{
		InputPath:      opts.InputPath,
		OutputPath:     opts.OutputPath,
		InputSize:      len(plaintext),
		CompressedSize: len(compressed),
		SealedKeyLen:   len(sealedKey),
		OutputSize:     len(blob),
		Armored:        opts.Armor,
	}, nil
}
