package workflows

import (
	"context"
	"fmt"

	"github.com/sealbox/sealbox/internal/crypto"
)

// KeygenOptions configures the key generation workflow.
type KeygenOptions struct {
	// Bits is the RSA key size. Must be one of 1024, 2048, 3072 or 4096.
	Bits int

	// PublicKeyPath is where the PEM public key is written.
	PublicKeyPath string

	// PrivateKeyPath is where the PEM private key is written.
	PrivateKeyPath string

	// Passphrase protects the private key at rest when non-empty.
	Passphrase []byte
}

// KeygenResult contains the outcome of a key generation operation.
type KeygenResult struct {
	// PublicKeyPath is the written public key file.
	PublicKeyPath string

	// PrivateKeyPath is the written private key file.
	PrivateKeyPath string

	// Bits is the generated key size.
	Bits int

	// Protected indicates whether the private key is passphrase-protected.
	Protected bool
}

var validKeySizes = map[int]bool{1024: true, 2048: true, 3072: true, 4096: true}

// Keygen generates an RSA key pair and persists both halves as PEM files.
// The private key is written with 0600 permissions; when a passphrase is
// given it is stored in encrypted OpenSSH PEM format.
//
// Note that a 1024-bit pair can be generated but cannot wrap a sealbox
// symmetric key; Encrypt rejects it with ErrKeyTooSmall.
func Keygen(ctx context.Context, opts KeygenOptions) (*KeygenResult, error) {
	if !validKeySizes[opts.Bits] {
		return nil, fmt.Errorf("invalid key size %d: must be 1024, 2048, 3072 or 4096", opts.Bits)
	}
	if opts.PublicKeyPath == "" || opts.PrivateKeyPath == "" {
		return nil, fmt.Errorf("both public and private key paths are required")
	}

	privateKey, err := crypto.GenerateKeyPair(opts.Bits)
	if err != nil {
		return nil, err
	}

	if err := crypto.SavePrivateKey(opts.PrivateKeyPath, privateKey, opts.Passphrase); err != nil {
		return nil, err
	}
	if err := crypto.SavePublicKey(opts.PublicKeyPath, &privateKey.PublicKey); err != nil {
		return nil, err
	}

	return &KeygenResult{
		PublicKeyPath:  opts.PublicKeyPath,
		PrivateKeyPath: opts.PrivateKeyPath,
		Bits:           opts.Bits,
		Protected:      len(opts.Passphrase) > 0,
	}, nil
}
