package workflows

import (
	"context"
	"crypto/rsa"
	"errors"

	"github.com/sealbox/sealbox/internal/compress"
	"github.com/sealbox/sealbox/internal/crypto"
	"github.com/sealbox/sealbox/internal/envelope"
	serrors "github.com/sealbox/sealbox/internal/errors"
)

// PassphrasePrompt supplies a passphrase interactively. The decrypt workflow
// calls it at most once, when the private key turns out to be protected and
// no passphrase was provided up front.
type PassphrasePrompt func(prompt string) ([]byte, error)

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	// InputPath is the ciphertext artifact, armored or binary.
	InputPath string

	// PrivateKeyPath is the recipient's PEM private key.
	PrivateKeyPath string

	// OutputPath is where the recovered plaintext is written.
	OutputPath string

	// Passphrase decrypts a protected private key. May be empty.
	Passphrase []byte

	// PromptPassphrase is consulted once if the key is protected and
	// Passphrase is empty. Nil means no interactive retry.
	PromptPassphrase PassphrasePrompt
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	// InputPath is the decrypted ciphertext artifact.
	InputPath string

	// OutputPath is the written plaintext file.
	OutputPath string

	// OutputSize is the recovered plaintext size in bytes.
	OutputSize int

	// Armored indicates whether the artifact was base64 text.
	Armored bool
}

// Decrypt runs the decryption pipeline on a single artifact: read, strip the
// optional base64 armor, decode the envelope, unwrap the symmetric key with
// the private key, open the sealed payload, decompress, and atomically write
// the plaintext.
//
// The authentication check sits between unwrapping and decompression; a
// failure there is terminal and reported only as ErrDecryptionFailed,
// whether the cause was a wrong key or a tampered payload.
//
// If the private key is passphrase-protected and no passphrase was supplied,
// the workflow prompts once through opts.PromptPassphrase and retries the
// load exactly once. A wrong passphrase on that retry is terminal.
func Decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	raw, err := readInput(opts.InputPath)
	if err != nil {
		return nil, err
	}

	blob := raw
	armored := envelope.IsArmored(raw)
	if armored {
		if blob, err = envelope.Unarmor(raw); err != nil {
			return nil, err
		}
	}

	privateKey, err := loadPrivateKey(opts)
	if err != nil {
		return nil, err
	}

	sealedKey, sealedPayload, err := envelope.Decode(blob)
	if err != nil {
		return nil, err
	}

	symKey, err := crypto.UnwrapKey(sealedKey, privateKey)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(symKey)

	compressed, err := crypto.Open(sealedPayload, symKey)
	if err != nil {
		return nil, err
	}

	plaintext, err := compress.Decompress(compressed)
	if err != nil {
		return nil, err
	}

	if err := writeOutput(opts.OutputPath, plaintext, 0644); err != nil { // #nosec G306 -- recovered files should be editable by the user
		return nil, err
	}

	return &DecryptResult{
		InputPath:  opts.InputPath,
		OutputPath: opts.OutputPath,
		OutputSize: len(plaintext),
		Armored:    armored,
	}, nil
}

// loadPrivateKey loads the private key, retrying once with a prompted
// passphrase if the key is protected and none was supplied.
func loadPrivateKey(opts DecryptOptions) (*rsa.PrivateKey, error) {
	key, err := crypto.LoadPrivateKey(opts.PrivateKeyPath, opts.Passphrase)
	if err == nil {
		return key, nil
	}

	if !errors.Is(err, serrors.ErrPassphraseRequired) || len(opts.Passphrase) > 0 || opts.PromptPassphrase == nil {
		return nil, err
	}

	passphrase, perr := opts.PromptPassphrase("Enter private key passphrase: ")
	if perr != nil {
		return nil, perr
	}
	return crypto.LoadPrivateKey(opts.PrivateKeyPath, passphrase)
}
