// Package errors provides typed error values for the sealbox application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - File errors: File system issues (ErrFileNotFound, ErrIsDirectory)
//   - Key errors: Key loading and validation (ErrKeyFormat, ErrPassphraseRequired)
//   - Envelope errors: Malformed ciphertext artifacts (ErrEnvelopeFormat, ErrInvalidEncoding)
//   - Crypto errors: Decryption and wrapping failures (ErrDecryptionFailed, ErrKeyTooSmall)
//
// # Usage
//
// Return errors from internal packages:
//
//	if len(blob) < minEnvelopeSize {
//	    return nil, nil, errors.ErrEnvelopeFormat
//	}
//
// Handle errors in the CLI layer:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, serrors.ErrDecryptionFailed) {
//	    // Show user-friendly message
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: %s", errors.ErrFileNotFound, path)
//
// ErrDecryptionFailed deliberately covers both AEAD tag failures and RSA
// unwrap failures. Callers must not distinguish between the two in any
// user-visible output, so the wrong-key and tampered-payload cases remain
// indistinguishable to an attacker probing with crafted ciphertexts.
package errors
