package errors

import "errors"

// File errors indicate issues with reading or writing files.
var (
	// ErrFileNotFound indicates a required file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrIsDirectory indicates a path points at a directory where a regular file was expected.
	ErrIsDirectory = errors.New("path is a directory, not a file")

	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")
)

// Key errors indicate failures loading or validating key material.
var (
	// ErrKeyFormat indicates a key file is not a valid key of the expected type.
	ErrKeyFormat = errors.New("invalid or unsupported key format")

	// ErrPassphraseRequired indicates the private key is passphrase-protected
	// and no passphrase was supplied.
	ErrPassphraseRequired = errors.New("private key is passphrase-protected")

	// ErrPassphraseIncorrect indicates the supplied passphrase does not
	// decrypt the private key.
	ErrPassphraseIncorrect = errors.New("incorrect passphrase for private key")

	// ErrInvalidKeyLength indicates the symmetric key has an unexpected length.
	ErrInvalidKeyLength = errors.New("invalid symmetric key length")

	// ErrKeyTooSmall indicates the asymmetric key cannot carry a wrapped
	// symmetric key.
	ErrKeyTooSmall = errors.New("asymmetric key too small to wrap symmetric key")
)

// Envelope errors indicate a malformed ciphertext artifact.
var (
	// ErrEnvelopeFormat indicates a malformed length prefix, truncated blob,
	// or otherwise unparseable envelope.
	ErrEnvelopeFormat = errors.New("malformed envelope")

	// ErrInvalidEncoding indicates the outer text encoding of an envelope is
	// not valid base64.
	ErrInvalidEncoding = errors.New("invalid text encoding")
)

// Crypto errors indicate failures during decryption.
var (
	// ErrDecryptionFailed indicates decryption failed. It covers both AEAD
	// authentication failures and asymmetric unwrap failures, and is never
	// subdivided further.
	ErrDecryptionFailed = errors.New("decryption failed")
)
