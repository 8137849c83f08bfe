// Package envelope implements the on-the-wire framing for sealbox
// ciphertext artifacts.
//
// An envelope is a single self-describing binary blob:
//
//	[u32 LE length of sealed key][sealed key][nonce || ciphertext || tag]
//
// The length prefix is the only framing signal. It is load-bearing because
// the sealed key's length depends on the RSA modulus size and is not
// otherwise self-describing. An optional base64 armor layer wraps the whole
// blob for transport over text-only channels; it is orthogonal to the
// envelope's own framing.
package envelope

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	serrors "github.com/sealbox/sealbox/internal/errors"
)

const (
	// headerSize is the length of the sealed-key length prefix.
	headerSize = 4

	// minPayloadSize is the smallest valid sealed payload: a 12-byte nonce
	// plus a 16-byte tag around an empty ciphertext.
	minPayloadSize = 28

	// minEnvelopeSize is the smallest blob Decode will look at: the length
	// prefix, a nonempty sealed key, and at least the start of a payload.
	minEnvelopeSize = 8

	// MaxSealedKeyLen bounds the declared sealed-key length. It fits RSA
	// moduli up to 65536 bits, far beyond any practical key, and rejects
	// pathological length prefixes before any allocation happens.
	MaxSealedKeyLen = 8192
)

// Encode frames a sealed key and sealed payload into one envelope blob.
func Encode(sealedKey, sealedPayload []byte) []byte {
	blob := make([]byte, headerSize+len(sealedKey)+len(sealedPayload))
	binary.LittleEndian.PutUint32(blob, uint32(len(sealedKey)))
	copy(blob[headerSize:], sealedKey)
	copy(blob[headerSize+len(sealedKey):], sealedPayload)
	return blob
}

// Decode splits an envelope blob into its sealed key and sealed payload.
// The declared key length is validated against the blob size before any
// slicing, so a malformed prefix can never cause an out-of-range read.
func Decode(blob []byte) (sealedKey, sealedPayload []byte, err error) {
	if len(blob) < minEnvelopeSize {
		return nil, nil, fmt.Errorf("%w: envelope too short (%d bytes)", serrors.ErrEnvelopeFormat, len(blob))
	}

	keyLen := binary.LittleEndian.Uint32(blob)
	if keyLen == 0 || keyLen > MaxSealedKeyLen {
		return nil, nil, fmt.Errorf("%w: implausible sealed key length %d", serrors.ErrEnvelopeFormat, keyLen)
	}
	if int(keyLen) > len(blob)-headerSize {
		return nil, nil, fmt.Errorf("%w: sealed key length %d exceeds envelope size", serrors.ErrEnvelopeFormat, keyLen)
	}

	sealedKey = blob[headerSize : headerSize+keyLen]
	sealedPayload = blob[headerSize+keyLen:]
	if len(sealedPayload) < minPayloadSize {
		return nil, nil, fmt.Errorf("%w: sealed payload too short (%d bytes)", serrors.ErrEnvelopeFormat, len(sealedPayload))
	}
	return sealedKey, sealedPayload, nil
}

// Armor encodes an envelope blob as base64 text for transport over
// text-only channels.
func Armor(blob []byte) []byte {
	armored := make([]byte, base64.StdEncoding.EncodedLen(len(blob)))
	base64.StdEncoding.Encode(armored, blob)
	return armored
}

// Unarmor decodes a base64-armored envelope. Line breaks and surrounding
// whitespace are tolerated; anything else that is not valid base64 yields
// ErrInvalidEncoding, distinct from envelope framing errors.
func Unarmor(text []byte) ([]byte, error) {
	compact := make([]byte, 0, len(text))
	for _, c := range text {
		switch c {
		case ' ', '\t', '\n', '\r':
		default:
			compact = append(compact, c)
		}
	}

	blob := make([]byte, base64.StdEncoding.DecodedLen(len(compact)))
	n, err := base64.StdEncoding.Decode(blob, compact)
	if err != nil {
		return nil, serrors.ErrInvalidEncoding
	}
	return blob[:n], nil
}

// IsArmored reports whether data looks like a base64-armored envelope
// rather than a raw binary one. Decoders use it to auto-detect the outer
// encoding.
func IsArmored(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return false
	}
	for _, c := range trimmed {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '+' || c == '/' || c == '=':
		case c == '\n' || c == '\r':
		default:
			return false
		}
	}
	return true
}
