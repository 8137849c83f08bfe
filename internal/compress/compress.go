// Package compress wraps the gzip codec used on plaintext before sealing.
//
// Compression happens before encryption because AEAD ciphertext is
// incompressible. Decompression only ever runs on authenticated data: the
// decrypt pipeline verifies the GCM tag before anything reaches this
// package.
package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	serrors "github.com/sealbox/sealbox/internal/errors"
)

// Compress gzips data into a new buffer.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize compressed data: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress. Data that is not a valid gzip stream is
// reported as an envelope format error: the payload authenticated, but its
// contents are not what the encrypt pipeline produces.
func Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid gzip stream", serrors.ErrEnvelopeFormat)
	}
	defer r.Close()

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: truncated gzip stream", serrors.ErrEnvelopeFormat)
	}
	return plaintext, nil
}
