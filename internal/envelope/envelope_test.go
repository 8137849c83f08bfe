package envelope

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	serrors "github.com/sealbox/sealbox/internal/errors"
)

// testPayload builds a minimal valid sealed payload (nonce + tag around an
// empty ciphertext).
func testPayload() []byte {
	return bytes.Repeat([]byte{0xCD}, minPayloadSize)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	sealedKey := bytes.Repeat([]byte{0xAB}, 256)
	sealedPayload := append(testPayload(), []byte("ciphertext bytes")...)

	blob := Encode(sealedKey, sealedPayload)

	if got := binary.LittleEndian.Uint32(blob); got != 256 {
		t.Errorf("Expected length prefix 256, got %d", got)
	}
	if len(blob) != 4+len(sealedKey)+len(sealedPayload) {
		t.Errorf("Unexpected blob length %d", len(blob))
	}

	gotKey, gotPayload, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(gotKey, sealedKey) {
		t.Error("Decoded sealed key does not match")
	}
	if !bytes.Equal(gotPayload, sealedPayload) {
		t.Error("Decoded sealed payload does not match")
	}
}

func TestDecode_TooShort(t *testing.T) {
	for _, n := range []int{0, 1, 4, 7} {
		if _, _, err := Decode(make([]byte, n)); !errors.Is(err, serrors.ErrEnvelopeFormat) {
			t.Errorf("Decode with %d bytes: expected ErrEnvelopeFormat, got %v", n, err)
		}
	}
}

func TestDecode_DeclaredLengthExceedsBlob(t *testing.T) {
	// Length prefix claims 1000 bytes of sealed key but the blob holds far less.
	blob := make([]byte, 64)
	binary.LittleEndian.PutUint32(blob, 1000)

	if _, _, err := Decode(blob); !errors.Is(err, serrors.ErrEnvelopeFormat) {
		t.Errorf("Expected ErrEnvelopeFormat, got %v", err)
	}
}

func TestDecode_ZeroKeyLength(t *testing.T) {
	blob := make([]byte, 64)
	// Prefix already zero.
	if _, _, err := Decode(blob); !errors.Is(err, serrors.ErrEnvelopeFormat) {
		t.Errorf("Expected ErrEnvelopeFormat, got %v", err)
	}
}

func TestDecode_ImplausibleKeyLength(t *testing.T) {
	blob := make([]byte, 4+MaxSealedKeyLen+minPayloadSize+1)
	binary.LittleEndian.PutUint32(blob, MaxSealedKeyLen+1)

	if _, _, err := Decode(blob); !errors.Is(err, serrors.ErrEnvelopeFormat) {
		t.Errorf("Expected ErrEnvelopeFormat, got %v", err)
	}
}

func TestDecode_PayloadTooShort(t *testing.T) {
	// Valid prefix and key, but the remaining payload cannot hold a nonce and tag.
	blob := Encode(bytes.Repeat([]byte{1}, 32), make([]byte, minPayloadSize-1))

	if _, _, err := Decode(blob); !errors.Is(err, serrors.ErrEnvelopeFormat) {
		t.Errorf("Expected ErrEnvelopeFormat, got %v", err)
	}
}

func TestArmorUnarmor_RoundTrip(t *testing.T) {
	blob := Encode(bytes.Repeat([]byte{0x7F}, 128), testPayload())

	armored := Armor(blob)
	for _, c := range armored {
		if c >= 0x80 {
			t.Fatal("Armored output contains non-ASCII bytes")
		}
	}

	recovered, err := Unarmor(armored)
	if err != nil {
		t.Fatalf("Unarmor failed: %v", err)
	}
	if !bytes.Equal(recovered, blob) {
		t.Error("Unarmored blob does not match original")
	}
}

func TestUnarmor_ToleratesWhitespace(t *testing.T) {
	blob := []byte("payload under test")
	armored := Armor(blob)

	// Split the armor across lines the way mail clients do.
	wrapped := append([]byte{}, armored[:8]...)
	wrapped = append(wrapped, '\n')
	wrapped = append(wrapped, armored[8:]...)
	wrapped = append(wrapped, '\n')

	recovered, err := Unarmor(wrapped)
	if err != nil {
		t.Fatalf("Unarmor failed: %v", err)
	}
	if !bytes.Equal(recovered, blob) {
		t.Error("Unarmored blob does not match original")
	}
}

func TestUnarmor_InvalidEncoding(t *testing.T) {
	for _, text := range []string{"not!!base64", "abc", "====", "ZZZZZ@"} {
		if _, err := Unarmor([]byte(text)); !errors.Is(err, serrors.ErrInvalidEncoding) {
			t.Errorf("Unarmor(%q): expected ErrInvalidEncoding, got %v", text, err)
		}
	}
}

func TestIsArmored(t *testing.T) {
	binaryBlob := Encode(bytes.Repeat([]byte{1}, 32), testPayload())

	if IsArmored(binaryBlob) {
		t.Error("Binary envelope misdetected as armored")
	}
	if !IsArmored(Armor(binaryBlob)) {
		t.Error("Armored envelope not detected")
	}
	if IsArmored(nil) {
		t.Error("Empty input should not be detected as armored")
	}
}
