package workflows

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sealbox/sealbox/internal/crypto"
	serrors "github.com/sealbox/sealbox/internal/errors"
)

var (
	testKeyOnce sync.Once
	testKeyA    *rsa.PrivateKey
	testKeyB    *rsa.PrivateKey
	testKeyErr  error
)

func testKeys(t *testing.T) (*rsa.PrivateKey, *rsa.PrivateKey) {
	t.Helper()
	testKeyOnce.Do(func() {
		testKeyA, testKeyErr = rsa.GenerateKey(rand.Reader, 2048)
		if testKeyErr == nil {
			testKeyB, testKeyErr = rsa.GenerateKey(rand.Reader, 2048)
		}
	})
	if testKeyErr != nil {
		t.Fatalf("Failed to generate test keys: %v", testKeyErr)
	}
	return testKeyA, testKeyB
}

// setupKeyPair writes key A's halves into dir and returns their paths.
func setupKeyPair(t *testing.T, dir string) (publicPath, privatePath string) {
	t.Helper()
	keyA, _ := testKeys(t)

	publicPath = filepath.Join(dir, "public_key.pem")
	privatePath = filepath.Join(dir, "private_key.pem")
	if err := crypto.SavePublicKey(publicPath, &keyA.PublicKey); err != nil {
		t.Fatalf("SavePublicKey failed: %v", err)
	}
	if err := crypto.SavePrivateKey(privatePath, keyA, nil); err != nil {
		t.Fatalf("SavePrivateKey failed: %v", err)
	}
	return publicPath, privatePath
}

func encryptFile(t *testing.T, dir string, plaintext []byte, armor bool) (string, string, string) {
	t.Helper()
	publicPath, privatePath := setupKeyPair(t, dir)

	inputPath := filepath.Join(dir, "input.dat")
	if err := os.WriteFile(inputPath, plaintext, 0644); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}

	outputPath := filepath.Join(dir, "input.dat.sealed")
	result, err := Encrypt(context.Background(), EncryptOptions{
		InputPath:     inputPath,
		PublicKeyPath: publicPath,
		OutputPath:    outputPath,
		Armor:         armor,
	})
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if result.SealedKeyLen != 256 {
		t.Errorf("Expected 256-byte sealed key for a 2048-bit key, got %d", result.SealedKeyLen)
	}
	return outputPath, privatePath, inputPath
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	plaintexts := map[string][]byte{
		"empty":     {},
		"single":    {0x2A},
		"text":      []byte("round trip me"),
		"multi-meg": bytes.Repeat([]byte{0x5A, 0x01, 0xFE}, 1<<20),
	}

	for name, plaintext := range plaintexts {
		for _, armor := range []bool{true, false} {
			mode := "armored"
			if !armor {
				mode = "binary"
			}
			t.Run(name+"/"+mode, func(t *testing.T) {
				tmpDir := t.TempDir()
				sealedPath, privatePath, _ := encryptFile(t, tmpDir, plaintext, armor)

				recoveredPath := filepath.Join(tmpDir, "recovered.dat")
				result, err := Decrypt(context.Background(), DecryptOptions{
					InputPath:      sealedPath,
					PrivateKeyPath: privatePath,
					OutputPath:     recoveredPath,
				})
				if err != nil {
					t.Fatalf("Decrypt failed: %v", err)
				}
				if result.Armored != armor {
					t.Errorf("Expected Armored=%t, got %t", armor, result.Armored)
				}

				recovered, err := os.ReadFile(recoveredPath)
				if err != nil {
					t.Fatalf("Failed to read recovered file: %v", err)
				}
				if !bytes.Equal(recovered, plaintext) {
					t.Error("Recovered plaintext does not match original")
				}
			})
		}
	}
}

func TestEncrypt_SealedKeyLengthField(t *testing.T) {
	// The envelope's length field must equal the modulus size: 2048/8 = 256.
	tmpDir := t.TempDir()
	plaintext := bytes.Repeat([]byte("ten kilobytes of text "), 466)[:10*1024]
	sealedPath, _, _ := encryptFile(t, tmpDir, plaintext, false)

	blob, err := os.ReadFile(sealedPath)
	if err != nil {
		t.Fatalf("Failed to read artifact: %v", err)
	}
	if got := binary.LittleEndian.Uint32(blob); got != 256 {
		t.Errorf("Expected sealed-key length field 256, got %d", got)
	}
}

func TestDecrypt_TamperedPayload(t *testing.T) {
	tmpDir := t.TempDir()
	sealedPath, privatePath, _ := encryptFile(t, tmpDir, []byte("do not touch"), false)

	blob, err := os.ReadFile(sealedPath)
	if err != nil {
		t.Fatalf("Failed to read artifact: %v", err)
	}

	// Flip a single bit in the sealed payload region, past the length
	// prefix and the 256-byte wrapped key.
	tampered := append([]byte(nil), blob...)
	tampered[4+256+5] ^= 0x01
	tamperedPath := filepath.Join(tmpDir, "tampered.sealed")
	if err := os.WriteFile(tamperedPath, tampered, 0644); err != nil {
		t.Fatalf("Failed to write tampered artifact: %v", err)
	}

	outputPath := filepath.Join(tmpDir, "tampered.out")
	_, err = Decrypt(context.Background(), DecryptOptions{
		InputPath:      tamperedPath,
		PrivateKeyPath: privatePath,
		OutputPath:     outputPath,
	})
	if !errors.Is(err, serrors.ErrDecryptionFailed) {
		t.Fatalf("Expected ErrDecryptionFailed, got %v", err)
	}

	// All-or-nothing: no output artifact may exist after a failure.
	if _, statErr := os.Stat(outputPath); !os.IsNotExist(statErr) {
		t.Error("Output file should not exist after a failed decrypt")
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	tmpDir := t.TempDir()
	_, keyB := testKeys(t)

	sealedPath, _, _ := encryptFile(t, tmpDir, []byte("for A's eyes only"), true)

	wrongKeyPath := filepath.Join(tmpDir, "wrong_key.pem")
	if err := crypto.SavePrivateKey(wrongKeyPath, keyB, nil); err != nil {
		t.Fatalf("SavePrivateKey failed: %v", err)
	}

	_, err := Decrypt(context.Background(), DecryptOptions{
		InputPath:      sealedPath,
		PrivateKeyPath: wrongKeyPath,
		OutputPath:     filepath.Join(tmpDir, "never.dat"),
	})
	if !errors.Is(err, serrors.ErrDecryptionFailed) {
		t.Errorf("Expected ErrDecryptionFailed, got %v", err)
	}
}

func TestDecrypt_OversizedLengthPrefix(t *testing.T) {
	tmpDir := t.TempDir()
	_, privatePath := setupKeyPair(t, tmpDir)

	// A length prefix declaring more sealed-key bytes than the blob holds.
	blob := make([]byte, 64)
	binary.LittleEndian.PutUint32(blob, 5000)
	badPath := filepath.Join(tmpDir, "bad.sealed")
	if err := os.WriteFile(badPath, blob, 0644); err != nil {
		t.Fatalf("Failed to write artifact: %v", err)
	}

	_, err := Decrypt(context.Background(), DecryptOptions{
		InputPath:      badPath,
		PrivateKeyPath: privatePath,
		OutputPath:     filepath.Join(tmpDir, "never.dat"),
	})
	if !errors.Is(err, serrors.ErrEnvelopeFormat) {
		t.Errorf("Expected ErrEnvelopeFormat, got %v", err)
	}
}

func TestDecrypt_InvalidArmor(t *testing.T) {
	tmpDir := t.TempDir()
	_, privatePath := setupKeyPair(t, tmpDir)

	// Base64 alphabet only, so armor detection kicks in, but not decodable.
	badPath := filepath.Join(tmpDir, "bad.sealed")
	if err := os.WriteFile(badPath, []byte("AAAAA"), 0644); err != nil {
		t.Fatalf("Failed to write artifact: %v", err)
	}

	_, err := Decrypt(context.Background(), DecryptOptions{
		InputPath:      badPath,
		PrivateKeyPath: privatePath,
		OutputPath:     filepath.Join(tmpDir, "never.dat"),
	})
	if !errors.Is(err, serrors.ErrInvalidEncoding) {
		t.Errorf("Expected ErrInvalidEncoding, got %v", err)
	}
}

func TestDecrypt_MissingInput(t *testing.T) {
	tmpDir := t.TempDir()
	_, privatePath := setupKeyPair(t, tmpDir)

	_, err := Decrypt(context.Background(), DecryptOptions{
		InputPath:      filepath.Join(tmpDir, "missing.sealed"),
		PrivateKeyPath: privatePath,
		OutputPath:     filepath.Join(tmpDir, "never.dat"),
	})
	if !errors.Is(err, serrors.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestEncrypt_KeyTooSmall(t *testing.T) {
	tmpDir := t.TempDir()

	smallKey, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("Failed to generate 1024-bit key: %v", err)
	}
	publicPath := filepath.Join(tmpDir, "small.pub.pem")
	if err := crypto.SavePublicKey(publicPath, &smallKey.PublicKey); err != nil {
		t.Fatalf("SavePublicKey failed: %v", err)
	}

	inputPath := filepath.Join(tmpDir, "input.dat")
	if err := os.WriteFile(inputPath, []byte("data"), 0644); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}

	outputPath := filepath.Join(tmpDir, "input.dat.sealed")
	_, err = Encrypt(context.Background(), EncryptOptions{
		InputPath:     inputPath,
		PublicKeyPath: publicPath,
		OutputPath:    outputPath,
		Armor:         true,
	})
	if !errors.Is(err, serrors.ErrKeyTooSmall) {
		t.Fatalf("Expected ErrKeyTooSmall, got %v", err)
	}
	if _, statErr := os.Stat(outputPath); !os.IsNotExist(statErr) {
		t.Error("Output file should not exist after a failed encrypt")
	}
}

func TestEncrypt_InputIsDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	publicPath, _ := setupKeyPair(t, tmpDir)

	_, err := Encrypt(context.Background(), EncryptOptions{
		InputPath:     tmpDir,
		PublicKeyPath: publicPath,
		OutputPath:    filepath.Join(tmpDir, "never.sealed"),
	})
	if !errors.Is(err, serrors.ErrIsDirectory) {
		t.Errorf("Expected ErrIsDirectory, got %v", err)
	}
}

func TestDecrypt_PassphraseRetryOnce(t *testing.T) {
	tmpDir := t.TempDir()
	keyA, _ := testKeys(t)
	passphrase := []byte("sealed with a kiss")

	publicPath := filepath.Join(tmpDir, "public_key.pem")
	privatePath := filepath.Join(tmpDir, "private_key.pem")
	if err := crypto.SavePublicKey(publicPath, &keyA.PublicKey); err != nil {
		t.Fatalf("SavePublicKey failed: %v", err)
	}
	if err := crypto.SavePrivateKey(privatePath, keyA, passphrase); err != nil {
		t.Fatalf("SavePrivateKey failed: %v", err)
	}

	inputPath := filepath.Join(tmpDir, "input.dat")
	plaintext := []byte("protected key round trip")
	if err := os.WriteFile(inputPath, plaintext, 0644); err != nil {
		t.Fatalf("Failed to write input: %v", err)
	}
	sealedPath := inputPath + SealedSuffix
	if _, err := Encrypt(context.Background(), EncryptOptions{
		InputPath:     inputPath,
		PublicKeyPath: publicPath,
		OutputPath:    sealedPath,
		Armor:         true,
	}); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	t.Run("prompt supplies correct passphrase", func(t *testing.T) {
		prompts := 0
		recoveredPath := filepath.Join(tmpDir, "recovered.dat")
		_, err := Decrypt(context.Background(), DecryptOptions{
			InputPath:      sealedPath,
			PrivateKeyPath: privatePath,
			OutputPath:     recoveredPath,
			PromptPassphrase: func(string) ([]byte, error) {
				prompts++
				return passphrase, nil
			},
		})
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if prompts != 1 {
			t.Errorf("Expected exactly 1 prompt, got %d", prompts)
		}

		recovered, err := os.ReadFile(recoveredPath)
		if err != nil {
			t.Fatalf("Failed to read recovered file: %v", err)
		}
		if !bytes.Equal(recovered, plaintext) {
			t.Error("Recovered plaintext does not match original")
		}
	})

	t.Run("wrong passphrase on retry is terminal", func(t *testing.T) {
		prompts := 0
		_, err := Decrypt(context.Background(), DecryptOptions{
			InputPath:      sealedPath,
			PrivateKeyPath: privatePath,
			OutputPath:     filepath.Join(tmpDir, "never.dat"),
			PromptPassphrase: func(string) ([]byte, error) {
				prompts++
				return []byte("wrong"), nil
			},
		})
		if !errors.Is(err, serrors.ErrPassphraseIncorrect) {
			t.Fatalf("Expected ErrPassphraseIncorrect, got %v", err)
		}
		if prompts != 1 {
			t.Errorf("Expected exactly 1 prompt (no retry loop), got %d", prompts)
		}
	})

	t.Run("no prompt available", func(t *testing.T) {
		_, err := Decrypt(context.Background(), DecryptOptions{
			InputPath:      sealedPath,
			PrivateKeyPath: privatePath,
			OutputPath:     filepath.Join(tmpDir, "never.dat"),
		})
		if !errors.Is(err, serrors.ErrPassphraseRequired) {
			t.Errorf("Expected ErrPassphraseRequired, got %v", err)
		}
	})
}
