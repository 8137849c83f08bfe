package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	serrors "github.com/sealbox/sealbox/internal/errors"

	"golang.org/x/crypto/ssh"
)

// GenerateKeyPair creates a new RSA key pair of the given size.
func GenerateKeyPair(bits int) (*rsa.PrivateKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}
	return privateKey, nil
}

// SavePrivateKey writes a private key to disk in PEM format, creating parent
// directories as needed. With an empty passphrase the key is stored as
// PKCS#1 ("RSA PRIVATE KEY"); with a passphrase it is stored in encrypted
// OpenSSH PEM format.
func SavePrivateKey(path string, privateKey *rsa.PrivateKey, passphrase []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory for private key at %s: %w", filepath.Dir(path), err)
	}

	var block *pem.Block
	if len(passphrase) > 0 {
		encrypted, err := ssh.MarshalPrivateKeyWithPassphrase(privateKey, "", passphrase)
		if err != nil {
			return fmt.Errorf("failed to encrypt private key: %w", err)
		}
		block = encrypted
	} else {
		block = &pem.Block{
			Type:  "RSA PRIVATE KEY",
			Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
		}
	}

	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0600); err != nil {
		return fmt.Errorf("failed to write private key to %s: %w", path, err)
	}
	return nil
}

// SavePublicKey writes a public key to disk as a PKIX PEM file, creating
// parent directories as needed.
func SavePublicKey(path string, publicKey *rsa.PublicKey) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory for public key at %s: %w", filepath.Dir(path), err)
	}

	pubASN1, err := x509.MarshalPKIXPublicKey(publicKey)
	if err != nil {
		return fmt.Errorf("failed to marshal public key: %w", err)
	}
	block := &pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubASN1,
	}

	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0644); err != nil { // #nosec G306 -- public keys are not secret
		return fmt.Errorf("failed to write public key to %s: %w", path, err)
	}
	return nil
}

// LoadPublicKey loads an RSA public key from a PEM file.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("%w: no PEM block containing a public key", serrors.ErrKeyFormat)
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", serrors.ErrKeyFormat, err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA public key", serrors.ErrKeyFormat)
	}
	return rsaPub, nil
}

// LoadPrivateKey loads an RSA private key from a PEM file. Pass a nil or
// empty passphrase for unencrypted keys.
//
// Returns ErrPassphraseRequired if the key is protected and no passphrase
// was given, ErrPassphraseIncorrect for a wrong passphrase, and ErrKeyFormat
// if the file does not contain an RSA private key.
func LoadPrivateKey(path string, passphrase []byte) (*rsa.PrivateKey, error) {
	data, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePrivateKey(data, passphrase)
}

// ParsePrivateKey parses an RSA private key from PEM bytes. It accepts
// PKCS#1, PKCS#8 and OpenSSH encodings, encrypted or not.
func ParsePrivateKey(data, passphrase []byte) (*rsa.PrivateKey, error) {
	var (
		parsed interface{}
		err    error
	)
	if len(passphrase) > 0 {
		parsed, err = ssh.ParseRawPrivateKeyWithPassphrase(data, passphrase)
	} else {
		parsed, err = ssh.ParseRawPrivateKey(data)
	}
	if err != nil {
		var missing *ssh.PassphraseMissingError
		switch {
		case errors.As(err, &missing):
			return nil, serrors.ErrPassphraseRequired
		case errors.Is(err, x509.IncorrectPasswordError):
			return nil, serrors.ErrPassphraseIncorrect
		default:
			return nil, fmt.Errorf("%w: %v", serrors.ErrKeyFormat, err)
		}
	}

	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA private key", serrors.ErrKeyFormat)
	}
	return rsaKey, nil
}

// readKeyFile reads a key file, mapping filesystem failures onto the
// sentinel errors the CLI reports on.
func readKeyFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", serrors.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to access key file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", serrors.ErrIsDirectory, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %s: %w", path, err)
	}
	return data, nil
}
