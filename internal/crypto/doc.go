// Package crypto provides the cryptographic primitives for sealbox.
//
// sealbox uses a hybrid encryption scheme:
//
//  1. A random 256-bit symmetric key seals the (compressed) file contents
//     with AES-256-GCM
//  2. The recipient's RSA public key wraps the symmetric key with
//     OAEP(SHA-256) padding
//  3. The wrapped key and sealed payload are framed together by the
//     envelope package
//
// The symmetric key is generated fresh for every encryption, never persisted,
// and never reused across messages. Authenticated encryption is mandatory
// here: the sealed payload is fed to a decompressor after opening, and the
// GCM tag check is what keeps attacker-controlled bytes out of that path.
//
// # Key Management
//
// RSA key pairs are persisted as PEM files. Public keys use PKIX
// ("PUBLIC KEY") encoding and unencrypted private keys use PKCS#1
// ("RSA PRIVATE KEY"). Passphrase-protected private keys are stored in
// OpenSSH PEM format, encrypted by golang.org/x/crypto/ssh; the loader
// accepts all three.
//
// # Security Considerations
//
// Private keys should have 0600 permissions. Callers warn when permissions
// are too permissive but do not enforce this to avoid breaking workflows.
//
// Unwrap failures are reported as the same opaque error as GCM tag failures
// so error messages cannot be used as a padding oracle.
package crypto
