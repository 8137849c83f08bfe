package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
)

var (
	testKeyOnce sync.Once
	testKeyA    *rsa.PrivateKey
	testKeyB    *rsa.PrivateKey
	testKeyErr  error
)

// testKeys returns two distinct 2048-bit keys shared across tests, since
// key generation dominates test time.
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
