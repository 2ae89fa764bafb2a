package crypto

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"fmt"
	"io"
	"math/big"
	"time"
)

// RSAKeyBits is the modulus size of every key pair generated for a bundle
const RSAKeyBits = 2048

// DefaultKeyGenerationTimeout bounds a single key pair generation
const DefaultKeyGenerationTimeout = 30 * time.Second

// KeyPair holds a freshly generated RSA key pair
type KeyPair struct {
	Public  *rsa.PublicKey
	Private *rsa.PrivateKey
}

// KeyGenerator produces RSA key pairs of RSAKeyBits. A single generator may be
// shared; it holds no state between calls.
type KeyGenerator struct {
	// Timeout is the upper bound for one generation. Zero means
	// DefaultKeyGenerationTimeout.
	Timeout time.Duration

	// random is the entropy source handed to generate
	random io.Reader

	// generate creates the private key. It is a field so it can be replaced
	// during testing.
	generate func(io.Reader, int) (*rsa.PrivateKey, error)
}

// NewKeyGenerator returns a generator reading from crypto/rand
func NewKeyGenerator(timeout time.Duration) *KeyGenerator {
	return &KeyGenerator{
		Timeout:  timeout,
		random:   rand.Reader,
		generate: rsa.GenerateKey,
	}
}

// Generate creates a new key pair. It fails with ErrKeyGeneration when the
// entropy source fails, when ctx is done, or when generation stalls past the
// timeout.
func (g *KeyGenerator) Generate(ctx context.Context) (*KeyPair, error) {
	if g == nil {
		g = NewKeyGenerator(0)
	}

	generate := g.generate
	if generate == nil {
		generate = rsa.GenerateKey
	}
	random := g.random
	if random == nil {
		random = rand.Reader
	}
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = DefaultKeyGenerationTimeout
	}

	type result struct {
		key *rsa.PrivateKey
		err error
	}

	// buffered so an abandoned generation can still deliver and exit
	done := make(chan result, 1)
	go func() {
		key, err := generate(random, RSAKeyBits)
		done <- result{key: key, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, r.err)
		}
		if r.key == nil {
			return nil, fmt.Errorf("%w: no key returned", ErrKeyGeneration)
		}
		return &KeyPair{Public: &r.key.PublicKey, Private: r.key}, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: no key after %s", ErrKeyGeneration, timeout)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrKeyGeneration, ctx.Err())
	}
}

// generateSerialNumber returns a random positive 128-bit integer with the top
// bit cleared, so its DER encoding never exceeds 16 bytes. It is a variable so
// it can be replaced during testing.
var generateSerialNumber = func() (*big.Int, error) {
	buf := make([]byte, 16)
	for {
		if _, err := io.ReadFull(rand.Reader, buf); err != nil {
			return nil, fmt.Errorf("failed to generate serial number: %w", err)
		}
		buf[0] &= 0x7f

		serial := new(big.Int).SetBytes(buf)
		if serial.Sign() > 0 {
			return serial, nil
		}
	}
}

// subjectKeyID computes the key identifier of RFC 5280 section 4.2.1.2,
// method 1: the SHA-1 hash of the subjectPublicKey BIT STRING.
func subjectKeyID(pub *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, err
	}

	var spki struct {
		Algorithm pkix.AlgorithmIdentifier
		PublicKey asn1.BitString
	}
	if _, err := asn1.Unmarshal(der, &spki); err != nil {
		return nil, err
	}

	sum := sha1.Sum(spki.PublicKey.Bytes)
	return sum[:], nil
}

// VerifyKeyPair reports whether privateKey is the private half of the
// certificate's public key
func VerifyKeyPair(cert *x509.Certificate, privateKey interface{}) bool {
	if cert == nil {
		return false
	}
	switch key := privateKey.(type) {
	case *rsa.PrivateKey:
		return key != nil && key.PublicKey.Equal(cert.PublicKey)
	case *ecdsa.PrivateKey:
		return key != nil && key.PublicKey.Equal(cert.PublicKey)
	default:
		return false
	}
}
