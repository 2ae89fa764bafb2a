package crypto

import "errors"

var (
	// ErrKeyGeneration is returned when a key pair cannot be generated, either
	// because the entropy source failed or generation did not finish in time
	ErrKeyGeneration = errors.New("key generation failed")

	// ErrCertificateBuild is returned when the input to a certificate builder is
	// invalid (non-positive validity, empty SAN list, missing common name)
	ErrCertificateBuild = errors.New("invalid certificate request")

	// ErrSigning is returned when a certificate cannot be signed, including when
	// the supplied CA key does not belong to the supplied CA certificate
	ErrSigning = errors.New("certificate signing failed")

	// ErrEncoding is returned when PEM serialization or parsing fails
	ErrEncoding = errors.New("pem encoding failed")
)
