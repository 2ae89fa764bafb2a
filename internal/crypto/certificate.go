package crypto

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"time"
)

// Certificate is a signed X.509 certificate produced by this package. The only
// implementations are *CACertificate and *LeafCertificate.
type Certificate interface {
	// X509 returns the parsed certificate. Callers must not modify it.
	X509() *x509.Certificate
	Subject() pkix.Name
	Issuer() pkix.Name
	NotBefore() time.Time
	NotAfter() time.Time
	SerialNumber() *big.Int
	Extensions() []pkix.Extension
	Signature() []byte
	PEM() string

	signed()
}

var (
	_ Certificate = (*CACertificate)(nil)
	_ Certificate = (*LeafCertificate)(nil)
)

// signedCertificate carries the accessors shared by both variants
type signedCertificate struct{ x509 *x509.Certificate }

func (c signedCertificate) X509() *x509.Certificate { return c.x509 }

func (c signedCertificate) Subject() pkix.Name { return c.x509.Subject }

func (c signedCertificate) Issuer() pkix.Name { return c.x509.Issuer }

func (c signedCertificate) NotBefore() time.Time { return c.x509.NotBefore }

func (c signedCertificate) NotAfter() time.Time { return c.x509.NotAfter }

// SerialNumber returns a copy of the serial number
func (c signedCertificate) SerialNumber() *big.Int {
	return new(big.Int).Set(c.x509.SerialNumber)
}

// Extensions returns a copy of the raw extensions as they appear in the
// certificate
func (c signedCertificate) Extensions() []pkix.Extension {
	return append([]pkix.Extension(nil), c.x509.Extensions...)
}

// Signature returns a copy of the signature bytes
func (c signedCertificate) Signature() []byte {
	return append([]byte(nil), c.x509.Signature...)
}

// PEM returns the certificate encoded as a PEM block
func (c signedCertificate) PEM() string { return EncodeCertificate(c.x509) }

func (signedCertificate) signed() {}

// CACertificate is the self-signed root of a bundle
type CACertificate struct{ signedCertificate }

// SubjectKeyID returns a copy of the subject key identifier
func (c *CACertificate) SubjectKeyID() []byte {
	return append([]byte(nil), c.x509.SubjectKeyId...)
}

// LeafCertificate is an end-entity certificate signed by a CACertificate
type LeafCertificate struct{ signedCertificate }

// DNSNames returns a copy of the DNS subject alternative names
func (c *LeafCertificate) DNSNames() []string {
	if len(c.x509.DNSNames) == 0 {
		return nil
	}
	return append([]string{}, c.x509.DNSNames...)
}
