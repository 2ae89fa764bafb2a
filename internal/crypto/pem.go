package crypto

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/asn1"
	"encoding/pem"
	"fmt"
)

const (
	// pemLabelCertificate is the textual encoding label for an X.509
	// certificate according to RFC 7468
	pemLabelCertificate = "CERTIFICATE"

	// pemLabelRSAKey is the PKCS#1 RSA private key label
	pemLabelRSAKey = "RSA PRIVATE KEY"

	// pemLabelPKCS8Key is the PKCS#8 private key label
	pemLabelPKCS8Key = "PRIVATE KEY"

	// pemLabelECKey is the SEC 1 elliptic curve private key label
	pemLabelECKey = "EC PRIVATE KEY"
)

// EncodeCertificate returns the PEM encoding of the certificate exactly as it
// was signed
func EncodeCertificate(cert *x509.Certificate) string {
	if cert == nil {
		return ""
	}
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  pemLabelCertificate,
		Bytes: cert.Raw,
	}))
}

// EncodePrivateKey returns the PKCS#1 PEM encoding of an RSA private key
func EncodePrivateKey(key *rsa.PrivateKey) string {
	if key == nil {
		return ""
	}
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  pemLabelRSAKey,
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))
}

// DecodeCertificate parses the first PEM block of text as a certificate
func DecodeCertificate(text string) (*x509.Certificate, error) {
	block, _ := pem.Decode([]byte(text))
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrEncoding)
	}
	if block.Type != pemLabelCertificate {
		return nil, fmt.Errorf("%w: expected %q block, got %q", ErrEncoding, pemLabelCertificate, block.Type)
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse certificate: %w", ErrEncoding, err)
	}
	return cert, nil
}

// DecodePrivateKey parses the first PEM block of text as a private key.
// PKCS#1, PKCS#8 and SEC 1 encodings are accepted.
func DecodePrivateKey(text string) (interface{}, error) {
	block, _ := pem.Decode([]byte(text))
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrEncoding)
	}

	var (
		key interface{}
		err error
	)
	switch block.Type {
	case pemLabelRSAKey:
		key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case pemLabelPKCS8Key:
		key, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	case pemLabelECKey:
		key, err = x509.ParseECPrivateKey(block.Bytes)
	default:
		return nil, fmt.Errorf("%w: unsupported private key block %q", ErrEncoding, block.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse private key: %w", ErrEncoding, err)
	}
	return key, nil
}

// ExtensionName names a certificate extension that can be read with
// ExtensionValue
type ExtensionName string

// Extensions understood by ExtensionValue
const (
	ExtensionSubjectAltName         ExtensionName = "subjectAltName"
	ExtensionBasicConstraints       ExtensionName = "basicConstraints"
	ExtensionKeyUsage               ExtensionName = "keyUsage"
	ExtensionExtKeyUsage            ExtensionName = "extKeyUsage"
	ExtensionSubjectKeyIdentifier   ExtensionName = "subjectKeyIdentifier"
	ExtensionAuthorityKeyIdentifier ExtensionName = "authorityKeyIdentifier"
)

var extensionOIDs = map[ExtensionName]asn1.ObjectIdentifier{
	ExtensionSubjectKeyIdentifier:   {2, 5, 29, 14},
	ExtensionKeyUsage:               {2, 5, 29, 15},
	ExtensionSubjectAltName:         {2, 5, 29, 17},
	ExtensionBasicConstraints:       {2, 5, 29, 19},
	ExtensionAuthorityKeyIdentifier: {2, 5, 29, 35},
	ExtensionExtKeyUsage:            {2, 5, 29, 37},
}

// BasicConstraints is the decoded basicConstraints extension. MaxPathLen is
// -1 when no path length constraint is present.
type BasicConstraints struct {
	IsCA       bool
	MaxPathLen int
}

// HasExtension reports whether the certificate carries the extension
func HasExtension(cert *x509.Certificate, name ExtensionName) bool {
	oid, ok := extensionOIDs[name]
	if !ok || cert == nil {
		return false
	}
	for _, ext := range cert.Extensions {
		if ext.Id.Equal(oid) {
			return true
		}
	}
	return false
}

// ExtensionValue returns the decoded value of a named extension:
//
//	subjectAltName          []string (DNS names)
//	basicConstraints        BasicConstraints
//	keyUsage                x509.KeyUsage
//	extKeyUsage             []x509.ExtKeyUsage
//	subjectKeyIdentifier    []byte
//	authorityKeyIdentifier  []byte
//
// The second result is false when the certificate does not carry the
// extension. A missing extension is not an error here; deciding whether it is
// acceptable is up to the caller.
func ExtensionValue(cert *x509.Certificate, name ExtensionName) (interface{}, bool) {
	if !HasExtension(cert, name) {
		return nil, false
	}

	switch name {
	case ExtensionSubjectAltName:
		return append([]string{}, cert.DNSNames...), true
	case ExtensionBasicConstraints:
		bc := BasicConstraints{IsCA: cert.IsCA, MaxPathLen: cert.MaxPathLen}
		if !cert.IsCA || (cert.MaxPathLen == 0 && !cert.MaxPathLenZero) {
			bc.MaxPathLen = -1
		}
		return bc, true
	case ExtensionKeyUsage:
		return cert.KeyUsage, true
	case ExtensionExtKeyUsage:
		return append([]x509.ExtKeyUsage{}, cert.ExtKeyUsage...), true
	case ExtensionSubjectKeyIdentifier:
		return append([]byte{}, cert.SubjectKeyId...), true
	case ExtensionAuthorityKeyIdentifier:
		return append([]byte{}, cert.AuthorityKeyId...), true
	}
	return nil, false
}

// SubjectAltNames returns the DNS subject alternative names of the
// certificate, and false when it has no subjectAltName extension
func SubjectAltNames(cert *x509.Certificate) ([]string, bool) {
	value, ok := ExtensionValue(cert, ExtensionSubjectAltName)
	if !ok {
		return nil, false
	}
	return value.([]string), true
}
