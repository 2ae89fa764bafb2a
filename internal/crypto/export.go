package crypto

import (
	"crypto/x509"
	"fmt"
	"strings"

	"software.sslmate.com/src/go-pkcs12"
)

// ExportPEM concatenates a certificate, its issuer chain (closest issuer
// first) and its private key into one PEM file
func ExportPEM(certPEM, keyPEM string, chainPEMs ...string) string {
	var b strings.Builder
	b.WriteString(certPEM)
	for _, caPEM := range chainPEMs {
		b.WriteString(caPEM)
	}
	b.WriteString(keyPEM)
	return b.String()
}

// ExportPKCS12 exports a certificate and private key as a PKCS#12 keystore
func ExportPKCS12(cert *x509.Certificate, privateKey interface{}, password string, caCerts ...*x509.Certificate) ([]byte, error) {
	return exportPKCS12(pkcs12.Modern2023, cert, privateKey, password, caCerts)
}

// ExportPKCS12Legacy exports using legacy encryption for compatibility with
// older MQ clients and JREs
func ExportPKCS12Legacy(cert *x509.Certificate, privateKey interface{}, password string, caCerts ...*x509.Certificate) ([]byte, error) {
	return exportPKCS12(pkcs12.LegacyDES, cert, privateKey, password, caCerts)
}

func exportPKCS12(encoder *pkcs12.Encoder, cert *x509.Certificate, privateKey interface{}, password string, caCerts []*x509.Certificate) ([]byte, error) {
	if cert == nil {
		return nil, fmt.Errorf("%w: no certificate to export", ErrEncoding)
	}
	if !VerifyKeyPair(cert, privateKey) {
		return nil, fmt.Errorf("%w: private key does not match certificate", ErrEncoding)
	}

	pfxData, err := encoder.Encode(privateKey, cert, caCerts, password)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode PKCS#12: %w", ErrEncoding, err)
	}
	return pfxData, nil
}

// ExportTrustStore exports CA certificates as a PKCS#12 truststore without
// any private key
func ExportTrustStore(caCerts []*x509.Certificate, password string, legacy bool) ([]byte, error) {
	if len(caCerts) == 0 {
		return nil, fmt.Errorf("%w: no CA certificate to export", ErrEncoding)
	}

	encoder := pkcs12.Modern2023
	if legacy {
		encoder = pkcs12.LegacyDES
	}

	pfxData, err := encoder.EncodeTrustStore(caCerts, password)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode PKCS#12 truststore: %w", ErrEncoding, err)
	}
	return pfxData, nil
}
