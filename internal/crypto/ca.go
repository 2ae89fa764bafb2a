package crypto

import (
	"context"
	"crypto/rsa"
	"fmt"
	"strings"
)

// CARequest represents a request to create the root CA of a bundle
type CARequest struct {
	Namespace    string
	Subject      DistinguishedName
	ValidityDays int
}

// CertificateAuthority contains the generated CA certificate and private key.
// The key is only needed while leaves are being signed.
type CertificateAuthority struct {
	Certificate *CACertificate
	PrivateKey  *rsa.PrivateKey
}

// CACommonName returns the common name of the CA for a namespace
func CACommonName(namespace string) string {
	return "mq-ca." + namespace + ".svc.cluster.local"
}

// BuildCA generates a self-signed root CA for the namespace
func BuildCA(ctx context.Context, req *CARequest, keys *KeyGenerator) (*CertificateAuthority, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: missing CA request", ErrCertificateBuild)
	}
	if strings.TrimSpace(req.Namespace) == "" {
		return nil, fmt.Errorf("%w: namespace is required", ErrCertificateBuild)
	}
	// reject bad input before spending time on a key
	if _, _, err := validityWindow(currentTime(), req.ValidityDays); err != nil {
		return nil, err
	}

	keyPair, err := keys.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CA key: %w", err)
	}

	serialNumber, err := generateSerialNumber()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	profile, err := newCAProfile(serialNumber, req.Subject.Name(CACommonName(req.Namespace)),
		req.ValidityDays, keyPair.Public)
	if err != nil {
		return nil, err
	}

	cert, err := signProfile(profile, nil, keyPair.Public, keyPair.Private)
	if err != nil {
		return nil, fmt.Errorf("failed to self-sign CA certificate: %w", err)
	}

	if err := cert.CheckSignatureFrom(cert); err != nil {
		return nil, fmt.Errorf("%w: CA signature does not verify under its own key: %w", ErrSigning, err)
	}

	return &CertificateAuthority{
		Certificate: &CACertificate{signedCertificate{x509: cert}},
		PrivateKey:  keyPair.Private,
	}, nil
}

// checkSigner verifies that ca can sign leaves: it is a CA with a subject key
// identifier and its private key belongs to its certificate
func (ca *CertificateAuthority) checkSigner() error {
	if ca == nil || ca.Certificate == nil || ca.Certificate.x509 == nil {
		return fmt.Errorf("%w: certificate authority has no certificate", ErrSigning)
	}
	if ca.PrivateKey == nil {
		return fmt.Errorf("%w: certificate authority has no private key", ErrSigning)
	}

	cert := ca.Certificate.x509
	if !cert.BasicConstraintsValid || !cert.IsCA {
		return fmt.Errorf("%w: certificate %q is not a CA certificate", ErrSigning, cert.Subject.CommonName)
	}
	if len(cert.SubjectKeyId) == 0 {
		return fmt.Errorf("%w: CA certificate has no subject key identifier", ErrSigning)
	}
	if !VerifyKeyPair(cert, ca.PrivateKey) {
		return fmt.Errorf("%w: private key does not match CA certificate", ErrSigning)
	}
	return nil
}
