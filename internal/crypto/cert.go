package crypto

import (
	"context"
	"crypto/rsa"
	"fmt"
	"strings"
)

// LeafRequest represents a request to issue a leaf certificate
type LeafRequest struct {
	CommonName   string
	SANs         []string // DNS names
	Subject      DistinguishedName
	ValidityDays int
}

// IssuedCertificate contains a leaf certificate and its private key
type IssuedCertificate struct {
	Certificate *LeafCertificate
	PrivateKey  *rsa.PrivateKey
}

// IssueLeaf generates a new key and a certificate for it signed by ca
func IssueLeaf(ctx context.Context, req *LeafRequest, ca *CertificateAuthority, keys *KeyGenerator) (*IssuedCertificate, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: missing leaf request", ErrCertificateBuild)
	}
	if strings.TrimSpace(req.CommonName) == "" {
		return nil, fmt.Errorf("%w: common name is required", ErrCertificateBuild)
	}
	if err := checkDNSNames(req.SANs); err != nil {
		return nil, err
	}
	if _, _, err := validityWindow(currentTime(), req.ValidityDays); err != nil {
		return nil, err
	}
	if err := ca.checkSigner(); err != nil {
		return nil, err
	}

	keyPair, err := keys.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key for %q: %w", req.CommonName, err)
	}

	serialNumber, err := generateSerialNumber()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	caCert := ca.Certificate.x509
	profile, err := newLeafProfile(serialNumber, req.Subject.Name(req.CommonName), req.SANs,
		req.ValidityDays, keyPair.Public, caCert)
	if err != nil {
		return nil, err
	}

	cert, err := signProfile(profile, caCert, keyPair.Public, ca.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign certificate for %q: %w", req.CommonName, err)
	}

	if err := cert.CheckSignatureFrom(caCert); err != nil {
		return nil, fmt.Errorf("%w: certificate for %q does not verify under the CA: %w",
			ErrSigning, req.CommonName, err)
	}

	return &IssuedCertificate{
		Certificate: &LeafCertificate{signedCertificate{x509: cert}},
		PrivateKey:  keyPair.Private,
	}, nil
}
