package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/validation"
)

// signatureAlgorithm is used for the CA and every leaf it signs
const signatureAlgorithm = x509.SHA256WithRSA

// caMaxPathLen allows one level of intermediate below the root
const caMaxPathLen = 1

// currentTime returns the current local time. It is a variable so it can be
// replaced during testing.
var currentTime = time.Now

// certificateProfile is the complete, validated description of a certificate
// before it is signed. It is built once by newCAProfile or newLeafProfile and
// never modified afterwards.
type certificateProfile struct {
	serial         *big.Int
	subject        pkix.Name
	notBefore      time.Time
	notAfter       time.Time
	isCA           bool
	keyUsage       x509.KeyUsage
	extKeyUsage    []x509.ExtKeyUsage
	dnsNames       []string
	subjectKeyID   []byte
	authorityKeyID []byte
}

// validityWindow returns [now, now + days) using calendar day arithmetic
func validityWindow(now time.Time, days int) (time.Time, time.Time, error) {
	if days < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: validity must be at least one day, got %d",
			ErrCertificateBuild, days)
	}
	return now, now.AddDate(0, 0, days), nil
}

func newCAProfile(serial *big.Int, subject pkix.Name, validityDays int, pub *rsa.PublicKey) (certificateProfile, error) {
	notBefore, notAfter, err := validityWindow(currentTime(), validityDays)
	if err != nil {
		return certificateProfile{}, err
	}

	ski, err := subjectKeyID(pub)
	if err != nil {
		return certificateProfile{}, fmt.Errorf("%w: subject key identifier: %w", ErrCertificateBuild, err)
	}

	return certificateProfile{
		serial:       serial,
		subject:      subject,
		notBefore:    notBefore,
		notAfter:     notAfter,
		isCA:         true,
		keyUsage:     x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		subjectKeyID: ski,
	}, nil
}

func newLeafProfile(serial *big.Int, subject pkix.Name, dnsNames []string, validityDays int,
	pub *rsa.PublicKey, issuer *x509.Certificate) (certificateProfile, error) {
	if err := checkDNSNames(dnsNames); err != nil {
		return certificateProfile{}, err
	}

	notBefore, notAfter, err := validityWindow(currentTime(), validityDays)
	if err != nil {
		return certificateProfile{}, err
	}

	ski, err := subjectKeyID(pub)
	if err != nil {
		return certificateProfile{}, fmt.Errorf("%w: subject key identifier: %w", ErrCertificateBuild, err)
	}

	return certificateProfile{
		serial:         serial,
		subject:        subject,
		notBefore:      notBefore,
		notAfter:       notAfter,
		keyUsage:       x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		extKeyUsage:    []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		dnsNames:       append([]string(nil), dnsNames...),
		subjectKeyID:   ski,
		authorityKeyID: append([]byte(nil), issuer.SubjectKeyId...),
	}, nil
}

func checkDNSNames(dnsNames []string) error {
	if len(dnsNames) == 0 {
		return fmt.Errorf("%w: at least one subject alternative name is required", ErrCertificateBuild)
	}
	for i, name := range dnsNames {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: subject alternative name %d is empty", ErrCertificateBuild, i)
		}
		// DNS names are case insensitive; the checker only accepts lower case
		if errs := validation.IsDNS1123Subdomain(strings.ToLower(name)); len(errs) > 0 {
			return fmt.Errorf("%w: subject alternative name %q is not a DNS name: %s",
				ErrCertificateBuild, name, strings.Join(errs, "; "))
		}
	}
	return nil
}

// template returns a fresh x509 template for the profile
func (p certificateProfile) template() *x509.Certificate {
	tmpl := &x509.Certificate{
		SerialNumber:          new(big.Int).Set(p.serial),
		Subject:               p.subject,
		NotBefore:             p.notBefore,
		NotAfter:              p.notAfter,
		KeyUsage:              p.keyUsage,
		ExtKeyUsage:           append([]x509.ExtKeyUsage(nil), p.extKeyUsage...),
		BasicConstraintsValid: true,
		IsCA:                  p.isCA,
		DNSNames:              append([]string(nil), p.dnsNames...),
		SubjectKeyId:          append([]byte(nil), p.subjectKeyID...),
		AuthorityKeyId:        append([]byte(nil), p.authorityKeyID...),
		SignatureAlgorithm:    signatureAlgorithm,
	}
	if p.isCA {
		tmpl.MaxPathLen = caMaxPathLen
	}
	return tmpl
}

// signProfile signs p and returns the parsed result. A nil parent makes the
// certificate self-signed. The issuer name is taken from the parent's raw
// subject, so a parsed CA certificate is copied verbatim.
func signProfile(p certificateProfile, parent *x509.Certificate, pub *rsa.PublicKey, signer *rsa.PrivateKey) (*x509.Certificate, error) {
	tmpl := p.template()
	if parent == nil {
		parent = tmpl
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, pub, signer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse signed certificate: %w", ErrEncoding, err)
	}

	return cert, nil
}
