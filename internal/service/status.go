package service

import (
	"fmt"
	"time"

	"github.com/robcowart/mqha/internal/crypto"
)

// expiringSoonDays is the window in which a certificate is reported as
// expiring soon
const expiringSoonDays = 30

// CertificateStatus summarizes one certificate of a bundle
type CertificateStatus struct {
	Artifact     string    `json:"artifact"`
	CommonName   string    `json:"common_name"`
	IssuerName   string    `json:"issuer_name"`
	SANs         []string  `json:"sans"`
	SerialNumber string    `json:"serial_number"`
	NotBefore    time.Time `json:"not_before"`
	NotAfter     time.Time `json:"not_after"`
	IsCA         bool      `json:"is_ca"`
	Status       string    `json:"status"`
	DaysUntilExp int       `json:"days_until_exp"`
}

// DescribeBundle decodes the three certificates of bundle and reports their
// status at now
func DescribeBundle(bundle *crypto.TLSBundle, now time.Time) ([]*CertificateStatus, error) {
	if bundle == nil {
		return nil, fmt.Errorf("%w: no bundle", crypto.ErrEncoding)
	}

	result := make([]*CertificateStatus, 0, 3)
	for _, a := range []struct {
		name string
		pem  string
	}{
		{ArtifactCA, bundle.CA},
		{ArtifactServerCert, bundle.ServerCert},
		{ArtifactHACert, bundle.HACert},
	} {
		cert, err := crypto.DecodeCertificate(a.pem)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", a.name, err)
		}

		status := &CertificateStatus{
			Artifact:     a.name,
			CommonName:   cert.Subject.CommonName,
			IssuerName:   cert.Issuer.CommonName,
			SANs:         cert.DNSNames,
			SerialNumber: fmt.Sprintf("%X", cert.SerialNumber),
			NotBefore:    cert.NotBefore,
			NotAfter:     cert.NotAfter,
			IsCA:         cert.IsCA,
		}
		setExpiry(status, now)
		result = append(result, status)
	}

	return result, nil
}

func setExpiry(status *CertificateStatus, now time.Time) {
	switch {
	case now.Before(status.NotBefore):
		status.Status = "not_yet_valid"
		status.DaysUntilExp = int(status.NotAfter.Sub(now).Hours() / 24)
	case now.After(status.NotAfter):
		status.Status = "expired"
		status.DaysUntilExp = 0
	default:
		status.DaysUntilExp = int(status.NotAfter.Sub(now).Hours() / 24)
		if status.DaysUntilExp <= expiringSoonDays {
			status.Status = "expiring_soon"
		} else {
			status.Status = "valid"
		}
	}
}
