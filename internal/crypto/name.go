package crypto

import "crypto/x509/pkix"

// DistinguishedName holds the organizational attributes shared by the CA and
// every leaf it issues. The common name is supplied per subject.
type DistinguishedName struct {
	Country            string
	Province           string
	Locality           string
	Organization       string
	OrganizationalUnit string
}

// DefaultDistinguishedName returns the organizational attributes used when
// the configuration does not set any
func DefaultDistinguishedName() DistinguishedName {
	return DistinguishedName{
		Country:            "US",
		Province:           "California",
		Locality:           "San Francisco",
		Organization:       "IBM MQ Native HA Wizard",
		OrganizationalUnit: "Development",
	}
}

// Name returns the subject for commonName. The encoded RDN sequence is
// C, ST, L, O, OU, CN; empty attributes are left out.
func (dn DistinguishedName) Name(commonName string) pkix.Name {
	name := pkix.Name{CommonName: commonName}
	if dn.Country != "" {
		name.Country = []string{dn.Country}
	}
	if dn.Province != "" {
		name.Province = []string{dn.Province}
	}
	if dn.Locality != "" {
		name.Locality = []string{dn.Locality}
	}
	if dn.Organization != "" {
		name.Organization = []string{dn.Organization}
	}
	if dn.OrganizationalUnit != "" {
		name.OrganizationalUnit = []string{dn.OrganizationalUnit}
	}
	return name
}
