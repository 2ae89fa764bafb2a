package service

import (
	"crypto/x509"
	"fmt"
	"slices"

	"github.com/robcowart/mqha/internal/crypto"
	"github.com/robcowart/mqha/internal/models"
)

// Checks reported by VerifyBundle
const (
	CheckPresent  = "present"
	CheckParse    = "parse"
	CheckCA       = "ca"
	CheckSAN      = "san"
	CheckSANName  = "san-dns-name"
	CheckChain    = "chain"
	CheckKeyMatch = "key-match"
)

const regenerateAdvice = "Regenerating the TLS bundle may resolve this."

// ValidationIssue describes one problem found in a TLS bundle
type ValidationIssue struct {
	Artifact string `json:"artifact"`
	Check    string `json:"check"`
	Message  string `json:"message"`
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Artifact, i.Check, i.Message)
}

// VerifyBundle re-parses the PEM material of bundle and checks it against the
// deployment. HA artifacts are only checked for Native HA deployments. A nil
// or empty result means the bundle is usable.
func VerifyBundle(mq *models.MQConfig, bundle *crypto.TLSBundle) []ValidationIssue {
	if bundle == nil {
		return []ValidationIssue{{
			Artifact: "tls",
			Check:    CheckPresent,
			Message:  "TLS data has not been generated. " + regenerateAdvice,
		}}
	}

	var issues []ValidationIssue

	caCert, err := crypto.DecodeCertificate(bundle.CA)
	if err != nil {
		issues = append(issues, malformedCertificate(ArtifactCA, "Root CA Certificate"))
	} else if !caCert.IsCA {
		issues = append(issues, ValidationIssue{
			Artifact: ArtifactCA,
			Check:    CheckCA,
			Message:  "The Root CA Certificate (ca.pem) is not a CA certificate. " + regenerateAdvice,
		})
		caCert = nil
	}

	server := crypto.ServerIdentity(mq.QueueManagerName, mq.Namespace)
	issues = append(issues, verifyLeaf(leafArtifacts{
		label:    "Queue Manager",
		certName: ArtifactServerCert,
		keyName:  ArtifactServerKey,
		certPEM:  bundle.ServerCert,
		keyPEM:   bundle.ServerKey,
		expected: server.CommonName,
	}, caCert)...)

	if mq.IsNativeHA() {
		ha := crypto.HAIdentity(mq.QueueManagerName, mq.Namespace)
		issues = append(issues, verifyLeaf(leafArtifacts{
			label:    "Native HA",
			certName: ArtifactHACert,
			keyName:  ArtifactHAKey,
			certPEM:  bundle.HACert,
			keyPEM:   bundle.HAKey,
			expected: ha.CommonName,
		}, caCert)...)
	}

	return issues
}

type leafArtifacts struct {
	label    string
	certName string
	keyName  string
	certPEM  string
	keyPEM   string
	expected string
}

// verifyLeaf checks one certificate and its key. caCert is nil when the CA
// could not be used, in which case the chain is not checked.
func verifyLeaf(a leafArtifacts, caCert *x509.Certificate) []ValidationIssue {
	var issues []ValidationIssue

	cert, err := crypto.DecodeCertificate(a.certPEM)
	if err != nil {
		issues = append(issues, malformedCertificate(a.certName, a.label+" Certificate"))
	} else {
		sans, ok := crypto.SubjectAltNames(cert)
		switch {
		case !ok:
			issues = append(issues, ValidationIssue{
				Artifact: a.certName,
				Check:    CheckSAN,
				Message: fmt.Sprintf("The %s Certificate is missing the required Subject Alternative Name (SAN) extension. "+
					"This is needed for service identification. %s", a.label, regenerateAdvice),
			})
		case !slices.Contains(sans, a.expected):
			issues = append(issues, ValidationIssue{
				Artifact: a.certName,
				Check:    CheckSANName,
				Message: fmt.Sprintf("The %s Certificate's SAN is missing the expected DNS name: '%s'. "+
					"Verify the Queue Manager Name and Namespace. %s", a.label, a.expected, regenerateAdvice),
			})
		}

		if caCert != nil {
			if err := cert.CheckSignatureFrom(caCert); err != nil {
				issues = append(issues, ValidationIssue{
					Artifact: a.certName,
					Check:    CheckChain,
					Message: fmt.Sprintf("The %s Certificate (%s) was not signed by the Root CA Certificate (ca.pem). %s",
						a.label, a.certName, regenerateAdvice),
				})
			}
		}
	}

	key, err := crypto.DecodePrivateKey(a.keyPEM)
	if err != nil {
		issues = append(issues, ValidationIssue{
			Artifact: a.keyName,
			Check:    CheckParse,
			Message: fmt.Sprintf("The %s Private Key (%s) appears to be malformed. "+
				"Please ensure it is a valid PEM-encoded private key. %s", a.label, a.keyName, regenerateAdvice),
		})
	} else if cert != nil && !crypto.VerifyKeyPair(cert, key) {
		issues = append(issues, ValidationIssue{
			Artifact: a.keyName,
			Check:    CheckKeyMatch,
			Message: fmt.Sprintf("The %s Private Key (%s) does not belong to the %s Certificate (%s). %s",
				a.label, a.keyName, a.label, a.certName, regenerateAdvice),
		})
	}

	return issues
}

func malformedCertificate(artifact, label string) ValidationIssue {
	return ValidationIssue{
		Artifact: artifact,
		Check:    CheckParse,
		Message: fmt.Sprintf("The %s (%s) appears to be malformed. "+
			"Please ensure it is a valid PEM-encoded certificate. %s", label, artifact, regenerateAdvice),
	}
}
