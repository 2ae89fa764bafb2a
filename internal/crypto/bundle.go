package crypto

import (
	"context"
	"fmt"
	"strings"
)

// BundleRequest holds the inputs of one issuance session
type BundleRequest struct {
	QueueManagerName string
	Namespace        string
	CAValidityDays   int
	CertValidityDays int
	Subject          DistinguishedName
}

// TLSBundle is the PEM material of one issuance session. All five fields are
// always set together.
type TLSBundle struct {
	CA         string `json:"ca" yaml:"ca"`
	ServerCert string `json:"cert" yaml:"cert"`
	ServerKey  string `json:"key" yaml:"key"`
	HACert     string `json:"haCert" yaml:"haCert"`
	HAKey      string `json:"haKey" yaml:"haKey"`
}

// GenerateTLSBundle creates a root CA for the namespace and uses it to issue
// the server and HA certificates of the queue manager. Either every artifact
// is returned or an error is; the CA key never leaves this function.
func GenerateTLSBundle(ctx context.Context, req *BundleRequest, keys *KeyGenerator) (*TLSBundle, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: missing bundle request", ErrCertificateBuild)
	}
	if strings.TrimSpace(req.QueueManagerName) == "" {
		return nil, fmt.Errorf("%w: queue manager name is required", ErrCertificateBuild)
	}
	if req.CertValidityDays < 1 {
		return nil, fmt.Errorf("%w: certificate validity must be at least one day, got %d",
			ErrCertificateBuild, req.CertValidityDays)
	}

	ca, err := BuildCA(ctx, &CARequest{
		Namespace:    req.Namespace,
		Subject:      req.Subject,
		ValidityDays: req.CAValidityDays,
	}, keys)
	if err != nil {
		return nil, err
	}

	server, err := IssueLeaf(ctx,
		ServerIdentity(req.QueueManagerName, req.Namespace).LeafRequest(req.Subject, req.CertValidityDays),
		ca, keys)
	if err != nil {
		return nil, err
	}

	ha, err := IssueLeaf(ctx,
		HAIdentity(req.QueueManagerName, req.Namespace).LeafRequest(req.Subject, req.CertValidityDays),
		ca, keys)
	if err != nil {
		return nil, err
	}

	return &TLSBundle{
		CA:         ca.Certificate.PEM(),
		ServerCert: server.Certificate.PEM(),
		ServerKey:  EncodePrivateKey(server.PrivateKey),
		HACert:     ha.Certificate.PEM(),
		HAKey:      EncodePrivateKey(ha.PrivateKey),
	}, nil
}
