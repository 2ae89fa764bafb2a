package service

import (
	"archive/zip"
	"bytes"
	"crypto/x509"
	"errors"
	"fmt"
	"strings"

	"github.com/robcowart/mqha/internal/crypto"
	"github.com/robcowart/mqha/internal/manifest"
	"github.com/robcowart/mqha/internal/models"
)

// Export formats
const (
	FormatPEM        = "pem"
	FormatBundle     = "bundle"
	FormatPKCS12     = "pkcs12"
	FormatTrustStore = "truststore"
	FormatZIP        = "zip"
)

// ErrUnsupportedExport is returned for an unknown format or an artifact the
// format cannot be applied to
var ErrUnsupportedExport = errors.New("unsupported export")

// ExportRequest represents a request to export bundle material
type ExportRequest struct {
	Artifact string `json:"artifact"`
	Format   string `json:"format"`
	Password string `json:"password"`
	Legacy   bool   `json:"legacy"`
}

// ExportResult is one downloadable file
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Export renders the TLS bundle of mq in the requested format. pem returns
// one artifact as is, bundle and pkcs12 combine a leaf certificate with its
// key and the CA, truststore holds the CA only and zip holds every artifact.
func Export(mq *models.MQConfig, req *ExportRequest) (*ExportResult, error) {
	if mq == nil || mq.TLS == nil {
		return nil, manifest.ErrMissingTLS
	}
	bundle := mq.TLS

	switch strings.ToLower(req.Format) {
	case FormatPEM, "":
		content, ok := artifactContent(bundle, req.Artifact)
		if !ok {
			return nil, fmt.Errorf("%w: unknown artifact %q", ErrUnsupportedExport, req.Artifact)
		}
		contentType := "application/x-pem-file"
		if strings.HasSuffix(req.Artifact, ".key") {
			contentType = "application/octet-stream"
		}
		return &ExportResult{Filename: req.Artifact, ContentType: contentType, Data: []byte(content)}, nil

	case FormatBundle:
		certPEM, keyPEM, err := leafPair(bundle, req.Artifact)
		if err != nil {
			return nil, err
		}
		return &ExportResult{
			Filename:    baseName(req.Artifact) + "-bundle.pem",
			ContentType: "application/x-pem-file",
			Data:        []byte(crypto.ExportPEM(certPEM, keyPEM, bundle.CA)),
		}, nil

	case FormatPKCS12, "pfx", "p12":
		certPEM, keyPEM, err := leafPair(bundle, req.Artifact)
		if err != nil {
			return nil, err
		}
		cert, err := crypto.DecodeCertificate(certPEM)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate: %w", err)
		}
		key, err := crypto.DecodePrivateKey(keyPEM)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		caCert, err := crypto.DecodeCertificate(bundle.CA)
		if err != nil {
			return nil, fmt.Errorf("failed to parse CA certificate: %w", err)
		}

		var pfxData []byte
		if req.Legacy {
			pfxData, err = crypto.ExportPKCS12Legacy(cert, key, req.Password, caCert)
		} else {
			pfxData, err = crypto.ExportPKCS12(cert, key, req.Password, caCert)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to export PKCS12: %w", err)
		}
		return &ExportResult{
			Filename:    baseName(req.Artifact) + ".p12",
			ContentType: "application/x-pkcs12",
			Data:        pfxData,
		}, nil

	case FormatTrustStore:
		caCert, err := crypto.DecodeCertificate(bundle.CA)
		if err != nil {
			return nil, fmt.Errorf("failed to parse CA certificate: %w", err)
		}
		data, err := crypto.ExportTrustStore([]*x509.Certificate{caCert}, req.Password, req.Legacy)
		if err != nil {
			return nil, fmt.Errorf("failed to export truststore: %w", err)
		}
		return &ExportResult{Filename: "truststore.p12", ContentType: "application/x-pkcs12", Data: data}, nil

	case FormatZIP:
		data, err := createZIPWithFiles(Artifacts(bundle))
		if err != nil {
			return nil, fmt.Errorf("failed to create ZIP archive: %w", err)
		}
		return &ExportResult{
			Filename:    strings.ToLower(mq.QueueManagerName) + "-tls.zip",
			ContentType: "application/zip",
			Data:        data,
		}, nil

	default:
		return nil, fmt.Errorf("%w: format %q", ErrUnsupportedExport, req.Format)
	}
}

// leafPair returns the certificate and key PEM of the leaf an artifact
// belongs to. Either the certificate or the key file name selects the leaf.
func leafPair(bundle *crypto.TLSBundle, artifact string) (string, string, error) {
	switch artifact {
	case ArtifactServerCert, ArtifactServerKey:
		return bundle.ServerCert, bundle.ServerKey, nil
	case ArtifactHACert, ArtifactHAKey:
		return bundle.HACert, bundle.HAKey, nil
	default:
		return "", "", fmt.Errorf("%w: %q is not a leaf certificate or key", ErrUnsupportedExport, artifact)
	}
}

func baseName(artifact string) string {
	if i := strings.LastIndexByte(artifact, '.'); i > 0 {
		return artifact[:i]
	}
	return artifact
}

// createZIPWithFiles creates a ZIP archive containing the artifacts in order
func createZIPWithFiles(files []Artifact) ([]byte, error) {
	buf := new(bytes.Buffer)
	zipWriter := zip.NewWriter(buf)

	for _, file := range files {
		header := &zip.FileHeader{Name: file.Name, Method: zip.Deflate}
		if file.Private {
			header.SetMode(0o600)
		} else {
			header.SetMode(0o644)
		}

		fileWriter, err := zipWriter.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create file in ZIP: %w", err)
		}

		_, err = fileWriter.Write([]byte(file.Content))
		if err != nil {
			return nil, fmt.Errorf("failed to write file content: %w", err)
		}
	}

	err := zipWriter.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to close ZIP writer: %w", err)
	}

	return buf.Bytes(), nil
}
