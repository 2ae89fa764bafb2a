package service

import "github.com/robcowart/mqha/internal/crypto"

// Artifact file names of a TLS bundle
const (
	ArtifactCA         = "ca.pem"
	ArtifactServerCert = "qmgr.pem"
	ArtifactServerKey  = "qmgr.key"
	ArtifactHACert     = "ha.pem"
	ArtifactHAKey      = "ha.key"
)

// Artifact is one downloadable file of a TLS bundle
type Artifact struct {
	Name    string
	Content string
	Private bool
}

// Artifacts returns the files of bundle in a fixed order
func Artifacts(bundle *crypto.TLSBundle) []Artifact {
	if bundle == nil {
		return nil
	}
	return []Artifact{
		{Name: ArtifactCA, Content: bundle.CA},
		{Name: ArtifactServerCert, Content: bundle.ServerCert},
		{Name: ArtifactServerKey, Content: bundle.ServerKey, Private: true},
		{Name: ArtifactHACert, Content: bundle.HACert},
		{Name: ArtifactHAKey, Content: bundle.HAKey, Private: true},
	}
}

// artifactContent returns the content of the named artifact
func artifactContent(bundle *crypto.TLSBundle, name string) (string, bool) {
	for _, a := range Artifacts(bundle) {
		if a.Name == name {
			return a.Content, true
		}
	}
	return "", false
}
