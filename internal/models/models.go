// Package models defines the deployment description a TLS bundle and its
// Kubernetes manifests are generated from. It carries the values a user
// chooses for one queue manager and the validation rules those values must
// satisfy before anything is issued.
package models

import (
	"errors"
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/robcowart/mqha/internal/config"
	"github.com/robcowart/mqha/internal/crypto"
)

// ErrInvalidConfig is returned when a deployment description fails validation
var ErrInvalidConfig = errors.New("invalid deployment configuration")

// Availability is the deployment topology of a queue manager
type Availability string

const (
	AvailabilitySingleInstance Availability = "SingleInstance"
	AvailabilityNativeHA       Availability = "NativeHA"
)

// LicenseUse is the license usage declared on the QueueManager resource
type LicenseUse string

const (
	LicenseProduction    LicenseUse = "Production"
	LicenseNonProduction LicenseUse = "NonProduction"
)

// maxQueueManagerNameLength is the MQ limit on queue manager names
const maxQueueManagerNameLength = 48

// SupportedCipherSpecs lists the MQ cipher specs offered for channels and HA
// replication
var SupportedCipherSpecs = []string{
	"ANY_TLS12_OR_HIGHER",
	"TLS_AES_256_GCM_SHA384",
	"TLS_AES_128_GCM_SHA256",
	"TLS_CHACHA20_POLY1305_SHA256",
	"TLS_RSA_WITH_AES_256_GCM_SHA384",
	"TLS_RSA_WITH_AES_128_GCM_SHA256",
}

// MQConfig describes one queue manager deployment
type MQConfig struct {
	QueueManagerName  string            `json:"queueManagerName" yaml:"queueManagerName"`
	Namespace         string            `json:"namespace" yaml:"namespace"`
	Availability      Availability      `json:"availability" yaml:"availability"`
	StorageClassName  string            `json:"storageClassName" yaml:"storageClassName"`
	LicenseUse        LicenseUse        `json:"licenseUse" yaml:"licenseUse"`
	CAValidityDays    int               `json:"caValidityDays" yaml:"caValidityDays"`
	CertValidityDays  int               `json:"certValidityDays" yaml:"certValidityDays"`
	HACipherSpec      string            `json:"haCipherSpec" yaml:"haCipherSpec"`
	ChannelName       string            `json:"channelName" yaml:"channelName"`
	CreateSampleQueue bool              `json:"createSampleQueue" yaml:"createSampleQueue"`
	SampleQueueName   string            `json:"sampleQueueName" yaml:"sampleQueueName"`
	CreateAdminQueue  bool              `json:"createAdminQueue" yaml:"createAdminQueue"`
	AdminQueueName    string            `json:"adminQueueName" yaml:"adminQueueName"`
	TLS               *crypto.TLSBundle `json:"tls,omitempty" yaml:"tls,omitempty"`
}

// DefaultMQConfig returns the initial deployment description from the
// configured wizard defaults
func DefaultMQConfig(w config.WizardConfig) MQConfig {
	return MQConfig{
		QueueManagerName:  w.QueueManagerName,
		Namespace:         w.Namespace,
		Availability:      Availability(w.Availability),
		StorageClassName:  w.StorageClassName,
		LicenseUse:        LicenseUse(w.LicenseUse),
		CAValidityDays:    w.CAValidityDays,
		CertValidityDays:  w.CertValidityDays,
		HACipherSpec:      w.HACipherSpec,
		ChannelName:       w.ChannelName,
		CreateSampleQueue: w.CreateSampleQueue,
		SampleQueueName:   w.SampleQueueName,
		CreateAdminQueue:  w.CreateAdminQueue,
		AdminQueueName:    w.AdminQueueName,
	}
}

// Validate checks the deployment description. It does not look at TLS.
func (c *MQConfig) Validate() error {
	name := c.QueueManagerName
	if name == "" {
		return fmt.Errorf("%w: queue manager name is required", ErrInvalidConfig)
	}
	if len(name) > maxQueueManagerNameLength {
		return fmt.Errorf("%w: invalid queue manager name %q: longer than %d characters",
			ErrInvalidConfig, name, maxQueueManagerNameLength)
	}
	// The name becomes a DNS label in the certificates and Kubernetes object names
	if errs := validation.IsDNS1123Label(strings.ToLower(name)); len(errs) > 0 {
		return fmt.Errorf("%w: invalid queue manager name %q: %s", ErrInvalidConfig, name, strings.Join(errs, "; "))
	}

	if c.Namespace == "" {
		return fmt.Errorf("%w: namespace is required", ErrInvalidConfig)
	}
	if errs := validation.IsDNS1123Label(c.Namespace); len(errs) > 0 {
		return fmt.Errorf("%w: invalid namespace %q: %s", ErrInvalidConfig, c.Namespace, strings.Join(errs, "; "))
	}

	switch c.Availability {
	case AvailabilitySingleInstance, AvailabilityNativeHA:
	default:
		return fmt.Errorf("%w: availability must be %s or %s, got %q", ErrInvalidConfig,
			AvailabilitySingleInstance, AvailabilityNativeHA, c.Availability)
	}

	switch c.LicenseUse {
	case LicenseProduction, LicenseNonProduction:
	default:
		return fmt.Errorf("%w: license use must be %s or %s, got %q", ErrInvalidConfig,
			LicenseProduction, LicenseNonProduction, c.LicenseUse)
	}

	if c.StorageClassName == "" {
		return fmt.Errorf("%w: storage class name is required", ErrInvalidConfig)
	}
	if c.ChannelName == "" {
		return fmt.Errorf("%w: channel name is required", ErrInvalidConfig)
	}
	if !IsSupportedCipherSpec(c.HACipherSpec) {
		return fmt.Errorf("%w: unsupported cipher spec %q", ErrInvalidConfig, c.HACipherSpec)
	}

	if c.CreateSampleQueue && c.SampleQueueName == "" {
		return fmt.Errorf("%w: sample queue name is required when the sample queue is enabled", ErrInvalidConfig)
	}
	if c.CreateAdminQueue && c.AdminQueueName == "" {
		return fmt.Errorf("%w: admin queue name is required when the admin queue is enabled", ErrInvalidConfig)
	}

	if c.CAValidityDays <= 0 {
		return fmt.Errorf("%w: CA validity must be a positive number of days", ErrInvalidConfig)
	}
	if c.CertValidityDays <= 0 {
		return fmt.Errorf("%w: certificate validity must be a positive number of days", ErrInvalidConfig)
	}

	return nil
}

// IsNativeHA reports whether the deployment replicates with Native HA
func (c *MQConfig) IsNativeHA() bool {
	return c.Availability == AvailabilityNativeHA
}

// BundleRequest returns the issuance request for this deployment
func (c *MQConfig) BundleRequest(subject crypto.DistinguishedName) *crypto.BundleRequest {
	return &crypto.BundleRequest{
		QueueManagerName: c.QueueManagerName,
		Namespace:        c.Namespace,
		CAValidityDays:   c.CAValidityDays,
		CertValidityDays: c.CertValidityDays,
		Subject:          subject,
	}
}

// IsSupportedCipherSpec reports whether spec is one of SupportedCipherSpecs
func IsSupportedCipherSpec(spec string) bool {
	for _, s := range SupportedCipherSpecs {
		if s == spec {
			return true
		}
	}
	return false
}
