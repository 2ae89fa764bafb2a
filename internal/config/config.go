// Package config provides configuration management for the MQ Native HA
// toolkit. It handles loading configuration from YAML files, applying
// environment variable and command line overrides, and validating
// configuration values for server, PKI, wizard defaults, logging, and
// security settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robcowart/mqha/internal/crypto"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	PKI      PKIConfig      `yaml:"pki"`
	Wizard   WizardConfig   `yaml:"wizard"`
	Logging  LoggingConfig  `yaml:"logging"`
	Security SecurityConfig `yaml:"security"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port"`
	Host         string        `yaml:"host"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	TLSEnabled   bool          `yaml:"tls_enabled"`
	TLSCert      string        `yaml:"tls_cert"`
	TLSKey       string        `yaml:"tls_key"`
}

// PKIConfig holds certificate issuance settings
type PKIConfig struct {
	Subject              SubjectConfig `yaml:"subject"`
	KeyGenerationTimeout time.Duration `yaml:"key_generation_timeout"`
	IssuanceTimeout      time.Duration `yaml:"issuance_timeout"`
}

// SubjectConfig holds the organizational attributes of every issued
// certificate subject
type SubjectConfig struct {
	Country            string `yaml:"country"`
	State              string `yaml:"state"`
	Locality           string `yaml:"locality"`
	Organization       string `yaml:"organization"`
	OrganizationalUnit string `yaml:"organizational_unit"`
}

// WizardConfig holds the initial values offered for a new deployment
type WizardConfig struct {
	QueueManagerName  string `yaml:"queue_manager_name"`
	Namespace         string `yaml:"namespace"`
	Availability      string `yaml:"availability"`
	StorageClassName  string `yaml:"storage_class_name"`
	LicenseUse        string `yaml:"license_use"`
	CAValidityDays    int    `yaml:"ca_validity_days"`
	CertValidityDays  int    `yaml:"cert_validity_days"`
	HACipherSpec      string `yaml:"ha_cipher_spec"`
	ChannelName       string `yaml:"channel_name"`
	CreateSampleQueue bool   `yaml:"create_sample_queue"`
	SampleQueueName   string `yaml:"sample_queue_name"`
	CreateAdminQueue  bool   `yaml:"create_admin_queue"`
	AdminQueueName    string `yaml:"admin_queue_name"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	CORSEnabled bool     `yaml:"cors_enabled"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	dn := crypto.DefaultDistinguishedName()
	return &Config{
		Server: ServerConfig{
			Port:         8000,
			Host:         "0.0.0.0",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 2 * time.Minute,
		},
		PKI: PKIConfig{
			Subject: SubjectConfig{
				Country:            dn.Country,
				State:              dn.Province,
				Locality:           dn.Locality,
				Organization:       dn.Organization,
				OrganizationalUnit: dn.OrganizationalUnit,
			},
			KeyGenerationTimeout: crypto.DefaultKeyGenerationTimeout,
			IssuanceTimeout:      90 * time.Second,
		},
		Wizard: WizardConfig{
			QueueManagerName:  "HAQM1",
			Namespace:         "mq",
			Availability:      "NativeHA",
			StorageClassName:  "ocs-storagecluster-cephfs",
			LicenseUse:        "NonProduction",
			CAValidityDays:    3650,
			CertValidityDays:  90,
			HACipherSpec:      "ANY_TLS12_OR_HIGHER",
			ChannelName:       "CLOUD.APP.SVRCONN",
			CreateSampleQueue: true,
			SampleQueueName:   "DEV.QUEUE.1",
			CreateAdminQueue:  false,
			AdminQueueName:    "SYSTEM.ADMIN.COMMAND.QUEUE",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Security: SecurityConfig{
			CORSEnabled: true,
			CORSOrigins: []string{"*"},
		},
	}
}

// Load reads and parses the configuration file, then applies environment
// variable and flag overrides. A missing file yields the defaults.
func Load(path string, flags *Flags) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	if flags != nil {
		cfg.applyFlagOverrides(flags)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies MQHA_* environment variable overrides to the
// configuration. Unparseable values are ignored.
func (c *Config) applyEnvOverrides() {
	// Server overrides
	if port := os.Getenv("MQHA_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if host := os.Getenv("MQHA_SERVER_HOST"); host != "" {
		c.Server.Host = host
	}

	// PKI overrides
	if timeout := os.Getenv("MQHA_PKI_KEY_GENERATION_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.PKI.KeyGenerationTimeout = d
		}
	}
	if timeout := os.Getenv("MQHA_PKI_ISSUANCE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.PKI.IssuanceTimeout = d
		}
	}
	if org := os.Getenv("MQHA_PKI_SUBJECT_ORGANIZATION"); org != "" {
		c.PKI.Subject.Organization = org
	}

	// Wizard overrides
	if qm := os.Getenv("MQHA_WIZARD_QUEUE_MANAGER"); qm != "" {
		c.Wizard.QueueManagerName = qm
	}
	if ns := os.Getenv("MQHA_WIZARD_NAMESPACE"); ns != "" {
		c.Wizard.Namespace = ns
	}
	if sc := os.Getenv("MQHA_WIZARD_STORAGE_CLASS"); sc != "" {
		c.Wizard.StorageClassName = sc
	}

	// Logging overrides
	if logLevel := os.Getenv("MQHA_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat := os.Getenv("MQHA_LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	// Security overrides
	if origins := os.Getenv("MQHA_CORS_ORIGINS"); origins != "" {
		c.Security.CORSOrigins = splitList(origins)
	}
}

// applyFlagOverrides applies every flag that was set on the command line
func (c *Config) applyFlagOverrides(f *Flags) {
	if v, ok := f.GetServerPort(); ok {
		c.Server.Port = v
	}
	if v, ok := f.GetServerHost(); ok {
		c.Server.Host = v
	}
	if v, ok := f.GetServerReadTimeout(); ok {
		c.Server.ReadTimeout = v
	}
	if v, ok := f.GetServerWriteTimeout(); ok {
		c.Server.WriteTimeout = v
	}
	if v, ok := f.GetServerTLSEnabled(); ok {
		c.Server.TLSEnabled = v
	}
	if v, ok := f.GetServerTLSCert(); ok {
		c.Server.TLSCert = v
	}
	if v, ok := f.GetServerTLSKey(); ok {
		c.Server.TLSKey = v
	}

	if v, ok := f.GetPKIKeyGenerationTimeout(); ok {
		c.PKI.KeyGenerationTimeout = v
	}
	if v, ok := f.GetPKIIssuanceTimeout(); ok {
		c.PKI.IssuanceTimeout = v
	}
	if v, ok := f.GetPKISubjectOrganization(); ok {
		c.PKI.Subject.Organization = v
	}
	if v, ok := f.GetPKISubjectOrganizationalUnit(); ok {
		c.PKI.Subject.OrganizationalUnit = v
	}

	if v, ok := f.GetWizardQueueManager(); ok {
		c.Wizard.QueueManagerName = v
	}
	if v, ok := f.GetWizardNamespace(); ok {
		c.Wizard.Namespace = v
	}
	if v, ok := f.GetWizardAvailability(); ok {
		c.Wizard.Availability = v
	}
	if v, ok := f.GetWizardStorageClass(); ok {
		c.Wizard.StorageClassName = v
	}
	if v, ok := f.GetWizardLicenseUse(); ok {
		c.Wizard.LicenseUse = v
	}
	if v, ok := f.GetWizardCAValidityDays(); ok {
		c.Wizard.CAValidityDays = v
	}
	if v, ok := f.GetWizardCertValidityDays(); ok {
		c.Wizard.CertValidityDays = v
	}
	if v, ok := f.GetWizardCipherSpec(); ok {
		c.Wizard.HACipherSpec = v
	}
	if v, ok := f.GetWizardChannel(); ok {
		c.Wizard.ChannelName = v
	}

	if v, ok := f.GetLogLevel(); ok {
		c.Logging.Level = v
	}
	if v, ok := f.GetLogFormat(); ok {
		c.Logging.Format = v
	}

	if v, ok := f.GetSecurityCORSEnabled(); ok {
		c.Security.CORSEnabled = v
	}
	if v, ok := f.GetSecurityCORSOrigins(); ok {
		c.Security.CORSOrigins = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.TLSEnabled {
		if c.Server.TLSCert == "" || c.Server.TLSKey == "" {
			return fmt.Errorf("TLS enabled but cert or key not specified")
		}
	}

	// Validate PKI config
	if c.PKI.KeyGenerationTimeout <= 0 {
		return fmt.Errorf("key generation timeout must be positive")
	}
	if c.PKI.IssuanceTimeout <= 0 {
		return fmt.Errorf("issuance timeout must be positive")
	}
	if country := c.PKI.Subject.Country; country != "" && len(country) != 2 {
		return fmt.Errorf("invalid subject country: %s (must be a two letter code)", country)
	}

	// Validate wizard defaults
	if c.Wizard.CAValidityDays < 1 || c.Wizard.CertValidityDays < 1 {
		return fmt.Errorf("default validity periods must be at least one day")
	}

	// Validate logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be 'json' or 'console')", c.Logging.Format)
	}

	// Validate security config
	if c.Security.CORSEnabled && len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS enabled but no origins specified")
	}

	return nil
}

// SubjectDN returns the configured organizational attributes in the form
// used by the certificate builders
func (c *Config) SubjectDN() crypto.DistinguishedName {
	return crypto.DistinguishedName{
		Country:            c.PKI.Subject.Country,
		Province:           c.PKI.Subject.State,
		Locality:           c.PKI.Subject.Locality,
		Organization:       c.PKI.Subject.Organization,
		OrganizationalUnit: c.PKI.Subject.OrganizationalUnit,
	}
}

// Address returns the host:port the HTTP server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
