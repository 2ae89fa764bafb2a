package config

import (
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// Flags holds all command line flag values of one flag set
type Flags struct {
	fs *flag.FlagSet

	// General
	configFile *string
	version    *bool

	// Server
	serverPort         *int
	serverHost         *string
	serverReadTimeout  *time.Duration
	serverWriteTimeout *time.Duration
	serverTLSEnabled   *bool
	serverTLSCert      *string
	serverTLSKey       *string

	// PKI
	pkiKeyGenerationTimeout      *time.Duration
	pkiIssuanceTimeout           *time.Duration
	pkiSubjectOrganization       *string
	pkiSubjectOrganizationalUnit *string

	// Wizard
	wizardQueueManager     *string
	wizardNamespace        *string
	wizardAvailability     *string
	wizardStorageClass     *string
	wizardLicenseUse       *string
	wizardCAValidityDays   *int
	wizardCertValidityDays *int
	wizardCipherSpec       *string
	wizardChannel          *string

	// Logging
	logLevel  *string
	logFormat *string

	// Security
	securityCORSEnabled *bool
	securityCORSOrigins *[]string
}

// NewFlags defines every configuration flag on fs
func NewFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}

	// General flags
	f.configFile = fs.StringP("config", "c", "config.yaml", "Path to configuration file")
	f.version = fs.BoolP("version", "v", false, "Print version and exit")

	// Server flags
	f.serverPort = fs.Int("server.port", 0, "HTTP server port")
	f.serverHost = fs.String("server.host", "", "HTTP server bind address")
	f.serverReadTimeout = fs.Duration("server.read-timeout", 0, "Server read timeout (e.g., 30s)")
	f.serverWriteTimeout = fs.Duration("server.write-timeout", 0, "Server write timeout (e.g., 2m)")
	f.serverTLSEnabled = fs.Bool("server.tls-enabled", false, "Enable HTTPS")
	f.serverTLSCert = fs.String("server.tls-cert", "", "Path to TLS certificate")
	f.serverTLSKey = fs.String("server.tls-key", "", "Path to TLS key")

	// PKI flags
	f.pkiKeyGenerationTimeout = fs.Duration("pki.key-generation-timeout", 0, "Upper bound for one RSA key generation")
	f.pkiIssuanceTimeout = fs.Duration("pki.issuance-timeout", 0, "Upper bound for issuing a complete TLS bundle")
	f.pkiSubjectOrganization = fs.String("pki.subject.organization", "", "Organization (O) of issued certificates")
	f.pkiSubjectOrganizationalUnit = fs.String("pki.subject.organizational-unit", "", "Organizational unit (OU) of issued certificates")

	// Wizard flags
	f.wizardQueueManager = fs.String("wizard.queue-manager", "", "Queue manager name")
	f.wizardNamespace = fs.StringP("wizard.namespace", "n", "", "Kubernetes namespace")
	f.wizardAvailability = fs.String("wizard.availability", "", "Availability type (SingleInstance or NativeHA)")
	f.wizardStorageClass = fs.String("wizard.storage-class", "", "Storage class for persistent volumes")
	f.wizardLicenseUse = fs.String("wizard.license-use", "", "License use (Production or NonProduction)")
	f.wizardCAValidityDays = fs.Int("wizard.ca-validity-days", 0, "CA certificate validity in days")
	f.wizardCertValidityDays = fs.Int("wizard.cert-validity-days", 0, "Leaf certificate validity in days")
	f.wizardCipherSpec = fs.String("wizard.cipher-spec", "", "Cipher spec for channels and HA replication")
	f.wizardChannel = fs.String("wizard.channel", "", "Server connection channel name")

	// Logging flags
	f.logLevel = fs.StringP("log.level", "l", "", "Log level (debug, info, warn, error)")
	f.logFormat = fs.String("log.format", "", "Log format (json or console)")

	// Security flags
	f.securityCORSEnabled = fs.Bool("security.cors-enabled", false, "Enable CORS")
	f.securityCORSOrigins = fs.StringSlice("security.cors-origins", nil, "CORS allowed origins (can be specified multiple times)")

	return f
}

// Usage prints the flag set help with the configuration priority notes
func (f *Flags) Usage(out io.Writer, command, summary string) {
	f.fs.SetOutput(out)
	fmt.Fprintf(out, "Usage: %s [OPTIONS]\n\n", command)
	fmt.Fprintf(out, "%s\n\n", summary)
	fmt.Fprintf(out, "Options:\n")
	f.fs.PrintDefaults()
	fmt.Fprintf(out, "\nConfiguration priority (highest to lowest):\n")
	fmt.Fprintf(out, "  1. Command line flags\n")
	fmt.Fprintf(out, "  2. Environment variables (MQHA_*)\n")
	fmt.Fprintf(out, "  3. Configuration file (default: config.yaml)\n\n")
}

// ConfigFile returns the configuration file path
func (f *Flags) ConfigFile() string {
	return *f.configFile
}

// Version reports whether the version flag was given
func (f *Flags) Version() bool {
	return *f.version
}

func (f *Flags) changed(name string) bool {
	fl := f.fs.Lookup(name)
	return fl != nil && fl.Changed
}

// GetServerPort returns the server port flag value and whether it was set
func (f *Flags) GetServerPort() (int, bool) {
	return *f.serverPort, f.changed("server.port")
}

// GetServerHost returns the server host flag value and whether it was set
func (f *Flags) GetServerHost() (string, bool) {
	return *f.serverHost, f.changed("server.host")
}

// GetServerReadTimeout returns the server read timeout flag value and whether it was set
func (f *Flags) GetServerReadTimeout() (time.Duration, bool) {
	return *f.serverReadTimeout, f.changed("server.read-timeout")
}

// GetServerWriteTimeout returns the server write timeout flag value and whether it was set
func (f *Flags) GetServerWriteTimeout() (time.Duration, bool) {
	return *f.serverWriteTimeout, f.changed("server.write-timeout")
}

// GetServerTLSEnabled returns the server TLS enabled flag value and whether it was set
func (f *Flags) GetServerTLSEnabled() (bool, bool) {
	return *f.serverTLSEnabled, f.changed("server.tls-enabled")
}

// GetServerTLSCert returns the server TLS cert flag value and whether it was set
func (f *Flags) GetServerTLSCert() (string, bool) {
	return *f.serverTLSCert, f.changed("server.tls-cert")
}

// GetServerTLSKey returns the server TLS key flag value and whether it was set
func (f *Flags) GetServerTLSKey() (string, bool) {
	return *f.serverTLSKey, f.changed("server.tls-key")
}

// GetPKIKeyGenerationTimeout returns the key generation timeout flag value and whether it was set
func (f *Flags) GetPKIKeyGenerationTimeout() (time.Duration, bool) {
	return *f.pkiKeyGenerationTimeout, f.changed("pki.key-generation-timeout")
}

// GetPKIIssuanceTimeout returns the issuance timeout flag value and whether it was set
func (f *Flags) GetPKIIssuanceTimeout() (time.Duration, bool) {
	return *f.pkiIssuanceTimeout, f.changed("pki.issuance-timeout")
}

// GetPKISubjectOrganization returns the subject organization flag value and whether it was set
func (f *Flags) GetPKISubjectOrganization() (string, bool) {
	return *f.pkiSubjectOrganization, f.changed("pki.subject.organization")
}

// GetPKISubjectOrganizationalUnit returns the subject organizational unit flag value and whether it was set
func (f *Flags) GetPKISubjectOrganizationalUnit() (string, bool) {
	return *f.pkiSubjectOrganizationalUnit, f.changed("pki.subject.organizational-unit")
}

// GetWizardQueueManager returns the queue manager name flag value and whether it was set
func (f *Flags) GetWizardQueueManager() (string, bool) {
	return *f.wizardQueueManager, f.changed("wizard.queue-manager")
}

// GetWizardNamespace returns the namespace flag value and whether it was set
func (f *Flags) GetWizardNamespace() (string, bool) {
	return *f.wizardNamespace, f.changed("wizard.namespace")
}

// GetWizardAvailability returns the availability flag value and whether it was set
func (f *Flags) GetWizardAvailability() (string, bool) {
	return *f.wizardAvailability, f.changed("wizard.availability")
}

// GetWizardStorageClass returns the storage class flag value and whether it was set
func (f *Flags) GetWizardStorageClass() (string, bool) {
	return *f.wizardStorageClass, f.changed("wizard.storage-class")
}

// GetWizardLicenseUse returns the license use flag value and whether it was set
func (f *Flags) GetWizardLicenseUse() (string, bool) {
	return *f.wizardLicenseUse, f.changed("wizard.license-use")
}

// GetWizardCAValidityDays returns the CA validity flag value and whether it was set
func (f *Flags) GetWizardCAValidityDays() (int, bool) {
	return *f.wizardCAValidityDays, f.changed("wizard.ca-validity-days")
}

// GetWizardCertValidityDays returns the certificate validity flag value and whether it was set
func (f *Flags) GetWizardCertValidityDays() (int, bool) {
	return *f.wizardCertValidityDays, f.changed("wizard.cert-validity-days")
}

// GetWizardCipherSpec returns the cipher spec flag value and whether it was set
func (f *Flags) GetWizardCipherSpec() (string, bool) {
	return *f.wizardCipherSpec, f.changed("wizard.cipher-spec")
}

// GetWizardChannel returns the channel name flag value and whether it was set
func (f *Flags) GetWizardChannel() (string, bool) {
	return *f.wizardChannel, f.changed("wizard.channel")
}

// GetLogLevel returns the log level flag value and whether it was set
func (f *Flags) GetLogLevel() (string, bool) {
	return *f.logLevel, f.changed("log.level")
}

// GetLogFormat returns the log format flag value and whether it was set
func (f *Flags) GetLogFormat() (string, bool) {
	return *f.logFormat, f.changed("log.format")
}

// GetSecurityCORSEnabled returns the CORS enabled flag value and whether it was set
func (f *Flags) GetSecurityCORSEnabled() (bool, bool) {
	return *f.securityCORSEnabled, f.changed("security.cors-enabled")
}

// GetSecurityCORSOrigins returns the CORS origins flag value and whether it was set
func (f *Flags) GetSecurityCORSOrigins() ([]string, bool) {
	return *f.securityCORSOrigins, f.changed("security.cors-origins")
}
