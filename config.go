package ledgerseal

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Key management modes.
const (
	// KeyManagementPassphrase derives keypairs from a user passphrase.
	KeyManagementPassphrase = "PASSPHRASE_DERIVED"
	// KeyManagementExternalFile loads raw private keys from configured files.
	KeyManagementExternalFile = "EXTERNAL_FILE"
)

// Keys into Config.PQCKeyFilePaths.
const (
	KeyPathClassicalPrivate = "classical-private"
	KeyPathPQCPrivate       = "pqc-private"
)

// Config wraps the options for encryption at rest.
type Config struct {
	// PQCDataAtRestEnabled is the single gate that can disable PQC
	// encryption system-wide.
	PQCDataAtRestEnabled bool `yaml:"pqc-data-at-rest-enabled"`
	// PQCActiveSuiteID names the suite used for new encryptions.
	PQCActiveSuiteID string `yaml:"pqc-active-suite-id"`
	// PQCSuites is the registry of configured suites, keyed by suite ID.
	PQCSuites map[string]SuiteConfig `yaml:"pqc-suites"`
	// PQCKeyManagementMode selects PASSPHRASE_DERIVED or EXTERNAL_FILE.
	PQCKeyManagementMode string `yaml:"pqc-key-management-mode"`
	// PQCKeyFilePaths locates raw private key files in EXTERNAL_FILE mode.
	PQCKeyFilePaths map[string]string `yaml:"pqc-key-file-paths"`
	// PQCFallbackToClassicalGPG gates the legacy GPG handler.
	PQCFallbackToClassicalGPG bool `yaml:"pqc-fallback-to-classical-gpg"`
	// GPGOptions holds extra command-line options passed to gpg.
	GPGOptions string `yaml:"gpg-options"`
}

// DefaultConfig returns a config with PQC enabled, the built-in suites, the
// default suite active, and passphrase-derived key management.
func DefaultConfig() *Config {
	return &Config{
		PQCDataAtRestEnabled:      true,
		PQCActiveSuiteID:          SuiteX25519Kyber768AES256GCM,
		PQCSuites:                 DefaultSuites(),
		PQCKeyManagementMode:      KeyManagementPassphrase,
		PQCFallbackToClassicalGPG: true,
	}
}

// LoadConfig reads a YAML config file. Suites omitted from the file fall back
// to the built-in registry.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	if config.PQCSuites == nil {
		config.PQCSuites = DefaultSuites()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration, collecting every failure.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.PQCActiveSuiteID == "" {
		result = multierror.Append(result, fmt.Errorf("pqc-active-suite-id is required"))
	} else if _, ok := c.PQCSuites[c.PQCActiveSuiteID]; !ok {
		result = multierror.Append(result, fmt.Errorf("pqc-active-suite-id %q is not in pqc-suites", c.PQCActiveSuiteID))
	}

	switch c.PQCKeyManagementMode {
	case KeyManagementPassphrase:
	case KeyManagementExternalFile:
		if c.PQCKeyFilePaths[KeyPathClassicalPrivate] == "" {
			result = multierror.Append(result, fmt.Errorf("pqc-key-file-paths.%s is required in EXTERNAL_FILE mode", KeyPathClassicalPrivate))
		}
		if c.PQCKeyFilePaths[KeyPathPQCPrivate] == "" {
			result = multierror.Append(result, fmt.Errorf("pqc-key-file-paths.%s is required in EXTERNAL_FILE mode", KeyPathPQCPrivate))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("pqc-key-management-mode must be %s or %s, got %q",
			KeyManagementPassphrase, KeyManagementExternalFile, c.PQCKeyManagementMode))
	}

	for id, suite := range c.PQCSuites {
		if suite.ID != id {
			result = multierror.Append(result, fmt.Errorf("suite registered under %q declares ID %q", id, suite.ID))
		}
	}

	return result.ErrorOrNil()
}

// ActiveSuite returns the suite named by PQCActiveSuiteID.
func (c *Config) ActiveSuite() (SuiteConfig, error) {
	suite, ok := c.PQCSuites[c.PQCActiveSuiteID]
	if !ok {
		return SuiteConfig{}, fmt.Errorf("%w: %q", ErrNoSuite, c.PQCActiveSuiteID)
	}
	return suite, nil
}

// Dump generates a YAML string of the Config object
func (c *Config) Dump() (string, error) {
	d, err := yaml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate YAML dump of config")
	}
	return string(d), nil
}
