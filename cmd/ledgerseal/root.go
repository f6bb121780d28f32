package main

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	ledgerseal "github.com/ledgerseal/ledgerseal-go"
)

// passphraseEnvVar names the environment variable consulted for the key
// passphrase before falling back to --passphrase-file.
const passphraseEnvVar = "LEDGERSEAL_PASSPHRASE"

var (
	configFilePath string
	saltFilePath   string
	passphraseFile string
	verbose        bool

	log = logrus.New()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledgerseal",
	Short: "hybrid post-quantum encryption for ledger files",
	Long: `Ledgerseal encrypts ledger files at rest with a hybrid scheme that
combines classical X25519 key agreement with a post-quantum KEM, so the
data stays confidential even against a future quantum adversary.

Keys are derived from a passphrase and a salt file, or loaded from
external key files, depending on the configuration.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env file is not an error.
		_ = godotenv.Load()

		log.SetOutput(os.Stderr)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		} else {
			log.SetLevel(logrus.WarnLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFilePath,
		"config",
		"c",
		"",
		"Path to the YAML configuration file. Built-in defaults apply when omitted.",
	)
	rootCmd.PersistentFlags().StringVar(
		&saltFilePath,
		"salt-file",
		"ledgerseal.salt",
		"Path to the key-derivation salt file.",
	)
	rootCmd.PersistentFlags().StringVar(
		&passphraseFile,
		"passphrase-file",
		"",
		"Read the passphrase from this file instead of "+passphraseEnvVar+".",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging.",
	)
}

// loadConfig reads the configured file, or returns the built-in defaults
// when no file was given.
func loadConfig() (*ledgerseal.Config, error) {
	if configFilePath == "" {
		log.Debug("no config file given, using defaults")
		return ledgerseal.DefaultConfig(), nil
	}
	log.WithField("path", configFilePath).Debug("loading config")
	return ledgerseal.LoadConfig(configFilePath)
}

// readPassphrase resolves the passphrase from the environment, the
// --passphrase-file flag, or finally one line from stdin. It never echoes
// the passphrase back.
func readPassphrase() (string, error) {
	if p := os.Getenv(passphraseEnvVar); p != "" {
		return p, nil
	}
	if passphraseFile != "" {
		data, err := os.ReadFile(passphraseFile)
		if err != nil {
			return "", fmt.Errorf("read passphrase file: %w", err)
		}
		return string(trimNewline(data)), nil
	}

	fmt.Fprint(os.Stderr, "Passphrase: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("no passphrase: set %s, pass --passphrase-file, or pipe it on stdin", passphraseEnvVar)
	}
	passphrase := string(trimNewline([]byte(line)))
	if passphrase == "" {
		return "", fmt.Errorf("passphrase must not be empty")
	}
	return passphrase, nil
}

func trimNewline(data []byte) []byte {
	for len(data) > 0 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
		data = data[:len(data)-1]
	}
	return data
}

// loadOrCreateSalt reads the salt file, creating it with fresh random bytes
// on first use. The salt is not secret but must stay stable: losing it means
// losing access to everything encrypted under passphrase-derived keys.
func loadOrCreateSalt(path string) ([]byte, error) {
	salt, err := os.ReadFile(path)
	if err == nil {
		if len(salt) < ledgerseal.MinSaltSize {
			return nil, fmt.Errorf("salt file %s holds %d bytes, need at least %d", path, len(salt), ledgerseal.MinSaltSize)
		}
		return salt, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read salt file: %w", err)
	}

	salt = make([]byte, ledgerseal.SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	if err := os.WriteFile(path, salt, 0o600); err != nil {
		return nil, fmt.Errorf("write salt file: %w", err)
	}
	log.WithField("path", path).Info("created new salt file; keep it safe")
	return salt, nil
}

// keyringFor builds the keyring for the configured key management mode. In
// passphrase mode the salt file is created on first use.
func keyringFor(cfg *ledgerseal.Config) (*ledgerseal.Keyring, ledgerseal.SuiteConfig, error) {
	suite, err := cfg.ActiveSuite()
	if err != nil {
		return nil, ledgerseal.SuiteConfig{}, err
	}

	var passphrase string
	var salt []byte
	if cfg.PQCKeyManagementMode == ledgerseal.KeyManagementPassphrase {
		if passphrase, err = readPassphrase(); err != nil {
			return nil, ledgerseal.SuiteConfig{}, err
		}
		if salt, err = loadOrCreateSalt(saltFilePath); err != nil {
			return nil, ledgerseal.SuiteConfig{}, err
		}
	}

	keys, err := ledgerseal.KeyringForConfig(cfg, suite, passphrase, salt)
	if err != nil {
		return nil, ledgerseal.SuiteConfig{}, err
	}
	return keys, suite, nil
}
