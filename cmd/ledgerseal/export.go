package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	ledgerseal "github.com/ledgerseal/ledgerseal-go"
)

// exportPassphraseEnvVar names the environment variable holding the
// passphrase that wraps the exported keyset. It is deliberately distinct
// from the key passphrase.
const exportPassphraseEnvVar = "LEDGERSEAL_EXPORT_PASSPHRASE"

var (
	exportContext string
	exportOutput  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "export the private keys as an encrypted keyset",
	Long: `Export builds the keyring for the current configuration and writes
it as an ` + ledgerseal.ExportFormatEncryptedKeysetV1 + ` container. The keys inside
the container are encrypted under a separate export passphrase read from
` + exportPassphraseEnvVar + `; private key material never leaves this tool
unencrypted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exportPassphrase := os.Getenv(exportPassphraseEnvVar)
		if exportPassphrase == "" {
			return fmt.Errorf("no export passphrase: set %s", exportPassphraseEnvVar)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		keys, suite, err := keyringFor(cfg)
		if err != nil {
			return err
		}
		defer keys.Zeroize()

		data, err := ledgerseal.ExportPrivateKeys(
			exportContext, ledgerseal.ExportFormatEncryptedKeysetV1, exportPassphrase, keys, suite)
		if err != nil {
			return err
		}

		if exportOutput == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		if err := os.WriteFile(exportOutput, data, 0o600); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		log.WithFields(map[string]interface{}{
			"context": exportContext,
			"output":  exportOutput,
		}).Info("exported keyset")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(
		&exportContext,
		"context",
		"default",
		"Context label recorded in the exported keyset.",
	)
	exportCmd.Flags().StringVarP(
		&exportOutput,
		"output",
		"o",
		"",
		"Write the keyset to this path instead of stdout.",
	)
}
