package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	ledgerseal "github.com/ledgerseal/ledgerseal-go"
)

var keygenOutputDir string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "generate a fresh hybrid keypair for EXTERNAL_FILE mode",
	Long: `Keygen generates a random classical and post-quantum keypair for the
active suite and writes the private halves to key files for use with
pqc-key-management-mode: EXTERNAL_FILE. The public keys are printed to
stdout.

Passphrase-derived mode needs no keygen: keys are rederived from the
passphrase and salt file on every use.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		suite, err := cfg.ActiveSuite()
		if err != nil {
			return err
		}

		keys, err := ledgerseal.GenerateKeyring(suite)
		if err != nil {
			return err
		}
		defer keys.Zeroize()

		if err := os.MkdirAll(keygenOutputDir, 0o700); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		classicalPath := filepath.Join(keygenOutputDir, "classical.key")
		pqcPath := filepath.Join(keygenOutputDir, "pqc.key")

		if err := os.WriteFile(classicalPath, keys.ClassicalPrivateKey, 0o600); err != nil {
			return fmt.Errorf("write classical key: %w", err)
		}
		if err := os.WriteFile(pqcPath, keys.PQCPrivateKey, 0o600); err != nil {
			return fmt.Errorf("write PQC key: %w", err)
		}

		log.WithFields(map[string]interface{}{
			"suite": suite.ID,
			"dir":   keygenOutputDir,
		}).Info("generated keypair")

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "suite: %s\n", suite.ID)
		fmt.Fprintf(out, "classical private key: %s\n", classicalPath)
		fmt.Fprintf(out, "pqc private key: %s\n", pqcPath)
		fmt.Fprintf(out, "classical public key: %s\n", base64.RawURLEncoding.EncodeToString(keys.ClassicalPublicKey))
		fmt.Fprintf(out, "pqc public key: %s\n", base64.RawURLEncoding.EncodeToString(keys.PQCPublicKey))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().StringVarP(
		&keygenOutputDir,
		"output-dir",
		"d",
		".",
		"Directory for the generated key files.",
	)
}
