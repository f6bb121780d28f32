package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	ledgerseal "github.com/ledgerseal/ledgerseal-go"
)

var encryptOutput string

var encryptCmd = &cobra.Command{
	Use:   "encrypt <file>",
	Short: "encrypt a ledger file under the active suite",
	Long: `Encrypt reads a plaintext ledger file and writes the encrypted
bundle. The output defaults to the input path with the ` + ledgerseal.PQCFileExtension + `
extension appended.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		keys, suite, err := keyringFor(cfg)
		if err != nil {
			return err
		}
		defer keys.Zeroize()

		locator := ledgerseal.NewHandlerLocator()
		handler := locator.PQCEncryptHandler(suite, cfg)
		if handler == nil {
			return fmt.Errorf("PQC encryption is disabled in the configuration")
		}

		plaintext, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		data, err := handler.EncryptContent(string(plaintext), cfg, keys)
		if err != nil {
			return err
		}

		out := encryptOutput
		if out == "" {
			out = args[0] + ledgerseal.PQCFileExtension
		}
		if err := os.WriteFile(out, data, 0o600); err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		log.WithFields(map[string]interface{}{
			"input":  args[0],
			"output": out,
			"suite":  suite.ID,
		}).Info("encrypted")
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(encryptCmd)
	encryptCmd.Flags().StringVarP(
		&encryptOutput,
		"output",
		"o",
		"",
		"Output path. Defaults to the input path plus "+ledgerseal.PQCFileExtension+".",
	)
}
