package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	ledgerseal "github.com/ledgerseal/ledgerseal-go"
)

var decryptOutput string

var decryptCmd = &cobra.Command{
	Use:   "decrypt <file>",
	Short: "decrypt an encrypted ledger file",
	Long: `Decrypt probes the file content to pick the right handler: the
hybrid PQC bundle format, or classical GPG when fallback is enabled in the
configuration. The plaintext goes to stdout unless --output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		peek := data
		if len(peek) > ledgerseal.PeekSize {
			peek = peek[:ledgerseal.PeekSize]
		}

		locator := ledgerseal.NewHandlerLocator(ledgerseal.WithLogger(log))
		handler := locator.HandlerForFile(args[0], peek, cfg)
		if handler == nil {
			return fmt.Errorf("%s is not in a recognized encrypted format", args[0])
		}
		log.WithField("handler", handler.Name()).Debug("selected handler")

		var keys *ledgerseal.Keyring
		if handler.Name() != "gpg" {
			if keys, _, err = keyringFor(cfg); err != nil {
				return err
			}
			defer keys.Zeroize()
		}

		plaintext, err := handler.DecryptContent(data, cfg, keys)
		if err != nil {
			return err
		}

		if decryptOutput == "" {
			fmt.Fprint(cmd.OutOrStdout(), plaintext)
			return nil
		}
		if err := os.WriteFile(decryptOutput, []byte(plaintext), 0o600); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decryptCmd)
	decryptCmd.Flags().StringVarP(
		&decryptOutput,
		"output",
		"o",
		"",
		"Write the plaintext to this path instead of stdout.",
	)
}
