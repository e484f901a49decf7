package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sskr/internal/mnemonic"
	"github.com/mrz1836/sskr/internal/output"
	sskrerr "github.com/mrz1836/sskr/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var mnemonicCmd = &cobra.Command{
	Use:   "mnemonic",
	Short: "Generate or validate BIP-39 mnemonic phrases",
	Long: `mnemonic groups BIP-39 helpers: a 16/20/24/28/32-byte BIP-39 entropy
value is exactly an SSKR-eligible secret, so a mnemonic's entropy can be
split with "generate --secret-mnemonic" and recombined with
"combine --as-mnemonic".`,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var mnemonicGenerateWords int

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var mnemonicGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new random BIP-39 mnemonic",
	RunE: func(cmd *cobra.Command, _ []string) error {
		phrase, err := mnemonic.GenerateMnemonic(mnemonicGenerateWords)
		if err != nil {
			return sskrerr.Wrap(sskrerr.ErrInvalidInput, "%v", err)
		}
		if currentFormat() == output.FormatJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]string{"mnemonic": phrase})
		}
		outln(cmd.OutOrStdout(), phrase)
		return nil
	},
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var mnemonicValidateCmd = &cobra.Command{
	Use:   "validate <word>...",
	Short: "Validate a BIP-39 mnemonic phrase and suggest fixes for typos",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		phrase := mnemonic.NormalizeInput(strings.Join(args, " "))

		if verr := mnemonic.Validate(phrase); verr != nil {
			typos := mnemonic.DetectTypos(phrase)
			if len(typos) > 0 {
				for _, t := range typos {
					outln(cmd.ErrOrStderr(), "word "+strconv.Itoa(t.Index+1)+" ("+t.Word+"): did you mean \""+t.Suggestion+"\"?")
				}
			}
			return sskrerr.Wrap(sskrerr.ErrInvalidMnemonic, "%v", verr)
		}

		return output.FormatSuccess(cmd.OutOrStdout(), "valid mnemonic", currentFormat())
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	mnemonicGenerateCmd.Flags().IntVar(&mnemonicGenerateWords, "words", 24, "word count: 12 or 24")
	mnemonicCmd.AddCommand(mnemonicGenerateCmd, mnemonicValidateCmd)
	rootCmd.AddCommand(mnemonicCmd)
}
