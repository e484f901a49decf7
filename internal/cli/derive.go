package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sskr/internal/mnemonic"
	"github.com/mrz1836/sskr/internal/output"
	"github.com/mrz1836/sskr/internal/secure"
	sskrerr "github.com/mrz1836/sskr/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var derivePromptPassphrase bool

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var deriveCmd = &cobra.Command{
	Use:   "derive <word>...",
	Short: "Derive a BIP-32 master key from a mnemonic phrase",
	Long: `derive turns a BIP-39 mnemonic (typically one recovered via
"combine --as-mnemonic") into a seed and then a BIP-32 extended master
key, demonstrating end-to-end recovery of an HD wallet's root key.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDerive,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	deriveCmd.Flags().BoolVar(&derivePromptPassphrase, "passphrase", false, "prompt for an optional BIP-39 passphrase")
	rootCmd.AddCommand(deriveCmd)
}

func runDerive(cmd *cobra.Command, args []string) error {
	phrase := mnemonic.NormalizeInput(strings.Join(args, " "))
	if err := mnemonic.Validate(phrase); err != nil {
		return sskrerr.Wrap(sskrerr.ErrInvalidMnemonic, "%v", err)
	}

	passphrase := ""
	if derivePromptPassphrase {
		p, err := promptBIP39Passphrase()
		if err != nil {
			return err
		}
		passphrase = p
	}

	seed, err := mnemonic.MnemonicToSeed(phrase, passphrase)
	if err != nil {
		return sskrerr.Wrap(err, "deriving seed")
	}
	defer secure.Zero(seed)

	key, err := mnemonic.DeriveMasterKey(seed)
	if err != nil {
		return sskrerr.Wrap(err, "deriving master key")
	}

	if currentFormat() == output.FormatJSON {
		return writeJSON(cmd.OutOrStdout(), map[string]string{"master_key": key.String()})
	}
	outln(cmd.OutOrStdout(), key.String())
	return nil
}
