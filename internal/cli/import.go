package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sskr/internal/cryptoenc"
	"github.com/mrz1836/sskr/internal/secure"
	"github.com/mrz1836/sskr/internal/sskr"
	sskrerr "github.com/mrz1836/sskr/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var importCombine bool

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var importCmd = &cobra.Command{
	Use:   "import <bundle-file>",
	Short: "Open an age-encrypted share bundle and print its shares",
	Long: `import decrypts a bundle written by "export" or "generate --export",
prompting for its passphrase, and prints every share it contains the same
way "generate" does ("sskr1..." text lines, or per-share JSON carrying each
share's metadata). With --combine, it instead feeds the
bundle's shares straight into a combine session and prints the result.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	importCmd.Flags().BoolVar(&importCombine, "combine", false, "feed the bundle's shares into a combine session instead of listing them")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	// #nosec G304 -- bundle path comes from an explicit CLI argument
	sealed, err := os.ReadFile(args[0])
	if err != nil {
		return sskrerr.Wrap(sskrerr.ErrBundleNotFound, "reading %s: %v", args[0], err)
	}

	passphrase, err := promptPassword("Enter bundle passphrase: ")
	if err != nil {
		return err
	}
	defer secure.Zero(passphrase)

	bundle, err := cryptoenc.Open(sealed, string(passphrase))
	if err != nil {
		return sskrerr.Wrap(sskrerr.ErrDecryptionFailed, "%v", err)
	}

	shares, err := bundle.Decode()
	if err != nil {
		return sskrerr.Wrap(sskrerr.ErrBundleCorrupted, "%v", err)
	}

	if importCombine {
		return combineFromBundle(cmd, shares)
	}
	return printShares(cmd, shares)
}

func combineFromBundle(cmd *cobra.Command, shares []sskr.Share) error {
	combineShareTexts = nil
	combineShareFile = ""
	for _, s := range shares {
		text, err := sskr.EncodeText(s)
		if err != nil {
			return sskrerr.FromCore(err)
		}
		combineShareTexts = append(combineShareTexts, text)
	}
	return runCombine(cmd, nil)
}
