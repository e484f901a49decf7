package cli

import (
	"bufio"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sskr/internal/cryptoenc"
	"github.com/mrz1836/sskr/internal/fileutil"
	"github.com/mrz1836/sskr/internal/output"
	"github.com/mrz1836/sskr/internal/secure"
	"github.com/mrz1836/sskr/internal/sskr"
	sskrerr "github.com/mrz1836/sskr/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	exportShareTexts []string
	exportShareFile  string
	exportOutPath    string
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Seal a set of shares into an age-encrypted bundle file",
	Long: `export reads one or more shares already produced by "generate" and
writes them, together with their shared policy and share-set id, as a
single age-encrypted (passphrase, scrypt) JSON bundle suitable for
durable off-host custody.`,
	RunE: runExport,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	exportCmd.Flags().StringArrayVar(&exportShareTexts, "share", nil, `a share in "sskr1..." text form (repeatable)`)
	exportCmd.Flags().StringVar(&exportShareFile, "share-file", "", "path to a file with one share per line")
	exportCmd.Flags().StringVar(&exportOutPath, "out", "", "path to write the encrypted bundle (required)")
	_ = exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	texts := append([]string(nil), exportShareTexts...)

	if exportShareFile != "" {
		// #nosec G304 -- share file path comes from an explicit CLI flag
		f, err := os.Open(exportShareFile)
		if err != nil {
			return sskrerr.Wrap(err, "opening %s", exportShareFile)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				texts = append(texts, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return sskrerr.Wrap(err, "reading %s", exportShareFile)
		}
	}

	if len(texts) == 0 {
		return sskrerr.WithSuggestion(sskrerr.ErrInvalidInput,
			"supply at least one share via --share or --share-file")
	}

	shares := make([]sskr.Share, 0, len(texts))
	for _, t := range texts {
		s, err := sskr.DecodeText(t)
		if err != nil {
			return sskrerr.FromCore(err)
		}
		shares = append(shares, s)
	}

	bundle, err := cryptoenc.NewBundle(shares, time.Now())
	if err != nil {
		return sskrerr.FromCore(err)
	}

	passphrase, err := promptNewPassphrase()
	if err != nil {
		return err
	}
	defer secure.Zero(passphrase)

	sealed, err := cryptoenc.Seal(bundle, string(passphrase))
	if err != nil {
		return sskrerr.Wrap(err, "sealing share bundle")
	}

	if werr := fileutil.WriteAtomic(exportOutPath, sealed, 0o600); werr != nil {
		return sskrerr.Wrap(werr, "writing bundle to %s", exportOutPath)
	}

	return output.FormatSuccess(os.Stdout, "wrote "+exportOutPath, currentFormat())
}
