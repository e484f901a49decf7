package cli

import (
	"bufio"
	"encoding/hex"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sskr/internal/digest"
	"github.com/mrz1836/sskr/internal/mnemonic"
	"github.com/mrz1836/sskr/internal/output"
	"github.com/mrz1836/sskr/internal/randsrc"
	"github.com/mrz1836/sskr/internal/secure"
	"github.com/mrz1836/sskr/internal/sskr"
	sskrerr "github.com/mrz1836/sskr/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	combineShareTexts []string
	combineShareFile  string
	combineAsMnemonic bool
	combineDerive     bool
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Reconstruct a secret from a qualifying set of SSKR shares",
	Long: `combine feeds shares into a fresh accumulator session and reports the
recovered secret as soon as a qualifying subset has been supplied, per
group-threshold and member-threshold. Shares may come from --share
(repeatable), --share-file (one "sskr1..." text per line), or both.`,
	RunE: runCombine,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	combineCmd.Flags().StringArrayVar(&combineShareTexts, "share", nil, `a share in "sskr1..." text form (repeatable)`)
	combineCmd.Flags().StringVar(&combineShareFile, "share-file", "", "path to a file with one share per line")
	combineCmd.Flags().BoolVar(&combineAsMnemonic, "as-mnemonic", false, "interpret the recovered secret as BIP-39 entropy and print the mnemonic")
	combineCmd.Flags().BoolVar(&combineDerive, "derive", false, "also derive and print a BIP-32 master key from the recovered secret (implies --as-mnemonic semantics for seed derivation)")
	rootCmd.AddCommand(combineCmd)
}

func loadShareTexts() ([]string, error) {
	texts := append([]string(nil), combineShareTexts...)

	if combineShareFile != "" {
		// #nosec G304 -- share file path comes from an explicit CLI flag
		f, err := os.Open(combineShareFile)
		if err != nil {
			return nil, sskrerr.Wrap(err, "opening %s", combineShareFile)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if line != "" {
				texts = append(texts, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, sskrerr.Wrap(err, "reading %s", combineShareFile)
		}
	}

	if len(texts) == 0 {
		return nil, sskrerr.WithSuggestion(sskrerr.ErrInvalidInput,
			"supply at least one share via --share or --share-file")
	}
	return texts, nil
}

func runCombine(cmd *cobra.Command, _ []string) error {
	texts, err := loadShareTexts()
	if err != nil {
		return err
	}

	shares := make([]sskr.Share, 0, len(texts))
	for _, t := range texts {
		s, derr := sskr.DecodeText(t)
		if derr != nil {
			return sskrerr.FromCore(derr)
		}
		shares = append(shares, s)
	}

	engine := sskr.NewEngine(randsrc.CryptoSource{}, digest.HMACSHA256{})
	secret, _, err := engine.CombineShares(shares)
	if err != nil {
		return sskrerr.FromCore(err)
	}
	if secret == nil {
		return sskrerr.WithDetails(sskrerr.ErrIncompleteShares, map[string]string{
			"have": strconv.Itoa(len(shares)),
		})
	}
	defer secure.Zero(secret)

	if Logger() != nil {
		Logger().Debug("combine: recovered secret of %d bytes from %d shares", len(secret), len(shares))
	}

	return printCombined(cmd, secret)
}

func printCombined(cmd *cobra.Command, secret []byte) error {
	type combinedView struct {
		SecretHex string `json:"secret_hex"`
		Mnemonic  string `json:"mnemonic,omitempty"`
		MasterKey string `json:"master_key,omitempty"`
	}

	view := combinedView{SecretHex: hex.EncodeToString(secret)}

	if combineAsMnemonic || combineDerive {
		phrase, merr := mnemonic.EntropyToMnemonic(secret)
		if merr != nil {
			return sskrerr.Wrap(merr, "deriving mnemonic from recovered secret")
		}
		view.Mnemonic = phrase
	}

	if combineDerive {
		seed, serr := mnemonic.MnemonicToSeed(view.Mnemonic, "")
		if serr != nil {
			return sskrerr.Wrap(serr, "deriving seed from mnemonic")
		}
		defer secure.Zero(seed)

		key, kerr := mnemonic.DeriveMasterKey(seed)
		if kerr != nil {
			return sskrerr.Wrap(kerr, "deriving master key")
		}
		view.MasterKey = key.String()
	}

	if currentFormat() == output.FormatJSON {
		return writeJSON(cmd.OutOrStdout(), view)
	}

	outln(cmd.OutOrStdout(), "secret: "+view.SecretHex)
	if view.Mnemonic != "" {
		outln(cmd.OutOrStdout(), "mnemonic: "+view.Mnemonic)
	}
	if view.MasterKey != "" {
		outln(cmd.OutOrStdout(), "master key: "+view.MasterKey)
	}
	return nil
}
