package cli

import (
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sskr/internal/cryptoenc"
	"github.com/mrz1836/sskr/internal/digest"
	"github.com/mrz1836/sskr/internal/fileutil"
	"github.com/mrz1836/sskr/internal/mnemonic"
	"github.com/mrz1836/sskr/internal/output"
	"github.com/mrz1836/sskr/internal/randsrc"
	"github.com/mrz1836/sskr/internal/secure"
	"github.com/mrz1836/sskr/internal/sskr"
	sskrerr "github.com/mrz1836/sskr/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	generateGroupThreshold int
	generateGroups         []string
	generateSecretHex      string
	generateMnemonic       string
	generateSeedHex        string
	generateExportPath     string
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Split a secret into a group-of-groups of SSKR shares",
	Long: `generate draws a random share-set id, Shamir-splits the secret into
group shares under --group-threshold, then Shamir-splits each group share
into its member shares, printing every resulting share in its "sskr1..."
text form.

The secret may come from --secret-hex, --secret-mnemonic, or (if neither
is given) an interactive mnemonic prompt.`,
	RunE: runGenerate,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	generateCmd.Flags().IntVar(&generateGroupThreshold, "group-threshold", 0, "number of groups required to reconstruct (required)")
	generateCmd.Flags().StringArrayVar(&generateGroups, "groups", nil, `one "threshold:count" pair per group, e.g. --groups 2:3 --groups 3:5 (required)`)
	generateCmd.Flags().StringVar(&generateSecretHex, "secret-hex", "", "secret as a hex string, 16-32 bytes, even length")
	generateCmd.Flags().StringVar(&generateMnemonic, "secret-mnemonic", "", "secret as a BIP-39 mnemonic phrase (its entropy is split)")
	generateCmd.Flags().StringVar(&generateSeedHex, "deterministic-seed-hex", "", "reproduce shares deterministically from this hex seed, for demos only")
	generateCmd.Flags().StringVar(&generateExportPath, "export", "", "write an age-encrypted share bundle to this path instead of printing shares")
	rootCmd.AddCommand(generateCmd)
}

func parseGroupSpecs(raw []string) ([]sskr.GroupSpec, error) {
	specs := make([]sskr.GroupSpec, 0, len(raw))
	for _, g := range raw {
		parts := strings.SplitN(g, ":", 2)
		if len(parts) != 2 {
			return nil, sskrerr.WithSuggestion(sskrerr.ErrInvalidPolicy,
				`each --groups value must look like "threshold:count"`)
		}
		t, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, sskrerr.Wrap(sskrerr.ErrInvalidPolicy, "parsing group threshold %q", parts[0])
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, sskrerr.Wrap(sskrerr.ErrInvalidPolicy, "parsing group count %q", parts[1])
		}
		specs = append(specs, sskr.GroupSpec{Threshold: t, Count: n})
	}
	return specs, nil
}

func resolveSecret() ([]byte, error) {
	switch {
	case generateSecretHex != "":
		secret, err := hex.DecodeString(generateSecretHex)
		if err != nil {
			return nil, sskrerr.Wrap(sskrerr.ErrInvalidInput, "decoding --secret-hex")
		}
		return secret, nil
	case generateMnemonic != "":
		return mnemonic.MnemonicToEntropy(generateMnemonic)
	default:
		phrase, err := promptMnemonicInteractive()
		if err != nil {
			return nil, err
		}
		return mnemonic.MnemonicToEntropy(phrase)
	}
}

func resolveRandomSource() (randsrc.Source, error) {
	if generateSeedHex == "" {
		return randsrc.CryptoSource{}, nil
	}
	seed, err := hex.DecodeString(generateSeedHex)
	if err != nil {
		return nil, sskrerr.Wrap(sskrerr.ErrInvalidInput, "decoding --deterministic-seed-hex")
	}
	return randsrc.NewDeterministicSource(seed, []byte("sskr generate")), nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	groups, err := parseGroupSpecs(generateGroups)
	if err != nil {
		return err
	}

	policy := sskr.Policy{GroupThreshold: generateGroupThreshold, Groups: groups}
	if verr := policy.Validate(); verr != nil {
		return sskrerr.FromCore(verr)
	}

	secret, err := resolveSecret()
	if err != nil {
		return err
	}
	defer secure.Zero(secret)

	rng, err := resolveRandomSource()
	if err != nil {
		return err
	}

	engine := sskr.NewEngine(rng, digest.HMACSHA256{})
	shares, err := engine.GenerateShares(policy, secret)
	if err != nil {
		return sskrerr.FromCore(err)
	}

	if Logger() != nil {
		Logger().Debug("generate: id=%d groups=%d groupThreshold=%d shares=%d",
			shares[0].ID, len(policy.Groups), policy.GroupThreshold, len(shares))
	}

	if generateExportPath != "" {
		return exportBundle(shares)
	}

	return printShares(cmd, shares)
}

func exportBundle(shares []sskr.Share) error {
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

	if werr := fileutil.WriteAtomic(generateExportPath, sealed, 0o600); werr != nil {
		return sskrerr.Wrap(werr, "writing bundle to %s", generateExportPath)
	}

	return output.FormatSuccess(os.Stdout, "wrote "+strconv.Itoa(len(shares))+" shares to "+generateExportPath, currentFormat())
}

func printShares(cmd *cobra.Command, shares []sskr.Share) error {
	if currentFormat() == output.FormatJSON {
		type shareView struct {
			ID              uint16 `json:"id"`
			GroupIndex      int    `json:"group_index"`
			MemberIndex     int    `json:"member_index"`
			GroupThreshold  int    `json:"group_threshold"`
			GroupCount      int    `json:"group_count"`
			MemberThreshold int    `json:"member_threshold"`
			Text            string `json:"text"`
		}
		views := make([]shareView, 0, len(shares))
		for _, s := range shares {
			text, err := sskr.EncodeText(s)
			if err != nil {
				return sskrerr.FromCore(err)
			}
			views = append(views, shareView{
				ID: s.ID, GroupIndex: s.GroupIndex, MemberIndex: s.MemberIndex,
				GroupThreshold: s.GroupThreshold, GroupCount: s.GroupCount,
				MemberThreshold: s.MemberThreshold, Text: text,
			})
		}
		return writeJSON(cmd.OutOrStdout(), views)
	}

	for _, s := range shares {
		text, err := sskr.EncodeText(s)
		if err != nil {
			return sskrerr.FromCore(err)
		}
		outln(cmd.OutOrStdout(), text)
	}
	return nil
}

// currentFormat returns the active output format, defaulting to text when
// no formatter has been initialized (e.g. in a unit test calling RunE
// directly).
func currentFormat() output.Format {
	if formatter == nil {
		return output.FormatText
	}
	return formatter.Format()
}
