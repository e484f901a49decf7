package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/mrz1836/sskr/internal/mnemonic"
	"github.com/mrz1836/sskr/internal/secure"
	sskrerr "github.com/mrz1836/sskr/pkg/errors"
)

// out is a helper for CLI output that ignores write errors (standard pattern for CLI tools).
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func out(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format, args...)
}

// outln is a helper for CLI output with newline.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func outln(w io.Writer, args ...interface{}) {
	fmt.Fprintln(w, args...)
}

// promptPassword prompts for a password with hidden input.
// The caller is responsible for zeroing the returned bytes after use.
func promptPassword(prompt string) ([]byte, error) {
	out(os.Stderr, "%s", prompt)

	password, err := term.ReadPassword(syscall.Stdin)
	outln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	return password, nil
}

// promptNewPassphrase prompts for a new bundle-encryption passphrase with
// confirmation, used by "export" before sealing a share bundle.
// The caller is responsible for zeroing the returned bytes after use.
func promptNewPassphrase() ([]byte, error) {
	passphrase, err := promptPassword("Enter bundle encryption passphrase: ")
	if err != nil {
		return nil, err
	}

	if len(passphrase) < 8 {
		secure.Zero(passphrase)
		return nil, sskrerr.WithSuggestion(
			sskrerr.ErrInvalidInput,
			"passphrase must be at least 8 characters",
		)
	}

	confirm, err := promptPassword("Confirm passphrase: ")
	if err != nil {
		secure.Zero(passphrase)
		return nil, err
	}
	defer secure.Zero(confirm)

	if string(passphrase) != string(confirm) {
		secure.Zero(passphrase)
		return nil, sskrerr.WithSuggestion(
			sskrerr.ErrInvalidInput,
			"passphrases do not match",
		)
	}

	return passphrase, nil
}

// promptBIP39Passphrase prompts for an optional BIP39 passphrase used when
// deriving a seed from a recovered mnemonic.
func promptBIP39Passphrase() (string, error) {
	outln(os.Stderr, "\nBIP39 passphrase (optional extra security layer):")
	outln(os.Stderr, "WARNING: If you lose this passphrase, the derived seed cannot be recovered.")

	passphrase, err := promptPassword("Enter passphrase: ")
	if err != nil {
		return "", err
	}

	if len(passphrase) == 0 {
		return "", nil
	}

	confirm, err := promptPassword("Confirm passphrase: ")
	if err != nil {
		secure.Zero(passphrase)
		return "", err
	}
	defer secure.Zero(confirm)

	if string(passphrase) != string(confirm) {
		secure.Zero(passphrase)
		return "", sskrerr.WithSuggestion(
			sskrerr.ErrInvalidInput,
			"passphrases do not match",
		)
	}

	result := string(passphrase)
	secure.Zero(passphrase)
	return result, nil
}

// promptMnemonicInteractive prompts for a multi-word mnemonic phrase,
// stopping as soon as a valid 12- or 24-word phrase has been entered.
func promptMnemonicInteractive() (string, error) {
	out(os.Stderr, "Enter mnemonic (all words on one line): ")

	var words []string
	for i := 0; i < 24; i++ {
		var word string
		_, err := fmt.Scan(&word)
		if err != nil {
			break
		}
		words = append(words, word)

		phrase := strings.Join(words, " ")
		if (len(words) == 12 || len(words) == 24) && mnemonic.Validate(phrase) == nil {
			return phrase, nil
		}
	}

	if len(words) > 0 {
		return strings.Join(words, " "), nil
	}
	return "", sskrerr.WithSuggestion(sskrerr.ErrInvalidInput, "no input provided")
}
