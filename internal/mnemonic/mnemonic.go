// Package mnemonic lets an operator treat a BIP-39 seed phrase's
// entropy as an SSKR-eligible secret: a 12-word phrase carries 128
// bits (16 bytes) of entropy and a 24-word phrase carries 256 bits
// (32 bytes) — both land inside the 16-32, even-length secret range
// the core accepts, so a wallet seed can be split and recombined
// end-to-end without the operator ever touching raw hex.
package mnemonic

import (
	"errors"
	"math"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/tyler-smith/go-bip39"
)

var (
	// ErrInvalidWordCount indicates the mnemonic must be 12 or 24 words.
	ErrInvalidWordCount = errors.New("word count must be 12 or 24")

	// ErrInvalidMnemonic indicates the mnemonic is not valid.
	ErrInvalidMnemonic = errors.New("invalid mnemonic phrase")

	whitespaceRegex   = regexp.MustCompile(`\s+`)
	numberedListRegex = regexp.MustCompile(`(?m)^\s*\d+[.):]\s*`)
	bulletListRegex   = regexp.MustCompile(`(?m)^\s*[-*•]\s*`)
)

// GenerateMnemonic creates a new BIP-39 mnemonic phrase. wordCount must
// be 12 (128 bits entropy) or 24 (256 bits entropy) — the two sizes
// whose entropy is itself a valid SSKR secret.
func GenerateMnemonic(wordCount int) (string, error) {
	var bitSize int
	switch wordCount {
	case 12:
		bitSize = 128
	case 24:
		bitSize = 256
	default:
		return "", ErrInvalidWordCount
	}

	entropy, err := bip39.NewEntropy(bitSize)
	if err != nil {
		return "", err
	}

	return bip39.NewMnemonic(entropy)
}

// Validate checks that a mnemonic phrase is structurally valid BIP-39
// (word count, word membership, checksum).
func Validate(phrase string) error {
	if phrase == "" {
		return ErrInvalidMnemonic
	}

	normalized := NormalizeInput(phrase)
	words := strings.Fields(normalized)
	if len(words) != 12 && len(words) != 24 {
		return ErrInvalidMnemonic
	}

	if !bip39.IsMnemonicValid(normalized) {
		return ErrInvalidMnemonic
	}

	return nil
}

// EntropyToMnemonic converts raw entropy into its BIP-39 phrase. The
// entropy length must be one bip39.NewEntropy accepts (16, 20, 24, 28,
// or 32 bytes) — every one of which is also a valid SSKR secret length.
func EntropyToMnemonic(entropy []byte) (string, error) {
	return bip39.NewMnemonic(entropy)
}

// MnemonicToEntropy recovers the raw entropy backing a mnemonic phrase,
// validating its checksum in the process. The returned slice is the
// value a caller would feed to sskr.Engine.GenerateShares.
func MnemonicToEntropy(phrase string) ([]byte, error) {
	normalized := NormalizeInput(phrase)
	if !bip39.IsMnemonicValid(normalized) {
		return nil, ErrInvalidMnemonic
	}
	return bip39.EntropyFromMnemonic(normalized)
}

// MnemonicToSeed converts a BIP-39 mnemonic phrase to its 64-byte seed.
// passphrase may be empty.
func MnemonicToSeed(phrase, passphrase string) ([]byte, error) {
	normalized := NormalizeInput(phrase)
	if !bip39.IsMnemonicValid(normalized) {
		return nil, ErrInvalidMnemonic
	}
	return bip39.NewSeed(normalized, passphrase), nil
}

// NormalizeInput lowercases a pasted mnemonic and strips the list
// decoration (numbering, bullets, commas) operators commonly paste
// along with the words.
func NormalizeInput(input string) string {
	input = strings.ToLower(input)
	input = numberedListRegex.ReplaceAllString(input, " ")
	input = bulletListRegex.ReplaceAllString(input, " ")
	input = strings.ReplaceAll(input, ",", " ")
	input = whitespaceRegex.ReplaceAllString(input, " ")
	return strings.TrimSpace(input)
}

// IsValidWord reports whether word is in the BIP-39 English word list.
func IsValidWord(word string) bool {
	_, ok := bip39.GetWordIndex(strings.ToLower(word))
	return ok
}

// MaxTypoDistance is the maximum Levenshtein distance considered a
// plausible typo correction.
const MaxTypoDistance = 2

// TypoInfo describes one detected typo and its suggested correction.
type TypoInfo struct {
	Index      int
	Word       string
	Suggestion string
	Distance   int
}

// SuggestWord finds the closest BIP-39 word to input, or "" if nothing
// within MaxTypoDistance.
func SuggestWord(input string) string {
	input = strings.ToLower(input)
	wordList := bip39.GetWordList()

	minDist := math.MaxInt
	var suggestion string

	for _, word := range wordList {
		dist := levenshtein.ComputeDistance(input, word)
		if dist < minDist {
			minDist = dist
			suggestion = word
		}
		if dist == 0 {
			return word
		}
	}

	if minDist <= MaxTypoDistance {
		return suggestion
	}
	return ""
}

// DetectTypos scans a mnemonic phrase for words absent from the BIP-39
// word list and proposes corrections.
func DetectTypos(phrase string) []TypoInfo {
	if phrase == "" {
		return nil
	}

	normalized := NormalizeInput(phrase)
	words := strings.Fields(normalized)
	var typos []TypoInfo

	for i, word := range words {
		if IsValidWord(word) {
			continue
		}
		suggestion := SuggestWord(word)
		distance := 0
		if suggestion != "" {
			distance = levenshtein.ComputeDistance(word, suggestion)
		}
		typos = append(typos, TypoInfo{Index: i, Word: word, Suggestion: suggestion, Distance: distance})
	}

	return typos
}
