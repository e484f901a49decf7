package cryptoenc

import (
	"encoding/json"
	"time"

	"github.com/mrz1836/sskr/internal/corerr"
	"github.com/mrz1836/sskr/internal/sskr"
)

// BundleVersion is the current on-disk share-bundle schema version.
const BundleVersion = 1

// Bundle is the JSON document written to disk (then age-encrypted) by
// an export operation, and read back by import. It carries enough of
// the split's metadata to let an operator confirm the policy a bundle
// was generated under without decoding every share.
type Bundle struct {
	Version        int       `json:"version"`
	ID             uint16    `json:"id"`
	GroupThreshold int       `json:"group_threshold"`
	GroupCount     int       `json:"group_count"`
	CreatedAt      time.Time `json:"created_at"`
	Shares         []string  `json:"shares"`
}

// NewBundle builds a Bundle from a generated share set. shares must all
// belong to the same split (shared id, gt, g), as produced by a single
// sskr.Engine.GenerateShares call.
func NewBundle(shares []sskr.Share, createdAt time.Time) (Bundle, error) {
	if len(shares) == 0 {
		return Bundle{}, corerr.New(corerr.IllegalValue, "cryptoenc.NewBundle", "cannot bundle an empty share set")
	}

	first := shares[0]
	texts := make([]string, len(shares))
	for i, s := range shares {
		if s.ID != first.ID || s.GroupThreshold != first.GroupThreshold || s.GroupCount != first.GroupCount {
			return Bundle{}, corerr.New(corerr.IllegalValue, "cryptoenc.NewBundle", "shares in a bundle must belong to the same split")
		}
		text, err := sskr.EncodeText(s)
		if err != nil {
			return Bundle{}, err
		}
		texts[i] = text
	}

	return Bundle{
		Version:        BundleVersion,
		ID:             first.ID,
		GroupThreshold: first.GroupThreshold,
		GroupCount:     first.GroupCount,
		CreatedAt:      createdAt,
		Shares:         texts,
	}, nil
}

// Decode parses every share text in the bundle back into sskr.Share
// values, in bundle order.
func (b Bundle) Decode() ([]sskr.Share, error) {
	shares := make([]sskr.Share, len(b.Shares))
	for i, text := range b.Shares {
		s, err := sskr.DecodeText(text)
		if err != nil {
			return nil, err
		}
		shares[i] = s
	}
	return shares, nil
}

// Seal marshals the bundle to JSON and encrypts it under passphrase.
func Seal(b Bundle, passphrase string) ([]byte, error) {
	plaintext, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, err
	}
	return Encrypt(plaintext, passphrase)
}

// Open decrypts ciphertext produced by Seal and parses the resulting
// JSON back into a Bundle.
func Open(ciphertext []byte, passphrase string) (Bundle, error) {
	plaintext, err := Decrypt(ciphertext, passphrase)
	if err != nil {
		return Bundle{}, err
	}

	var b Bundle
	if err := json.Unmarshal(plaintext, &b); err != nil {
		return Bundle{}, err
	}
	return b, nil
}
