package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/sskr/internal/cryptoenc"
	"github.com/mrz1836/sskr/internal/sskr"
)

func TestExportBundle_SealAndOpenRoundTrip(t *testing.T) {
	texts := generateTestShareTexts(t)

	shares := make([]sskr.Share, 0, len(texts))
	for _, text := range texts {
		s, err := sskr.DecodeText(text)
		require.NoError(t, err)
		shares = append(shares, s)
	}

	bundle, err := cryptoenc.NewBundle(shares, time.Now())
	require.NoError(t, err)

	sealed, err := cryptoenc.Seal(bundle, "correct horse battery staple")
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.age")
	require.NoError(t, os.WriteFile(path, sealed, 0o600))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	opened, err := cryptoenc.Open(raw, "correct horse battery staple")
	require.NoError(t, err)

	decoded, err := opened.Decode()
	require.NoError(t, err)
	require.Len(t, decoded, len(shares))
}

func TestExportBundle_WrongPassphraseFails(t *testing.T) {
	texts := generateTestShareTexts(t)

	shares := make([]sskr.Share, 0, len(texts))
	for _, text := range texts {
		s, err := sskr.DecodeText(text)
		require.NoError(t, err)
		shares = append(shares, s)
	}

	bundle, err := cryptoenc.NewBundle(shares, time.Now())
	require.NoError(t, err)

	sealed, err := cryptoenc.Seal(bundle, "correct horse battery staple")
	require.NoError(t, err)

	_, err = cryptoenc.Open(sealed, "wrong passphrase")
	require.Error(t, err)
}
