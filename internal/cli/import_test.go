package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/sskr/internal/cryptoenc"
	"github.com/mrz1836/sskr/internal/sskr"
)

func TestCombineFromBundle_FeedsCombineSession(t *testing.T) {
	texts := generateTestShareTexts(t)

	shares := make([]sskr.Share, 0, len(texts))
	for _, text := range texts {
		s, err := sskr.DecodeText(text)
		require.NoError(t, err)
		shares = append(shares, s)
	}

	bundle, err := cryptoenc.NewBundle(shares, time.Now())
	require.NoError(t, err)

	decoded, err := bundle.Decode()
	require.NoError(t, err)
	require.Len(t, decoded, len(shares))

	combineAsMnemonic = false
	combineDerive = false
	err = combineFromBundle(combineCmd, decoded)
	require.NoError(t, err)
	combineShareTexts = nil
}
