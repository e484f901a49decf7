package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/sskr/internal/sskr"
)

func TestParseGroupSpecs_Valid(t *testing.T) {
	specs, err := parseGroupSpecs([]string{"2:3", "3:5"})
	require.NoError(t, err)
	assert.Equal(t, []sskr.GroupSpec{{Threshold: 2, Count: 3}, {Threshold: 3, Count: 5}}, specs)
}

func TestParseGroupSpecs_MissingColon(t *testing.T) {
	_, err := parseGroupSpecs([]string{"23"})
	assert.Error(t, err)
}

func TestParseGroupSpecs_NonNumeric(t *testing.T) {
	_, err := parseGroupSpecs([]string{"two:three"})
	assert.Error(t, err)
}

func TestResolveSecret_FromHex(t *testing.T) {
	generateSecretHex = "30313233343536373839414243444546"
	generateMnemonic = ""
	defer func() { generateSecretHex = "" }()

	secret, err := resolveSecret()
	require.NoError(t, err)
	assert.Equal(t, "0123456789ABCDEF", string(secret))
}

func TestResolveRandomSource_Deterministic(t *testing.T) {
	generateSeedHex = "00112233445566778899aabbccddeeff"
	defer func() { generateSeedHex = "" }()

	src, err := resolveRandomSource()
	require.NoError(t, err)

	buf1 := make([]byte, 8)
	require.NoError(t, src.Fill(buf1))

	src2, err := resolveRandomSource()
	require.NoError(t, err)
	buf2 := make([]byte, 8)
	require.NoError(t, src2.Fill(buf2))

	assert.Equal(t, buf1, buf2, "deterministic source must reproduce the same bytes for the same seed")
}

func TestResolveRandomSource_InvalidHex(t *testing.T) {
	generateSeedHex = "not-hex"
	defer func() { generateSeedHex = "" }()

	_, err := resolveRandomSource()
	assert.Error(t, err)
}
