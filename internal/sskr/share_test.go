package sskr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/sskr/internal/corerr"
)

func TestShareMarshalLayoutMatchesWireTable(t *testing.T) {
	s := Share{
		ID:              0x4bbf,
		GroupThreshold:  2,
		GroupCount:      2,
		GroupIndex:      1,
		MemberThreshold: 3,
		MemberIndex:     2,
		Payload:         make([]byte, 16),
	}
	for i := range s.Payload {
		s.Payload[i] = byte(i)
	}

	wire, err := s.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, wire, MetadataSize+16)

	assert.Equal(t, byte(0x4b), wire[0])
	assert.Equal(t, byte(0xbf), wire[1])
	assert.Equal(t, byte(1<<4|1), wire[2]) // gt-1=1, g-1=1
	assert.Equal(t, byte(1<<4|2), wire[3]) // gi=1, mt-1=2
	assert.Equal(t, byte(2), wire[4])      // mi=2
	assert.Equal(t, s.Payload, wire[MetadataSize:])
}

func TestShareRoundTripBinary(t *testing.T) {
	s := Share{
		ID:              0xffee,
		GroupThreshold:  16,
		GroupCount:      16,
		GroupIndex:      15,
		MemberThreshold: 16,
		MemberIndex:     15,
		Payload:         make([]byte, 32),
	}
	for i := range s.Payload {
		s.Payload[i] = byte(255 - i)
	}

	wire, err := s.MarshalBinary()
	require.NoError(t, err)

	var got Share
	require.NoError(t, got.UnmarshalBinary(wire))
	assert.Equal(t, s, got)
}

func TestShareMarshalRejectsOutOfRangeFields(t *testing.T) {
	base := Share{GroupThreshold: 1, GroupCount: 1, MemberThreshold: 1, Payload: make([]byte, 16)}

	bad := base
	bad.GroupIndex = 16
	_, err := bad.MarshalBinary()
	require.Error(t, err)
	assert.True(t, corerr.Is(err, corerr.IllegalValue))

	bad2 := base
	bad2.Payload = make([]byte, 15)
	_, err = bad2.MarshalBinary()
	require.Error(t, err)
	assert.True(t, corerr.Is(err, corerr.IllegalValue))
}

func TestShareUnmarshalRejectsShortInput(t *testing.T) {
	var s Share
	err := s.UnmarshalBinary(make([]byte, MetadataSize+15))
	require.Error(t, err)
	assert.True(t, corerr.Is(err, corerr.IllegalValue))
}

func TestEncodeDecodeTextRoundTrip(t *testing.T) {
	s := Share{
		ID:              0x1234,
		GroupThreshold:  2,
		GroupCount:      3,
		GroupIndex:      0,
		MemberThreshold: 2,
		MemberIndex:     1,
		Payload:         make([]byte, 16),
	}
	for i := range s.Payload {
		s.Payload[i] = byte(i * 3)
	}

	text, err := EncodeText(s)
	require.NoError(t, err)
	assert.Regexp(t, `^sskr1[a-z0-9-]+$`, text)

	got, err := DecodeText(text)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestDecodeTextRejectsMissingPrefix(t *testing.T) {
	_, err := DecodeText("not-a-share")
	require.Error(t, err)
	assert.True(t, corerr.Is(err, corerr.IllegalValue))
}
