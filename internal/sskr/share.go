// Package sskr implements the two-level group-of-groups Sharded Secret
// Key Reconstruction orchestration described in spec.md §4.4: splitting
// a master secret into serialized member shares governed by a policy,
// and a resumable accumulator that combines shares delivered across one
// or many calls back into the secret.
package sskr

import (
	"encoding/base32"
	"strings"

	"github.com/mrz1836/sskr/internal/corerr"
)

// MetadataSize is the fixed header size of a serialized share, per
// spec.md §3's wire layout table.
const MetadataSize = 5

// UnusedX is the sentinel byte marking an empty slot in an
// accumulator's x-vector; it is never a valid share x-coordinate.
const UnusedX = 0xFF

// Share is a single serialized SSKR share: routing metadata plus an
// L-byte GF(2^8) payload. All shares of one emission share ID,
// GroupCount, and GroupThreshold; each group's shares share GroupIndex
// and MemberThreshold.
type Share struct {
	ID              uint16
	GroupThreshold  int // gt, 1..16
	GroupCount      int // g, 1..16
	GroupIndex      int // gi, 0..15
	MemberThreshold int // mt, 1..16
	MemberIndex     int // mi, 0..15
	Payload         []byte
}

const opMarshal = "sskr.Share.MarshalBinary"
const opUnmarshal = "sskr.Share.UnmarshalBinary"

// MarshalBinary serializes the share to the fixed 5+L byte wire layout
// in spec.md §3.
func (s Share) MarshalBinary() ([]byte, error) {
	if s.GroupThreshold < 1 || s.GroupThreshold > 16 {
		return nil, corerr.New(corerr.IllegalValue, opMarshal, "group threshold out of range [1,16]")
	}
	if s.GroupCount < 1 || s.GroupCount > 16 {
		return nil, corerr.New(corerr.IllegalValue, opMarshal, "group count out of range [1,16]")
	}
	if s.GroupIndex < 0 || s.GroupIndex > 15 {
		return nil, corerr.New(corerr.IllegalValue, opMarshal, "group index out of range [0,15]")
	}
	if s.MemberThreshold < 1 || s.MemberThreshold > 16 {
		return nil, corerr.New(corerr.IllegalValue, opMarshal, "member threshold out of range [1,16]")
	}
	if s.MemberIndex < 0 || s.MemberIndex > 15 {
		return nil, corerr.New(corerr.IllegalValue, opMarshal, "member index out of range [0,15]")
	}
	if len(s.Payload) < 16 || len(s.Payload) > 32 || len(s.Payload)%2 != 0 {
		return nil, corerr.New(corerr.IllegalValue, opMarshal, "payload length out of range [16,32] even")
	}

	out := make([]byte, MetadataSize+len(s.Payload))
	out[0] = byte(s.ID >> 8)
	out[1] = byte(s.ID)
	out[2] = byte((s.GroupThreshold-1)<<4 | (s.GroupCount - 1))
	out[3] = byte(s.GroupIndex<<4 | (s.MemberThreshold - 1))
	out[4] = byte(s.MemberIndex)
	copy(out[MetadataSize:], s.Payload)
	return out, nil
}

// UnmarshalBinary parses a serialized share from its wire layout.
func (s *Share) UnmarshalBinary(b []byte) error {
	if len(b) < MetadataSize+16 {
		return corerr.New(corerr.IllegalValue, opUnmarshal, "share shorter than minimum metadata+payload size")
	}
	l := len(b) - MetadataSize
	if l > 32 || l%2 != 0 {
		return corerr.New(corerr.IllegalValue, opUnmarshal, "payload length out of range [16,32] even")
	}

	s.ID = uint16(b[0])<<8 | uint16(b[1])
	s.GroupThreshold = int(b[2]>>4) + 1
	s.GroupCount = int(b[2]&0x0F) + 1
	s.GroupIndex = int(b[3] >> 4)
	s.MemberThreshold = int(b[3]&0x0F) + 1
	s.MemberIndex = int(b[4])
	s.Payload = append([]byte(nil), b[MetadataSize:]...)

	if s.MemberIndex > 15 {
		return corerr.New(corerr.IllegalValue, opUnmarshal, "member index out of range [0,15]")
	}
	return nil
}

const textPrefix = "sskr1"

// EncodeText renders a share's wire bytes as the presentation-layer
// text form: "sskr1" followed by lowercase, unpadded RFC 4648 base32,
// grouped in 4-character blocks separated by "-" for transcription.
func EncodeText(s Share) (string, error) {
	wire, err := s.MarshalBinary()
	if err != nil {
		return "", err
	}
	enc := strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(wire))

	var sb strings.Builder
	sb.WriteString(textPrefix)
	for i, r := range enc {
		if i > 0 && i%4 == 0 {
			sb.WriteByte('-')
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

const opDecodeText = "sskr.DecodeText"

// DecodeText parses a share previously rendered by EncodeText.
func DecodeText(text string) (Share, error) {
	var zero Share
	if !strings.HasPrefix(text, textPrefix) {
		return zero, corerr.New(corerr.IllegalValue, opDecodeText, "missing sskr1 prefix")
	}
	body := strings.ReplaceAll(text[len(textPrefix):], "-", "")
	wire, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.ToUpper(body))
	if err != nil {
		return zero, corerr.Wrap(corerr.IllegalValue, opDecodeText, "invalid base32 share text", err)
	}

	var s Share
	if err := s.UnmarshalBinary(wire); err != nil {
		return zero, err
	}
	return s, nil
}
