package sskr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/sskr/internal/corerr"
)

func TestPolicyValidateAccepts(t *testing.T) {
	p := Policy{
		GroupThreshold: 2,
		Groups: []GroupSpec{
			{Threshold: 2, Count: 3},
			{Threshold: 3, Count: 5},
		},
	}
	require.NoError(t, p.Validate())
}

func TestPolicyValidateRejectsBadGroupThreshold(t *testing.T) {
	p := Policy{GroupThreshold: 3, Groups: []GroupSpec{{Threshold: 1, Count: 1}, {Threshold: 1, Count: 1}}}
	err := p.Validate()
	require.Error(t, err)
	assert.True(t, corerr.Is(err, corerr.IllegalValue))
}

func TestPolicyValidateRejectsBadMemberThreshold(t *testing.T) {
	p := Policy{GroupThreshold: 1, Groups: []GroupSpec{{Threshold: 4, Count: 3}}}
	err := p.Validate()
	require.Error(t, err)
	assert.True(t, corerr.Is(err, corerr.IllegalValue))
}

func TestPolicyValidateRejectsTooManyGroups(t *testing.T) {
	groups := make([]GroupSpec, 17)
	for i := range groups {
		groups[i] = GroupSpec{Threshold: 1, Count: 1}
	}
	p := Policy{GroupThreshold: 1, Groups: groups}
	err := p.Validate()
	require.Error(t, err)
	assert.True(t, corerr.Is(err, corerr.IllegalValue))
}
