package sskr

import "github.com/mrz1836/sskr/internal/corerr"

// GroupSpec is one (threshold, count) pair within a Policy's group
// list, spec.md §3's "(tᵢ, nᵢ)".
type GroupSpec struct {
	Threshold int
	Count     int
}

// Policy bundles the two-level threshold structure spec.md §3 calls
// the policy descriptor: a top-level group threshold plus one
// (threshold, count) pair per group.
type Policy struct {
	GroupThreshold int
	Groups         []GroupSpec
}

const opPolicy = "sskr.Policy.Validate"

// Validate enforces generateShares' preconditions from spec.md §4.4:
// 1 <= gt <= g <= 16, and for each group 1 <= t <= n <= 16.
func (p Policy) Validate() error {
	g := len(p.Groups)
	if g < 1 || g > 16 {
		return corerr.New(corerr.IllegalValue, opPolicy, "group count out of range [1,16]")
	}
	if p.GroupThreshold < 1 || p.GroupThreshold > g {
		return corerr.New(corerr.IllegalValue, opPolicy, "group threshold out of range [1,g]")
	}
	for _, spec := range p.Groups {
		if spec.Threshold < 1 || spec.Threshold > 16 {
			return corerr.New(corerr.IllegalValue, opPolicy, "member threshold out of range [1,16]")
		}
		if spec.Count < 1 || spec.Count > 16 {
			return corerr.New(corerr.IllegalValue, opPolicy, "member count out of range [1,16]")
		}
		if spec.Threshold > spec.Count {
			return corerr.New(corerr.IllegalValue, opPolicy, "member threshold exceeds member count")
		}
	}
	return nil
}
