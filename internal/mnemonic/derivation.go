package mnemonic

import (
	"fmt"

	"github.com/tyler-smith/go-bip32"
)

// DeriveMasterKey turns a 64-byte BIP-39 seed (see MnemonicToSeed) into
// its BIP-32 extended master key, so a recovered SSKR secret can be
// shown end-to-end as a wallet's HD root rather than raw entropy bytes.
func DeriveMasterKey(seed []byte) (*bip32.Key, error) {
	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("derive master key: %w", err)
	}
	return key, nil
}

// DeriveChild derives the child key at the given BIP-32 index from a
// parent key. Indices at or above bip32.FirstHardenedChild produce a
// hardened child.
func DeriveChild(parent *bip32.Key, index uint32) (*bip32.Key, error) {
	child, err := parent.NewChildKey(index)
	if err != nil {
		return nil, fmt.Errorf("derive child key at index %d: %w", index, err)
	}
	return child, nil
}
