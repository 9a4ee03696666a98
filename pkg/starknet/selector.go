package starknet

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
)

// EntrypointSelector computes the sn_keccak selector of an entrypoint name:
// keccak256 of the name truncated to the low 250 bits.
func EntrypointSelector(name string) string {
	hash := crypto.Keccak256([]byte(name))
	selector := new(big.Int).SetBytes(hash)
	mask := new(big.Int).Lsh(big.NewInt(1), 250)
	mask.Sub(mask, big.NewInt(1))
	selector.And(selector, mask)
	return fmt.Sprintf("%#x", selector)
}

// ParseFelt decodes a felt from its hex or decimal string form.
func ParseFelt(s string) (*big.Int, error) {
	value, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("not a felt: %q", s)
	}
	return value, nil
}
