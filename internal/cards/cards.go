// Package cards fixes the bit layout that fuses a card identifier with an
// encryption scalar into a single encodable field element. The layout is a
// consensus artifact: every validator must reproduce it bit-for-bit, so the
// shift amounts below are constants, not parameters.
package cards

import (
	"math/big"

	"wormle/internal/wmlcrypto"
)

const (
	// idShift positions the identifier in the top byte of the 256-bit layout.
	idShift = 248
	// kDropBits discards the low byte-noise of the scalar before the
	// identifier is written over the top byte.
	kDropBits = 8
)

// PackCard builds the id-plaintext: ((k >> 8) | (id << 248)) >> 10. The final
// shift leaves the point encoder its search headroom, so the result is always
// below 2^246.
func PackCard(id uint8, k *big.Int) *big.Int {
	v := new(big.Int).Rsh(k, kDropBits)
	v.Or(v, new(big.Int).Lsh(big.NewInt(int64(id)), idShift))
	return v.Rsh(v, wmlcrypto.EncodeSearchBits)
}

// PackScalar builds the k-plaintext: the scalar itself with the same encoding
// headroom shift, committed separately as a revealable check value.
func PackScalar(k *big.Int) *big.Int {
	return new(big.Int).Rsh(k, wmlcrypto.EncodeSearchBits)
}

// CardID recovers the identifier from the top byte of the unshifted 256-bit
// layout. Valid only for values laid out exactly as PackCard does before its
// final headroom shift.
func CardID(unshifted *big.Int) uint8 {
	return uint8(new(big.Int).Rsh(unshifted, idShift).Uint64())
}

// UnpackID recovers the identifier from a PackCard result by undoing the
// headroom shift first.
func UnpackID(packed *big.Int) uint8 {
	return CardID(new(big.Int).Lsh(packed, wmlcrypto.EncodeSearchBits))
}
