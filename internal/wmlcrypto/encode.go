package wmlcrypto

import (
	"errors"
	"math/big"
)

const (
	// EncodeSearchBits is the width of the Koblitz search nonce reserved in
	// the low bits of every encoded x-coordinate. The card codec depends on
	// this exact value; changing it silently breaks every stored commitment.
	EncodeSearchBits = 10

	// EncodeInputBits bounds encoder inputs: 256-bit layout minus the search
	// headroom. Inputs at or above 2^246 are rejected up front.
	EncodeInputBits = 246

	encodeProbes = 1 << EncodeSearchBits
)

var (
	// ErrEncodingExhausted means no candidate x in the 1024-probe search had a
	// square y^2. Under the quadratic-residue heuristic this happens with
	// probability ~2^-1024 per input; it is terminal for the call, never
	// coerced to a point.
	ErrEncodingExhausted = errors.New("wmlcrypto: point encoding search exhausted")

	// ErrInputTooLarge means the input does not leave room for the search
	// nonce in the 256-bit layout.
	ErrInputTooLarge = errors.New("wmlcrypto: encoder input exceeds 246 bits")

	// sqrtExp = (p+1)/4. A genuine square-root exponent since p = 3 (mod 4).
	sqrtExp = new(big.Int).Rsh(new(big.Int).Add(FieldOrder, big.NewInt(1)), 2)
)

// EncodePoint embeds input as a curve point via Koblitz's method: probe
// x = input<<EncodeSearchBits + i for i in [0,1024), and accept the first x
// whose beta = x^3 + 3 (mod p) is a quadratic residue, with y = beta^((p+1)/4).
// Candidates are reduced mod p before becoming coordinates.
func EncodePoint(input *big.Int) (Point, error) {
	if input == nil || input.Sign() < 0 || input.BitLen() > EncodeInputBits {
		return PointZero(), ErrInputTooLarge
	}

	xStart := new(big.Int).Lsh(input, EncodeSearchBits)
	x := new(big.Int)
	beta := new(big.Int)
	ySq := new(big.Int)
	for i := int64(0); i < encodeProbes; i++ {
		x.SetInt64(i)
		x.Add(x, xStart)
		x.Mod(x, FieldOrder)

		// beta = x^3 + b (mod p)
		beta.Mul(x, x)
		beta.Mod(beta, FieldOrder)
		beta.Mul(beta, x)
		beta.Add(beta, curveB)
		beta.Mod(beta, FieldOrder)

		y := modExp(beta, sqrtExp, FieldOrder)
		ySq.Mul(y, y)
		ySq.Mod(ySq, FieldOrder)
		if ySq.Cmp(beta) == 0 {
			return Point{X: new(big.Int).Set(x), Y: y}, nil
		}
	}
	return PointZero(), ErrEncodingExhausted
}
