package wmlcrypto

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireOnCurve(t *testing.T, p Point) {
	t.Helper()
	lhs := new(big.Int).Mul(p.Y, p.Y)
	lhs.Mod(lhs, FieldOrder)
	rhs := new(big.Int).Mul(p.X, p.X)
	rhs.Mod(rhs, FieldOrder)
	rhs.Mul(rhs, p.X)
	rhs.Add(rhs, curveB)
	rhs.Mod(rhs, FieldOrder)
	require.Zero(t, lhs.Cmp(rhs), "y^2 != x^3 + b for x=%v", p.X)
}

func TestEncodePoint_ProducesCurvePoint(t *testing.T) {
	for i := int64(1); i <= 64; i++ {
		input := big.NewInt(i)
		p, err := EncodePoint(input)
		require.NoError(t, err, "input %d", i)
		requireOnCurve(t, p)

		// The input must sit above the 10-bit search nonce.
		require.Zero(t, new(big.Int).Rsh(p.X, EncodeSearchBits).Cmp(input), "input %d", i)

		// The arithmetic backend must accept the encoded point as-is.
		_, err = PointFromCoords(p.X, p.Y)
		require.NoError(t, err)
	}
}

func TestEncodePoint_Deterministic(t *testing.T) {
	input := big.NewInt(123456789)
	a, err := EncodePoint(input)
	require.NoError(t, err)
	b, err := EncodePoint(input)
	require.NoError(t, err)
	require.True(t, PointEq(a, b))
}

func TestEncodePoint_RejectsOversize(t *testing.T) {
	over := new(big.Int).Lsh(big.NewInt(1), EncodeInputBits)
	_, err := EncodePoint(over)
	require.ErrorIs(t, err, ErrInputTooLarge)

	_, err = EncodePoint(big.NewInt(-1))
	require.ErrorIs(t, err, ErrInputTooLarge)

	_, err = EncodePoint(nil)
	require.ErrorIs(t, err, ErrInputTooLarge)
}

// Encoding is probabilistic per input with failure odds around 2^-1024, so a
// batch of boundary inputs failing would signal a real defect, not bad luck.
func TestEncodePoint_BoundaryInputs(t *testing.T) {
	max := new(big.Int).Lsh(big.NewInt(1), EncodeInputBits)
	max.Sub(max, big.NewInt(1)) // 2^246 - 1

	for i := int64(0); i < 32; i++ {
		input := new(big.Int).Sub(max, big.NewInt(i))
		p, err := EncodePoint(input)
		require.NoError(t, err, "boundary input 2^246-1-%d", i)
		requireOnCurve(t, p)
	}
}
