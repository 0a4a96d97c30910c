package wmlcrypto

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerator_IsOnCurve(t *testing.T) {
	g, err := PointFromCoords(big.NewInt(1), big.NewInt(2))
	require.NoError(t, err)
	require.True(t, PointEq(g, Generator()))
}

func TestMulBase_OneIsGenerator(t *testing.T) {
	require.True(t, PointEq(MulBase(big.NewInt(1)), Generator()))
}

func TestPointFromCoords_RejectsOffCurve(t *testing.T) {
	_, err := PointFromCoords(big.NewInt(1), big.NewInt(3))
	require.ErrorIs(t, err, ErrMalformedPoint)
}

func TestPointFromCoords_RejectsOutOfRangeCoordinates(t *testing.T) {
	// Coordinates are field elements; anything at or above p (or negative)
	// must fail cleanly, not reach the byte packing.
	huge := new(big.Int).Lsh(big.NewInt(1), 260)
	_, err := PointFromCoords(huge, big.NewInt(2))
	require.ErrorIs(t, err, ErrMalformedPoint)

	_, err = PointFromCoords(big.NewInt(1), huge)
	require.ErrorIs(t, err, ErrMalformedPoint)

	_, err = PointFromCoords(FieldOrder, big.NewInt(2))
	require.ErrorIs(t, err, ErrMalformedPoint)

	_, err = PointFromCoords(big.NewInt(-1), big.NewInt(2))
	require.ErrorIs(t, err, ErrMalformedPoint)
}

func TestPointFromCoords_AcceptsSentinel(t *testing.T) {
	p, err := PointFromCoords(new(big.Int), new(big.Int))
	require.NoError(t, err)
	require.True(t, p.IsZero())
}

func TestArithmetic_RejectsSentinelOperands(t *testing.T) {
	_, err := PointAdd(Generator(), PointZero())
	require.ErrorIs(t, err, ErrMalformedPoint)

	_, err = PointAdd(PointZero(), Generator())
	require.ErrorIs(t, err, ErrMalformedPoint)

	_, err = MulPoint(PointZero(), big.NewInt(2))
	require.ErrorIs(t, err, ErrMalformedPoint)
}

func TestMulBase_MatchesMulPoint(t *testing.T) {
	k := big.NewInt(482113)
	viaBase := MulBase(k)
	viaPoint, err := MulPoint(Generator(), k)
	require.NoError(t, err)
	require.True(t, PointEq(viaBase, viaPoint))
}

func TestPointAdd_Commutes(t *testing.T) {
	a := MulBase(big.NewInt(3))
	b := MulBase(big.NewInt(9))

	ab, err := PointAdd(a, b)
	require.NoError(t, err)
	ba, err := PointAdd(b, a)
	require.NoError(t, err)
	require.True(t, PointEq(ab, ba))

	// 3G + 9G = 12G
	require.True(t, PointEq(ab, MulBase(big.NewInt(12))))
}

func TestPointBytes_RoundTrip(t *testing.T) {
	p := MulBase(big.NewInt(7))
	b := p.Bytes()
	require.Len(t, b, PointBytes)

	got, err := PointFromBytes(b)
	require.NoError(t, err)
	require.True(t, PointEq(p, got))
}

func TestPointFromBytes_Sentinel(t *testing.T) {
	got, err := PointFromBytes(make([]byte, PointBytes))
	require.NoError(t, err)
	require.True(t, got.IsZero())
}

func TestPointFromBytes_BadLength(t *testing.T) {
	_, err := PointFromBytes(make([]byte, 63))
	require.ErrorIs(t, err, ErrMalformedPoint)
}
