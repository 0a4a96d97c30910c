package cards

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// Hand-computed layout vectors. These pin the exact shift sequence; any
// change here breaks every previously stored commitment.
func TestPackCard_Vectors(t *testing.T) {
	// k = 0x3FF: k>>8 = 3, id=1 in the top byte, then >>10.
	// ((1<<248) | 3) >> 10 = 1<<238 (the low bits fall off).
	got := PackCard(1, big.NewInt(0x3FF))
	want := new(big.Int).Lsh(big.NewInt(1), 238)
	require.Zero(t, want.Cmp(got))

	// id = 0: pure scalar noise, (k>>8)>>10 = k>>18.
	got = PackCard(0, new(big.Int).Lsh(big.NewInt(1), 18))
	require.Zero(t, big.NewInt(1).Cmp(got))

	// Zero scalar: only the identifier survives.
	got = PackCard(0xAB, new(big.Int))
	want = new(big.Int).Lsh(big.NewInt(0xAB), 238)
	require.Zero(t, want.Cmp(got))
}

func TestPackScalar_Vector(t *testing.T) {
	got := PackScalar(new(big.Int).Lsh(big.NewInt(1), 20))
	want := new(big.Int).Lsh(big.NewInt(1), 10)
	require.Zero(t, want.Cmp(got))
}

func TestUnpackID_AllIdentifiers(t *testing.T) {
	ks := []*big.Int{
		new(big.Int),
		big.NewInt(1),
		big.NewInt(0x3FF),
		new(big.Int).Lsh(big.NewInt(0xDEADBEEF), 100),
		new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 254), big.NewInt(1)),
	}
	for id := 0; id < 256; id++ {
		for _, k := range ks {
			packed := PackCard(uint8(id), k)
			require.Equal(t, uint8(id), UnpackID(packed), "id=%d k=%v", id, k)
		}
	}
}

func TestCardID_UnshiftedLayout(t *testing.T) {
	k := new(big.Int).Lsh(big.NewInt(0x1234567), 64)
	for _, id := range []uint8{0, 1, 5, 0x80, 0xFF} {
		unshifted := new(big.Int).Rsh(k, 8)
		unshifted.Or(unshifted, new(big.Int).Lsh(big.NewInt(int64(id)), 248))
		require.Equal(t, id, CardID(unshifted))
	}
}

// Packed plaintexts must always fit the point encoder's input bound.
func TestPackCard_FitsEncoderBound(t *testing.T) {
	kMax := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 254), big.NewInt(1))
	packed := PackCard(0xFF, kMax)
	require.LessOrEqual(t, packed.BitLen(), 246)
	require.LessOrEqual(t, PackScalar(kMax).BitLen(), 246)
}
