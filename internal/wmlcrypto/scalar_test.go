package wmlcrypto

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderScalarSource_Range(t *testing.T) {
	src := NewReaderScalarSource(rand.Reader)
	for i := 0; i < 32; i++ {
		k, err := src.Scalar()
		require.NoError(t, err)
		require.Positive(t, k.Sign())
		require.Negative(t, k.Cmp(GroupOrder))
	}
}

func TestDeriveScalar_Deterministic(t *testing.T) {
	a, err := DeriveScalar("test/domain", []byte("msg"))
	require.NoError(t, err)
	b, err := DeriveScalar("test/domain", []byte("msg"))
	require.NoError(t, err)
	require.Zero(t, a.Cmp(b))

	require.Positive(t, a.Sign())
	require.Negative(t, a.Cmp(GroupOrder))
}

func TestDeriveScalar_DomainSeparation(t *testing.T) {
	a, err := DeriveScalar("domain/a", []byte("msg"))
	require.NoError(t, err)
	b, err := DeriveScalar("domain/b", []byte("msg"))
	require.NoError(t, err)
	require.NotZero(t, a.Cmp(b))

	c, err := DeriveScalar("domain/a", []byte("other"))
	require.NoError(t, err)
	require.NotZero(t, a.Cmp(c))
}

func TestDeriveScalar_RejectsNilMsg(t *testing.T) {
	_, err := DeriveScalar("test/domain", nil)
	require.Error(t, err)
}

func TestDerivedScalarSource_Stream(t *testing.T) {
	a := NewDerivedScalarSource("test/stream", []byte("seed"))
	b := NewDerivedScalarSource("test/stream", []byte("seed"))

	var prev *big.Int
	for i := 0; i < 4; i++ {
		ka, err := a.Scalar()
		require.NoError(t, err)
		kb, err := b.Scalar()
		require.NoError(t, err)
		require.Zero(t, ka.Cmp(kb), "stream position %d", i)
		if prev != nil {
			require.NotZero(t, ka.Cmp(prev), "stream must not repeat")
		}
		prev = ka
	}

	other := NewDerivedScalarSource("test/stream", []byte("other-seed"))
	ko, err := other.Scalar()
	require.NoError(t, err)
	require.NotZero(t, ko.Cmp(prev))
}
