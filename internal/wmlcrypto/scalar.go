package wmlcrypto

import (
	"crypto/rand"
	"crypto/sha512"
	"fmt"
	"io"
	"math/big"
)

var deriveScalarPrefix = []byte("WMLv1|derive_scalar|")

// ScalarSource supplies ephemeral encryption scalars in [1, n-1]. Entropy
// quality is the source's concern, not the core's: reusing a scalar across
// two encryptions under the same key breaks confidentiality.
type ScalarSource interface {
	Scalar() (*big.Int, error)
}

type readerScalarSource struct {
	r io.Reader
}

// NewReaderScalarSource samples scalars from r, typically crypto/rand.Reader.
func NewReaderScalarSource(r io.Reader) ScalarSource {
	return &readerScalarSource{r: r}
}

func (s *readerScalarSource) Scalar() (*big.Int, error) {
	max := new(big.Int).Sub(GroupOrder, big.NewInt(1))
	k, err := rand.Int(s.r, max)
	if err != nil {
		return nil, fmt.Errorf("scalar source: %w", err)
	}
	return k.Add(k, big.NewInt(1)), nil
}

// DeriveScalar hashes a domain separator and length-prefixed messages into a
// scalar in [1, n-1]. Used where scalars must be reproducible across
// validators rather than sampled.
func DeriveScalar(domainSep string, msgs ...[]byte) (*big.Int, error) {
	h := sha512.New()
	h.Write(deriveScalarPrefix)
	updateLenBytes(h, []byte(domainSep))
	for _, m := range msgs {
		if m == nil {
			return nil, fmt.Errorf("deriveScalar: nil msg")
		}
		updateLenBytes(h, m)
	}
	digest := h.Sum(nil) // 64 bytes

	max := new(big.Int).Sub(GroupOrder, big.NewInt(1))
	k := new(big.Int).SetBytes(digest)
	k.Mod(k, max)
	return k.Add(k, big.NewInt(1)), nil
}

type derivedScalarSource struct {
	domain string
	seed   [][]byte
	ctr    uint32
}

// NewDerivedScalarSource yields the deterministic scalar stream
// DeriveScalar(domain, seed..., counter) for counter = 1, 2, ...
func NewDerivedScalarSource(domain string, seed ...[]byte) ScalarSource {
	s := &derivedScalarSource{domain: domain}
	for _, m := range seed {
		s.seed = append(s.seed, append([]byte(nil), m...))
	}
	return s
}

func (s *derivedScalarSource) Scalar() (*big.Int, error) {
	s.ctr++
	msgs := make([][]byte, 0, len(s.seed)+1)
	msgs = append(msgs, s.seed...)
	msgs = append(msgs, u32le(s.ctr))
	return DeriveScalar(s.domain, msgs...)
}
