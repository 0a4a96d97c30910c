package wmlcrypto

import (
	"fmt"
	"math/big"
)

const CiphertextBytes = 2 * PointBytes

// Ciphertext is a two-point EC-ElGamal ciphertext in additive notation:
//
//	C1 = k*G
//	C2 = M + k*PK
//
// where M is the Koblitz encoding of the plaintext. The all-zero ciphertext
// is the sentinel for an empty/consumed commitment.
type Ciphertext struct {
	C1 Point `json:"c1"`
	C2 Point `json:"c2"`
}

func CiphertextZero() Ciphertext {
	return Ciphertext{C1: PointZero(), C2: PointZero()}
}

func (c Ciphertext) IsZero() bool {
	return c.C1.IsZero() && c.C2.IsZero()
}

// Eq compares all four coordinates.
func (c Ciphertext) Eq(o Ciphertext) bool {
	return PointEq(c.C1, o.C1) && PointEq(c.C2, o.C2)
}

func (c Ciphertext) Bytes() []byte {
	return append(c.C1.Bytes(), c.C2.Bytes()...)
}

func CiphertextFromBytes(b []byte) (Ciphertext, error) {
	if len(b) != CiphertextBytes {
		return Ciphertext{}, fmt.Errorf("ciphertext: expected %d bytes, got %d", CiphertextBytes, len(b))
	}
	c1, err := PointFromBytes(b[:PointBytes])
	if err != nil {
		return Ciphertext{}, fmt.Errorf("ciphertext c1: %w", err)
	}
	c2, err := PointFromBytes(b[PointBytes:])
	if err != nil {
		return Ciphertext{}, fmt.Errorf("ciphertext c2: %w", err)
	}
	return Ciphertext{C1: c1, C2: c2}, nil
}

// Encrypt encodes data as a curve point and encrypts it to pk under the
// caller-supplied ephemeral scalar k. Encoding failure propagates before any
// point arithmetic happens. Decryption is deliberately not provided here:
// verification works by re-encrypting a claimed plaintext and comparing.
//
// Security rests on k being unpredictable and never reused for the same key.
func Encrypt(data *big.Int, pk Point, k *big.Int) (Ciphertext, error) {
	if k == nil || k.Sign() == 0 {
		// Zero randomness is valid mathematically but leaks the plaintext.
		return CiphertextZero(), fmt.Errorf("encrypt: k must be non-zero")
	}
	if pk.IsZero() {
		return CiphertextZero(), fmt.Errorf("encrypt: %w: sentinel public key", ErrMalformedPoint)
	}
	m, err := EncodePoint(data)
	if err != nil {
		return CiphertextZero(), fmt.Errorf("encrypt: %w", err)
	}
	c1 := MulBase(k)
	mask, err := MulPoint(pk, k)
	if err != nil {
		return CiphertextZero(), fmt.Errorf("encrypt: %w", err)
	}
	c2, err := PointAdd(m, mask)
	if err != nil {
		return CiphertextZero(), fmt.Errorf("encrypt: %w", err)
	}
	return Ciphertext{C1: c1, C2: c2}, nil
}
