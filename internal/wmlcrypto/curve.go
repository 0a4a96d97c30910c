package wmlcrypto

import (
	"fmt"
	"math/big"

	bn256 "github.com/ethereum/go-ethereum/crypto/bn256/cloudflare"
)

const PointBytes = 64

// alt_bn128 G1 parameters. These are consensus constants and must match the
// curve implementation bit-for-bit.
var (
	// FieldOrder is the prime modulus p of the coordinate field.
	FieldOrder = mustBig("21888242871839275222246405745257275088696311157297823662689037894645226208583")
	// GroupOrder is the prime order n of the G1 group.
	GroupOrder = mustBig("21888242871839275222246405745257275088548364400416034343698204186575808495617")

	curveB = big.NewInt(3)
)

func mustBig(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("wmlcrypto: bad curve constant")
	}
	return n
}

// ErrMalformedPoint reports an input the curve arithmetic cannot accept:
// coordinates off the curve, out of field range, or the (0,0) sentinel used
// where a real point is required. It is fatal for the enclosing operation.
var ErrMalformedPoint = fmt.Errorf("wmlcrypto: malformed curve point")

// Point is an affine alt_bn128 G1 point. The pair (0,0) is the sentinel for
// "empty"/"not found"; it is never accepted as an operand by the arithmetic
// helpers below.
type Point struct {
	X *big.Int `json:"x"`
	Y *big.Int `json:"y"`
}

func PointZero() Point {
	return Point{X: new(big.Int), Y: new(big.Int)}
}

// Generator returns the fixed G1 generator (1, 2).
func Generator() Point {
	return Point{X: big.NewInt(1), Y: big.NewInt(2)}
}

func (p Point) IsZero() bool {
	return (p.X == nil || p.X.Sign() == 0) && (p.Y == nil || p.Y.Sign() == 0)
}

// Bytes returns the 64-byte big-endian x||y encoding. The sentinel encodes as
// 64 zero bytes.
func (p Point) Bytes() []byte {
	out := make([]byte, PointBytes)
	if p.X != nil {
		xb := p.X.Bytes()
		copy(out[32-len(xb):32], xb)
	}
	if p.Y != nil {
		yb := p.Y.Bytes()
		copy(out[64-len(yb):], yb)
	}
	return out
}

func PointEq(a, b Point) bool {
	ax, ay := coordsOf(a)
	bx, by := coordsOf(b)
	return ax.Cmp(bx) == 0 && ay.Cmp(by) == 0
}

func coordsOf(p Point) (*big.Int, *big.Int) {
	x, y := p.X, p.Y
	if x == nil {
		x = new(big.Int)
	}
	if y == nil {
		y = new(big.Int)
	}
	return x, y
}

// PointFromCoords builds a point from affine coordinates, accepting only
// on-curve pairs and the (0,0) sentinel.
func PointFromCoords(x, y *big.Int) (Point, error) {
	if x == nil || y == nil {
		return Point{}, fmt.Errorf("%w: nil coordinate", ErrMalformedPoint)
	}
	if x.Sign() < 0 || y.Sign() < 0 || x.Cmp(FieldOrder) >= 0 || y.Cmp(FieldOrder) >= 0 {
		return Point{}, fmt.Errorf("%w: coordinate outside field range", ErrMalformedPoint)
	}
	p := Point{X: new(big.Int).Set(x), Y: new(big.Int).Set(y)}
	if p.IsZero() {
		return p, nil
	}
	if _, err := p.bn(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// PointFromBytes recovers a point from the encoding produced by Bytes.
func PointFromBytes(b []byte) (Point, error) {
	if len(b) != PointBytes {
		return Point{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedPoint, PointBytes, len(b))
	}
	x := new(big.Int).SetBytes(b[:32])
	y := new(big.Int).SetBytes(b[32:])
	return PointFromCoords(x, y)
}

// bn converts to the arithmetic backend, performing its on-curve check. The
// sentinel is rejected here so it can never flow into point arithmetic.
func (p Point) bn() (*bn256.G1, error) {
	if p.IsZero() {
		return nil, fmt.Errorf("%w: sentinel (0,0)", ErrMalformedPoint)
	}
	g := new(bn256.G1)
	if _, err := g.Unmarshal(p.Bytes()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPoint, err)
	}
	return g, nil
}

func pointFromBN(g *bn256.G1) Point {
	b := g.Marshal()
	return Point{
		X: new(big.Int).SetBytes(b[:32]),
		Y: new(big.Int).SetBytes(b[32:]),
	}
}

// PointAdd returns a + b. Operands must be on the curve.
func PointAdd(a, b Point) (Point, error) {
	ga, err := a.bn()
	if err != nil {
		return Point{}, err
	}
	gb, err := b.bn()
	if err != nil {
		return Point{}, err
	}
	return pointFromBN(new(bn256.G1).Add(ga, gb)), nil
}

// MulPoint returns k*p. The operand must be on the curve.
func MulPoint(p Point, k *big.Int) (Point, error) {
	g, err := p.bn()
	if err != nil {
		return Point{}, err
	}
	return pointFromBN(new(bn256.G1).ScalarMult(g, k)), nil
}

// MulBase returns k*G for the fixed generator.
func MulBase(k *big.Int) Point {
	return pointFromBN(new(bn256.G1).ScalarBaseMult(k))
}

// modExp is the thin glue over the bigint exponentiation primitive.
func modExp(base, exp, mod *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, mod)
}
