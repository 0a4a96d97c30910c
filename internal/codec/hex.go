package codec

import (
	"fmt"
	"math/big"
	"strings"
)

// ParseHexBig decodes a 0x-prefixed hex string into a non-negative integer.
func ParseHexBig(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("hex: empty string")
	}
	ss := strings.TrimPrefix(strings.ToLower(s), "0x")
	if ss == "" {
		return nil, fmt.Errorf("hex: no digits")
	}
	n, ok := new(big.Int).SetString(ss, 16)
	if !ok {
		return nil, fmt.Errorf("hex: invalid digits in %q", s)
	}
	// SetString tolerates a sign prefix; this codec does not.
	if n.Sign() < 0 {
		return nil, fmt.Errorf("hex: negative value %q", s)
	}
	return n, nil
}

func HexBig(n *big.Int) string {
	if n == nil {
		return "0x0"
	}
	return "0x" + strings.ToLower(n.Text(16))
}
