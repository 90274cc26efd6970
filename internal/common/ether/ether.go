// Package ether converts between decimal ether strings and wei.
package ether

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

var weiPerEther = new(big.Rat).SetInt(big.NewInt(params.Ether))

// Parse converts a decimal ether amount ("1", "0.01") to wei. A "wei" suffix
// ("250wei") is taken as a raw wei amount.
func Parse(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}

	if raw, ok := strings.CutSuffix(s, "wei"); ok {
		wei, ok := new(big.Int).SetString(strings.TrimSpace(raw), 10)
		if !ok {
			return nil, fmt.Errorf("invalid wei amount %q", s)
		}
		if wei.Sign() < 0 {
			return nil, fmt.Errorf("negative amount %q", s)
		}
		return wei, nil
	}

	value, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid ether amount %q", s)
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", s)
	}

	value.Mul(value, weiPerEther)
	if !value.IsInt() {
		return nil, fmt.Errorf("amount %q is finer than one wei", s)
	}

	return new(big.Int).Set(value.Num()), nil
}

// MustParse is Parse for constants
func MustParse(s string) *big.Int {
	wei, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return wei
}

// Format renders wei as a decimal ether string without trailing zeros
func Format(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	value := new(big.Rat).SetFrac(wei, big.NewInt(params.Ether))
	out := value.FloatString(18)
	out = strings.TrimRight(out, "0")
	return strings.TrimSuffix(out, ".")
}
