// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sharemath

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/vechain/stakepool/pool/reverts"
)

// Fraction is the share of epoch rewards kept as the pool owner's fee.
type Fraction struct {
	Numerator   uint32 `json:"numerator" yaml:"numerator"`
	Denominator uint32 `json:"denominator" yaml:"denominator"`
}

// Validate checks the denominator is positive and the fraction is at most 1.
func (f Fraction) Validate() error {
	if f.Denominator == 0 || f.Numerator > f.Denominator {
		return reverts.ErrInvalidFeeFraction
	}
	return nil
}

// Multiply returns floor(value * numerator / denominator).
func (f Fraction) Multiply(value *uint256.Int) *uint256.Int {
	if f.Denominator == 0 {
		return new(uint256.Int)
	}
	// numerator <= denominator keeps the result within 256 bits
	q, _ := new(uint256.Int).MulDivOverflow(value, uint256.NewInt(uint64(f.Numerator)), uint256.NewInt(uint64(f.Denominator)))
	return q
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}
