// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// AddressLength length of address in bytes.
const AddressLength = common.AddressLength

// Address identifies a pool participant.
type Address common.Address

var (
	_ json.Marshaler   = (*Address)(nil)
	_ json.Unmarshaler = (*Address)(nil)
)

func (a Address) String() string { return encodeHex(a[:]) }

func (a Address) Bytes() []byte { return a[:] }

func (a Address) IsZero() bool { return a == Address{} }

func (a *Address) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var parsed Address
	if err := unmarshalHexJSON(parsed[:], data); err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses a hex address, the 0x prefix is optional.
func ParseAddress(s string) (*Address, error) {
	var addr Address
	if err := decodeFixed(addr[:], s); err != nil {
		return nil, err
	}
	return &addr, nil
}

// MustParseAddress is ParseAddress panicking on error.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return *addr
}

// BytesToAddress left-pads b, or keeps its rightmost bytes when it is too long.
func BytesToAddress(b []byte) Address {
	return Address(common.BytesToAddress(b))
}
