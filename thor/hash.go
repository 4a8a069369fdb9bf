// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto/blake2b"
)

// Blake2b computes the blake2b-256 checksum of the concatenated data.
func Blake2b(data ...[]byte) Bytes32 {
	h, _ := blake2b.New256(nil)
	for _, b := range data {
		h.Write(b)
	}
	var out Bytes32
	h.Sum(out[:0])
	return out
}

// RequestID derives the identifier of an asynchronous pool request.
// The nonce makes two requests with identical parameters distinct.
func RequestID(kind string, account Address, nonce uint64) Bytes32 {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	return Blake2b([]byte(kind), account.Bytes(), n[:])
}
