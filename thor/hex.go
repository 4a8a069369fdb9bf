// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
)

// decodeFixed decodes s, with or without the 0x prefix, into dst. The encoded length must
// match len(dst) exactly.
func decodeFixed(dst []byte, s string) error {
	if len(s) == 2*len(dst)+2 {
		if !strings.EqualFold(s[:2], "0x") {
			return errors.New("invalid prefix")
		}
		s = s[2:]
	}
	if len(s) != 2*len(dst) {
		return errors.New("invalid length")
	}
	_, err := hex.Decode(dst, []byte(s))
	return err
}

func encodeHex(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

func unmarshalHexJSON(dst []byte, data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return decodeFixed(dst, s)
}
