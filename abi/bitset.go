/*
 * Copyright 2023 ICON Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package abi

import (
	"strings"

	"github.com/eosabi/abicodec/abi/wire"
)

// bitset: a varuint32 bit count then the packed bits, little-endian within
// each byte (bit 0 of byte 0 is element 0). JSON is a string of '0'/'1'
// running high-order bit first; ABI 1.3+ requires a "0b" prefix on that
// string (§4.2, abiMinor gates it since earlier documents omit it).
// bitsetFromJSON itself strips an optional prefix; leafFromJSON enforces
// the version gate before calling it.

func encodeBitset(w *wire.Writer, bits []bool) {
	w.WriteVarUint32(uint32(len(bits)))
	nbytes := (len(bits) + 7) / 8
	packed := make([]byte, nbytes)
	for i, b := range bits {
		if b {
			packed[i/8] |= 1 << uint(i%8)
		}
	}
	w.Write(packed)
}

func decodeBitset(r *wire.Reader) ([]bool, error) {
	n, err := decodeVarUint32(r)
	if err != nil {
		return nil, err
	}
	nbytes := (int(n) + 7) / 8
	packed, err := r.ReadN(nbytes)
	if err != nil {
		return nil, errorf(KindStream, "underrun reading %d-bit bitset", n)
	}
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = packed[i/8]&(1<<uint(i%8)) != 0
	}
	return bits, nil
}

func bitsetToJSON(bits []bool, withPrefix bool) string {
	var sb strings.Builder
	if withPrefix {
		sb.WriteString("0b")
	}
	for i := len(bits) - 1; i >= 0; i-- {
		if bits[i] {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func bitsetFromJSON(s string) ([]bool, error) {
	s = strings.TrimPrefix(s, "0b")
	bits := make([]bool, len(s))
	for i, c := range s {
		switch c {
		case '0':
			bits[len(s)-1-i] = false
		case '1':
			bits[len(s)-1-i] = true
		default:
			return nil, errorf(KindParse, "bitset string %q has a non-binary character %q", s, c)
		}
	}
	return bits, nil
}
