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

import "strings"

// nameAlphabet is the 32-symbol charset a name's five-bit digits index
// into; '.' is digit zero and sorts before every letter. There is no
// ecosystem library for this encoding so it is hand-rolled, same as the
// reference C++ implementation's name.hpp.
const nameAlphabet = ".12345abcdefghijklmnopqrstuvwxyz"

const maxNameChars = 13

// StringToName encodes up to 13 characters of the name alphabet into the
// packed 64-bit representation described in §4.2: twelve 5-bit digits
// followed by a 4-bit thirteenth digit, left-justified into the 64 bits.
func StringToName(s string) (uint64, error) {
	if len(s) > maxNameChars {
		return 0, errorf(KindInvalidName, "name %q exceeds %d characters", s, maxNameChars)
	}
	var value uint64
	for i := 0; i < maxNameChars; i++ {
		var d uint64
		if i < len(s) {
			idx := strings.IndexByte(nameAlphabet, s[i])
			if idx < 0 {
				return 0, errorf(KindInvalidName, "name %q has invalid character %q", s, s[i])
			}
			if i == 12 && idx > 15 {
				return 0, errorf(KindInvalidName, "name %q has invalid 13th character %q", s, s[i])
			}
			d = uint64(idx)
		}
		if i < 12 {
			value |= d << uint(64-5*(i+1))
		} else {
			value |= d
		}
	}
	return value, nil
}

// NameToString is the inverse of StringToName, trimming trailing '.'
// padding digits as the reference implementation does.
func NameToString(value uint64) string {
	var sb strings.Builder
	sb.Grow(maxNameChars)
	v := value
	for i := 0; i < 12; i++ {
		idx := (v >> 59) & 0x1f
		sb.WriteByte(nameAlphabet[idx])
		v <<= 5
	}
	// the 13th digit occupies the low 4 bits of the original value,
	// untouched by the shifts above (those only ever consume bits 63-4).
	idx := value & 0xf
	sb.WriteByte(nameAlphabet[idx])

	s := sb.String()
	return strings.TrimRight(s, ".")
}

func nameToJSON(v uint64) string {
	return NameToString(v)
}

func nameFromJSON(s string) (uint64, error) {
	return StringToName(s)
}
