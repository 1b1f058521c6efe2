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
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"github.com/eosabi/abicodec/abi/jsonio"
	"github.com/eosabi/abicodec/abi/wire"
)

// bytes: varuint32 length prefix then raw bytes; JSON is uppercase hex, no
// prefix (§4.1). encoding/hex is stdlib because there is no third-party
// value-add over it for a plain byte<->hex-string conversion.

func encodeBytes(w *wire.Writer, v []byte) {
	w.WriteVarUint32(uint32(len(v)))
	w.Write(v)
}

func decodeBytes(r *wire.Reader) ([]byte, error) {
	n, err := decodeVarUint32(r)
	if err != nil {
		return nil, err
	}
	b, err := r.ReadN(int(n))
	if err != nil {
		return nil, errorf(KindStream, "underrun reading %d-byte blob", n)
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func bytesToJSON(w *jsonio.Writer, v []byte) {
	w.String_(strings.ToUpper(hex.EncodeToString(v)))
}

func bytesFromJSON(v jsonio.Value) ([]byte, error) {
	if v.Kind != jsonio.KindString {
		return nil, errorf(KindParse, "expected hex string, got %v", v.Kind)
	}
	b, err := hex.DecodeString(v.S)
	if err != nil {
		return nil, errorf(KindParse, "invalid hex string %q", v.S)
	}
	return b, nil
}

// string: varuint32 length then UTF-8 bytes; JSON is an escaped string.
// Invalid UTF-8 on emit is replaced byte-wise with '?' (§4.1).

func encodeString(w *wire.Writer, v string) {
	w.WriteVarUint32(uint32(len(v)))
	w.Write([]byte(v))
}

func decodeString(r *wire.Reader) (string, error) {
	n, err := decodeVarUint32(r)
	if err != nil {
		return "", err
	}
	b, err := r.ReadN(int(n))
	if err != nil {
		return "", errorf(KindStream, "underrun reading %d-byte string", n)
	}
	return string(b), nil
}

func stringToJSONSafe(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			sb.WriteByte('?')
			i++
			continue
		}
		sb.WriteRune(r)
		i += size
	}
	return sb.String()
}
