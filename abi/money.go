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
	"strconv"
	"strings"

	"github.com/eosabi/abicodec/abi/wire"
)

// symbol_code: up to 7 uppercase-letter ticker characters packed little-
// endian into a uint64, one byte per character, unused high bytes zero.

const maxSymbolCodeLen = 7

func encodeSymbolCode(w *wire.Writer, code string) error {
	v, err := symbolCodeToUint64(code)
	if err != nil {
		return err
	}
	return encodeUint(w, 8, v)
}

func decodeSymbolCode(r *wire.Reader) (string, error) {
	v, err := decodeUint(r, 8)
	if err != nil {
		return "", err
	}
	return uint64ToSymbolCode(v), nil
}

func symbolCodeToUint64(code string) (uint64, error) {
	if len(code) > maxSymbolCodeLen {
		return 0, errorf(KindInvalidName, "symbol_code %q exceeds %d characters", code, maxSymbolCodeLen)
	}
	var v uint64
	for i := len(code) - 1; i >= 0; i-- {
		c := code[i]
		if c < 'A' || c > 'Z' {
			return 0, errorf(KindInvalidName, "symbol_code %q has non-uppercase character %q", code, c)
		}
		v = v<<8 | uint64(c)
	}
	return v, nil
}

func uint64ToSymbolCode(v uint64) string {
	var sb strings.Builder
	for v > 0 {
		sb.WriteByte(byte(v & 0xff))
		v >>= 8
	}
	return sb.String()
}

// symbol: a one-byte precision followed by a symbol_code, packed into the
// same uint64 the wire uses (precision in the low byte, code shifted up by
// one byte). JSON is "<precision>,<CODE>".

func encodeSymbol(w *wire.Writer, precision uint8, code string) error {
	v, err := symbolCodeToUint64(code)
	if err != nil {
		return err
	}
	return encodeUint(w, 8, v<<8|uint64(precision))
}

func decodeSymbol(r *wire.Reader) (uint8, string, error) {
	v, err := decodeUint(r, 8)
	if err != nil {
		return 0, "", err
	}
	return uint8(v & 0xff), uint64ToSymbolCode(v >> 8), nil
}

func symbolToJSON(precision uint8, code string) string {
	return strconv.Itoa(int(precision)) + "," + code
}

func symbolFromJSON(s string) (uint8, string, error) {
	idx := strings.IndexByte(s, ',')
	if idx < 0 {
		return 0, "", errorf(KindParse, "symbol %q is missing the precision prefix", s)
	}
	p, err := strconv.ParseUint(s[:idx], 10, 8)
	if err != nil {
		return 0, "", errorf(KindParse, "symbol %q has an invalid precision", s)
	}
	code := s[idx+1:]
	if _, err := symbolCodeToUint64(code); err != nil {
		return 0, "", err
	}
	return uint8(p), code, nil
}

// asset: a signed int64 amount followed by a symbol (§4.2). JSON is
// "<amount with precision-implied decimal point> <CODE>".

func encodeAsset(w *wire.Writer, amount int64, precision uint8, code string) error {
	if err := encodeInt(w, 8, amount); err != nil {
		return err
	}
	return encodeSymbol(w, precision, code)
}

func decodeAsset(r *wire.Reader) (int64, uint8, string, error) {
	amount, err := decodeInt(r, 8)
	if err != nil {
		return 0, 0, "", err
	}
	precision, code, err := decodeSymbol(r)
	return amount, precision, code, err
}

func assetToJSON(amount int64, precision uint8, code string) string {
	return formatFixedPoint(amount, precision) + " " + code
}

func assetFromJSON(s string) (int64, uint8, string, error) {
	s = strings.TrimSpace(s)
	idx := strings.IndexByte(s, ' ')
	if idx < 0 {
		return 0, 0, "", errorf(KindParse, "asset %q is missing a symbol code", s)
	}
	amountStr, code := s[:idx], s[idx+1:]
	amount, precision, err := parseFixedPoint(amountStr)
	if err != nil {
		return 0, 0, "", err
	}
	if _, err := symbolCodeToUint64(code); err != nil {
		return 0, 0, "", err
	}
	return amount, precision, code, nil
}

// formatFixedPoint renders amount (the integer value scaled by 10^precision)
// with its decimal point restored.
func formatFixedPoint(amount int64, precision uint8) string {
	neg := amount < 0
	u := amount
	if neg {
		u = -u
	}
	digits := strconv.FormatInt(u, 10)
	p := int(precision)
	for len(digits) <= p {
		digits = "0" + digits
	}
	var out string
	if p == 0 {
		out = digits
	} else {
		out = digits[:len(digits)-p] + "." + digits[len(digits)-p:]
	}
	if neg {
		out = "-" + out
	}
	return out
}

func parseFixedPoint(s string) (int64, uint8, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var precision uint8
	digits := s
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		digits = s[:idx] + s[idx+1:]
		precision = uint8(len(s) - idx - 1)
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, 0, errorf(KindParse, "invalid fixed-point amount %q", s)
	}
	if neg {
		v = -v
	}
	return v, precision, nil
}

// extended_asset: an asset plus the contract name that issues it.

func encodeExtendedAsset(w *wire.Writer, amount int64, precision uint8, code string, contract uint64) error {
	if err := encodeAsset(w, amount, precision, code); err != nil {
		return err
	}
	return encodeUint(w, 8, contract)
}

func decodeExtendedAsset(r *wire.Reader) (int64, uint8, string, uint64, error) {
	amount, precision, code, err := decodeAsset(r)
	if err != nil {
		return 0, 0, "", 0, err
	}
	contract, err := decodeUint(r, 8)
	if err != nil {
		return 0, 0, "", 0, err
	}
	return amount, precision, code, contract, nil
}
