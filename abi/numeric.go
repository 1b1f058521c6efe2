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
	"encoding/binary"
	"math"
	"math/big"
	"strconv"

	"github.com/eosabi/abicodec/abi/jsonio"
	"github.com/eosabi/abicodec/abi/wire"
)

// Fixed-width signed/unsigned integers up to 64 bits round-trip through
// Go's native int64/uint64; 128-bit widths use math/big so JSON can carry
// the full decimal value as a string (spec §4.1: widths >= 64 and 128-bit
// are strings so they survive an IEEE-754-safe-integer JSON round trip).

func writeIntLE(w *wire.Writer, v uint64, width int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.Write(buf[:width])
}

func readUintLE(r *wire.Reader, width int) (uint64, error) {
	b, err := r.ReadN(width)
	if err != nil {
		return 0, errorf(KindStream, "underrun reading %d-byte integer", width)
	}
	var buf [8]byte
	copy(buf[:], b)
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func signExtend(v uint64, width int) int64 {
	bits := uint(width * 8)
	shift := 64 - bits
	return int64(v<<shift) >> shift
}

func encodeUint(w *wire.Writer, width int, v uint64) error {
	if width < 8 {
		max := uint64(1)<<(uint(width)*8) - 1
		if v > max {
			return errorf(KindRange, "uint%d value %d out of range", width*8, v)
		}
	}
	writeIntLE(w, v, width)
	return nil
}

func decodeUint(r *wire.Reader, width int) (uint64, error) {
	return readUintLE(r, width)
}

func encodeInt(w *wire.Writer, width int, v int64) error {
	if width < 8 {
		lo := -(int64(1) << (uint(width)*8 - 1))
		hi := int64(1)<<(uint(width)*8-1) - 1
		if v < lo || v > hi {
			return errorf(KindRange, "int%d value %d out of range", width*8, v)
		}
	}
	writeIntLE(w, uint64(v), width)
	return nil
}

func decodeInt(r *wire.Reader, width int) (int64, error) {
	v, err := readUintLE(r, width)
	if err != nil {
		return 0, err
	}
	return signExtend(v, width), nil
}

// ---- JSON for widths <= 32: a JSON number ----

func jsonNumberToInt64(v jsonio.Value) (int64, error) {
	if v.Kind != jsonio.KindNumber {
		return 0, errorf(KindParse, "expected integer, got %v", v.Kind)
	}
	n, err := v.N.Int64()
	if err != nil {
		return 0, errorf(KindRange, "integer %s out of int64 range", v.N.String())
	}
	return n, nil
}

func jsonNumberToUint64(v jsonio.Value) (uint64, error) {
	if v.Kind != jsonio.KindNumber {
		return 0, errorf(KindParse, "expected integer, got %v", v.Kind)
	}
	n, err := strconv.ParseUint(v.N.String(), 10, 64)
	if err != nil {
		return 0, errorf(KindRange, "integer %s out of uint64 range", v.N.String())
	}
	return n, nil
}

// ---- JSON for widths >= 64: a decimal string ----

func jsonStringToInt64(v jsonio.Value) (int64, error) {
	if v.Kind != jsonio.KindString {
		return 0, errorf(KindParse, "expected string-encoded integer, got %v", v.Kind)
	}
	n, err := strconv.ParseInt(v.S, 10, 64)
	if err != nil {
		return 0, errorf(KindRange, "integer %q out of int64 range", v.S)
	}
	return n, nil
}

func jsonStringToUint64(v jsonio.Value) (uint64, error) {
	if v.Kind != jsonio.KindString {
		return 0, errorf(KindParse, "expected string-encoded integer, got %v", v.Kind)
	}
	n, err := strconv.ParseUint(v.S, 10, 64)
	if err != nil {
		return 0, errorf(KindRange, "integer %q out of uint64 range", v.S)
	}
	return n, nil
}

// ---- 128-bit widths ----

var twoPow128 = new(big.Int).Lsh(big.NewInt(1), 128)
var maxUint128 = new(big.Int).Sub(twoPow128, big.NewInt(1))
var minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
var maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))

func encodeUint128(w *wire.Writer, v *big.Int) error {
	if v.Sign() < 0 || v.Cmp(maxUint128) > 0 {
		return errorf(KindRange, "uint128 value %s out of range", v.String())
	}
	buf := make([]byte, 16)
	le128(v, buf)
	w.Write(buf)
	return nil
}

func decodeUint128(r *wire.Reader) (*big.Int, error) {
	b, err := r.ReadN(16)
	if err != nil {
		return nil, errorf(KindStream, "underrun reading uint128")
	}
	return fromLE128(b, false), nil
}

func encodeInt128(w *wire.Writer, v *big.Int) error {
	if v.Cmp(minInt128) < 0 || v.Cmp(maxInt128) > 0 {
		return errorf(KindRange, "int128 value %s out of range", v.String())
	}
	twos := v
	if v.Sign() < 0 {
		twos = new(big.Int).Add(v, twoPow128)
	}
	buf := make([]byte, 16)
	le128(twos, buf)
	w.Write(buf)
	return nil
}

func decodeInt128(r *wire.Reader) (*big.Int, error) {
	b, err := r.ReadN(16)
	if err != nil {
		return nil, errorf(KindStream, "underrun reading int128")
	}
	return fromLE128(b, true), nil
}

func le128(v *big.Int, buf []byte) {
	be := v.Bytes()
	for i, j := 0, len(be)-1; j >= 0 && i < len(buf); i, j = i+1, j-1 {
		buf[i] = be[j]
	}
}

func fromLE128(b []byte, signed bool) *big.Int {
	be := make([]byte, len(b))
	for i, j := 0, len(b)-1; j >= 0; i, j = i+1, j-1 {
		be[i] = b[j]
	}
	v := new(big.Int).SetBytes(be)
	if signed && len(b) == 16 && b[15]&0x80 != 0 {
		v.Sub(v, twoPow128)
	}
	return v
}

// ---- varint ----

func encodeVarUint32(w *wire.Writer, v uint32) {
	w.WriteVarUint32(v)
}

func decodeVarUint32(r *wire.Reader) (uint32, error) {
	v, err := r.ReadVarUint32()
	if err != nil {
		if err == wire.ErrOverflow {
			return 0, errorf(KindOverflow, "varuint32 exceeds 5 bytes")
		}
		return 0, errorf(KindStream, "underrun reading varuint32")
	}
	return v, nil
}

func encodeVarInt32(w *wire.Writer, v int32) {
	w.WriteVarInt32(v)
}

func decodeVarInt32(r *wire.Reader) (int32, error) {
	v, err := r.ReadVarInt32()
	if err != nil {
		if err == wire.ErrOverflow {
			return 0, errorf(KindOverflow, "varint32 exceeds 5 bytes")
		}
		return 0, errorf(KindStream, "underrun reading varint32")
	}
	return v, nil
}

// ---- bool ----

func encodeBool(w *wire.Writer, v bool) {
	if v {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}

func decodeBool(r *wire.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, errorf(KindStream, "underrun reading bool")
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errorf(KindRange, "bool byte %d is neither 0 nor 1", b)
	}
}

// ---- float ----

func encodeFloat32(w *wire.Writer, v float32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
	w.Write(buf[:])
}

func decodeFloat32(r *wire.Reader) (float32, error) {
	b, err := r.ReadN(4)
	if err != nil {
		return 0, errorf(KindStream, "underrun reading float32")
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func encodeFloat64(w *wire.Writer, v float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	w.Write(buf[:])
}

func decodeFloat64(r *wire.Reader) (float64, error) {
	b, err := r.ReadN(8)
	if err != nil {
		return 0, errorf(KindStream, "underrun reading float64")
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// floatSpecialString returns the special literal for a non-finite value
// and reports false for a finite one, per §4.1.
func floatSpecialString(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return "NaN", true
	case math.IsInf(f, 1):
		return "Infinity", true
	case math.IsInf(f, -1):
		return "-Infinity", true
	default:
		return "", false
	}
}

// formatFloatFixed emits fixed-point decimal notation, matching the
// reference codec's fp_to_json (std::to_chars with chars_format::fixed
// into a 25-byte buffer). It falls back to shortest round-tripping form
// only when the fixed rendering would have overflowed that buffer.
func formatFloatFixed(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if len(s) > 24 {
		return strconv.FormatFloat(f, 'g', -1, bitSize)
	}
	return s
}

func parseFloatJSON(v jsonio.Value, bitSize int) (float64, error) {
	if v.Kind == jsonio.KindString {
		switch v.S {
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		}
		f, err := strconv.ParseFloat(v.S, bitSize)
		if err != nil {
			return 0, errorf(KindParse, "invalid float literal %q", v.S)
		}
		return f, nil
	}
	if v.Kind != jsonio.KindNumber {
		return 0, errorf(KindParse, "expected float, got %v", v.Kind)
	}
	f, err := strconv.ParseFloat(v.N.String(), bitSize)
	if err != nil {
		return 0, errorf(KindParse, "invalid float literal %q", v.N.String())
	}
	return f, nil
}
