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
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/eosabi/abicodec/abi/jsonio"
	"github.com/eosabi/abicodec/abi/wire"
)

// leafFromJSON consumes one JSON value and writes its binary encoding for
// the named builtin. It is the `json_to_bin` half of the leaf dispatch
// table the engine switches on for every KindBuiltin descriptor.
func leafFromJSON(w *wire.Writer, b Builtin, v jsonio.Value, abiMinor int) error {
	switch b {
	case BInt8:
		n, err := jsonNumberToInt64(v)
		if err != nil {
			return err
		}
		return encodeInt(w, 1, n)
	case BUint8:
		n, err := jsonNumberToUint64(v)
		if err != nil {
			return err
		}
		return encodeUint(w, 1, n)
	case BInt16:
		n, err := jsonNumberToInt64(v)
		if err != nil {
			return err
		}
		return encodeInt(w, 2, n)
	case BUint16:
		n, err := jsonNumberToUint64(v)
		if err != nil {
			return err
		}
		return encodeUint(w, 2, n)
	case BInt32:
		n, err := jsonNumberToInt64(v)
		if err != nil {
			return err
		}
		return encodeInt(w, 4, n)
	case BUint32:
		n, err := jsonNumberToUint64(v)
		if err != nil {
			return err
		}
		return encodeUint(w, 4, n)
	case BInt64:
		n, err := jsonStringToInt64(v)
		if err != nil {
			return err
		}
		return encodeInt(w, 8, n)
	case BUint64:
		n, err := jsonStringToUint64(v)
		if err != nil {
			return err
		}
		return encodeUint(w, 8, n)
	case BInt128:
		n, err := jsonStringToBigInt(v)
		if err != nil {
			return err
		}
		return encodeInt128(w, n)
	case BUint128:
		n, err := jsonStringToBigInt(v)
		if err != nil {
			return err
		}
		return encodeUint128(w, n)
	case BVarInt32:
		n, err := jsonNumberToInt64(v)
		if err != nil {
			return err
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return errorf(KindRange, "varint32 value %d out of range", n)
		}
		encodeVarInt32(w, int32(n))
		return nil
	case BVarUint32:
		n, err := jsonNumberToUint64(v)
		if err != nil {
			return err
		}
		if n > math.MaxUint32 {
			return errorf(KindRange, "varuint32 value %d out of range", n)
		}
		encodeVarUint32(w, uint32(n))
		return nil
	case BBool:
		if v.Kind != jsonio.KindBool {
			return errorf(KindParse, "expected bool, got %v", v.Kind)
		}
		encodeBool(w, v.B)
		return nil
	case BFloat32:
		f, err := parseFloatJSON(v, 32)
		if err != nil {
			return err
		}
		encodeFloat32(w, float32(f))
		return nil
	case BFloat64:
		f, err := parseFloatJSON(v, 64)
		if err != nil {
			return err
		}
		encodeFloat64(w, f)
		return nil
	case BFloat128:
		raw, err := float128FromJSON(v)
		if err != nil {
			return err
		}
		w.Write(raw)
		return nil
	case BBytes:
		raw, err := bytesFromJSON(v)
		if err != nil {
			return err
		}
		encodeBytes(w, raw)
		return nil
	case BString:
		if v.Kind != jsonio.KindString {
			return errorf(KindParse, "expected string, got %v", v.Kind)
		}
		encodeString(w, v.S)
		return nil
	case BTimePoint:
		n, err := timePointFromJSON(v)
		if err != nil {
			return err
		}
		return encodeInt(w, 8, n)
	case BTimePointSec:
		n, err := timePointSecFromJSON(v)
		if err != nil {
			return err
		}
		return encodeUint(w, 4, uint64(n))
	case BBlockTimestampType:
		n, err := blockTimestampFromJSON(v)
		if err != nil {
			return err
		}
		return encodeUint(w, 4, uint64(n))
	case BSymbolCode:
		if v.Kind != jsonio.KindString {
			return errorf(KindParse, "expected string, got %v", v.Kind)
		}
		return encodeSymbolCode(w, v.S)
	case BSymbol:
		if v.Kind != jsonio.KindString {
			return errorf(KindParse, "expected string, got %v", v.Kind)
		}
		precision, code, err := symbolFromJSON(v.S)
		if err != nil {
			return err
		}
		return encodeSymbol(w, precision, code)
	case BAsset:
		if v.Kind != jsonio.KindString {
			return errorf(KindParse, "expected string, got %v", v.Kind)
		}
		amount, precision, code, err := assetFromJSON(v.S)
		if err != nil {
			return err
		}
		return encodeAsset(w, amount, precision, code)
	case BExtendedAsset:
		return extendedAssetFromJSON(w, v)
	case BBitset:
		if v.Kind != jsonio.KindString {
			return errorf(KindParse, "expected string, got %v", v.Kind)
		}
		if strings.HasPrefix(v.S, "0b") != (abiMinor >= 3) {
			return errorf(KindParse, "bitset string %q: the \"0b\" prefix is required from abi 1.3 on and rejected before it", v.S)
		}
		bits, err := bitsetFromJSON(v.S)
		if err != nil {
			return err
		}
		encodeBitset(w, bits)
		return nil
	case BChecksum160:
		return checksumFromJSON(w, v, 20)
	case BChecksum256:
		return checksumFromJSON(w, v, 32)
	case BChecksum512:
		return checksumFromJSON(w, v, 64)
	case BPublicKey:
		if v.Kind != jsonio.KindString {
			return errorf(KindInvalidKey, "expected string, got %v", v.Kind)
		}
		tag, raw, err := publicKeyFromJSON(v.S)
		if err != nil {
			return err
		}
		encodePublicKey(w, tag, raw, nil)
		return nil
	case BPrivateKey:
		if v.Kind != jsonio.KindString {
			return errorf(KindInvalidKey, "expected string, got %v", v.Kind)
		}
		tag, raw, err := privateKeyFromJSON(v.S)
		if err != nil {
			return err
		}
		encodePrivateKey(w, tag, raw)
		return nil
	case BSignature:
		if v.Kind != jsonio.KindString {
			return errorf(KindInvalidSignature, "expected string, got %v", v.Kind)
		}
		tag, raw, err := signatureFromJSON(v.S)
		if err != nil {
			return err
		}
		encodeSignature(w, tag, raw, nil)
		return nil
	case BName:
		if v.Kind != jsonio.KindString {
			return errorf(KindInvalidName, "expected string, got %v", v.Kind)
		}
		n, err := nameFromJSON(v.S)
		if err != nil {
			return err
		}
		return encodeUint(w, 8, n)
	default:
		return errorf(KindInternal, "unhandled builtin %d", b)
	}
}

// leafToJSON reads one builtin's binary encoding and emits its JSON value.
func leafToJSON(r *wire.Reader, b Builtin, jw *jsonio.Writer, abiMinor int) error {
	switch b {
	case BInt8:
		n, err := decodeInt(r, 1)
		if err != nil {
			return err
		}
		jw.Int64(n)
		return nil
	case BUint8:
		n, err := decodeUint(r, 1)
		if err != nil {
			return err
		}
		jw.Uint64(n)
		return nil
	case BInt16:
		n, err := decodeInt(r, 2)
		if err != nil {
			return err
		}
		jw.Int64(n)
		return nil
	case BUint16:
		n, err := decodeUint(r, 2)
		if err != nil {
			return err
		}
		jw.Uint64(n)
		return nil
	case BInt32:
		n, err := decodeInt(r, 4)
		if err != nil {
			return err
		}
		jw.Int64(n)
		return nil
	case BUint32:
		n, err := decodeUint(r, 4)
		if err != nil {
			return err
		}
		jw.Uint64(n)
		return nil
	case BInt64:
		n, err := decodeInt(r, 8)
		if err != nil {
			return err
		}
		jw.String_(strconv.FormatInt(n, 10))
		return nil
	case BUint64:
		n, err := decodeUint(r, 8)
		if err != nil {
			return err
		}
		jw.String_(strconv.FormatUint(n, 10))
		return nil
	case BInt128:
		n, err := decodeInt128(r)
		if err != nil {
			return err
		}
		jw.String_(n.String())
		return nil
	case BUint128:
		n, err := decodeUint128(r)
		if err != nil {
			return err
		}
		jw.String_(n.String())
		return nil
	case BVarInt32:
		n, err := decodeVarInt32(r)
		if err != nil {
			return err
		}
		jw.Int64(int64(n))
		return nil
	case BVarUint32:
		n, err := decodeVarUint32(r)
		if err != nil {
			return err
		}
		jw.Uint64(uint64(n))
		return nil
	case BBool:
		v, err := decodeBool(r)
		if err != nil {
			return err
		}
		jw.Bool(v)
		return nil
	case BFloat32:
		f, err := decodeFloat32(r)
		if err != nil {
			return err
		}
		if lit, ok := floatSpecialString(float64(f)); ok {
			jw.String_(lit)
		} else {
			jw.Raw(formatFloatFixed(float64(f), 32))
		}
		return nil
	case BFloat64:
		f, err := decodeFloat64(r)
		if err != nil {
			return err
		}
		if lit, ok := floatSpecialString(f); ok {
			jw.String_(lit)
		} else {
			jw.Raw(formatFloatFixed(f, 64))
		}
		return nil
	case BFloat128:
		raw, err := r.ReadN(16)
		if err != nil {
			return errorf(KindStream, "underrun reading float128")
		}
		jw.String_("0x" + hex.EncodeToString(raw))
		return nil
	case BBytes:
		raw, err := decodeBytes(r)
		if err != nil {
			return err
		}
		bytesToJSON(jw, raw)
		return nil
	case BString:
		s, err := decodeString(r)
		if err != nil {
			return err
		}
		jw.String_(stringToJSONSafe(s))
		return nil
	case BTimePoint:
		n, err := decodeInt(r, 8)
		if err != nil {
			return err
		}
		jw.String_(timePointToJSON(n))
		return nil
	case BTimePointSec:
		n, err := decodeUint(r, 4)
		if err != nil {
			return err
		}
		jw.String_(timePointSecToJSON(uint32(n)))
		return nil
	case BBlockTimestampType:
		n, err := decodeUint(r, 4)
		if err != nil {
			return err
		}
		jw.String_(blockTimestampToJSON(uint32(n)))
		return nil
	case BSymbolCode:
		s, err := decodeSymbolCode(r)
		if err != nil {
			return err
		}
		jw.String_(s)
		return nil
	case BSymbol:
		precision, code, err := decodeSymbol(r)
		if err != nil {
			return err
		}
		jw.String_(symbolToJSON(precision, code))
		return nil
	case BAsset:
		amount, precision, code, err := decodeAsset(r)
		if err != nil {
			return err
		}
		jw.String_(assetToJSON(amount, precision, code))
		return nil
	case BExtendedAsset:
		return extendedAssetToJSON(r, jw)
	case BBitset:
		bits, err := decodeBitset(r)
		if err != nil {
			return err
		}
		jw.String_(bitsetToJSON(bits, abiMinor >= 3))
		return nil
	case BChecksum160:
		return checksumToJSON(r, jw, 20)
	case BChecksum256:
		return checksumToJSON(r, jw, 32)
	case BChecksum512:
		return checksumToJSON(r, jw, 64)
	case BPublicKey:
		tag, raw, _, err := decodePublicKey(r)
		if err != nil {
			return err
		}
		s, err := publicKeyToJSON(tag, raw)
		if err != nil {
			return err
		}
		jw.String_(s)
		return nil
	case BPrivateKey:
		tag, raw, err := decodePrivateKey(r)
		if err != nil {
			return err
		}
		s, err := privateKeyToJSON(tag, raw)
		if err != nil {
			return err
		}
		jw.String_(s)
		return nil
	case BSignature:
		tag, raw, _, err := decodeSignature(r)
		if err != nil {
			return err
		}
		s, err := signatureToJSON(tag, raw)
		if err != nil {
			return err
		}
		jw.String_(s)
		return nil
	case BName:
		n, err := decodeUint(r, 8)
		if err != nil {
			return err
		}
		jw.String_(nameToJSON(n))
		return nil
	default:
		return errorf(KindInternal, "unhandled builtin %d", b)
	}
}

func checksumFromJSON(w *wire.Writer, v jsonio.Value, width int) error {
	if v.Kind != jsonio.KindString {
		return errorf(KindInvalidChecksum, "expected hex string, got %v", v.Kind)
	}
	raw, err := hex.DecodeString(v.S)
	if err != nil || len(raw) != width {
		return errorf(KindInvalidChecksum, "checksum%d %q is not %d-byte hex", width*8, v.S, width)
	}
	encodeChecksum(w, raw)
	return nil
}

func checksumToJSON(r *wire.Reader, jw *jsonio.Writer, width int) error {
	raw, err := decodeChecksum(r, width)
	if err != nil {
		return err
	}
	jw.String_(hex.EncodeToString(raw))
	return nil
}

func float128FromJSON(v jsonio.Value) ([]byte, error) {
	if v.Kind != jsonio.KindString {
		return nil, errorf(KindParse, "expected hex string, got %v", v.Kind)
	}
	s := strings.TrimPrefix(strings.ToLower(v.S), "0x")
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 16 {
		return nil, errorf(KindParse, "float128 %q is not 32 hex digits", v.S)
	}
	return raw, nil
}

func jsonStringToBigInt(v jsonio.Value) (*big.Int, error) {
	if v.Kind != jsonio.KindString {
		return nil, errorf(KindParse, "expected string-encoded integer, got %v", v.Kind)
	}
	n, ok := new(big.Int).SetString(v.S, 10)
	if !ok {
		return nil, errorf(KindRange, "invalid 128-bit integer %q", v.S)
	}
	return n, nil
}

// extendedAssetFromJSON reads {"quantity": "<asset>", "contract": "<name>"}.
func extendedAssetFromJSON(w *wire.Writer, v jsonio.Value) error {
	if v.Kind != jsonio.KindObject {
		return errorf(KindParse, "expected object, got %v", v.Kind)
	}
	qv, ok := v.Get("quantity")
	if !ok || qv.Kind != jsonio.KindString {
		return errorf(KindMissingField, "extended_asset is missing \"quantity\"")
	}
	cv, ok := v.Get("contract")
	if !ok || cv.Kind != jsonio.KindString {
		return errorf(KindMissingField, "extended_asset is missing \"contract\"")
	}
	amount, precision, code, err := assetFromJSON(qv.S)
	if err != nil {
		return err
	}
	contract, err := nameFromJSON(cv.S)
	if err != nil {
		return err
	}
	return encodeExtendedAsset(w, amount, precision, code, contract)
}

func extendedAssetToJSON(r *wire.Reader, jw *jsonio.Writer) error {
	amount, precision, code, contract, err := decodeExtendedAsset(r)
	if err != nil {
		return err
	}
	jw.BeginObject()
	jw.Key("quantity")
	jw.String_(assetToJSON(amount, precision, code))
	jw.Key("contract")
	jw.String_(nameToJSON(contract))
	jw.End()
	return nil
}
