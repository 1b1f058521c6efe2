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
	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/ripemd160"

	"github.com/eosabi/abicodec/abi/wire"
)

// curveTag is the binary discriminant carried ahead of every key or
// signature's raw bytes (§4.1: "Binary is (curve_tag:uint8, raw_bytes…)").
type curveTag uint8

const (
	curveK1 curveTag = iota
	curveR1
	curveWA
)

var curveSuffix = map[curveTag]string{curveK1: "K1", curveR1: "R1", curveWA: "WA"}

const (
	publicKeyRawLen  = 33
	privateKeyRawLen = 32
	signatureRawLen  = 65
)

func ripemd160Sum(parts ...[]byte) []byte {
	h := ripemd160.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// checksumTagged base-58 encodes raw (plus, for legacy-format values, no
// suffix; for prefixed values, an ASCII curve-name suffix folded into the
// checksum hash per EOSIO's key_to_string). prefix is the full textual tag,
// e.g. "PUB_K1_" or "EOS".
func checksumTaggedEncode(prefix string, raw []byte, tag curveTag, legacy bool) string {
	var sum []byte
	if legacy {
		sum = ripemd160Sum(raw)
	} else {
		sum = ripemd160Sum(raw, []byte(curveSuffix[tag]))
	}
	payload := append(append([]byte{}, raw...), sum[:4]...)
	return prefix + base58.Encode(payload)
}

// checksumTaggedDecode strips prefix, base-58 decodes, and verifies the
// trailing 4-byte RIPEMD-160 checksum, returning the raw bytes beneath it.
func checksumTaggedDecode(s, prefix string, tag curveTag, legacy bool, kind ErrKind) ([]byte, error) {
	if len(s) < len(prefix) || s[:len(prefix)] != prefix {
		return nil, errorf(kind, "value %q is missing expected prefix %q", s, prefix)
	}
	decoded := base58.Decode(s[len(prefix):])
	if len(decoded) < 4 {
		return nil, errorf(kind, "value %q decodes too short to carry a checksum", s)
	}
	raw := decoded[:len(decoded)-4]
	got := decoded[len(decoded)-4:]
	var want []byte
	if legacy {
		want = ripemd160Sum(raw)
	} else {
		want = ripemd160Sum(raw, []byte(curveSuffix[tag]))
	}
	for i := 0; i < 4; i++ {
		if got[i] != want[i] {
			return nil, errorf(KindInvalidChecksum, "checksum mismatch decoding %q", s)
		}
	}
	return raw, nil
}

// ---- public_key ----

func publicKeyToJSON(tag curveTag, raw []byte) (string, error) {
	switch tag {
	case curveK1:
		return checksumTaggedEncode("EOS", raw, tag, true), nil
	case curveR1:
		return checksumTaggedEncode("PUB_R1_", raw, tag, false), nil
	case curveWA:
		return checksumTaggedEncode("PUB_WA_", raw, tag, false), nil
	default:
		return "", errorf(KindInvalidKey, "unknown public key curve tag %d", tag)
	}
}

func publicKeyFromJSON(s string) (curveTag, []byte, error) {
	switch {
	case len(s) >= 3 && s[:3] == "EOS":
		raw, err := checksumTaggedDecode(s, "EOS", curveK1, true, KindInvalidKey)
		return curveK1, raw, err
	case len(s) >= 7 && s[:7] == "PUB_K1_":
		raw, err := checksumTaggedDecode(s, "PUB_K1_", curveK1, false, KindInvalidKey)
		return curveK1, raw, err
	case len(s) >= 7 && s[:7] == "PUB_R1_":
		raw, err := checksumTaggedDecode(s, "PUB_R1_", curveR1, false, KindInvalidKey)
		return curveR1, raw, err
	case len(s) >= 7 && s[:7] == "PUB_WA_":
		raw, err := checksumTaggedDecode(s, "PUB_WA_", curveWA, false, KindInvalidKey)
		return curveWA, raw, err
	default:
		return 0, nil, errorf(KindInvalidKey, "unrecognized public key prefix in %q", s)
	}
}

func encodePublicKey(w *wire.Writer, tag curveTag, raw []byte, extra []byte) {
	w.WriteByte(byte(tag))
	w.Write(raw)
	if tag == curveWA {
		w.WriteVarUint32(uint32(len(extra)))
		w.Write(extra)
	}
}

func decodePublicKey(r *wire.Reader) (curveTag, []byte, []byte, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, nil, nil, errorf(KindStream, "underrun reading public key curve tag")
	}
	tag := curveTag(b)
	raw, err := r.ReadN(publicKeyRawLen)
	if err != nil {
		return 0, nil, nil, errorf(KindStream, "underrun reading public key body")
	}
	rawCopy := append([]byte{}, raw...)
	if tag != curveWA {
		return tag, rawCopy, nil, nil
	}
	n, err := decodeVarUint32(r)
	if err != nil {
		return 0, nil, nil, err
	}
	extra, err := r.ReadN(int(n))
	if err != nil {
		return 0, nil, nil, errorf(KindStream, "underrun reading webauthn public key metadata")
	}
	return tag, rawCopy, append([]byte{}, extra...), nil
}

// ---- private_key ----

func privateKeyToJSON(tag curveTag, raw []byte) (string, error) {
	switch tag {
	case curveK1:
		return checksumTaggedEncode("PVT_K1_", raw, tag, false), nil
	default:
		return "", errorf(KindInvalidKey, "unsupported private key curve tag %d", tag)
	}
}

func privateKeyFromJSON(s string) (curveTag, []byte, error) {
	if len(s) >= 7 && s[:7] == "PVT_K1_" {
		raw, err := checksumTaggedDecode(s, "PVT_K1_", curveK1, false, KindInvalidKey)
		return curveK1, raw, err
	}
	return 0, nil, errorf(KindInvalidKey, "unrecognized private key prefix in %q", s)
}

func encodePrivateKey(w *wire.Writer, tag curveTag, raw []byte) {
	w.WriteByte(byte(tag))
	w.Write(raw)
}

func decodePrivateKey(r *wire.Reader) (curveTag, []byte, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, nil, errorf(KindStream, "underrun reading private key curve tag")
	}
	raw, err := r.ReadN(privateKeyRawLen)
	if err != nil {
		return 0, nil, errorf(KindStream, "underrun reading private key body")
	}
	return curveTag(b), append([]byte{}, raw...), nil
}

// ---- signature ----

func signatureToJSON(tag curveTag, raw []byte) (string, error) {
	switch tag {
	case curveK1:
		return checksumTaggedEncode("SIG_K1_", raw, tag, false), nil
	case curveR1:
		return checksumTaggedEncode("SIG_R1_", raw, tag, false), nil
	case curveWA:
		return checksumTaggedEncode("SIG_WA_", raw, tag, false), nil
	default:
		return "", errorf(KindInvalidSignature, "unknown signature curve tag %d", tag)
	}
}

func signatureFromJSON(s string) (curveTag, []byte, error) {
	switch {
	case len(s) >= 7 && s[:7] == "SIG_K1_":
		raw, err := checksumTaggedDecode(s, "SIG_K1_", curveK1, false, KindInvalidSignature)
		return curveK1, raw, err
	case len(s) >= 7 && s[:7] == "SIG_R1_":
		raw, err := checksumTaggedDecode(s, "SIG_R1_", curveR1, false, KindInvalidSignature)
		return curveR1, raw, err
	case len(s) >= 7 && s[:7] == "SIG_WA_":
		raw, err := checksumTaggedDecode(s, "SIG_WA_", curveWA, false, KindInvalidSignature)
		return curveWA, raw, err
	default:
		return 0, nil, errorf(KindInvalidSignature, "unrecognized signature prefix in %q", s)
	}
}

// encodeSignature writes (curve_tag, raw) followed by, for a WebAuthn
// signature only, a varuint32-length-prefixed JSON metadata blob (§4.2).
func encodeSignature(w *wire.Writer, tag curveTag, raw []byte, metadata []byte) {
	w.WriteByte(byte(tag))
	w.Write(raw)
	if tag == curveWA {
		w.WriteVarUint32(uint32(len(metadata)))
		w.Write(metadata)
	}
}

func decodeSignature(r *wire.Reader) (curveTag, []byte, []byte, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, nil, nil, errorf(KindStream, "underrun reading signature curve tag")
	}
	tag := curveTag(b)
	raw, err := r.ReadN(signatureRawLen)
	if err != nil {
		return 0, nil, nil, errorf(KindStream, "underrun reading signature body")
	}
	rawCopy := append([]byte{}, raw...)
	if tag != curveWA {
		return tag, rawCopy, nil, nil
	}
	n, err := decodeVarUint32(r)
	if err != nil {
		return 0, nil, nil, err
	}
	metadata, err := r.ReadN(int(n))
	if err != nil {
		return 0, nil, nil, errorf(KindStream, "underrun reading webauthn signature metadata")
	}
	return tag, rawCopy, append([]byte{}, metadata...), nil
}

// ---- checksum160 / checksum256 / checksum512 ----

func encodeChecksum(w *wire.Writer, raw []byte) {
	w.Write(raw)
}

func decodeChecksum(r *wire.Reader, width int) ([]byte, error) {
	b, err := r.ReadN(width)
	if err != nil {
		return nil, errorf(KindStream, "underrun reading %d-byte checksum", width)
	}
	return append([]byte{}, b...), nil
}
