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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eosabi/abicodec/abi/wire"
)

func rawBytes(n int, fill byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = fill
	}
	return b
}

func TestPublicKeyJSONRoundTripLegacy(t *testing.T) {
	raw := rawBytes(publicKeyRawLen, 0x07)
	s, err := publicKeyToJSON(curveK1, raw)
	require.NoError(t, err)
	assert.True(t, len(s) > 3 && s[:3] == "EOS")

	tag, got, err := publicKeyFromJSON(s)
	require.NoError(t, err)
	assert.Equal(t, curveK1, tag)
	assert.True(t, bytes.Equal(raw, got))
}

func TestPublicKeyJSONRoundTripR1(t *testing.T) {
	raw := rawBytes(publicKeyRawLen, 0x11)
	s, err := publicKeyToJSON(curveR1, raw)
	require.NoError(t, err)
	assert.True(t, len(s) > 7 && s[:7] == "PUB_R1_")

	tag, got, err := publicKeyFromJSON(s)
	require.NoError(t, err)
	assert.Equal(t, curveR1, tag)
	assert.True(t, bytes.Equal(raw, got))
}

func TestPublicKeyFromJSONRejectsBadChecksum(t *testing.T) {
	raw := rawBytes(publicKeyRawLen, 0x22)
	s, err := publicKeyToJSON(curveR1, raw)
	require.NoError(t, err)
	// flip the last character to corrupt the checksum
	corrupted := s[:len(s)-1] + "9"
	if corrupted == s {
		corrupted = s[:len(s)-1] + "8"
	}
	_, _, err = publicKeyFromJSON(corrupted)
	require.Error(t, err)
}

func TestPrivateKeyJSONRoundTrip(t *testing.T) {
	raw := rawBytes(privateKeyRawLen, 0x33)
	s, err := privateKeyToJSON(curveK1, raw)
	require.NoError(t, err)
	assert.True(t, len(s) > 7 && s[:7] == "PVT_K1_")

	tag, got, err := privateKeyFromJSON(s)
	require.NoError(t, err)
	assert.Equal(t, curveK1, tag)
	assert.True(t, bytes.Equal(raw, got))
}

func TestSignatureJSONRoundTrip(t *testing.T) {
	raw := rawBytes(signatureRawLen, 0x44)
	s, err := signatureToJSON(curveK1, raw)
	require.NoError(t, err)
	assert.True(t, len(s) > 7 && s[:7] == "SIG_K1_")

	tag, got, err := signatureFromJSON(s)
	require.NoError(t, err)
	assert.Equal(t, curveK1, tag)
	assert.True(t, bytes.Equal(raw, got))
}

func TestPublicKeyWireRoundTripWebAuthn(t *testing.T) {
	raw := rawBytes(publicKeyRawLen, 0x55)
	extra := []byte("https://example.test")
	w := wire.NewWriter()
	encodePublicKey(w, curveWA, raw, extra)
	r := wire.NewReader(w.Bytes())
	tag, got, gotExtra, err := decodePublicKey(r)
	require.NoError(t, err)
	assert.Equal(t, curveWA, tag)
	assert.True(t, bytes.Equal(raw, got))
	assert.True(t, bytes.Equal(extra, gotExtra))
}

// TestPublicKeyJSONWebAuthnShapeIsUnsplit pins the chosen (and currently
// incomplete) WebAuthn JSON shape: publicKeyFromJSON treats the entire
// checksum-stripped base58 payload as raw, with no separate "extra" blob, so
// a PUB_WA_ string carrying real WebAuthn metadata beyond the 33-byte key
// body does not reproduce the wire split that encodePublicKey/decodePublicKey
// use. round-tripping such a value through JSON is not yet supported; a
// payload that happens to be exactly publicKeyRawLen bytes round-trips fine.
func TestPublicKeyJSONWebAuthnShapeIsUnsplit(t *testing.T) {
	raw := rawBytes(publicKeyRawLen, 0x77)
	s, err := publicKeyToJSON(curveWA, raw)
	require.NoError(t, err)
	assert.True(t, len(s) > 7 && s[:7] == "PUB_WA_")

	tag, got, err := publicKeyFromJSON(s)
	require.NoError(t, err)
	assert.Equal(t, curveWA, tag)
	assert.True(t, bytes.Equal(raw, got))
	assert.Len(t, got, publicKeyRawLen)
}

func TestSignatureWireRoundTripWebAuthn(t *testing.T) {
	raw := rawBytes(signatureRawLen, 0x66)
	metadata := []byte(`{"challenge":"abc"}`)
	w := wire.NewWriter()
	encodeSignature(w, curveWA, raw, metadata)
	r := wire.NewReader(w.Bytes())
	tag, got, gotMeta, err := decodeSignature(r)
	require.NoError(t, err)
	assert.Equal(t, curveWA, tag)
	assert.True(t, bytes.Equal(raw, got))
	assert.True(t, bytes.Equal(metadata, gotMeta))
}

func TestPrivateKeyWireRoundTrip(t *testing.T) {
	raw := rawBytes(privateKeyRawLen, 0x77)
	w := wire.NewWriter()
	encodePrivateKey(w, curveK1, raw)
	r := wire.NewReader(w.Bytes())
	tag, got, err := decodePrivateKey(r)
	require.NoError(t, err)
	assert.Equal(t, curveK1, tag)
	assert.True(t, bytes.Equal(raw, got))
}

func TestChecksumWireRoundTrip(t *testing.T) {
	raw := rawBytes(32, 0x88)
	w := wire.NewWriter()
	encodeChecksum(w, raw)
	r := wire.NewReader(w.Bytes())
	got, err := decodeChecksum(r, 32)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(raw, got))
}

func TestDecodeChecksumUnderrun(t *testing.T) {
	r := wire.NewReader([]byte{0x01, 0x02})
	_, err := decodeChecksum(r, 32)
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindStream, ae.Kind)
}

func TestPrivateKeyFromJSONRejectsUnrecognizedPrefix(t *testing.T) {
	_, _, err := privateKeyFromJSON("not_a_key")
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindInvalidKey, ae.Kind)
}

func TestSignatureFromJSONRejectsUnrecognizedPrefix(t *testing.T) {
	_, _, err := signatureFromJSON("not_a_signature")
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindInvalidSignature, ae.Kind)
}
