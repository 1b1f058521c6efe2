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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eosabi/abicodec/abi/jsonio"
	"github.com/eosabi/abicodec/abi/wire"
)

func TestBytesWireRoundTrip(t *testing.T) {
	v := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	w := wire.NewWriter()
	encodeBytes(w, v)
	assert.Equal(t, []byte{0x04, 0xDE, 0xAD, 0xBE, 0xEF}, w.Bytes())

	r := wire.NewReader(w.Bytes())
	got, err := decodeBytes(r)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestBytesJSONRoundTrip(t *testing.T) {
	jw := jsonio.NewWriter()
	bytesToJSON(jw, []byte{0xde, 0xad})
	assert.Equal(t, `"DEAD"`, jw.String())

	got, err := bytesFromJSON(strValue("DEAD"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xDE, 0xAD}, got)
}

func TestBytesFromJSONRejectsBadHex(t *testing.T) {
	_, err := bytesFromJSON(strValue("zz"))
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindParse, ae.Kind)
}

func TestStringWireRoundTrip(t *testing.T) {
	w := wire.NewWriter()
	encodeString(w, "hi")
	assert.Equal(t, []byte{0x02, 'h', 'i'}, w.Bytes())

	r := wire.NewReader(w.Bytes())
	got, err := decodeString(r)
	require.NoError(t, err)
	assert.Equal(t, "hi", got)
}

func TestStringToJSONSafeReplacesInvalidUTF8(t *testing.T) {
	bad := "ab\xffcd"
	assert.Equal(t, "ab?cd", stringToJSONSafe(bad))
	assert.Equal(t, "hello", stringToJSONSafe("hello"))
}
