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

	"github.com/eosabi/abicodec/abi/wire"
)

// Invariant 6: a bitset's packed byte length is always ceil(bitCount/8),
// never more.
func TestBitsetWireExactByteLength(t *testing.T) {
	bits, err := bitsetFromJSON("110001011")
	require.NoError(t, err)
	require.Len(t, bits, 9)

	w := wire.NewWriter()
	encodeBitset(w, bits)
	// varuint32(9) is one byte, plus ceil(9/8)=2 packed bytes.
	assert.Equal(t, 3, w.Len())
	assert.Equal(t, []byte{0x09, 0x8B, 0x01}, w.Bytes())
}

func TestBitsetDecodeRoundTrip(t *testing.T) {
	r := wire.NewReader([]byte{0x09, 0x8B, 0x01})
	bits, err := decodeBitset(r)
	require.NoError(t, err)
	assert.Equal(t, "110001011", bitsetToJSON(bits, false))
	assert.Equal(t, "0b110001011", bitsetToJSON(bits, true))
}

func TestBitsetFromJSONAcceptsPrefixOrNot(t *testing.T) {
	a, err := bitsetFromJSON("101")
	require.NoError(t, err)
	b, err := bitsetFromJSON("0b101")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBitsetFromJSONRejectsGarbage(t *testing.T) {
	_, err := bitsetFromJSON("102")
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindParse, ae.Kind)
}

func TestBitsetEmpty(t *testing.T) {
	w := wire.NewWriter()
	encodeBitset(w, nil)
	assert.Equal(t, []byte{0x00}, w.Bytes())

	r := wire.NewReader(w.Bytes())
	bits, err := decodeBitset(r)
	require.NoError(t, err)
	assert.Equal(t, "", bitsetToJSON(bits, false))
}
