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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalABI = `{"version":"eosio::abi/1.0"}`

func mustContext(t *testing.T, contractID uint64, abiJSON string) *Context {
	t.Helper()
	c := Create()
	require.NoError(t, c.SetABI(contractID, []byte(abiJSON)))
	return c
}

// S1: uint16 = 65535 -> FFFF, and back.
func TestScenarioS1Uint16(t *testing.T) {
	c := mustContext(t, 1, minimalABI)
	require.NoError(t, c.JSONToBin(1, "uint16", []byte("65535"), false))
	assert.Equal(t, "FFFF", c.GetBinHex())
	out, err := c.BinToJSON(1, "uint16", []byte{0xFF, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, "65535", out)
}

// S2: name "eosio.token" round-trips through its binary form.
func TestScenarioS2Name(t *testing.T) {
	c := mustContext(t, 1, minimalABI)
	require.NoError(t, c.JSONToBin(1, "name", []byte(`"eosio.token"`), false))
	assert.Equal(t, "00A6823403EA3055", c.GetBinHex())
	out, err := c.BinToJSON(1, "name", mustHexDecode(t, c.GetBinHex()))
	require.NoError(t, err)
	assert.Equal(t, `"eosio.token"`, out)
}

// S3: varuint32 300 -> AC02 (shortest LEB128 form).
func TestScenarioS3VarUint32(t *testing.T) {
	c := mustContext(t, 1, minimalABI)
	require.NoError(t, c.JSONToBin(1, "varuint32", []byte("300"), false))
	assert.Equal(t, "AC02", c.GetBinHex())
}

// S4: asset "1.2345 SYS" with precision 4.
func TestScenarioS4Asset(t *testing.T) {
	c := mustContext(t, 1, minimalABI)
	require.NoError(t, c.JSONToBin(1, "asset", []byte(`"1.2345 SYS"`), false))
	assert.Equal(t, "3930000000000000", c.GetBinHex()[:16])
	out, err := c.BinToJSON(1, "asset", mustHexDecode(t, c.GetBinHex()))
	require.NoError(t, err)
	assert.Equal(t, `"1.2345 SYS"`, out)
}

// S5: optional<uint32>, null -> 00, 7 -> 01 07000000.
func TestScenarioS5Optional(t *testing.T) {
	c := mustContext(t, 1, minimalABI)
	require.NoError(t, c.JSONToBin(1, "uint32?", []byte("null"), false))
	assert.Equal(t, "00", c.GetBinHex())

	require.NoError(t, c.JSONToBin(1, "uint32?", []byte("7"), false))
	assert.Equal(t, "0107000000", c.GetBinHex())

	out, err := c.BinToJSON(1, "uint32?", []byte{0x00})
	require.NoError(t, err)
	assert.Equal(t, "null", out)
}

// S6: struct{a:uint8; b:uint8$} with and without the trailing extension.
func TestScenarioS6StructExtension(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.0",
		"structs":[{"name":"s","base":"","fields":[
			{"name":"a","type":"uint8"},
			{"name":"b","type":"uint8$"}
		]}]
	}`
	c := mustContext(t, 1, doc)

	require.NoError(t, c.JSONToBin(1, "s", []byte(`{"a":1}`), false))
	assert.Equal(t, "01", c.GetBinHex())

	require.NoError(t, c.JSONToBin(1, "s", []byte(`{"a":1,"b":2}`), false))
	assert.Equal(t, "0102", c.GetBinHex())

	out, err := c.BinToJSON(1, "s", []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)
}

// S6b: an extension present after an earlier one was omitted is an
// extension_gap, not a silently accepted value.
func TestScenarioS6ExtensionGap(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.0",
		"structs":[{"name":"s","base":"","fields":[
			{"name":"a","type":"uint8$"},
			{"name":"b","type":"uint8$"}
		]}]
	}`
	c := mustContext(t, 1, doc)
	err := c.JSONToBin(1, "s", []byte(`{"b":2}`), false)
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindExtensionGap, ae.Kind)
}

// S7: variant{int:int32, str:string} with ["str","hi"] -> 01 02 6869.
func TestScenarioS7Variant(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.0",
		"types":[
			{"new_type_name":"int","type":"int32"},
			{"new_type_name":"str","type":"string"}
		],
		"variants":[{"name":"intorstr","types":["int","str"]}]
	}`
	c := mustContext(t, 1, doc)
	require.NoError(t, c.JSONToBin(1, "intorstr", []byte(`["str","hi"]`), false))
	assert.Equal(t, "01026869", c.GetBinHex())

	out, err := c.BinToJSON(1, "intorstr", mustHexDecode(t, "01026869"))
	require.NoError(t, err)
	assert.Equal(t, `["str","hi"]`, out)
}

// S8: bitset "110001011" -> 09 8B 01; ABI 1.3 requires the "0b" prefix on
// the JSON produced by to_json and on the JSON accepted by from_json.
func TestScenarioS8Bitset(t *testing.T) {
	c10 := mustContext(t, 1, minimalABI)
	require.NoError(t, c10.JSONToBin(1, "bitset", []byte(`"110001011"`), false))
	assert.Equal(t, "098B01", c10.GetBinHex())
	out, err := c10.BinToJSON(1, "bitset", []byte{0x09, 0x8B, 0x01})
	require.NoError(t, err)
	assert.Equal(t, `"110001011"`, out)

	doc13 := `{"version":"eosio::abi/1.3"}`
	c13 := mustContext(t, 2, doc13)
	out13, err := c13.BinToJSON(2, "bitset", []byte{0x09, 0x8B, 0x01})
	require.NoError(t, err)
	assert.Equal(t, `"0b110001011"`, out13)
	require.NoError(t, c13.JSONToBin(2, "bitset", []byte(`"0b110001011"`), false))
	assert.Equal(t, "098B01", c13.GetBinHex())
}

// S9: an alias cycle fails ABI install with circular_reference.
func TestScenarioS9AliasCycle(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.0",
		"types":[
			{"new_type_name":"a","type":"b"},
			{"new_type_name":"b","type":"a"}
		]
	}`
	_, err := Load([]byte(doc))
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindCircularReference, ae.Kind)
}

// S10: a missing required field fails with missing_field and a path naming
// the field.
func TestScenarioS10MissingField(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.0",
		"structs":[{"name":"s","base":"","fields":[{"name":"a","type":"uint8"}]}]
	}`
	c := mustContext(t, 1, doc)
	err := c.JSONToBin(1, "s", []byte(`{}`), false)
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindMissingField, ae.Kind)
	assert.Equal(t, "a", ae.Path)
}

// Invariant 1: round-trip JSON->bin->JSON is semantically stable.
func TestInvariantJSONRoundTrip(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.0",
		"structs":[{"name":"s","base":"","fields":[
			{"name":"x","type":"uint32"},
			{"name":"y","type":"string"},
			{"name":"z","type":"bool"}
		]}]
	}`
	c := mustContext(t, 1, doc)
	in := `{"x":42,"y":"hello","z":true}`
	require.NoError(t, c.JSONToBin(1, "s", []byte(in), false))
	bin := mustHexDecode(t, c.GetBinHex())
	out, err := c.BinToJSON(1, "s", bin)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

// Invariant 2: round-trip bin->JSON->bin is byte-identical.
func TestInvariantBinRoundTrip(t *testing.T) {
	c := mustContext(t, 1, minimalABI)
	orig := []byte{0xAC, 0x02}
	out, err := c.BinToJSON(1, "varuint32", orig)
	require.NoError(t, err)
	require.NoError(t, c.JSONToBin(1, "varuint32", []byte(out), false))
	assert.Equal(t, "AC02", c.GetBinHex())
}

// Invariant 3: re-installing the same ABI yields a behaviorally identical
// table (same conversions succeed with the same results).
func TestInvariantSchemaDeterminism(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.0",
		"structs":[{"name":"s","base":"","fields":[{"name":"a","type":"uint8"}]}]
	}`
	c := Create()
	require.NoError(t, c.SetABI(1, []byte(doc)))
	require.NoError(t, c.JSONToBin(1, "s", []byte(`{"a":9}`), false))
	first := c.GetBinHex()

	require.NoError(t, c.SetABI(1, []byte(doc)))
	require.NoError(t, c.JSONToBin(1, "s", []byte(`{"a":9}`), false))
	assert.Equal(t, first, c.GetBinHex())
}

// Reorderable struct decode: fields may arrive in any order when the caller
// opts in.
func TestReorderableStructObject(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.0",
		"structs":[{"name":"s","base":"","fields":[
			{"name":"a","type":"uint8"},
			{"name":"b","type":"uint8"}
		]}]
	}`
	c := mustContext(t, 1, doc)
	require.NoError(t, c.JSONToBin(1, "s", []byte(`{"b":2,"a":1}`), true))
	assert.Equal(t, "0102", c.GetBinHex())

	err := c.JSONToBin(1, "s", []byte(`{"b":2,"a":1}`), false)
	require.Error(t, err)
}

func mustHexDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}
