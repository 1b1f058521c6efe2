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
)

func TestContextGetErrorTracksLastOperation(t *testing.T) {
	c := Create()
	assert.Equal(t, "", c.GetError())

	err := c.JSONToBin(1, "uint8", []byte("1"), false)
	require.Error(t, err)
	assert.NotEmpty(t, c.GetError())

	require.NoError(t, c.SetABI(1, []byte(minimalABI)))
	require.NoError(t, c.JSONToBin(1, "uint8", []byte("1"), false))
	assert.Equal(t, "", c.GetError())
}

func TestContextJSONToBinUnknownContract(t *testing.T) {
	c := Create()
	err := c.JSONToBin(99, "uint8", []byte("1"), false)
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindUnknownType, ae.Kind)
}

func TestContextBinToJSONUnknownContract(t *testing.T) {
	c := Create()
	_, err := c.BinToJSON(99, "uint8", []byte{0x01})
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindUnknownType, ae.Kind)
}

// Re-installing an ABI under the same contract id purges cached resolutions
// for that contract only, so a redefinition of a type name takes effect on
// the next conversion (invariant 3's "behaviorally identical" guarantee
// extends to redefinition, not just no-op reinstalls).
func TestContextSetABIPurgesOnlyThatContractsCache(t *testing.T) {
	c := Create()
	docA := `{
		"version":"eosio::abi/1.0",
		"types":[{"new_type_name":"amount","type":"uint32"}]
	}`
	docB := `{
		"version":"eosio::abi/1.0",
		"types":[{"new_type_name":"amount","type":"uint64"}]
	}`
	require.NoError(t, c.SetABI(1, []byte(docA)))
	require.NoError(t, c.SetABI(2, []byte(docA)))

	require.NoError(t, c.JSONToBin(1, "amount", []byte("7"), false))
	assert.Equal(t, "07000000", c.GetBinHex())
	require.NoError(t, c.JSONToBin(2, "amount", []byte("7"), false))
	assert.Equal(t, "07000000", c.GetBinHex())

	require.NoError(t, c.SetABI(1, []byte(docB)))
	require.NoError(t, c.JSONToBin(1, "amount", []byte(`"7"`), false))
	assert.Equal(t, "0700000000000000", c.GetBinHex())

	// contract 2's cached resolution of "amount" (uint32) is untouched.
	require.NoError(t, c.JSONToBin(2, "amount", []byte("7"), false))
	assert.Equal(t, "07000000", c.GetBinHex())
}

func TestContextStringToNameFacade(t *testing.T) {
	c := Create()
	v, err := c.StringToName("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", c.NameToString(v))
	assert.Equal(t, "", c.GetError())

	_, err = c.StringToName("EOSIO")
	require.Error(t, err)
	assert.NotEmpty(t, c.GetError())
}
