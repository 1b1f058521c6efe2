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

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	_, err := Load([]byte(`{"version":"eosio::abi/1.99"}`))
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindUnsupportedABIVersion, ae.Kind)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	_, err := Load([]byte(`not json`))
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindParse, ae.Kind)
}

// validateDocument dives into every slice of ABI-declared identifiers, not
// just the top-level document, so a malformed identifier nested inside
// `types`/`structs`/`structs[].fields`/`variants`/`action_results` is caught
// before resolution ever runs.
func TestLoadRejectsInvalidTypeAliasIdentifier(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.0",
		"types":[{"new_type_name":"bad name","type":"uint32"}]
	}`
	_, err := Load([]byte(doc))
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindParse, ae.Kind)
}

func TestLoadRejectsInvalidStructIdentifier(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.0",
		"structs":[{"name":"bad name","base":"","fields":[]}]
	}`
	_, err := Load([]byte(doc))
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindParse, ae.Kind)
}

func TestLoadRejectsInvalidFieldIdentifier(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.0",
		"structs":[{"name":"s","base":"","fields":[{"name":"bad name","type":"uint8"}]}]
	}`
	_, err := Load([]byte(doc))
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindParse, ae.Kind)
}

func TestLoadRejectsInvalidVariantIdentifier(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.0",
		"variants":[{"name":"bad name","types":["uint8"]}]
	}`
	_, err := Load([]byte(doc))
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindParse, ae.Kind)
}

func TestLoadRejectsInvalidActionResultIdentifier(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.1",
		"action_results":[{"name":"bad name","result_type":"uint8"}]
	}`
	_, err := Load([]byte(doc))
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindParse, ae.Kind)
}

func TestLoadAcceptsValidIdentifiers(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.1",
		"types":[{"new_type_name":"amount","type":"uint32"}],
		"structs":[{"name":"transfer","base":"","fields":[{"name":"from","type":"amount"}]}],
		"variants":[{"name":"v","types":["uint8","string"]}],
		"action_results":[{"name":"transfer","result_type":"uint8"}]
	}`
	_, err := Load([]byte(doc))
	require.NoError(t, err)
}

func TestActionResultsRequireMinorVersionOneOrHigher(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.0",
		"action_results":[{"name":"transfer","result_type":"uint8"}]
	}`
	_, err := Load([]byte(doc))
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindUnsupportedABIVersion, ae.Kind)
}

func TestResolveStructsRejectsDuplicateName(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.0",
		"structs":[
			{"name":"s","base":"","fields":[]},
			{"name":"s","base":"","fields":[]}
		]
	}`
	_, err := Load([]byte(doc))
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindParse, ae.Kind)
}

func TestResolveStructsRejectsBaseCycle(t *testing.T) {
	doc := `{
		"version":"eosio::abi/1.0",
		"structs":[
			{"name":"a","base":"b","fields":[]},
			{"name":"b","base":"a","fields":[]}
		]
	}`
	_, err := Load([]byte(doc))
	require.Error(t, err)
	ae, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, KindCircularReference, ae.Kind)
}
