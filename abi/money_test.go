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

func TestSymbolCodeRoundTrip(t *testing.T) {
	v, err := symbolCodeToUint64("SYS")
	require.NoError(t, err)
	assert.Equal(t, "SYS", uint64ToSymbolCode(v))
}

func TestSymbolCodeRejectsLowercase(t *testing.T) {
	_, err := symbolCodeToUint64("sys")
	require.Error(t, err)
}

func TestSymbolCodeRejectsTooLong(t *testing.T) {
	_, err := symbolCodeToUint64("TOOLONGG")
	require.Error(t, err)
}

func TestSymbolJSONRoundTrip(t *testing.T) {
	s := symbolToJSON(4, "SYS")
	assert.Equal(t, "4,SYS", s)
	p, code, err := symbolFromJSON(s)
	require.NoError(t, err)
	assert.Equal(t, uint8(4), p)
	assert.Equal(t, "SYS", code)
}

func TestFormatFixedPoint(t *testing.T) {
	assert.Equal(t, "1.2345", formatFixedPoint(12345, 4))
	assert.Equal(t, "0.0001", formatFixedPoint(1, 4))
	assert.Equal(t, "-1.2345", formatFixedPoint(-12345, 4))
	assert.Equal(t, "100", formatFixedPoint(100, 0))
}

func TestParseFixedPoint(t *testing.T) {
	v, p, err := parseFixedPoint("1.2345")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), v)
	assert.Equal(t, uint8(4), p)

	v, p, err = parseFixedPoint("-0.0001")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v)
	assert.Equal(t, uint8(4), p)
}

func TestAssetJSONRoundTrip(t *testing.T) {
	amount, precision, code, err := assetFromJSON("1.2345 SYS")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), amount)
	assert.Equal(t, uint8(4), precision)
	assert.Equal(t, "SYS", code)
	assert.Equal(t, "1.2345 SYS", assetToJSON(amount, precision, code))
}
