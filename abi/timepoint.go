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
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eosabi/abicodec/abi/jsonio"
)

const isoLayout = "2006-01-02T15:04:05"

var blockTimestampEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

const blockTimestampSlotMS = 500

// parseISO splits off an optional fractional-seconds suffix (any digit
// count) itself, since Go's reference-layout parser requires an exact
// fraction width and the wire contract allows a variable one.
func parseISO(s string) (whole time.Time, fracNanos int64, err error) {
	main := s
	var fracStr string
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		main = s[:idx]
		fracStr = s[idx+1:]
	}
	whole, err = time.ParseInLocation(isoLayout, main, time.UTC)
	if err != nil {
		return time.Time{}, 0, errorf(KindParse, "invalid ISO-8601 timestamp %q", s)
	}
	if fracStr == "" {
		return whole, 0, nil
	}
	for _, c := range fracStr {
		if c < '0' || c > '9' {
			return time.Time{}, 0, errorf(KindParse, "invalid ISO-8601 timestamp %q", s)
		}
	}
	padded := (fracStr + "000000000")[:9]
	n, convErr := strconv.ParseInt(padded, 10, 64)
	if convErr != nil {
		return time.Time{}, 0, errorf(KindParse, "invalid ISO-8601 timestamp %q", s)
	}
	return whole, n, nil
}

func formatISOMicros(t time.Time, micros int) string {
	return fmt.Sprintf("%s.%06d", t.UTC().Format(isoLayout), micros)
}

func formatISOMillis(t time.Time, millis int) string {
	return fmt.Sprintf("%s.%03d", t.UTC().Format(isoLayout), millis)
}

// time_point: signed microseconds since the Unix epoch.

func timePointToJSON(usec int64) string {
	sec := usec / 1_000_000
	rem := usec % 1_000_000
	if rem < 0 {
		rem += 1_000_000
		sec--
	}
	return formatISOMicros(time.Unix(sec, 0).UTC(), int(rem))
}

func timePointFromJSON(v jsonio.Value) (int64, error) {
	if v.Kind != jsonio.KindString {
		return 0, errorf(KindParse, "expected ISO-8601 timestamp, got %v", v.Kind)
	}
	t, frac, err := parseISO(v.S)
	if err != nil {
		return 0, err
	}
	return t.Unix()*1_000_000 + frac/1000, nil
}

// time_point_sec: unsigned seconds since the Unix epoch.

func timePointSecToJSON(sec uint32) string {
	return time.Unix(int64(sec), 0).UTC().Format(isoLayout)
}

func timePointSecFromJSON(v jsonio.Value) (uint32, error) {
	if v.Kind != jsonio.KindString {
		return 0, errorf(KindParse, "expected ISO-8601 timestamp, got %v", v.Kind)
	}
	t, _, err := parseISO(v.S)
	if err != nil {
		return 0, err
	}
	u := t.Unix()
	if u < 0 || u > int64(^uint32(0)) {
		return 0, errorf(KindRange, "time_point_sec %q out of range", v.S)
	}
	return uint32(u), nil
}

// block_timestamp_type: a 500ms slot index since 2000-01-01T00:00:00Z.

func blockTimestampToJSON(slot uint32) string {
	ms := int64(slot) * blockTimestampSlotMS
	t := blockTimestampEpoch.Add(time.Duration(ms) * time.Millisecond)
	return formatISOMillis(t, int(ms%1000))
}

func blockTimestampFromJSON(v jsonio.Value) (uint32, error) {
	if v.Kind != jsonio.KindString {
		return 0, errorf(KindParse, "expected ISO-8601 timestamp, got %v", v.Kind)
	}
	t, frac, err := parseISO(v.S)
	if err != nil {
		return 0, err
	}
	ms := t.Sub(blockTimestampEpoch).Milliseconds() + frac/1_000_000
	if ms < 0 {
		return 0, errorf(KindRange, "block_timestamp_type %q predates the epoch", v.S)
	}
	slot := ms / blockTimestampSlotMS
	if slot > int64(^uint32(0)) {
		return 0, errorf(KindRange, "block_timestamp_type %q out of range", v.S)
	}
	return uint32(slot), nil
}
