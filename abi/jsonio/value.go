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

// Package jsonio is the codec's JSON front end: a DOM-like value parsed once
// from input text (duplicate object keys resolved last-wins, per the wire
// contract) plus a streaming writer for output text. It is built on
// goccy/go-json, an encoding/json-compatible decoder that preserves
// json.Number semantics for the wide-integer strings the codec round-trips.
package jsonio

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// KV is one member of a JSON object, in first-seen position with the
// last-written value per spec.md §4.3 ("Duplicate keys in a struct: last
// one wins").
type KV struct {
	Key   string
	Value Value
}

// Value is a parsed JSON value. Only the field matching Kind is meaningful.
type Value struct {
	Kind Kind
	B    bool
	N    json.Number
	S    string
	Arr  []Value
	Obj  []KV
}

func Null() Value { return Value{Kind: KindNull} }

// Get returns the value of the named object member and whether it was
// present.
func (v Value) Get(key string) (Value, bool) {
	for _, kv := range v.Obj {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return Value{}, false
}

func (v Value) IsNull() bool { return v.Kind == KindNull }

// Parse decodes a single JSON value from text into a DOM tree.
func Parse(text []byte) (Value, error) {
	dec := json.NewDecoder(newByteReader(text))
	dec.UseNumber()
	v, err := parseValue(dec)
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return Value{}, fmt.Errorf("jsonio: unexpected delimiter %q", t)
		}
	case nil:
		return Value{Kind: KindNull}, nil
	case bool:
		return Value{Kind: KindBool, B: t}, nil
	case json.Number:
		return Value{Kind: KindNumber, N: t}, nil
	case string:
		return Value{Kind: KindString, S: t}, nil
	default:
		return Value{}, fmt.Errorf("jsonio: unexpected token %T", tok)
	}
}

func parseObject(dec *json.Decoder) (Value, error) {
	v := Value{Kind: KindObject}
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("jsonio: object key is not a string")
		}
		val, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		if i, dup := index[key]; dup {
			v.Obj[i].Value = val
		} else {
			index[key] = len(v.Obj)
			v.Obj = append(v.Obj, KV{Key: key, Value: val})
		}
	}
	if _, err := dec.Token(); err != nil && err != io.EOF { // consume '}'
		return Value{}, err
	}
	return v, nil
}

func parseArray(dec *json.Decoder) (Value, error) {
	v := Value{Kind: KindArray}
	for dec.More() {
		val, err := parseValue(dec)
		if err != nil {
			return Value{}, err
		}
		v.Arr = append(v.Arr, val)
	}
	if _, err := dec.Token(); err != nil && err != io.EOF { // consume ']'
		return Value{}, err
	}
	return v, nil
}

type byteReader struct {
	b   []byte
	pos int
}

func newByteReader(b []byte) *byteReader { return &byteReader{b: b} }

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.b) {
		return 0, io.EOF
	}
	n := copy(p, r.b[r.pos:])
	r.pos += n
	return n, nil
}
