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

package jsonio

import "fmt"

// Cursor walks a parsed Value the way a token reader walks a text stream:
// sequentially, one member or element at a time. The engine's strict-mode
// struct encoding walks object members with it, so struct field order is
// enforced by the call sequence, not by re-deriving it from the DOM each time.
type Cursor struct {
	v   Value
	pos int
}

func NewCursor(v Value) *Cursor {
	return &Cursor{v: v}
}

func (c *Cursor) Kind() Kind {
	return c.v.Kind
}

// Peek reports the kind of the whole value under the cursor without
// consuming anything; used to tell a struct-shaped JSON object apart from
// its array shorthand.
func (c *Cursor) Peek() Kind {
	return c.v.Kind
}

func (c *Cursor) ExpectObject() error {
	if c.v.Kind != KindObject {
		return fmt.Errorf("jsonio: expected object, got %v", c.v.Kind)
	}
	return nil
}

func (c *Cursor) ExpectArray() error {
	if c.v.Kind != KindArray {
		return fmt.Errorf("jsonio: expected array, got %v", c.v.Kind)
	}
	return nil
}

// NextMember returns the next object member in declaration order.
func (c *Cursor) NextMember() (string, Value, bool) {
	if c.pos >= len(c.v.Obj) {
		return "", Value{}, false
	}
	kv := c.v.Obj[c.pos]
	c.pos++
	return kv.Key, kv.Value, true
}

// Remaining reports how many object members or array elements are left.
func (c *Cursor) Remaining() int {
	if c.v.Kind == KindObject {
		return len(c.v.Obj) - c.pos
	}
	return len(c.v.Arr) - c.pos
}

// NextElement returns the next array element.
func (c *Cursor) NextElement() (Value, bool) {
	if c.pos >= len(c.v.Arr) {
		return Value{}, false
	}
	e := c.v.Arr[c.pos]
	c.pos++
	return e, true
}

// Len reports the object-member or array-element count.
func (c *Cursor) Len() int {
	if c.v.Kind == KindObject {
		return len(c.v.Obj)
	}
	return len(c.v.Arr)
}

// AsMap buffers an object's members into a lookup keyed by name. The
// engine's "reorderable" struct mode does not use it; it calls Value.Get.
func (c *Cursor) AsMap() map[string]Value {
	m := make(map[string]Value, len(c.v.Obj))
	for _, kv := range c.v.Obj {
		m[kv.Key] = kv.Value
	}
	return m
}
