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

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

type frame struct {
	array     bool
	wroteItem bool
}

// Writer streams JSON text. Compact emits no whitespace; Pretty indents
// with two spaces, matching the "pretty"/"compact" variants in §4.3.
type Writer struct {
	sb     strings.Builder
	stack  []frame
	pretty bool
	atKey  bool
}

func NewWriter() *Writer {
	return &Writer{}
}

func NewPrettyWriter() *Writer {
	return &Writer{pretty: true}
}

func (w *Writer) String() string {
	return w.sb.String()
}

func (w *Writer) Bytes() []byte {
	return []byte(w.sb.String())
}

func (w *Writer) indent() {
	if !w.pretty {
		return
	}
	w.sb.WriteByte('\n')
	for i := 0; i < len(w.stack); i++ {
		w.sb.WriteString("  ")
	}
}

func (w *Writer) beforeValue() {
	if len(w.stack) == 0 {
		return
	}
	top := &w.stack[len(w.stack)-1]
	if top.array {
		if top.wroteItem {
			w.sb.WriteByte(',')
		}
		w.indent()
		top.wroteItem = true
	}
}

func (w *Writer) BeginObject() {
	w.beforeValue()
	w.sb.WriteByte('{')
	w.stack = append(w.stack, frame{})
}

func (w *Writer) BeginArray() {
	w.beforeValue()
	w.sb.WriteByte('[')
	w.stack = append(w.stack, frame{array: true})
}

func (w *Writer) End() {
	closing := byte('}')
	top := w.stack[len(w.stack)-1]
	if top.array {
		closing = ']'
	}
	if top.wroteItem {
		w.indent()
	}
	w.stack = w.stack[:len(w.stack)-1]
	w.sb.WriteByte(closing)
}

// Key writes an object member name; the following Value/BeginObject/
// BeginArray call supplies the member's value.
func (w *Writer) Key(key string) {
	top := &w.stack[len(w.stack)-1]
	if top.wroteItem {
		w.sb.WriteByte(',')
	}
	w.indent()
	top.wroteItem = true
	w.writeQuoted(key)
	w.sb.WriteByte(':')
	if w.pretty {
		w.sb.WriteByte(' ')
	}
}

func (w *Writer) writeQuoted(s string) {
	b, _ := json.Marshal(s)
	w.sb.Write(b)
}

// String_ writes a quoted, escaped string value.
func (w *Writer) String_(s string) {
	w.beforeValue()
	w.writeQuoted(s)
}

// Raw writes pre-formatted JSON (a number literal, `true`/`false`, `null`)
// verbatim.
func (w *Writer) Raw(s string) {
	w.beforeValue()
	w.sb.WriteString(s)
}

func (w *Writer) Bool(b bool) {
	if b {
		w.Raw("true")
	} else {
		w.Raw("false")
	}
}

func (w *Writer) Null() {
	w.Raw("null")
}

func (w *Writer) Int64(v int64) {
	w.Raw(strconv.FormatInt(v, 10))
}

func (w *Writer) Uint64(v uint64) {
	w.Raw(strconv.FormatUint(v, 10))
}

// QuotedString is a convenience for String_, named to mirror the
// `value(primitive)` call named in §4.3 for simple leaf emission sites.
func (w *Writer) QuotedString(s string) {
	w.String_(s)
}
