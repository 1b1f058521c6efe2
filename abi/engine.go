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

	"github.com/eosabi/abicodec/abi/jsonio"
	"github.com/eosabi/abicodec/abi/wire"
)

// maxRecursionDepth bounds nested type wrappers (optional/extension/array/
// sized-array/alias) per conversion, per §4.6.
const maxRecursionDepth = 32

// encodeParams threads the per-call knobs the recursive walker needs
// without a method receiver on Table (conversions are pure functions of
// table + input, per the Data Model's "no global state" note).
type encodeParams struct {
	abiMinor    int
	reorderable bool
}

// EncodeJSON walks d against v and appends the binary encoding to w.
func EncodeJSON(w *wire.Writer, d *Descriptor, v jsonio.Value, abiMinor int, reorderable bool) error {
	p := &encodeParams{abiMinor: abiMinor, reorderable: reorderable}
	return encodeValue(w, d, v, p, 0, "")
}

// DecodeJSON walks d against r and writes the JSON form to jw.
func DecodeJSON(r *wire.Reader, d *Descriptor, jw *jsonio.Writer, abiMinor int) error {
	return decodeValue(r, d, jw, abiMinor, 0, "")
}

func encodeValue(w *wire.Writer, d *Descriptor, v jsonio.Value, p *encodeParams, depth int, path string) error {
	if depth > maxRecursionDepth {
		return newErr(KindRecursionLimit, "exceeded %d nested type wrappers", maxRecursionDepth).withPath(path)
	}
	switch d.Kind {
	case KindBuiltin:
		if err := leafFromJSON(w, d.Builtin, v, p.abiMinor); err != nil {
			return annotatePath(err, path)
		}
		return nil
	case KindAlias:
		return encodeValue(w, d.Target, v, p, depth+1, path)
	case KindOptional:
		if v.IsNull() {
			w.WriteByte(0)
			return nil
		}
		w.WriteByte(1)
		return encodeValue(w, d.Elem, v, p, depth+1, path)
	case KindExtension:
		// A bare Extension descriptor is only reached for a top-level call;
		// inside a struct, extension presence is decided by encodeStruct.
		return encodeValue(w, d.Elem, v, p, depth+1, path)
	case KindArray:
		if v.Kind != jsonio.KindArray {
			return newErr(KindParse, "expected array, got %v", v.Kind).withPath(path)
		}
		w.WriteVarUint32(uint32(len(v.Arr)))
		for i, elem := range v.Arr {
			if err := encodeValue(w, d.Elem, elem, p, depth+1, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	case KindSizedArray:
		if v.Kind != jsonio.KindArray {
			return newErr(KindParse, "expected array, got %v", v.Kind).withPath(path)
		}
		if len(v.Arr) != d.Size {
			return newErr(KindLengthMismatch, "expected %d elements, got %d", d.Size, len(v.Arr)).withPath(path)
		}
		for i, elem := range v.Arr {
			if err := encodeValue(w, d.Elem, elem, p, depth+1, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	case KindStruct:
		return encodeStruct(w, d.Struct, v, p, depth, path)
	case KindVariant:
		return encodeVariant(w, d.Variant, v, p, depth, path)
	default:
		return newErr(KindInternal, "unresolved descriptor kind %d", d.Kind).withPath(path)
	}
}

func encodeStruct(w *wire.Writer, sd *StructDescriptor, v jsonio.Value, p *encodeParams, depth int, path string) error {
	switch v.Kind {
	case jsonio.KindObject:
		return encodeStructObject(w, sd, v, p, depth, path)
	case jsonio.KindArray:
		return encodeStructArray(w, sd, v, p, depth, path)
	default:
		return newErr(KindParse, "expected object or array for struct %q, got %v", sd.Name, v.Kind).withPath(path)
	}
}

func encodeStructObject(w *wire.Writer, sd *StructDescriptor, v jsonio.Value, p *encodeParams, depth int, path string) error {
	cur := jsonio.NewCursor(v)
	// In strict mode a member that does not match an extension field is held
	// back so a later field can still claim it.
	var (
		pendKey string
		pendVal jsonio.Value
		hasPend bool
	)
	sawMissingExtension := false
	for _, f := range sd.Fields {
		fieldPath := joinPath(path, f.Name)
		isExt := f.Type.Kind == KindExtension
		var (
			fv      jsonio.Value
			present bool
		)
		if p.reorderable {
			fv, present = v.Get(f.Name)
		} else {
			if !hasPend {
				pendKey, pendVal, hasPend = cur.NextMember()
			}
			if hasPend && pendKey == f.Name {
				fv, present = pendVal, true
				hasPend = false
			} else if hasPend && !isExt {
				return newErr(KindParse, "struct field out of order: expected %q", f.Name).withPath(fieldPath)
			}
		}
		if isExt {
			if !present {
				sawMissingExtension = true
				continue
			}
			if sawMissingExtension {
				return newErr(KindExtensionGap, "extension field %q present after an earlier one was omitted", f.Name).withPath(fieldPath)
			}
			if err := encodeValue(w, f.Type.Elem, fv, p, depth+1, fieldPath); err != nil {
				return err
			}
			continue
		}
		if !present {
			return newErr(KindMissingField, "missing required field %q", f.Name).withPath(fieldPath)
		}
		if err := encodeValue(w, f.Type, fv, p, depth+1, fieldPath); err != nil {
			return err
		}
	}
	return nil
}

func encodeStructArray(w *wire.Writer, sd *StructDescriptor, v jsonio.Value, p *encodeParams, depth int, path string) error {
	for i, f := range sd.Fields {
		fieldPath := joinPath(path, f.Name)
		isExt := f.Type.Kind == KindExtension
		if i >= len(v.Arr) {
			if isExt {
				return nil
			}
			return newErr(KindMissingField, "missing required field %q", f.Name).withPath(fieldPath)
		}
		elemType := f.Type
		if isExt {
			elemType = f.Type.Elem
		}
		if err := encodeValue(w, elemType, v.Arr[i], p, depth+1, fieldPath); err != nil {
			return err
		}
	}
	return nil
}

func encodeVariant(w *wire.Writer, vd *VariantDescriptor, v jsonio.Value, p *encodeParams, depth int, path string) error {
	if v.Kind != jsonio.KindArray || len(v.Arr) != 2 {
		return newErr(KindParse, "variant %q expects a 2-element [tag, value] array", vd.Name).withPath(path)
	}
	if v.Arr[0].Kind != jsonio.KindString {
		return newErr(KindParse, "variant %q tag must be a string", vd.Name).withPath(path)
	}
	tag := v.Arr[0].S
	idx, ok := vd.indexOf(tag)
	if !ok {
		return newErr(KindUnknownVariant, "unknown variant tag %q for %q", tag, vd.Name).withPath(path)
	}
	w.WriteVarUint32(uint32(idx))
	return encodeValue(w, vd.Alternatives[idx].Type, v.Arr[1], p, depth+1, joinPath(path, tag))
}

func decodeValue(r *wire.Reader, d *Descriptor, jw *jsonio.Writer, abiMinor int, depth int, path string) error {
	if depth > maxRecursionDepth {
		return newErr(KindRecursionLimit, "exceeded %d nested type wrappers", maxRecursionDepth).withPath(path)
	}
	switch d.Kind {
	case KindBuiltin:
		if err := leafToJSON(r, d.Builtin, jw, abiMinor); err != nil {
			return annotateOffset(annotatePath(err, path), r.Pos())
		}
		return nil
	case KindAlias:
		return decodeValue(r, d.Target, jw, abiMinor, depth+1, path)
	case KindOptional:
		b, err := r.ReadByte()
		if err != nil {
			return annotateOffset(newErr(KindStream, "underrun reading optional presence byte").withPath(path), r.Pos())
		}
		if b == 0 {
			jw.Null()
			return nil
		}
		return decodeValue(r, d.Elem, jw, abiMinor, depth+1, path)
	case KindExtension:
		return decodeValue(r, d.Elem, jw, abiMinor, depth+1, path)
	case KindArray:
		n, err := decodeVarUint32(r)
		if err != nil {
			return annotateOffset(annotatePath(err, path), r.Pos())
		}
		jw.BeginArray()
		for i := uint32(0); i < n; i++ {
			if err := decodeValue(r, d.Elem, jw, abiMinor, depth+1, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		jw.End()
		return nil
	case KindSizedArray:
		jw.BeginArray()
		for i := 0; i < d.Size; i++ {
			if err := decodeValue(r, d.Elem, jw, abiMinor, depth+1, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		jw.End()
		return nil
	case KindStruct:
		return decodeStruct(r, d.Struct, jw, abiMinor, depth, path)
	case KindVariant:
		return decodeVariant(r, d.Variant, jw, abiMinor, depth, path)
	default:
		return newErr(KindInternal, "unresolved descriptor kind %d", d.Kind).withPath(path)
	}
}

func decodeStruct(r *wire.Reader, sd *StructDescriptor, jw *jsonio.Writer, abiMinor int, depth int, path string) error {
	jw.BeginObject()
	for _, f := range sd.Fields {
		fieldPath := joinPath(path, f.Name)
		if f.Type.Kind == KindExtension {
			if r.Remaining() == 0 {
				break
			}
			jw.Key(f.Name)
			if err := decodeValue(r, f.Type.Elem, jw, abiMinor, depth+1, fieldPath); err != nil {
				return err
			}
			continue
		}
		jw.Key(f.Name)
		if err := decodeValue(r, f.Type, jw, abiMinor, depth+1, fieldPath); err != nil {
			return err
		}
	}
	jw.End()
	return nil
}

func decodeVariant(r *wire.Reader, vd *VariantDescriptor, jw *jsonio.Writer, abiMinor int, depth int, path string) error {
	idx, err := decodeVarUint32(r)
	if err != nil {
		return annotateOffset(annotatePath(err, path), r.Pos())
	}
	if int(idx) >= len(vd.Alternatives) {
		return annotateOffset(newErr(KindUnknownVariant, "variant %q has no alternative at index %d", vd.Name, idx).withPath(path), r.Pos())
	}
	alt := vd.Alternatives[idx]
	jw.BeginArray()
	jw.String_(alt.Tag)
	if err := decodeValue(r, alt.Type, jw, abiMinor, depth+1, joinPath(path, alt.Tag)); err != nil {
		return err
	}
	jw.End()
	return nil
}

func joinPath(path, segment string) string {
	if path == "" {
		return segment
	}
	return path + "." + segment
}
