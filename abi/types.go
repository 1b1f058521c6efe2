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

// Package abi is THE CORE: an ABI-driven binary<->JSON codec. It loads a
// JSON schema document (an "ABI") into an in-memory type table, then walks
// that table to encode and decode arbitrary values in either direction.
package abi

// Builtin names one of the leaf wire types in spec §4.1/§4.2.
type Builtin int

const (
	BInt8 Builtin = iota
	BUint8
	BInt16
	BUint16
	BInt32
	BUint32
	BInt64
	BUint64
	BInt128
	BUint128
	BVarInt32
	BVarUint32
	BBool
	BFloat32
	BFloat64
	BFloat128
	BBytes
	BString
	BTimePoint
	BTimePointSec
	BBlockTimestampType
	BSymbolCode
	BSymbol
	BAsset
	BExtendedAsset
	BBitset
	BChecksum160
	BChecksum256
	BChecksum512
	BPublicKey
	BPrivateKey
	BSignature
	BName
)

var builtinNames = map[string]Builtin{
	"int8": BInt8, "uint8": BUint8,
	"int16": BInt16, "uint16": BUint16,
	"int32": BInt32, "uint32": BUint32,
	"int64": BInt64, "uint64": BUint64,
	"int128": BInt128, "uint128": BUint128,
	"varint32": BVarInt32, "varuint32": BVarUint32,
	"bool":                 BBool,
	"float32":              BFloat32,
	"float64":              BFloat64,
	"float128":             BFloat128,
	"bytes":                BBytes,
	"string":               BString,
	"time_point":           BTimePoint,
	"time_point_sec":       BTimePointSec,
	"block_timestamp_type": BBlockTimestampType,
	"symbol_code":          BSymbolCode,
	"symbol":               BSymbol,
	"asset":                BAsset,
	"extended_asset":       BExtendedAsset,
	"bitset":               BBitset,
	"checksum160":          BChecksum160,
	"checksum256":          BChecksum256,
	"checksum512":          BChecksum512,
	"public_key":           BPublicKey,
	"private_key":          BPrivateKey,
	"signature":            BSignature,
	"name":                 BName,
}

func lookupBuiltin(name string) (Builtin, bool) {
	b, ok := builtinNames[name]
	return b, ok
}

// Kind tags the variant a Descriptor carries, per the Data Model's
// "Type descriptor" union.
type Kind int

const (
	KindBuiltin Kind = iota
	KindAlias
	KindOptional
	KindExtension
	KindArray
	KindSizedArray
	KindStruct
	KindVariant
)

// Descriptor is a resolved, cycle-free type node. Only the field(s)
// matching Kind are meaningful; the rest are zero.
type Descriptor struct {
	Kind Kind

	// KindBuiltin
	Builtin Builtin

	// KindAlias: the resolved descriptor of the alias's target type. When
	// the target is itself an alias, Target is another KindAlias node;
	// resolveAlias follows such a chain to its end.
	Target *Descriptor

	// AliasOf is the raw `types[].type` string of a KindAlias entry as
	// installed in the table; Resolve reads it to build the Target chain.
	AliasOf string

	// KindOptional, KindExtension, KindArray, KindSizedArray
	Elem *Descriptor
	Size int // KindSizedArray only

	// KindStruct
	Struct *StructDescriptor

	// KindVariant
	Variant *VariantDescriptor
}

// Field is one member of a struct's resolved, flattened field list.
type Field struct {
	Name string
	Type *Descriptor
}

// StructDescriptor holds a struct's own declaration plus its resolved base
// chain. Fields is the base's Fields concatenated with OwnFields, i.e. the
// full wire layout in declared order (Data Model invariant 2).
type StructDescriptor struct {
	Name     string
	BaseName string
	Base     *StructDescriptor
	OwnFields []Field
	Fields    []Field
}

// Alternative is one arm of a variant.
type Alternative struct {
	Tag  string
	Type *Descriptor
}

type VariantDescriptor struct {
	Name         string
	Alternatives []Alternative
}

func (v *VariantDescriptor) indexOf(tag string) (int, bool) {
	for i, a := range v.Alternatives {
		if a.Tag == tag {
			return i, true
		}
	}
	return 0, false
}

// resolveAlias follows Target links from d until it reaches a descriptor
// that is not a KindAlias, and returns that descriptor.
func (d *Descriptor) resolveAlias() *Descriptor {
	for d != nil && d.Kind == KindAlias {
		d = d.Target
	}
	return d
}
