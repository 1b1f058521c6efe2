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

	json "github.com/goccy/go-json"

	"github.com/icon-project/btp2/common/log"
)

var loaderLogger = log.New()

func init() {
	loaderLogger.SetLevel(log.DebugLevel)
}

// maxABIMinor is one past the newest "eosio::abi/1.N" minor version this
// loader recognizes; N >= maxABIMinor is rejected per §4.5 step 1.
const maxABIMinor = 4

// document mirrors the JSON shape of §3's "ABI document". Fields the core
// doesn't interpret are decoded as raw JSON; Load does not carry them into
// the Table, so they are not available after loading.
type document struct {
	Version string `json:"version" validate:"required"`

	Types    []typeAliasDoc `json:"types" validate:"dive"`
	Structs  []structDoc    `json:"structs" validate:"dive"`
	Variants []variantDoc   `json:"variants" validate:"dive"`

	ActionResults []actionResultDoc `json:"action_results" validate:"dive"`

	Actions          json.RawMessage `json:"actions,omitempty"`
	Tables           json.RawMessage `json:"tables,omitempty"`
	RicardianClauses json.RawMessage `json:"ricardian_clauses,omitempty"`
	ErrorMessages    json.RawMessage `json:"error_messages,omitempty"`
	ABIExtensions    json.RawMessage `json:"abi_extensions,omitempty"`
}

type typeAliasDoc struct {
	NewTypeName string `json:"new_type_name" validate:"required,abiident"`
	Type        string `json:"type" validate:"required"`
}

type fieldDoc struct {
	Name string `json:"name" validate:"required,abiident"`
	Type string `json:"type" validate:"required"`
}

type structDoc struct {
	Name   string     `json:"name" validate:"required,abiident"`
	Base   string     `json:"base"`
	Fields []fieldDoc `json:"fields" validate:"dive"`
}

type variantDoc struct {
	Name  string   `json:"name" validate:"required,abiident"`
	Types []string `json:"types"`
}

type actionResultDoc struct {
	Name       string `json:"name" validate:"required,abiident"`
	ResultType string `json:"result_type" validate:"required"`
}

// Load parses an ABI JSON document and compiles it into a resolved type
// Table. A failed Load never returns a partially built Table.
func Load(abiJSON []byte) (*Table, error) {
	var doc document
	if err := json.Unmarshal(abiJSON, &doc); err != nil {
		return nil, errorf(KindParse, "malformed ABI document: %s", err.Error())
	}
	if err := validateDocument(&doc); err != nil {
		return nil, err
	}

	minor, err := parseABIVersion(doc.Version)
	if err != nil {
		return nil, err
	}
	loaderLogger.Tracef("abi version:%s minor:%d\n", doc.Version, minor)

	t := newTable()
	t.abiMinor = minor

	if err := installSkeletons(t, &doc); err != nil {
		return nil, err
	}
	if err := resolveAliases(t, &doc); err != nil {
		return nil, err
	}
	if err := resolveStructs(t, &doc); err != nil {
		return nil, err
	}
	if err := resolveVariants(t, &doc); err != nil {
		return nil, err
	}
	if minor >= 1 {
		if err := resolveActionResults(t, &doc); err != nil {
			return nil, err
		}
	} else if len(doc.ActionResults) > 0 {
		return nil, errorf(KindUnsupportedABIVersion, "action_results requires abi version 1.1+, got %s", doc.Version)
	}
	return t, nil
}

func parseABIVersion(version string) (int, error) {
	const prefix = "eosio::abi/1."
	if !strings.HasPrefix(version, prefix) {
		return 0, errorf(KindUnsupportedABIVersion, "unrecognized abi version tag %q", version)
	}
	suffix := version[len(prefix):]
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0, errorf(KindUnsupportedABIVersion, "unrecognized abi version tag %q", version)
	}
	if n >= maxABIMinor {
		return 0, errorf(KindUnsupportedABIVersion, "abi version 1.%d exceeds maximum supported 1.%d", n, maxABIMinor-1)
	}
	return n, nil
}

// installSkeletons registers an (initially empty) table entry for every
// declared name before any resolution happens, so forward references and
// mutual struct recursion (A has a field of type B, B of type A) see a
// valid pointer instead of an unknown_type miss.
func installSkeletons(t *Table, doc *document) error {
	for i := range doc.Types {
		name := doc.Types[i].NewTypeName
		if _, exists := t.byName[name]; exists {
			return errorf(KindParse, "types[%d]: duplicate type name %q", i, name).(*Error).withPath(fmt.Sprintf("types[%d].new_type_name", i))
		}
		t.set(name, &Descriptor{Kind: KindAlias, AliasOf: doc.Types[i].Type})
	}
	for i := range doc.Structs {
		name := doc.Structs[i].Name
		if _, exists := t.byName[name]; exists {
			return wrapPath(errorf(KindParse, "structs[%d]: duplicate struct name %q", i, name), fmt.Sprintf("structs[%d].name", i))
		}
		t.set(name, &Descriptor{Kind: KindStruct, Struct: &StructDescriptor{Name: name, BaseName: doc.Structs[i].Base}})
	}
	for i := range doc.Variants {
		name := doc.Variants[i].Name
		if _, exists := t.byName[name]; exists {
			return wrapPath(errorf(KindParse, "variants[%d]: duplicate variant name %q", i, name), fmt.Sprintf("variants[%d].name", i))
		}
		t.set(name, &Descriptor{Kind: KindVariant, Variant: &VariantDescriptor{Name: name}})
	}
	return nil
}

func wrapPath(err error, path string) error {
	if e, ok := err.(*Error); ok {
		return e.withPath(path)
	}
	return err
}

func resolveAliases(t *Table, doc *document) error {
	for i, a := range doc.Types {
		path := fmt.Sprintf("types[%d].type", i)
		if _, err := t.Resolve(a.NewTypeName); err != nil {
			return wrapPath(err, path)
		}
	}
	return nil
}

// resolveStructs fills in Base and Fields for every declared struct,
// following the base chain recursively with cycle detection (invariant 2:
// inheritance forms a forest).
func resolveStructs(t *Table, doc *document) error {
	inFlight := make(map[string]bool)
	done := make(map[string]bool)
	var resolveOne func(name string, path string) error
	resolveOne = func(name string, path string) error {
		if done[name] {
			return nil
		}
		if inFlight[name] {
			return errorf(KindCircularReference, "struct base cycle through %q", name)
		}
		d, ok := t.byName[name]
		if !ok || d.Kind != KindStruct {
			return errorf(KindUnknownType, "unknown struct %q", name)
		}
		inFlight[name] = true
		defer delete(inFlight, name)

		sd := d.Struct
		var baseFields []Field
		if sd.BaseName != "" {
			if err := resolveOne(sd.BaseName, path); err != nil {
				return err
			}
			baseDesc, ok := t.byName[sd.BaseName]
			if !ok || baseDesc.Kind != KindStruct {
				return errorf(KindUnknownType, "unknown base struct %q", sd.BaseName)
			}
			sd.Base = baseDesc.Struct
			baseFields = baseDesc.Struct.Fields
		}

		seen := make(map[string]bool, len(baseFields))
		for _, f := range baseFields {
			seen[f.Name] = true
		}
		for _, fd := range structFieldDocs(doc, name) {
			if seen[fd.Name] {
				return errorf(KindInternal, "duplicate field name %q in struct %q (already present in base)", fd.Name, name)
			}
			seen[fd.Name] = true
			ft, err := t.Resolve(fd.Type)
			if err != nil {
				return err
			}
			sd.OwnFields = append(sd.OwnFields, Field{Name: fd.Name, Type: ft})
		}
		sd.Fields = append(append([]Field{}, baseFields...), sd.OwnFields...)
		if err := checkExtensionsAreTrailing(sd.Fields); err != nil {
			return err
		}
		done[name] = true
		return nil
	}
	for i, s := range doc.Structs {
		if err := resolveOne(s.Name, fmt.Sprintf("structs[%d]", i)); err != nil {
			return wrapPath(err, fmt.Sprintf("structs[%d]", i))
		}
	}
	return nil
}

// checkExtensionsAreTrailing enforces that `$`-suffixed fields only occur
// at the tail of a struct's flattened field list (§4.6's "Extension(T):
// only legal as a trailing struct field").
func checkExtensionsAreTrailing(fields []Field) error {
	sawExtension := false
	for _, f := range fields {
		if f.Type.Kind == KindExtension {
			sawExtension = true
			continue
		}
		if sawExtension {
			return errorf(KindInternal, "non-extension field %q follows an extension field", f.Name)
		}
	}
	return nil
}

func structFieldDocs(doc *document, name string) []fieldDoc {
	for _, s := range doc.Structs {
		if s.Name == name {
			return s.Fields
		}
	}
	return nil
}

func resolveVariants(t *Table, doc *document) error {
	for i, v := range doc.Variants {
		d := t.byName[v.Name]
		vd := d.Variant
		seen := make(map[string]bool, len(v.Types))
		for j, typeName := range v.Types {
			ft, err := t.Resolve(typeName)
			if err != nil {
				return wrapPath(err, fmt.Sprintf("variants[%d].types[%d]", i, j))
			}
			if seen[typeName] {
				return wrapPath(errorf(KindInternal, "duplicate variant alternative %q", typeName), fmt.Sprintf("variants[%d].types[%d]", i, j))
			}
			seen[typeName] = true
			vd.Alternatives = append(vd.Alternatives, Alternative{Tag: typeName, Type: ft})
		}
	}
	return nil
}

func resolveActionResults(t *Table, doc *document) error {
	for i, ar := range doc.ActionResults {
		rt, err := t.Resolve(ar.ResultType)
		if err != nil {
			return wrapPath(err, fmt.Sprintf("action_results[%d].result_type", i))
		}
		t.actionRes[ar.Name] = rt
	}
	return nil
}
