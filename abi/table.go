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
	"regexp"
	"strconv"
	"strings"
)

// Table is the resolved, cycle-free mapping from declared type name to
// descriptor (Data Model's "Type table"). Entries are recorded for every
// `types`/`structs`/`variants`/`action_results` member of the source ABI;
// builtins and compound suffix forms (e.g. "uint8[]?") are resolved on
// demand against this table rather than stored in it.
type Table struct {
	order     []string
	byName    map[string]*Descriptor
	abiMinor  int // the numeric suffix of "eosio::abi/1.N", gates feature flags
	actionRes map[string]*Descriptor
}

func newTable() *Table {
	return &Table{
		byName:    make(map[string]*Descriptor),
		actionRes: make(map[string]*Descriptor),
	}
}

func (t *Table) set(name string, d *Descriptor) {
	if _, exists := t.byName[name]; !exists {
		t.order = append(t.order, name)
	}
	t.byName[name] = d
}

// Lookup returns the descriptor explicitly recorded under name (no suffix
// parsing), as installed from `types`/`structs`/`variants`.
func (t *Table) Lookup(name string) (*Descriptor, bool) {
	d, ok := t.byName[name]
	return d, ok
}

// ActionResult returns the result-type descriptor for a named action
// (1.1+'s `action_results`).
func (t *Table) ActionResult(name string) (*Descriptor, bool) {
	d, ok := t.actionRes[name]
	return d, ok
}

var sizedArraySuffix = regexp.MustCompile(`^(.*)\[(\d+)\]$`)

// resolveCtx tracks in-flight alias names to detect alias cycles
// (invariant 1) while a single top-level Resolve call is in progress.
type resolveCtx struct {
	inFlight map[string]bool
}

// Resolve implements §4.4: strip trailing suffixes right-to-left, wrapping
// the inner resolution, then look the remaining head name up in builtins,
// then `types` aliases, then `structs`/`variants`/`action_results`.
func (t *Table) Resolve(name string) (*Descriptor, error) {
	return t.resolve(name, &resolveCtx{inFlight: make(map[string]bool)})
}

func (t *Table) resolve(name string, ctx *resolveCtx) (*Descriptor, error) {
	if strings.HasSuffix(name, "[]") {
		inner, err := t.resolve(name[:len(name)-2], ctx)
		if err != nil {
			return nil, err
		}
		return &Descriptor{Kind: KindArray, Elem: inner}, nil
	}
	if m := sizedArraySuffix.FindStringSubmatch(name); m != nil {
		inner, err := t.resolve(m[1], ctx)
		if err != nil {
			return nil, err
		}
		n, _ := strconv.Atoi(m[2])
		return &Descriptor{Kind: KindSizedArray, Elem: inner, Size: n}, nil
	}
	if strings.HasSuffix(name, "$") {
		inner, err := t.resolve(name[:len(name)-1], ctx)
		if err != nil {
			return nil, err
		}
		return &Descriptor{Kind: KindExtension, Elem: inner}, nil
	}
	if strings.HasSuffix(name, "?") {
		inner, err := t.resolve(name[:len(name)-1], ctx)
		if err != nil {
			return nil, err
		}
		return &Descriptor{Kind: KindOptional, Elem: inner}, nil
	}
	return t.resolveHead(name, ctx)
}

func (t *Table) resolveHead(name string, ctx *resolveCtx) (*Descriptor, error) {
	if b, ok := lookupBuiltin(name); ok {
		return &Descriptor{Kind: KindBuiltin, Builtin: b}, nil
	}
	if ctx.inFlight[name] {
		return nil, errorf(KindCircularReference, "alias cycle through %q", name)
	}
	d, ok := t.byName[name]
	if !ok {
		if rd, ok := t.actionRes[name]; ok {
			return rd, nil
		}
		return nil, errorf(KindUnknownType, "unknown type %q", name)
	}
	if d.Kind == KindAlias {
		ctx.inFlight[name] = true
		defer delete(ctx.inFlight, name)
		target, err := t.resolve(d.AliasOf, ctx)
		if err != nil {
			return nil, err
		}
		return &Descriptor{Kind: KindAlias, Target: target}, nil
	}
	return d, nil
}
