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

	"github.com/icon-project/btp2/common/errors"
)

// ErrKind is one of the error categories named in the wire/ABI contract. It is
// never a type name: a lookup miss and a range failure are distinguishable
// kinds, not distinguishable type spellings.
type ErrKind int

const (
	KindParse ErrKind = iota
	KindStream
	KindRange
	KindOverflow
	KindMissingField
	KindExtensionGap
	KindLengthMismatch
	KindUnknownType
	KindUnknownVariant
	KindCircularReference
	KindRecursionLimit
	KindInvalidName
	KindInvalidKey
	KindInvalidSignature
	KindInvalidChecksum
	KindUnsupportedABIVersion
	KindInternal
)

var kindNames = [...]string{
	"parse", "stream", "range", "overflow", "missing_field", "extension_gap",
	"length_mismatch", "unknown_type", "unknown_variant", "circular_reference",
	"recursion_limit", "invalid_name", "invalid_key", "invalid_signature",
	"invalid_checksum", "unsupported_abi_version", "internal",
}

func (k ErrKind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

const (
	ErrorCodeCodec errors.Code = errors.CodeGeneral + iota
)

var errBase = errors.NewBase(ErrorCodeCodec, "CodecError")

// Error is the codec's single error type. Path names the descriptor chain
// the engine was walking (e.g. "structs.action.fields[2].authorization[0].actor");
// Offset is set only for binary-input failures, per §7's policy.
type Error struct {
	errors.ErrorCoder
	Kind   ErrKind
	Path   string
	Offset int
	hasOff bool
	msg    string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.msg)
	}
	if e.hasOff {
		return fmt.Sprintf("%s at %s (offset %d): %s", e.Kind, e.Path, e.Offset, e.msg)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Path, e.msg)
}

func newErr(k ErrKind, format string, args ...interface{}) *Error {
	return &Error{ErrorCoder: errBase, Kind: k, msg: fmt.Sprintf(format, args...)}
}

// withPath annotates e in place with a descriptor path segment and returns
// e; a segment added to an already-annotated error is prepended to it.
func (e *Error) withPath(segment string) *Error {
	if e.Path != "" {
		e.Path = segment + "." + e.Path
	} else {
		e.Path = segment
	}
	return e
}

func (e *Error) withOffset(off int) *Error {
	if !e.hasOff {
		e.Offset = off
		e.hasOff = true
	}
	return e
}

// annotatePath walks err looking for an *Error to stamp with segment; any
// other error is wrapped as KindInternal so callers always get a typed error.
func annotatePath(err error, segment string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e.withPath(segment)
	}
	return newErr(KindInternal, "%s", err.Error()).withPath(segment)
}

func annotateOffset(err error, off int) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e.withOffset(off)
	}
	return err
}

func errorf(k ErrKind, format string, args ...interface{}) error {
	return newErr(k, format, args...)
}
