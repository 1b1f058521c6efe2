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
	"encoding/hex"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/icon-project/btp2/common/log"

	"github.com/eosabi/abicodec/abi/jsonio"
	"github.com/eosabi/abicodec/abi/wire"
)

var ctxLogger = log.New()

func init() {
	ctxLogger.SetLevel(log.DebugLevel)
}

// resolveCacheSize bounds the per-context type-name suffix-resolution
// cache; a contract's ABI rarely names more than a few hundred distinct
// type strings across its actions, so this comfortably covers one ABI
// without the cache evicting entries mid-traversal.
const resolveCacheSize = 4096

// Context is the façade in §4.7: it owns every installed ABI, keyed by
// contract id, plus the scratch buffer and last-error string a caller
// reads after each operation. Every conversion is otherwise a pure
// function of (table, input); the context never mutates a table after
// SetABI installs it.
type Context struct {
	mu     sync.Mutex
	tables map[uint64]*Table
	cache  *lru.Cache // (contractID,typeName) -> *Descriptor, shared across calls

	binary   *wire.Writer
	lastJSON string
	lastErr  string
}

type resolveCacheKey struct {
	contract uint64
	typeName string
}

// Create returns a freshly initialized, empty context.
func Create() *Context {
	cache, err := lru.New(resolveCacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size, which resolveCacheSize
		// never is.
		panic(err)
	}
	return &Context{
		tables: make(map[uint64]*Table),
		cache:  cache,
		binary: wire.NewWriter(),
	}
}

func (c *Context) fail(err error) error {
	c.mu.Lock()
	c.lastErr = err.Error()
	c.mu.Unlock()
	return err
}

func (c *Context) succeed() {
	c.mu.Lock()
	c.lastErr = ""
	c.mu.Unlock()
}

// GetError returns the last error message, or "" if the previous operation
// succeeded.
func (c *Context) GetError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// SetABI installs abiJSON under contractID. A failed parse never replaces
// an already-installed ABI for that id.
func (c *Context) SetABI(contractID uint64, abiJSON []byte) error {
	t, err := Load(abiJSON)
	if err != nil {
		return c.fail(err)
	}
	c.mu.Lock()
	c.tables[contractID] = t
	c.mu.Unlock()
	c.purgeCache(contractID)
	c.succeed()
	ctxLogger.Tracef("installed abi for contract:%d\n", contractID)
	return nil
}

func (c *Context) purgeCache(contractID uint64) {
	for _, k := range c.cache.Keys() {
		if rk, ok := k.(resolveCacheKey); ok && rk.contract == contractID {
			c.cache.Remove(k)
		}
	}
}

func (c *Context) table(contractID uint64) (*Table, error) {
	c.mu.Lock()
	t, ok := c.tables[contractID]
	c.mu.Unlock()
	if !ok {
		return nil, errorf(KindUnknownType, "no abi installed for contract %d", contractID)
	}
	return t, nil
}

func (c *Context) resolve(contractID uint64, t *Table, typeName string) (*Descriptor, error) {
	key := resolveCacheKey{contract: contractID, typeName: typeName}
	if v, ok := c.cache.Get(key); ok {
		return v.(*Descriptor), nil
	}
	d, err := t.Resolve(typeName)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, d)
	return d, nil
}

// JSONToBin converts jsonText to binary under the named type, leaving the
// result in the scratch buffer for GetBinHex.
func (c *Context) JSONToBin(contractID uint64, typeName string, jsonText []byte, reorderable bool) error {
	t, err := c.table(contractID)
	if err != nil {
		return c.fail(err)
	}
	d, err := c.resolve(contractID, t, typeName)
	if err != nil {
		return c.fail(err)
	}
	v, perr := jsonio.Parse(jsonText)
	if perr != nil {
		return c.fail(errorf(KindParse, "malformed json: %s", perr.Error()))
	}
	w := wire.NewWriter()
	if err := EncodeJSON(w, d, v, t.abiMinor, reorderable); err != nil {
		return c.fail(err)
	}
	c.mu.Lock()
	c.binary = w
	c.mu.Unlock()
	c.succeed()
	return nil
}

// BinToJSON converts binary to JSON text under the named type.
func (c *Context) BinToJSON(contractID uint64, typeName string, binary []byte) (string, error) {
	t, err := c.table(contractID)
	if err != nil {
		return "", c.fail(err)
	}
	d, err := c.resolve(contractID, t, typeName)
	if err != nil {
		return "", c.fail(err)
	}
	r := wire.NewReader(binary)
	jw := jsonio.NewWriter()
	if err := DecodeJSON(r, d, jw, t.abiMinor); err != nil {
		return "", c.fail(err)
	}
	out := jw.String()
	c.mu.Lock()
	c.lastJSON = out
	c.mu.Unlock()
	c.succeed()
	return out, nil
}

// StringToName exposes the identifier codec in §4.2 through the façade.
func (c *Context) StringToName(text string) (uint64, error) {
	n, err := StringToName(text)
	if err != nil {
		return 0, c.fail(err)
	}
	c.succeed()
	return n, nil
}

// NameToString is the inverse of StringToName; name_to_string(0) = "" per
// invariant 4.
func (c *Context) NameToString(v uint64) string {
	return NameToString(v)
}

// GetBinHex returns uppercase hex of the last successful JSONToBin result.
func (c *Context) GetBinHex() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.ToUpper(hex.EncodeToString(c.binary.Bytes()))
}
