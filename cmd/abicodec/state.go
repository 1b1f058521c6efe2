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

package main

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/eosabi/abicodec/abi"
)

// stateFile records which ABI file is installed under which contract id so
// that a later invocation of this CLI (a fresh process each time) can
// reinstall the same set before acting. The CLI holds no codec logic of its
// own; this file is the only thing it persists.
const stateFilePath = ".abicodec_state.json"

type abiState struct {
	// Contracts maps a decimal contract id string to the abi file path
	// that was last installed for it.
	Contracts map[string]string `json:"contracts"`
}

func loadState() (*abiState, error) {
	b, err := os.ReadFile(stateFilePath)
	if os.IsNotExist(err) {
		return &abiState{Contracts: make(map[string]string)}, nil
	}
	if err != nil {
		return nil, err
	}
	st := &abiState{}
	if err := json.Unmarshal(b, st); err != nil {
		return nil, err
	}
	if st.Contracts == nil {
		st.Contracts = make(map[string]string)
	}
	return st, nil
}

func (st *abiState) save() error {
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(stateFilePath, b, 0644)
}

// restoreContext builds a fresh *abi.Context and reinstalls every ABI named
// in the state file, so a one-shot command can resolve types immediately.
func restoreContext(st *abiState) (*abi.Context, error) {
	c := abi.Create()
	for idStr, path := range st.Contracts {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			return nil, err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := c.SetABI(id, b); err != nil {
			return nil, err
		}
	}
	return c, nil
}
