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
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

// identPattern accepts the identifier shapes actually seen in deployed
// ABIs: no whitespace, no leading/trailing suffix punctuation that would
// collide with the "?", "$", "[]" type-name suffixes.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.:]*$`)

var (
	validatorOnce sync.Once
	docValidator  *validator.Validate
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		docValidator = validator.New()
		_ = docValidator.RegisterValidation("abiident", func(fl validator.FieldLevel) bool {
			return identPattern.MatchString(fl.Field().String())
		})
	})
	return docValidator
}

// validateDocument runs struct-tag validation over a decoded ABI document
// before any resolution begins, turning a malformed identifier into a
// *parse* error with a document path instead of a confusing unknown_type
// miss deep inside the loader.
func validateDocument(doc *document) error {
	if err := getValidator().Struct(doc); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return newErr(KindParse, "invalid ABI document field %s: failed %q constraint", fe.Namespace(), fe.Tag()).withPath(fieldErrorPath(fe))
		}
		return errorf(KindParse, "invalid ABI document: %s", err.Error())
	}
	return nil
}

func fieldErrorPath(fe validator.FieldError) string {
	return fmt.Sprintf("%v", fe.Namespace())
}
