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

package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/icon-project/btp2/common/errors"
	"github.com/labstack/echo/v4"

	"github.com/eosabi/abicodec/abi"
)

type ErrorResponse struct {
	Code    errors.Code     `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("code:%d, message:%s", e.Code, e.Message)
}

func (e *ErrorResponse) ErrorCode() errors.Code {
	return e.Code
}

// statusOf maps an abi.Error's Kind to the HTTP status a caller should see;
// everything the codec itself never returns falls back to 500.
func statusOf(err error) int {
	ae, ok := err.(*abi.Error)
	if !ok {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case abi.KindParse, abi.KindLengthMismatch, abi.KindMissingField, abi.KindExtensionGap,
		abi.KindInvalidName, abi.KindInvalidKey, abi.KindInvalidSignature, abi.KindInvalidChecksum,
		abi.KindUnsupportedABIVersion:
		return http.StatusBadRequest
	case abi.KindUnknownType, abi.KindUnknownVariant:
		return http.StatusNotFound
	case abi.KindStream, abi.KindRange, abi.KindOverflow, abi.KindCircularReference, abi.KindRecursionLimit:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func HttpErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if e, ok := he.Message.(error); ok {
			err = e
		}
	} else {
		code = statusOf(err)
	}
	er := &ErrorResponse{
		Code:    errors.CodeOf(err),
		Message: err.Error(),
	}
	if !c.Response().Committed {
		if err = c.JSON(code, er); err != nil {
			c.Echo().Logger.Error(err)
		}
	}
}
