// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package perrors defines the error taxonomy shared by the model loaders.
// The root package re-exports these so that callers can match on them with
// errors.Is and errors.As.
package perrors

import (
	"errors"
	"fmt"
)

// ErrModelNotReady is returned by inference entry points before a model has
// been loaded.
var ErrModelNotReady = errors.New("postal: model not ready")

// ErrInvalidInput is returned when an input is missing where one is required.
var ErrInvalidInput = errors.New("postal: invalid input")

// ErrTruncated is returned when a model stream ends before a structure is
// complete.
var ErrTruncated = errors.New("postal: truncated model data")

// MissingModelError reports a model file that does not exist in the data
// directory.
type MissingModelError struct {
	Path string
}

func (e *MissingModelError) Error() string {
	return fmt.Sprintf("postal: missing model file: %s", e.Path)
}

// BadSignatureError reports a model file whose magic number does not match
// the expected format.
type BadSignatureError struct {
	Want, Got uint32
}

func (e *BadSignatureError) Error() string {
	return fmt.Sprintf("postal: bad signature: want %#08x, got %#08x", e.Want, e.Got)
}

// CorruptModelError reports a structural invariant violation in otherwise
// well-framed model data.
type CorruptModelError struct {
	Reason string
}

func (e *CorruptModelError) Error() string {
	return "postal: corrupt model: " + e.Reason
}

// Corruptf constructs a [CorruptModelError] from a format string.
func Corruptf(format string, args ...any) error {
	return &CorruptModelError{Reason: fmt.Sprintf(format, args...)}
}
