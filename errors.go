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

package postal

import (
	"buf.build/go/postal/internal/bigend"
	"buf.build/go/postal/internal/datrie"
	"buf.build/go/postal/internal/perrors"
)

// Sentinel errors. Loader errors additionally carry the offending file
// path via wrapping; match with errors.Is / errors.As.
var (
	// ErrInvalidInput reports a missing input where one is required.
	ErrInvalidInput = perrors.ErrInvalidInput

	// ErrModelNotReady reports an inference call on a model that has not
	// been loaded.
	ErrModelNotReady = perrors.ErrModelNotReady

	// ErrTruncated reports a model stream that ended mid-structure.
	ErrTruncated = perrors.ErrTruncated

	// ErrEndOfData reports a codec read past the end of its stream.
	ErrEndOfData = bigend.ErrEndOfData

	// ErrUnsupportedPayloadWidth reports a trie lookup with a payload
	// width other than 32 bits.
	ErrUnsupportedPayloadWidth = datrie.ErrUnsupportedPayloadWidth
)

// MissingModelError reports a model file absent from the data directory.
type MissingModelError = perrors.MissingModelError

// BadSignatureError reports a model file with the wrong magic number.
type BadSignatureError = perrors.BadSignatureError

// CorruptModelError reports model data that violates a structural
// invariant.
type CorruptModelError = perrors.CorruptModelError
