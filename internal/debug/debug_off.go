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

//go:build !debug

// Package debug includes debugging helpers.
//
// Logging is compiled out entirely unless the debug build tag is set, so
// the inference hot paths carry no logging cost in normal builds.
package debug

// Enabled is true if the library is being built with the debug tag.
const Enabled = false

// Log does nothing without the debug tag.
func Log([]any, string, string, ...any) {}

// Assert panics if cond is false, but only in debug mode. Without the
// debug tag it compiles to nothing.
func Assert(bool, string, ...any) {}
