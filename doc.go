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

// Package postal parses free-form international postal addresses into
// labeled components and expands address strings into their canonical
// variants, using pre-trained statistical models loaded at runtime.
//
// To use this package, load a model directory with [Load]. This is a
// one-time cost; the resulting [Model] is immutable and safe for any
// number of concurrent callers.
//
//	model, err := postal.Load("")
//	if err != nil { ... }
//	defer model.Close()
//
//	components, err := model.Parse("781 Franklin Ave, Brooklyn NY 11216")
//	variants, err := model.Expand("30 W 26th St")
//
// Parsing assigns one of the closed set of address component labels (see
// [ComponentHouseNumber] and friends) to every span of the input.
// Expansion produces the deduplicated cross product of every dictionary
// phrase's canonical alternatives, capped at [MaxExpansions] variants.
//
// # Model data
//
// Models are distributed separately and unpacked into a data directory.
// [Load] resolves the directory from its argument, the LIBPOSTAL_DATA_DIR
// environment variable, or ~/.libpostal, in that order. This package does
// not download models.
package postal
