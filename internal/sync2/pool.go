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

// Package sync2 contains typed concurrency helpers.
package sync2

import "sync"

// Pool is like sync.Pool, but strongly typed. The parser uses one to
// recycle per-call inference scratch across requests.
type Pool[T any] struct {
	New func() *T // Called to construct new values.

	impl sync.Pool
}

// Get returns a cached value of type T, and a function that returns it to
// the pool.
//
// Use like this:
//
//	v, drop := pool.Get()
//	defer drop()
func (p *Pool[T]) Get() (v *T, drop func()) {
	v, _ = p.impl.Get().(*T)
	if v == nil {
		if p.New != nil {
			v = p.New()
		} else {
			v = new(T)
		}
	}
	return v, func() { p.impl.Put(v) }
}
