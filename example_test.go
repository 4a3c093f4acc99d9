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

package postal_test

import (
	"fmt"
	"log"

	"buf.build/go/postal"
)

// Example parses and expands an address with a model unpacked into the
// default data directory.
func Example() {
	model, err := postal.Load("")
	if err != nil {
		log.Fatal(err)
	}
	defer model.Close()

	components, err := model.Parse("781 Franklin Ave, Brooklyn NY 11216")
	if err != nil {
		log.Fatal(err)
	}
	for _, c := range components {
		fmt.Printf("%s\t%s\n", c.Label, c.Value)
	}

	variants, err := model.Expand("30 W 26th St")
	if err != nil {
		log.Fatal(err)
	}
	for _, v := range variants {
		fmt.Println(v)
	}
}
