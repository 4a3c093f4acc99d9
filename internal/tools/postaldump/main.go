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

// postaldump prints a human-readable summary of a model data directory:
// the parser labels, trie and weight shapes, dictionary size, and
// postal-code graph stats. Useful for sanity-checking a freshly unpacked
// model.
package main

import (
	"flag"
	"fmt"
	"os"

	"buf.build/go/postal/internal/flag2"
	"buf.build/go/postal/internal/modelfile"
)

var (
	dir    = flag.String("dir", "", "model directory; defaults to discovery")
	labels = flag.Bool("labels", false, "also print every parser label")
)

func main() {
	flag.Parse()

	resolved, err := modelfile.ResolveDataDir(*dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	files, err := modelfile.Load(resolved)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer files.Close()

	fmt.Printf("model directory: %s\n\n", resolved)

	crf := files.CRF
	fmt.Printf("parser: %d labels\n", crf.NumLabels())
	if flag2.Lookup[bool]("labels") {
		for i, label := range crf.Labels {
			fmt.Printf("  %3d %s\n", i, label)
		}
	}
	rows, cols := crf.Weights.Dims()
	fmt.Printf("  state features:      %d keys, weights %d×%d (%d nonzero)\n",
		crf.StateFeatures.Len(), rows, cols, crf.Weights.NNZ())
	rows, cols = crf.StateTransWeights.Dims()
	fmt.Printf("  transition features: %d keys, weights %d×%d (%d nonzero)\n",
		crf.StateTransFeatures.Len(), rows, cols, crf.StateTransWeights.NNZ())

	fmt.Printf("vocab: %d keys, %d nodes, %d tail bytes\n",
		files.Vocab.Len(), files.Vocab.NumNodes(), files.Vocab.TailLen())

	fmt.Printf("phrases: %d keys\n", files.Phrases.Len())

	rows, cols = files.PostalCodes.Dims()
	fmt.Printf("postal codes: %d×%d graph, %d edges\n",
		rows, cols, files.PostalCodes.NumEdges())

	if files.LangID != nil {
		rows, cols = files.LangID.Weights.Dims()
		fmt.Printf("language classifier: %d languages, %d features, weights %d×%d\n",
			len(files.LangID.Labels), files.LangID.Features.Len(), rows, cols)
	} else {
		fmt.Println("language classifier: not present")
	}
}
