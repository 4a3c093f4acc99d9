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

// Package modelfile opens a model data directory and composes the binary
// codecs into loaded model objects.
//
// Model files are mapped read-only and parsed from the mapping; the
// mappings stay alive until the loaded set is closed.
package modelfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"

	"buf.build/go/postal/internal/bigend"
	"buf.build/go/postal/internal/crf"
	"buf.build/go/postal/internal/datrie"
	"buf.build/go/postal/internal/debug"
	"buf.build/go/postal/internal/dictionary"
	"buf.build/go/postal/internal/langid"
	"buf.build/go/postal/internal/matrix"
	"buf.build/go/postal/internal/perrors"
)

// Relative paths inside a model data directory.
const (
	ParserDir          = "address_parser"
	CRFFile            = ParserDir + "/address_parser_crf.dat"
	VocabFile          = ParserDir + "/address_parser_vocab.trie"
	PhrasesFile        = ParserDir + "/address_parser_phrases.dat"
	PostalCodesFile    = ParserDir + "/address_parser_postal_codes.dat"
	LangClassifierDir  = "language_classifier"
	LangClassifierFile = LangClassifierDir + "/language_classifier.dat"
)

// DataDirEnv is the environment variable consulted when no explicit data
// directory is given.
const DataDirEnv = "LIBPOSTAL_DATA_DIR"

// defaultDirName is the user-home fallback directory.
const defaultDirName = ".libpostal"

// ResolveDataDir picks the model directory: the explicit argument if
// non-empty, then $LIBPOSTAL_DATA_DIR, then ~/.libpostal.
func ResolveDataDir(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if dir := os.Getenv(DataDirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("postal: cannot resolve model directory: %w", err)
	}
	return filepath.Join(home, defaultDirName), nil
}

// Files is the loaded model set.
type Files struct {
	CRF         *crf.Model
	Vocab       *datrie.Trie
	Phrases     *dictionary.Dictionary
	PostalCodes *matrix.Graph

	// LangID is nil when the optional classifier model is absent.
	LangID *langid.Model

	mappings []io.Closer
}

// Load reads every model file under dir. The returned set owns the
// underlying file mappings; callers release them with [Files.Close].
func Load(dir string) (_ *Files, err error) {
	files := &Files{}
	defer func() {
		if err != nil {
			_ = files.Close()
		}
	}()

	err = files.read(filepath.Join(dir, CRFFile), func(r io.Reader) error {
		m, err := crf.Read(r)
		files.CRF = m
		return err
	})
	if err != nil {
		return nil, err
	}

	err = files.read(filepath.Join(dir, VocabFile), func(r io.Reader) error {
		t, err := datrie.Read(r)
		files.Vocab = t
		return err
	})
	if err != nil {
		return nil, err
	}

	err = files.read(filepath.Join(dir, PhrasesFile), func(r io.Reader) error {
		d, err := dictionary.Read(r)
		files.Phrases = d
		return err
	})
	if err != nil {
		return nil, err
	}

	err = files.read(filepath.Join(dir, PostalCodesFile), func(r io.Reader) error {
		g, err := matrix.ReadGraph(r)
		files.PostalCodes = g
		return err
	})
	if err != nil {
		return nil, err
	}

	// The language classifier is optional: a missing file is not an error,
	// a corrupt one is.
	langPath := filepath.Join(dir, LangClassifierFile)
	if _, statErr := os.Stat(langPath); statErr == nil {
		err = files.read(langPath, func(r io.Reader) error {
			m, err := langid.Read(r)
			files.LangID = m
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// Close releases the file mappings. The loaded structures stay valid; they
// do not alias the mapped memory.
func (f *Files) Close() error {
	var errs []error
	for _, m := range f.mappings {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	f.mappings = nil
	return errors.Join(errs...)
}

// read maps path read-only and hands a reader over its contents to parse.
// Loader errors are decorated with the path; a short stream maps onto
// the truncation error.
func (f *Files) read(path string, parse func(io.Reader) error) error {
	data, closer, err := open(path)
	if err != nil {
		return err
	}
	if closer != nil {
		f.mappings = append(f.mappings, closer)
	}
	if debug.Enabled {
		debug.Log(nil, "load", "%s (%d bytes)", path, len(data))
	}
	if err := parse(bytes.NewReader(data)); err != nil {
		if errors.Is(err, bigend.ErrEndOfData) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = perrors.ErrTruncated
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// open returns the file contents, preferring a read-only mapping and
// falling back to a heap read when mapping fails.
func open(path string) ([]byte, io.Closer, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, &perrors.MissingModelError{Path: path}
		}
		return nil, nil, err
	}

	m, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, nil, err
		}
		return data, nil, nil
	}
	return m, &mapping{file: file, m: m}, nil
}

// mapping ties a file handle to its mapped region.
type mapping struct {
	file *os.File
	m    mmap.MMap
}

func (m *mapping) Close() error {
	err := m.m.Unmap()
	if cerr := m.file.Close(); err == nil {
		err = cerr
	}
	return err
}
