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

// Package bigend implements big-endian primitive and array I/O for the
// model file formats.
//
// All readers fail with [ErrEndOfData] when the stream runs out before the
// requested value is complete. None of the functions here take ownership of
// the stream they are handed.
package bigend

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrEndOfData is returned when a read requests more bytes than the stream
// has left.
var ErrEndOfData = errors.New("postal: unexpected end of data")

// ReadU8 reads a single byte.
func ReadU8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if err := fill(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadU16 reads a big-endian uint16.
func ReadU16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if err := fill(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// ReadU32 reads a big-endian uint32.
func ReadU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if err := fill(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// ReadU64 reads a big-endian uint64.
func ReadU64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if err := fill(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

// ReadF64 reads a big-endian IEEE 754 double.
func ReadF64(r io.Reader) (float64, error) {
	bits, err := ReadU64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

// ReadU32s reads n big-endian uint32 values.
func ReadU32s(r io.Reader, n int) ([]uint32, error) {
	out := make([]uint32, n)
	var buf [4]byte
	for i := range out {
		if err := fill(r, buf[:]); err != nil {
			return nil, err
		}
		out[i] = binary.BigEndian.Uint32(buf[:])
	}
	return out, nil
}

// ReadF64s reads n big-endian doubles.
func ReadF64s(r io.Reader, n int) ([]float64, error) {
	out := make([]float64, n)
	var buf [8]byte
	for i := range out {
		if err := fill(r, buf[:]); err != nil {
			return nil, err
		}
		out[i] = math.Float64frombits(binary.BigEndian.Uint64(buf[:]))
	}
	return out, nil
}

// ReadBytes reads exactly n bytes.
func ReadBytes(r io.Reader, n int) ([]byte, error) {
	out := make([]byte, n)
	if err := fill(r, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadString reads a u32 length prefix followed by that many bytes of UTF-8.
func ReadString(r io.Reader) (string, error) {
	n, err := ReadU32(r)
	if err != nil {
		return "", err
	}
	buf, err := ReadBytes(r, int(n))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// WriteU8 writes a single byte.
func WriteU8(w io.Writer, x uint8) error {
	_, err := w.Write([]byte{x})
	return err
}

// WriteU16 writes a big-endian uint16.
func WriteU16(w io.Writer, x uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], x)
	_, err := w.Write(buf[:])
	return err
}

// WriteU32 writes a big-endian uint32.
func WriteU32(w io.Writer, x uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], x)
	_, err := w.Write(buf[:])
	return err
}

// WriteU64 writes a big-endian uint64.
func WriteU64(w io.Writer, x uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], x)
	_, err := w.Write(buf[:])
	return err
}

// WriteF64 writes a big-endian IEEE 754 double.
func WriteF64(w io.Writer, x float64) error {
	return WriteU64(w, math.Float64bits(x))
}

// WriteU32s writes each value big-endian, with no length prefix.
func WriteU32s(w io.Writer, xs []uint32) error {
	for _, x := range xs {
		if err := WriteU32(w, x); err != nil {
			return err
		}
	}
	return nil
}

// WriteF64s writes each value big-endian, with no length prefix.
func WriteF64s(w io.Writer, xs []float64) error {
	for _, x := range xs {
		if err := WriteF64(w, x); err != nil {
			return err
		}
	}
	return nil
}

// WriteString writes a u32 length prefix followed by the bytes of s.
func WriteString(w io.Writer, s string) error {
	if err := WriteU32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// CheckSignature reads a u32 magic number from r and compares it against
// want. On seekable streams the position is restored afterwards; otherwise
// the stream is left just past the signature.
//
// Returns the magic that was actually read so that callers can report an
// expected-vs-got mismatch.
func CheckSignature(r io.Reader, want uint32) (uint32, error) {
	got, err := ReadU32(r)
	if err != nil {
		return 0, err
	}
	if s, ok := r.(io.Seeker); ok {
		if _, err := s.Seek(-4, io.SeekCurrent); err != nil {
			return got, err
		}
	}
	if got != want {
		return got, fmt.Errorf("postal: bad signature: want %#x, got %#x", want, got)
	}
	return got, nil
}

// fill reads len(buf) bytes, mapping io.EOF and io.ErrUnexpectedEOF onto
// ErrEndOfData.
func fill(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrEndOfData
	}
	return err
}
