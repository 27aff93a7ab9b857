// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package qrcode

import (
	"rsc.io/qr/coding"
)

// Level is the error-correction level used for every code.
const Level = coding.M

// Matrix is a square grid of QR modules. A nil *Matrix means "no
// displayable code".
type Matrix struct {
	size    int
	modules []bool // row-major, true = dark
}

// NewMatrix builds a matrix from rows of module values. Every row must
// have len(rows) entries. Intended for tests and for callers that
// obtain modules from another generator.
func NewMatrix(rows [][]bool) *Matrix {
	size := len(rows)
	matrix := &Matrix{size: size, modules: make([]bool, size*size)}
	for y, row := range rows {
		if len(row) != size {
			panic("qrcode: matrix rows must be square")
		}
		copy(matrix.modules[y*size:], row)
	}
	return matrix
}

// Size returns the number of modules per side.
func (m *Matrix) Size() int {
	if m == nil {
		return 0
	}
	return m.size
}

// Dark reports whether the module at (x, y) is dark. Coordinates
// outside the matrix are light.
func (m *Matrix) Dark(x, y int) bool {
	if m == nil || x < 0 || y < 0 || x >= m.size || y >= m.size {
		return false
	}
	return m.modules[y*m.size+x]
}

// Row returns row y of the matrix. The slice aliases the matrix and
// must not be modified.
func (m *Matrix) Row(y int) []bool {
	return m.modules[y*m.size : (y+1)*m.size]
}

// Equal reports whether two matrices have the same size and modules.
func (m *Matrix) Equal(other *Matrix) bool {
	if m.Size() != other.Size() {
		return false
	}
	if m == nil || other == nil {
		return m == other
	}
	for i, dark := range m.modules {
		if other.modules[i] != dark {
			return false
		}
	}
	return true
}

// Encode returns the QR matrix for text, or nil when text is empty or
// too long for any QR version at level M.
func Encode(text string) *Matrix {
	if text == "" {
		return nil
	}

	data := coding.String(text)
	version, ok := smallestVersion(data)
	if !ok {
		return nil
	}

	plan, err := coding.NewPlan(version, Level, 0)
	if err != nil {
		return nil
	}
	code, err := plan.Encode(data)
	if err != nil || code.Size == 0 {
		return nil
	}

	matrix := &Matrix{size: code.Size, modules: make([]bool, code.Size*code.Size)}
	for y := range code.Size {
		for x := range code.Size {
			matrix.modules[y*code.Size+x] = code.Black(x, y)
		}
	}
	return matrix
}

// smallestVersion returns the first version whose data capacity at
// Level holds the byte-mode encoding of data.
func smallestVersion(data coding.String) (coding.Version, bool) {
	for version := coding.Version(coding.MinVersion); version <= coding.MaxVersion; version++ {
		if data.Bits(version) <= version.DataBytes(Level)*8 {
			return version, true
		}
	}
	return 0, false
}

// Capacity returns the maximum number of bytes that fit in a code.
func Capacity() int {
	// Byte mode at version 40 spends 20 header bits: 4 mode bits and a
	// 16-bit length.
	return coding.Version(coding.MaxVersion).DataBytes(Level) - 3
}
