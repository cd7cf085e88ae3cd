// Package table implements Table, the precomputed lookup table the
// prover and verifier agree on, and FindIndices, the bit-decomposition
// that turns a witness value into a row index.
package table

import (
	"github.com/pseXperiments/clookup/clerr"
	"github.com/pseXperiments/clookup/field"
	"github.com/pseXperiments/clookup/poly"
)

// Table is a fixed-size lookup table of 2^Dim entries. Dim is the
// table's bit-width.
type Table struct {
	Dim     int
	entries []field.F
	index   map[field.F]int
}

// New builds a Table from entries, rejecting lengths that are not a
// power of two.
//
// Duplicate entries are allowed; New resolves a lookup to the
// last-occurring row among duplicates, matching how a map-based index
// built by iterating entries in order naturally behaves.
func New(entries []field.F) (*Table, error) {
	dim, err := log2PowerOfTwo(len(entries))
	if err != nil {
		return nil, err
	}
	idx := make(map[field.F]int, len(entries))
	for i, e := range entries {
		idx[e] = i
	}
	cp := make([]field.F, len(entries))
	copy(cp, entries)
	return &Table{Dim: dim, entries: cp, index: idx}, nil
}

// Contains reports whether v is present in the table.
func (t *Table) Contains(v field.F) bool {
	_, ok := t.index[v]
	return ok
}

// FindIndices returns, for every element of w, its row index in the
// table rendered as a little-endian F-vector of length Dim: for a table
// of length 8 and an element at index 5, the vector is [1,0,1]. Returns
// clerr.NotInclusion if any element of w is absent.
func (t *Table) FindIndices(w []field.F) ([][]field.F, error) {
	out := make([][]field.F, len(w))
	for j, wj := range w {
		i, ok := t.index[wj]
		if !ok {
			return nil, clerr.NotInclusion("witness element is not present in the table")
		}
		bits := make([]field.F, t.Dim)
		for b := 0; b < t.Dim; b++ {
			if i&(1<<uint(b)) != 0 {
				bits[b] = field.One()
			} else {
				bits[b] = field.Zero()
			}
		}
		out[j] = bits
	}
	return out, nil
}

// SigmaColumns transposes the per-witness-element bit vectors returned
// by FindIndices into Dim bit-columns, each of length len(w), one
// sigma polynomial per table bit position.
func SigmaColumns(indices [][]field.F, dim int) [][]field.F {
	columns := make([][]field.F, dim)
	for b := 0; b < dim; b++ {
		col := make([]field.F, len(indices))
		for j, bits := range indices {
			col[j] = bits[b]
		}
		columns[b] = col
	}
	return columns
}

// Polynomial returns the multilinear polynomial whose evaluations on
// {0,1}^Dim are the table entries, in the same canonical ordering,
// with its coefficient form populated.
func (t *Table) Polynomial() (*poly.MultilinearPolynomial, error) {
	return poly.EvalToCoeff(t.entries, t.Dim)
}

func log2PowerOfTwo(n int) (int, error) {
	if n <= 0 || (n&(n-1)) != 0 {
		return 0, clerr.SizeError("table length is not a power of two")
	}
	v := 0
	for (1 << uint(v)) < n {
		v++
	}
	return v, nil
}
