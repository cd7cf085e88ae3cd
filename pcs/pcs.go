// Package pcs declares the polynomial commitment scheme contract:
// commit/open/verify plus the batched variants batch_commit_and_write,
// batch_open, and batch_verify. Any multilinear PCS with an additive
// commitment can satisfy it; this module ships one concrete scheme,
// pcs/mkzg, a multilinear KZG over a pairing-friendly curve.
package pcs

import (
	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/pseXperiments/clookup/field"
	"github.com/pseXperiments/clookup/poly"
	"github.com/pseXperiments/clookup/transcript"
)

// EvalClaim is one evaluation claim in an additive batch: "poly, when
// evaluated at point, equals value". PolyIndex addresses
// into the parallel polys/commitments slices passed to BatchOpen and
// BatchVerify.
type EvalClaim struct {
	PolyIndex int
	Point     []field.F
	Value     field.F
}

// Scheme is the polynomial commitment contract the lookup protocol is
// written against.
type Scheme interface {
	// Commit returns an additively-homomorphic commitment to p.
	Commit(p *poly.MultilinearPolynomial) (bn254.G1Affine, error)

	// Open proves p(point) == value, returning an opening proof.
	Open(p *poly.MultilinearPolynomial, point []field.F) (value field.F, proof []bn254.G1Affine, err error)

	// Verify checks an Open proof against commitment, point, and value.
	Verify(commitment bn254.G1Affine, point []field.F, value field.F, proof []bn254.G1Affine) error

	// BatchCommitAndWrite commits to every poly in polys and writes the
	// commitments to ts, in order.
	BatchCommitAndWrite(ts transcript.Transcript, polys []*poly.MultilinearPolynomial) ([]bn254.G1Affine, error)

	// BatchOpen runs the additive batch-open reduction
	// over claims (all claims' points must have the same dimension as
	// polys' shared NumVars) and writes the reduced proof to ts.
	BatchOpen(ts transcript.Transcript, polys []*poly.MultilinearPolynomial, commitments []bn254.G1Affine, claims []EvalClaim) error

	// BatchVerify mirrors BatchOpen: it re-derives the same batching
	// randomness from ts, reads the reduced proof, and checks it.
	BatchVerify(ts transcript.Transcript, commitments []bn254.G1Affine, claims []EvalClaim) error
}
