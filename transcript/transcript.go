// Package transcript defines the Fiat-Shamir contract
// (write_commitments, write_field_elements, read_field_elements,
// read_commitments, squeeze_challenge, squeeze_challenges, into_proof,
// from_proof) and ships one concrete implementation, KeccakTranscript,
// built on a Keccak-256 absorbing hash. Any cryptographic sponge-like
// transcript meeting this interface is acceptable; the sum-check and
// lookup packages only ever depend on the Transcript interface below.
package transcript

import (
	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/pseXperiments/clookup/field"
)

// Transcript is the Fiat-Shamir contract every sum-check and PCS operation
// is written against.
type Transcript interface {
	// WriteCommitments appends commitments to the transcript, in order.
	WriteCommitments(commitments ...bn254.G1Affine) error
	// WriteFieldElements appends field elements to the transcript, in order.
	WriteFieldElements(elems ...field.F) error
	// ReadCommitments consumes n commitments previously written by the prover.
	ReadCommitments(n int) ([]bn254.G1Affine, error)
	// ReadFieldElements consumes n field elements previously written by the prover.
	ReadFieldElements(n int) ([]field.F, error)
	// SqueezeChallenge derives one field element deterministically from the
	// current transcript state.
	SqueezeChallenge() field.F
	// SqueezeChallenges derives n field elements, one after another.
	SqueezeChallenges(n int) []field.F
	// IntoProof returns the bytes written so far. Only meaningful on a
	// prover-side (write-mode) transcript.
	IntoProof() []byte
}

var _ Transcript = (*KeccakTranscript)(nil)
