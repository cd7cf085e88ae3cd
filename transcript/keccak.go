package transcript

import (
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"golang.org/x/crypto/sha3"

	"github.com/pseXperiments/clookup/clerr"
	"github.com/pseXperiments/clookup/field"
)

const fieldElementSize = 32
const commitmentSize = bn254.SizeOfG1AffineCompressed

// KeccakTranscript is a Fiat-Shamir transcript backed by Keccak-256. Every
// byte written or read is absorbed into the hash state; squeezing a
// challenge takes the current digest and ratchets the state forward by
// absorbing that digest, so repeated squeezes are independent.
//
// The same type serves both roles: a prover builds one with
// NewProverTranscript and reads IntoProof() at the end; a verifier builds
// one with NewVerifierTranscript(proof) and its Read* calls both consume
// and absorb the proof bytes the prover wrote, keeping both sides'
// Keccak states in lockstep.
type KeccakTranscript struct {
	state hash.Hash
	out   []byte // accumulated written bytes, prover side only
	in    []byte // remaining unread proof bytes, verifier side only
}

// NewProverTranscript returns an empty write-mode transcript.
func NewProverTranscript() *KeccakTranscript {
	return &KeccakTranscript{state: sha3.NewLegacyKeccak256()}
}

// NewVerifierTranscript returns a read-mode transcript over proof.
func NewVerifierTranscript(proof []byte) *KeccakTranscript {
	return &KeccakTranscript{state: sha3.NewLegacyKeccak256(), in: proof}
}

func (t *KeccakTranscript) absorb(b []byte) {
	t.state.Write(b)
}

func (t *KeccakTranscript) WriteCommitments(commitments ...bn254.G1Affine) error {
	for _, c := range commitments {
		b := c.Bytes()
		t.absorb(b[:])
		t.out = append(t.out, b[:]...)
	}
	return nil
}

func (t *KeccakTranscript) WriteFieldElements(elems ...field.F) error {
	for _, e := range elems {
		b := e.Bytes()
		t.absorb(b[:])
		t.out = append(t.out, b[:]...)
	}
	return nil
}

func (t *KeccakTranscript) ReadCommitments(n int) ([]bn254.G1Affine, error) {
	need := n * commitmentSize
	if len(t.in) < need {
		return nil, clerr.Transcript("not enough bytes to read commitments")
	}
	out := make([]bn254.G1Affine, n)
	for i := 0; i < n; i++ {
		chunk := t.in[i*commitmentSize : (i+1)*commitmentSize]
		if err := out[i].Unmarshal(chunk); err != nil {
			return nil, clerr.Transcript("malformed commitment: " + err.Error())
		}
		t.absorb(chunk)
	}
	t.in = t.in[need:]
	return out, nil
}

func (t *KeccakTranscript) ReadFieldElements(n int) ([]field.F, error) {
	need := n * fieldElementSize
	if len(t.in) < need {
		return nil, clerr.Transcript("not enough bytes to read field elements")
	}
	out := make([]field.F, n)
	for i := 0; i < n; i++ {
		chunk := t.in[i*fieldElementSize : (i+1)*fieldElementSize]
		out[i].SetBytes(chunk)
		t.absorb(chunk)
	}
	t.in = t.in[need:]
	return out, nil
}

func (t *KeccakTranscript) SqueezeChallenge() field.F {
	digest := t.state.Sum(nil)
	t.state.Write(digest)
	var f field.F
	f.SetBytes(digest)
	return f
}

func (t *KeccakTranscript) SqueezeChallenges(n int) []field.F {
	out := make([]field.F, n)
	for i := range out {
		out[i] = t.SqueezeChallenge()
	}
	return out
}

func (t *KeccakTranscript) IntoProof() []byte {
	return t.out
}
