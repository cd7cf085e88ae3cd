package sumcheck

import (
	"testing"

	"github.com/pseXperiments/clookup/core"
	"github.com/pseXperiments/clookup/field"
	"github.com/pseXperiments/clookup/poly"
	"github.com/pseXperiments/clookup/transcript"
)

// productCombine is g(f1, f2) = f1*f2, a degree-2 combine function used
// to exercise the round/fold/verify choreography independent of the
// lookup protocol's own combine function.
func productCombine(vals []field.F) field.F {
	var out field.F
	out.Mul(&vals[0], &vals[1])
	return out
}

func serialRoundSum(vp *core.VirtualPolynomial, kappa int, combine CombineFunc) field.F {
	n := vp.Len()
	k := len(vp.Tables)
	vals := make([]field.F, k)
	kappaF := field.FromUint64(uint64(kappa))
	var total field.F
	for i := 0; i < n; i++ {
		for j, t := range vp.Tables {
			vals[j] = InterpolatePair(t.Pairs[i].Even, t.Pairs[i].Odd, kappaF)
		}
		g := combine(vals)
		total.Add(&total, &g)
	}
	return total
}

func sumOverHypercube(f1, f2 *poly.MultilinearPolynomial) field.F {
	var total field.F
	for i := range f1.E {
		var term field.F
		term.Mul(&f1.E[i], &f2.E[i])
		total.Add(&total, &term)
	}
	return total
}

// TestProveVerifyRoundTrip checks that a proof for g = f1*f2 verifies
// against its true hypercube sum, that g of the final evaluations equals
// the verifier's expected value, and that both sides agree on the
// challenges.
func TestProveVerifyRoundTrip(t *testing.T) {
	f1, err := poly.FromEvaluations([]field.F{field.FromUint64(1), field.FromUint64(2), field.FromUint64(3), field.FromUint64(4)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f2, err := poly.FromEvaluations([]field.F{field.FromUint64(5), field.FromUint64(6), field.FromUint64(7), field.FromUint64(8)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := sumOverHypercube(f1, f2)

	vp, err := core.NewVirtualPolynomial([]*poly.MultilinearPolynomial{f1, f2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts := transcript.NewProverTranscript()
	challenges, evaluations, err := RunProve(ts, vp, 2, 2, productCombine, serialRoundSum)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(challenges) != 2 || len(evaluations) != 2 {
		t.Fatalf("unexpected challenge/evaluation counts: %d, %d", len(challenges), len(evaluations))
	}

	verifyTs := transcript.NewVerifierTranscript(ts.IntoProof())
	expected, evals, r, err := Verify(verifyTs, s, 2, 2, 2)
	if err != nil {
		t.Fatalf("unexpected verification error: %v", err)
	}
	got := productCombine(evals)
	if !got.Equal(&expected) {
		t.Errorf("final combine output %v does not match expected %v", got, expected)
	}
	for i := range r {
		if !r[i].Equal(&challenges[i]) {
			t.Errorf("challenge %d differs between prover and verifier", i)
		}
	}
}

// TestProveVerifyRoundTripZeroRounds covers the single-element witness
// boundary (m = 0) at the sum-check layer: {0,1}^0 has a single point,
// so RunProve/Verify must run zero rounds and still agree on the
// constituents' resolved evaluations.
func TestProveVerifyRoundTripZeroRounds(t *testing.T) {
	f1, err := poly.FromEvaluations([]field.F{field.FromUint64(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f2, err := poly.FromEvaluations([]field.F{field.FromUint64(4)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := productCombine([]field.F{f1.E[0], f2.E[0]})

	vp, err := core.NewVirtualPolynomial([]*poly.MultilinearPolynomial{f1, f2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts := transcript.NewProverTranscript()
	challenges, evaluations, err := RunProve(ts, vp, 0, 2, productCombine, serialRoundSum)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(challenges) != 0 {
		t.Fatalf("expected zero challenges, got %d", len(challenges))
	}
	if len(evaluations) != 2 {
		t.Fatalf("expected 2 evaluations, got %d", len(evaluations))
	}

	verifyTs := transcript.NewVerifierTranscript(ts.IntoProof())
	expected, evals, r, err := Verify(verifyTs, s, 0, 2, 2)
	if err != nil {
		t.Fatalf("unexpected verification error: %v", err)
	}
	if len(r) != 0 {
		t.Errorf("expected zero returned challenges, got %d", len(r))
	}
	got := productCombine(evals)
	if !got.Equal(&expected) {
		t.Errorf("final combine output %v does not match expected %v", got, expected)
	}
}

// TestProverParamVerifierParam checks that ProverParam/VerifierParam
// simply report back the shape they were given.
func TestProverParamVerifierParam(t *testing.T) {
	pp := ProverParam(5, 3)
	if pp.NumVars != 5 || pp.Degree != 3 {
		t.Errorf("unexpected ProverParam: %+v", pp)
	}
	vp := VerifierParam(5, 3, 7)
	if vp.NumVars != 5 || vp.Degree != 3 || vp.NumPolys != 7 {
		t.Errorf("unexpected VerifierParam: %+v", vp)
	}
}

// TestVerifyRejectsWrongClaimedSum checks the soundness boundary: a
// mismatched claimed sum must not verify.
func TestVerifyRejectsWrongClaimedSum(t *testing.T) {
	f1, _ := poly.FromEvaluations([]field.F{field.FromUint64(1), field.FromUint64(2), field.FromUint64(3), field.FromUint64(4)})
	f2, _ := poly.FromEvaluations([]field.F{field.FromUint64(5), field.FromUint64(6), field.FromUint64(7), field.FromUint64(8)})
	vp, err := core.NewVirtualPolynomial([]*poly.MultilinearPolynomial{f1, f2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts := transcript.NewProverTranscript()
	if _, _, err := RunProve(ts, vp, 2, 2, productCombine, serialRoundSum); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wrongSum := field.FromUint64(99999)
	verifyTs := transcript.NewVerifierTranscript(ts.IntoProof())
	if _, _, _, err := Verify(verifyTs, wrongSum, 2, 2, 2); err == nil {
		t.Errorf("expected verification to reject a wrong claimed sum")
	}
}

// TestVerifyRejectsCorruptedProofByte checks that corrupting one byte of
// the proof never verifies.
func TestVerifyRejectsCorruptedProofByte(t *testing.T) {
	f1, _ := poly.FromEvaluations([]field.F{field.FromUint64(1), field.FromUint64(2), field.FromUint64(3), field.FromUint64(4)})
	f2, _ := poly.FromEvaluations([]field.F{field.FromUint64(5), field.FromUint64(6), field.FromUint64(7), field.FromUint64(8)})
	s := sumOverHypercube(f1, f2)
	vp, err := core.NewVirtualPolynomial([]*poly.MultilinearPolynomial{f1, f2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts := transcript.NewProverTranscript()
	if _, _, err := RunProve(ts, vp, 2, 2, productCombine, serialRoundSum); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	proof := append([]byte(nil), ts.IntoProof()...)
	proof[0] ^= 0xFF

	verifyTs := transcript.NewVerifierTranscript(proof)
	expected, evals, _, err := Verify(verifyTs, s, 2, 2, 2)
	if err == nil {
		got := productCombine(evals)
		if got.Equal(&expected) {
			t.Errorf("expected a corrupted proof byte to cause rejection")
		}
	}
}
