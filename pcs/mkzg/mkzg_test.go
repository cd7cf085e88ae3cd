package mkzg

import (
	"testing"

	"github.com/pseXperiments/clookup/field"
	"github.com/pseXperiments/clookup/pcs"
	"github.com/pseXperiments/clookup/poly"
	"github.com/pseXperiments/clookup/transcript"
)

func newTestScheme(t *testing.T, nu int) *Scheme {
	t.Helper()
	srs, err := Setup(nu)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pp, vp, err := Trim(srs, nu)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return New(pp, vp)
}

func TestCommitOpenVerifyRoundTrip(t *testing.T) {
	s := newTestScheme(t, 3)
	e := make([]field.F, 8)
	for i := range e {
		e[i] = field.FromUint64(uint64(i * 3))
	}
	p, err := poly.FromEvaluations(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	commitment, err := s.Commit(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	point := []field.F{field.FromUint64(7), field.FromUint64(11), field.FromUint64(13)}
	value, proof, err := s.Open(p, point)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, err := p.Evaluate(point)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !value.Equal(&want) {
		t.Errorf("opened value does not match direct evaluation")
	}
	if err := s.Verify(commitment, point, value, proof); err != nil {
		t.Errorf("unexpected verification failure: %v", err)
	}
}

// TestCommitOpenVerifyZeroVariables covers the single-element witness
// boundary (m = 0) on the PCS side: a constant (0-variable) polynomial
// still commits, opens, and verifies, with an empty evaluation point and
// an empty quotient proof.
func TestCommitOpenVerifyZeroVariables(t *testing.T) {
	s := newTestScheme(t, 0)
	p, err := poly.FromEvaluations([]field.F{field.FromUint64(42)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	commitment, err := s.Commit(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	value, proof, err := s.Open(p, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(proof) != 0 {
		t.Errorf("expected an empty quotient proof, got %d elements", len(proof))
	}
	want := field.FromUint64(42)
	if !value.Equal(&want) {
		t.Errorf("expected opened value 42, got %v", value)
	}
	if err := s.Verify(commitment, nil, value, proof); err != nil {
		t.Errorf("unexpected verification failure: %v", err)
	}
}

func TestVerifyRejectsWrongValue(t *testing.T) {
	s := newTestScheme(t, 2)
	e := []field.F{field.FromUint64(1), field.FromUint64(2), field.FromUint64(3), field.FromUint64(4)}
	p, err := poly.FromEvaluations(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	commitment, err := s.Commit(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	point := []field.F{field.FromUint64(5), field.FromUint64(9)}
	value, proof, err := s.Open(p, point)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	one := field.One()
	var wrong field.F
	wrong.Add(&value, &one)
	if err := s.Verify(commitment, point, wrong, proof); err == nil {
		t.Errorf("expected verification to reject a wrong claimed value")
	}
}

func TestBatchOpenVerifySinglePoint(t *testing.T) {
	const nu = 2
	s := newTestScheme(t, nu)

	e1 := []field.F{field.FromUint64(1), field.FromUint64(2), field.FromUint64(3), field.FromUint64(4)}
	e2 := []field.F{field.FromUint64(5), field.FromUint64(6), field.FromUint64(7), field.FromUint64(8)}
	p1, err := poly.FromEvaluations(e1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p2, err := poly.FromEvaluations(e2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	polys := []*poly.MultilinearPolynomial{p1, p2}

	proverTs := transcript.NewProverTranscript()
	commitments, err := s.BatchCommitAndWrite(proverTs, polys)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	point := []field.F{field.FromUint64(3), field.FromUint64(5)}
	v1, err := p1.Evaluate(point)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v2, err := p2.Evaluate(point)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims := []pcs.EvalClaim{
		{PolyIndex: 0, Point: point, Value: v1},
		{PolyIndex: 1, Point: point, Value: v2},
	}
	if err := s.BatchOpen(proverTs, polys, commitments, claims); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	verifierTs := transcript.NewVerifierTranscript(proverTs.IntoProof())
	readCommitments, err := verifierTs.ReadCommitments(len(polys))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.BatchVerify(verifierTs, readCommitments, claims); err != nil {
		t.Errorf("unexpected verification failure: %v", err)
	}
}
