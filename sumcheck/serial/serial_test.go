package serial

import (
	"testing"

	"github.com/pseXperiments/clookup/core"
	"github.com/pseXperiments/clookup/field"
	"github.com/pseXperiments/clookup/poly"
	"github.com/pseXperiments/clookup/sumcheck"
	"github.com/pseXperiments/clookup/transcript"
)

func productCombine(vals []field.F) field.F {
	var out field.F
	out.Mul(&vals[0], &vals[1])
	return out
}

var _ sumcheck.Prover = (*Backend)(nil)

func TestProveProducesExpectedRoundCount(t *testing.T) {
	f1, err := poly.FromEvaluations([]field.F{field.FromUint64(1), field.FromUint64(2), field.FromUint64(3), field.FromUint64(4)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f2, err := poly.FromEvaluations([]field.F{field.FromUint64(5), field.FromUint64(6), field.FromUint64(7), field.FromUint64(8)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vp, err := core.NewVirtualPolynomial([]*poly.MultilinearPolynomial{f1, f2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts := transcript.NewProverTranscript()
	challenges, evaluations, err := New(productCombine).Prove(ts, vp, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(challenges) != 2 {
		t.Errorf("expected 2 challenges, got %d", len(challenges))
	}
	if len(evaluations) != 2 {
		t.Errorf("expected 2 evaluations, got %d", len(evaluations))
	}
}

func TestProverParamReportsShape(t *testing.T) {
	b := New(productCombine)
	pp := b.ProverParam(4, 3)
	if pp.NumVars != 4 || pp.Degree != 3 {
		t.Errorf("unexpected ProverParam: %+v", pp)
	}
}
