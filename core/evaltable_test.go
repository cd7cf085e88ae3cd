package core

import (
	"testing"

	"github.com/pseXperiments/clookup/field"
	"github.com/pseXperiments/clookup/poly"
)

func feVec(vs ...uint64) []field.F {
	out := make([]field.F, len(vs))
	for i, v := range vs {
		out[i] = field.FromUint64(v)
	}
	return out
}

// TestFoldIntoHalfMatchesEvaluate checks the folding invariant: folding
// nu times with challenges alpha_0,...,alpha_{nu-1} then taking the
// residual equals p(alpha_{nu-1},...,alpha_0). Note the reversed
// variable order: each fold binds the most significant remaining
// variable.
func TestFoldIntoHalfMatchesEvaluate(t *testing.T) {
	e := feVec(10, 20, 30, 40, 50, 60, 70, 80)
	p, err := poly.FromEvaluations(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	table, err := NewEvalTable(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alphas := []field.F{field.FromUint64(3), field.FromUint64(5), field.FromUint64(7)}
	for i := 0; i < len(alphas)-1; i++ {
		if err := table.FoldIntoHalf(alphas[i]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	got, err := table.Residual(alphas[len(alphas)-1])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reversed := make([]field.F, len(alphas))
	for i, a := range alphas {
		reversed[len(alphas)-1-i] = a
	}
	want, err := p.Evaluate(reversed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(&want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestFoldIntoHalfRejectsSinglePair(t *testing.T) {
	e := feVec(1, 2)
	p, err := poly.FromEvaluations(e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	table, err := NewEvalTable(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := table.FoldIntoHalf(field.One()); err == nil {
		t.Errorf("expected an error folding a table with a single pair")
	}
}

func TestNewEvalTableRejectsZeroVariablePolynomial(t *testing.T) {
	if _, err := NewEvalTable(poly.Empty()); err == nil {
		t.Errorf("expected an error building an EvalTable from a zero-variable polynomial")
	}
}

// TestNewEvalTableAcceptsResolvedZeroVariablePolynomial covers the
// single-element witness boundary (m = 0) at the EvalTable layer: a
// zero-variable polynomial that already holds a single resolved value
// (as opposed to poly.Empty()'s "no polynomial at all") builds a
// degenerate one-pair table whose Residual returns that value regardless
// of the challenge it is given.
func TestNewEvalTableAcceptsResolvedZeroVariablePolynomial(t *testing.T) {
	p, err := poly.FromEvaluations(feVec(42))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	table, err := NewEvalTable(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.NumVars != 0 {
		t.Errorf("expected NumVars 0, got %d", table.NumVars)
	}
	if len(table.Pairs) != 1 {
		t.Fatalf("expected a single pair, got %d", len(table.Pairs))
	}
	for _, alpha := range []field.F{field.Zero(), field.One(), field.FromUint64(7)} {
		got, err := table.Residual(alpha)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := feVec(42)[0]
		if !got.Equal(&want) {
			t.Errorf("alpha=%v: expected %v, got %v", alpha, want, got)
		}
	}
}

func TestVirtualPolynomialLockstepFold(t *testing.T) {
	p1, _ := poly.FromEvaluations(feVec(1, 2, 3, 4))
	p2, _ := poly.FromEvaluations(feVec(5, 6, 7, 8))
	vp, err := NewVirtualPolynomial([]*poly.MultilinearPolynomial{p1, p2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vp.Len() != 2 {
		t.Fatalf("expected initial length 2, got %d", vp.Len())
	}
	alpha := field.FromUint64(4)
	if err := vp.FoldIntoHalf(alpha); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vp.Len() != 1 {
		t.Fatalf("expected folded length 1, got %d", vp.Len())
	}
	evals, err := vp.Evaluations(field.FromUint64(9))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want1, err := p1.Evaluate([]field.F{field.FromUint64(9), alpha})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !evals[0].Equal(&want1) {
		t.Errorf("poly 0: expected %v, got %v", want1, evals[0])
	}
}
