// Package sumcheck implements the sum-check protocol engine: a
// Fiat-Shamir driven interactive proof, made non-interactive, reducing
// sum_{x in {0,1}^n} g(f_1(x),...,f_k(x)) = s to a single point
// evaluation claim at a random r in F^n.
//
// The combine function g is delivered as a plain Go function value, not
// through a boxed-closure interface: CombineFunc is the only shape a
// caller needs to provide. Three backends -- serial, parallel, gpu --
// each implement Prover; Verify is shared by all of them, since the
// verifier's work never depends on how the prover computed its round
// polynomials.
package sumcheck

import (
	"github.com/pseXperiments/clookup/clerr"
	"github.com/pseXperiments/clookup/core"
	"github.com/pseXperiments/clookup/field"
	"github.com/pseXperiments/clookup/transcript"
)

// CombineFunc is the degree-d combine function g applied pointwise to a
// tuple of constituent polynomial values.
type CombineFunc func(vals []field.F) field.F

// RoundSumFunc computes r_poly[kappa], the sum over the current round's
// index range of g applied to the kappa-interpolated constituent values.
// The serial and parallel backends differ only in how this sum is
// computed (serially, or data-parallel); the round/transcript/folding
// choreography around it is identical and lives in RunProve. The gpu
// backend runs its own round loop through its driver instead.
type RoundSumFunc func(vp *core.VirtualPolynomial, kappa int, combine CombineFunc) field.F

// Prover is the capability a sum-check backend exposes. The lookup prover
// is polymorphic over any type satisfying it.
type Prover interface {
	Prove(ts transcript.Transcript, vp *core.VirtualPolynomial, numVars, degree int) (challenges []field.F, evaluations []field.F, err error)

	// ProverParam returns the prover-facing parameters for a sum-check of
	// the given shape. Every backend's Prove call is fully determined by
	// numVars and degree, so each backend's ProverParam simply reports
	// them back through Params; no backend carries any parameter state
	// of its own.
	ProverParam(numVars, degree int) Params
}

// Params bundles the round count, degree bound, and (for a verifier)
// constituent-polynomial count a sum-check invocation is shaped by,
// mirroring how pcs/mkzg.ProverParam/VerifierParam bundle a PCS's own
// trim parameters.
type Params struct {
	NumVars  int
	Degree   int
	NumPolys int
}

// ProverParam returns the prover-facing parameters for a sum-check over
// numVars rounds at the given degree bound. Shared by every backend's
// Prover.ProverParam method, since the shape never depends on how a
// backend computes its round polynomials.
func ProverParam(numVars, degree int) Params {
	return Params{NumVars: numVars, Degree: degree}
}

// VerifierParam returns the verifier-facing parameters. Unlike
// ProverParam it is a single package-level function rather than a
// per-backend method, because Verify itself is shared by all three
// backends.
func VerifierParam(numVars, degree, numPolys int) Params {
	return Params{NumVars: numVars, Degree: degree, NumPolys: numPolys}
}

// RunProve drives the shared round/transcript/fold choreography of the
// prover loop, delegating only the per-round summation to sumFn. It is
// the common implementation backing the serial and parallel backends.
func RunProve(ts transcript.Transcript, vp *core.VirtualPolynomial, numVars, degree int, combine CombineFunc, sumFn RoundSumFunc) ([]field.F, []field.F, error) {
	if vp.NumVars != numVars {
		return nil, nil, clerr.SizeError("virtual polynomial num_vars does not match requested rounds")
	}

	// numVars == 0 is the single-element witness boundary: the hypercube
	// {0,1}^0 has a single point, so there are no rounds to run and
	// every constituent polynomial is already resolved to its one
	// evaluation. vp.Evaluations' bindPair formula collapses to the
	// resolved value regardless of the alpha it's given (its even and
	// odd halves are equal by construction, per core.NewEvalTable), so
	// any argument works here.
	if numVars == 0 {
		evaluations, err := vp.Evaluations(field.Zero())
		if err != nil {
			return nil, nil, err
		}
		if err := ts.WriteFieldElements(evaluations...); err != nil {
			return nil, nil, err
		}
		return []field.F{}, evaluations, nil
	}

	challenges := make([]field.F, numVars)
	for t := 0; t < numVars; t++ {
		roundPoly := make([]field.F, degree+1)
		for kappa := 0; kappa <= degree; kappa++ {
			roundPoly[kappa] = sumFn(vp, kappa, combine)
		}
		if err := ts.WriteFieldElements(roundPoly...); err != nil {
			return nil, nil, err
		}
		alpha := ts.SqueezeChallenge()
		challenges[t] = alpha

		if t == numVars-1 {
			evaluations, err := vp.Evaluations(alpha)
			if err != nil {
				return nil, nil, err
			}
			if err := ts.WriteFieldElements(evaluations...); err != nil {
				return nil, nil, err
			}
			reverse(challenges)
			return challenges, evaluations, nil
		}
		if err := vp.FoldIntoHalf(alpha); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, clerr.InvalidSumcheck("prover loop exited without reaching the final round")
}

// Verify runs the verifier loop shared by all three backends. It reads
// numVars rounds of degree+1 field elements, squeezes a challenge after
// each, and checks round-sum consistency against the running expected
// value, finally reading numPolys final evaluations.
// numVars == 0 (the single-element witness boundary) needs no special
// case here: the round loop below simply runs zero times, leaving expected
// at claimedSum and challenges empty, and the final-evaluations read
// still happens unconditionally.
func Verify(ts transcript.Transcript, claimedSum field.F, numVars, degree, numPolys int) (expected field.F, evaluations []field.F, challenges []field.F, err error) {
	weights := field.BarycentricWeights(degree)
	expected = claimedSum
	challenges = make([]field.F, numVars)

	for t := 0; t < numVars; t++ {
		roundPoly, rErr := ts.ReadFieldElements(degree + 1)
		if rErr != nil {
			return field.Zero(), nil, nil, rErr
		}
		var sum field.F
		sum.Add(&roundPoly[0], &roundPoly[1])
		if !sum.Equal(&expected) {
			return field.Zero(), nil, nil, clerr.InvalidSumcheck("round polynomial does not sum to the expected value")
		}
		alpha := ts.SqueezeChallenge()
		challenges[t] = alpha
		expected = field.InterpolateAt(roundPoly, weights, alpha)
	}

	evaluations, err = ts.ReadFieldElements(numPolys)
	if err != nil {
		return field.Zero(), nil, nil, err
	}
	reverse(challenges)
	return expected, evaluations, challenges, nil
}

// InterpolatePair returns even + kappa*(odd-even), the degree-1
// interpolation of a single EvalPair at the integer point kappa, used by
// every backend's per-round summation.
func InterpolatePair(even, odd, kappa field.F) field.F {
	var diff, term, out field.F
	diff.Sub(&odd, &even)
	term.Mul(&diff, &kappa)
	out.Add(&even, &term)
	return out
}

// reverse flips the challenge vector so that r[i] is the challenge that
// bound variable i: the first round binds the most significant variable,
// so after the flip the lookup layer can read r as a point in the
// polynomial's native variable order (the coordinate order Evaluate takes).
func reverse(s []field.F) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
