package mkzg

import (
	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/pseXperiments/clookup/clerr"
	"github.com/pseXperiments/clookup/core"
	"github.com/pseXperiments/clookup/field"
	"github.com/pseXperiments/clookup/pcs"
	"github.com/pseXperiments/clookup/poly"
	"github.com/pseXperiments/clookup/sumcheck"
	"github.com/pseXperiments/clookup/sumcheck/serial"
	"github.com/pseXperiments/clookup/transcript"
)

// BatchCommitAndWrite commits to every poly and writes the commitments
// to ts, in order.
func (s *Scheme) BatchCommitAndWrite(ts transcript.Transcript, polys []*poly.MultilinearPolynomial) ([]bn254.G1Affine, error) {
	commitments := make([]bn254.G1Affine, len(polys))
	for i, p := range polys {
		c, err := s.Commit(p)
		if err != nil {
			return nil, err
		}
		commitments[i] = c
	}
	if err := ts.WriteCommitments(commitments...); err != nil {
		return nil, err
	}
	return commitments, nil
}

// pointGroup is one distinct evaluation point among a batch's claims,
// together with the claims attached to it.
type pointGroup struct {
	point     []field.F
	claimIdxs []int // indices into the original claims slice
	eqPoly    *poly.MultilinearPolynomial
}

func groupByPoint(claims []pcs.EvalClaim) []pointGroup {
	var groups []pointGroup
	for i, c := range claims {
		found := -1
		for g, grp := range groups {
			if samePoint(grp.point, c.Point) {
				found = g
				break
			}
		}
		if found == -1 {
			groups = append(groups, pointGroup{point: c.Point, claimIdxs: []int{i}})
		} else {
			groups[found].claimIdxs = append(groups[found].claimIdxs, i)
		}
	}
	for i := range groups {
		groups[i].eqPoly = poly.EqXY(groups[i].point)
	}
	return groups
}

func samePoint(a, b []field.F) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(&b[i]) {
			return false
		}
	}
	return true
}

// batchWeights squeezes the per-claim batching scalars:
// ceil(log2(len(claims))) challenges t, eq_xt = eq_xy(t), truncated to
// one weight per claim.
func batchWeights(ts transcript.Transcript, numClaims int) []field.F {
	l := 0
	for (1 << uint(l)) < numClaims {
		l++
	}
	t := ts.SqueezeChallenges(l)
	eqXt := poly.EqXY(t)
	return eqXt.E[:numClaims]
}

// mergedPolyForGroup returns Sum_{i in group} weight[i] * polys[claims[i].PolyIndex].
func mergedPolyForGroup(polys []*poly.MultilinearPolynomial, claims []pcs.EvalClaim, weights []field.F, group pointGroup) (*poly.MultilinearPolynomial, error) {
	merged := poly.Empty()
	for _, i := range group.claimIdxs {
		scaled := polys[claims[i].PolyIndex].ScalarMul(weights[i])
		var err error
		merged, err = merged.Add(scaled)
		if err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// BatchOpen runs the additive batch-open reduction: a
// random linear combination of the claims is reduced, via a degree-2
// inner sum-check, to a single evaluation claim on a newly-built
// polynomial g', which is then opened with a single Open call.
func (s *Scheme) BatchOpen(ts transcript.Transcript, polys []*poly.MultilinearPolynomial, commitments []bn254.G1Affine, claims []pcs.EvalClaim) error {
	if len(claims) == 0 {
		return clerr.SizeError("batch open requires at least one claim")
	}
	weights := batchWeights(ts, len(claims))
	groups := groupByPoint(claims)

	mergedPolys := make([]*poly.MultilinearPolynomial, len(groups))
	vpPolys := make([]*poly.MultilinearPolynomial, 0, 2*len(groups))
	for g, grp := range groups {
		m, err := mergedPolyForGroup(polys, claims, weights, grp)
		if err != nil {
			return err
		}
		mergedPolys[g] = m
		vpPolys = append(vpPolys, m, grp.eqPoly)
	}

	nu := s.PP.Nu
	combine := func(vals []field.F) field.F {
		var total field.F
		for k := 0; k < len(vals)/2; k++ {
			var term field.F
			term.Mul(&vals[2*k], &vals[2*k+1])
			total.Add(&total, &term)
		}
		return total
	}

	vp, err := core.NewVirtualPolynomial(vpPolys)
	if err != nil {
		return err
	}
	backend := serial.New(combine)
	rPrime, _, err := backend.Prove(ts, vp, nu, 2)
	if err != nil {
		return err
	}

	gPrime := poly.Empty()
	for g, grp := range groups {
		scalar, err := grp.eqPoly.Evaluate(rPrime)
		if err != nil {
			return err
		}
		scaled := mergedPolys[g].ScalarMul(scalar)
		gPrime, err = gPrime.Add(scaled)
		if err != nil {
			return err
		}
	}

	gPrimeValue, proof, err := s.Open(gPrime, rPrime)
	if err != nil {
		return err
	}
	if err := ts.WriteFieldElements(gPrimeValue); err != nil {
		return err
	}
	if err := ts.WriteCommitments(proof...); err != nil {
		return err
	}
	return nil
}

// BatchVerify mirrors BatchOpen. It asserts the inner
// sum-check's final expected value equals the claimed combine output on
// the received per-group evaluations, the same soundness obligation
// every sum-check caller carries; it independently recomputes each
// group's eq-polynomial evaluation at r' and requires it to match the
// prover-supplied one before folding it into g'_comm.
func (s *Scheme) BatchVerify(ts transcript.Transcript, commitments []bn254.G1Affine, claims []pcs.EvalClaim) error {
	if len(claims) == 0 {
		return clerr.SizeError("batch verify requires at least one claim")
	}
	weights := batchWeights(ts, len(claims))
	groups := groupByPoint(claims)

	var tau field.F
	for i, c := range claims {
		var term field.F
		term.Mul(&weights[i], &c.Value)
		tau.Add(&tau, &term)
	}

	nu := s.VP.Nu
	expected, finalEvals, rPrime, err := sumcheck.Verify(ts, tau, nu, 2, 2*len(groups))
	if err != nil {
		return err
	}
	var recombined field.F
	for k := 0; k < len(finalEvals)/2; k++ {
		var term field.F
		term.Mul(&finalEvals[2*k], &finalEvals[2*k+1])
		recombined.Add(&recombined, &term)
	}
	if !recombined.Equal(&expected) {
		return clerr.InvalidSumcheck("pcs batch inner sum-check's final evaluations do not recombine to the expected value")
	}

	weightByPoly := make([]field.F, len(commitments))
	var gPrimeValue field.F
	for g, grp := range groups {
		scalar, err := grp.eqPoly.Evaluate(rPrime)
		if err != nil {
			return err
		}
		if !finalEvals[2*g+1].Equal(&scalar) {
			return clerr.InvalidPcsParam("batch eq-polynomial evaluation does not match the independently recomputed value")
		}
		var term field.F
		term.Mul(&finalEvals[2*g], &scalar)
		gPrimeValue.Add(&gPrimeValue, &term)
		for _, i := range grp.claimIdxs {
			var w field.F
			w.Mul(&weights[i], &scalar)
			weightByPoly[claims[i].PolyIndex].Add(&weightByPoly[claims[i].PolyIndex], &w)
		}
	}

	points := make([]bn254.G1Affine, 0, len(commitments))
	scalars := make([]field.F, 0, len(commitments))
	for i, w := range weightByPoly {
		if w.IsZero() {
			continue
		}
		points = append(points, commitments[i])
		scalars = append(scalars, w)
	}
	gPrimeComm, err := field.MSM(points, scalars)
	if err != nil {
		return err
	}

	claimedValue, err := ts.ReadFieldElements(1)
	if err != nil {
		return err
	}
	if !claimedValue[0].Equal(&gPrimeValue) {
		return clerr.InvalidPcsParam("batch opened value does not match the reduced claim")
	}
	proof, err := ts.ReadCommitments(nu)
	if err != nil {
		return err
	}
	return s.Verify(gPrimeComm, rPrime, gPrimeValue, proof)
}
