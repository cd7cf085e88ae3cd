// Package mkzg implements a multilinear KZG (PST13-style tensor SRS)
// polynomial commitment scheme over BN254, satisfying pcs.Scheme.
//
// Unlike univariate KZG, where the SRS is the powers of a single
// trapdoor, a multilinear commitment needs a tensor SRS over nu
// independent trapdoors: one G1 point per subset of the variables, plus
// one G2 point per trapdoor for the pairing side. Everything is built on
// gnark-crypto's MultiExp/ScalarMultiplication/PairingCheck/Generators
// surface.
package mkzg

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/pseXperiments/clookup/clerr"
	"github.com/pseXperiments/clookup/field"
	"github.com/pseXperiments/clookup/pcs"
	"github.com/pseXperiments/clookup/poly"
)

// SRS is the tensor structured-reference-string: G1 holds
// prod_{i: b_i=1} tau_i * G1gen for every subset b in {0,1}^NuMax, in the
// canonical idx(b) = sum b_i*2^i order, so that G1[:1<<nu] is exactly
// the sub-SRS for the first nu variables. G2 holds tau_i * G2gen for
// each i.
type SRS struct {
	NuMax int
	G1    []bn254.G1Affine
	G2    []bn254.G2Affine
}

// Setup builds an SRS supporting up to nuMax variables. This is a
// toxic-waste generator (each tau drawn via fr.Element's own CSPRNG
// source and discarded after use); there is no MPC ceremony path.
//
// nuMax == 0 is allowed: it is the SRS a 0-variable (constant)
// polynomial commits against, the PCS side of the single-element
// witness boundary (a one-element witness or sigma-column vector
// has no variables left once bound). The loops below already degrade
// correctly to that case (zero taus, a single unit tensor-basis
// scalar), so no separate code path is needed; only the precondition
// below needs relaxing from "at least one variable" to "non-negative".
func Setup(nuMax int) (*SRS, error) {
	if nuMax < 0 {
		return nil, clerr.SizeError("srs requires a non-negative variable count")
	}
	_, _, g1Gen, g2Gen := bn254.Generators()

	taus := make([]field.F, nuMax)
	for i := range taus {
		if _, err := taus[i].SetRandom(); err != nil {
			return nil, err
		}
	}

	g2 := make([]bn254.G2Affine, nuMax)
	for i, tau := range taus {
		var tauBig big.Int
		tau.BigInt(&tauBig)
		g2[i].ScalarMultiplication(&g2Gen, &tauBig)
	}

	// Tensor basis scalars in idx(b) = sum b_i*2^i order: processing tau
	// from index nuMax-1 down to 0 makes the low half of every prefix of
	// length 2^k depend only on tau_0..tau_(k-1), the prefix-truncation
	// property Trim relies on (poly.EqXY is built the identical way).
	scalars := []field.F{field.One()}
	for i := nuMax - 1; i >= 0; i-- {
		tau := taus[i]
		next := make([]field.F, len(scalars)*2)
		for j, s := range scalars {
			next[2*j] = s
			var odd field.F
			odd.Mul(&s, &tau)
			next[2*j+1] = odd
		}
		scalars = next
	}
	g1 := make([]bn254.G1Affine, len(scalars))
	for i, s := range scalars {
		var b big.Int
		s.BigInt(&b)
		g1[i].ScalarMultiplication(&g1Gen, &b)
	}

	return &SRS{NuMax: nuMax, G1: g1, G2: g2}, nil
}

// ProverParam is the trimmed prover-facing half of an SRS.
type ProverParam struct {
	Nu int
	G1 []bn254.G1Affine // length 2^Nu
}

// VerifierParam is the trimmed verifier-facing half of an SRS.
type VerifierParam struct {
	Nu     int
	G1Gen  bn254.G1Affine
	G2Gen  bn254.G2Affine
	G2Taus []bn254.G2Affine // length Nu
}

// Trim restricts srs to nu <= srs.NuMax variables, splitting it into
// prover-facing and verifier-facing halves.
// nu == 0 is allowed for the same reason Setup(0) is (see Setup):
// srs.G1[:1] and srs.G2[:0] are exactly the 0-variable prover/verifier
// halves.
func Trim(srs *SRS, nu int) (*ProverParam, *VerifierParam, error) {
	if nu < 0 || nu > srs.NuMax {
		return nil, nil, clerr.InvalidPcsParam("requested variable count exceeds srs capacity")
	}
	_, _, g1Gen, g2Gen := bn254.Generators()
	pp := &ProverParam{Nu: nu, G1: srs.G1[:1<<uint(nu)]}
	vp := &VerifierParam{Nu: nu, G1Gen: g1Gen, G2Gen: g2Gen, G2Taus: append([]bn254.G2Affine(nil), srs.G2[:nu]...)}
	return pp, vp, nil
}

// Scheme binds a ProverParam/VerifierParam pair to the pcs.Scheme
// contract.
type Scheme struct {
	PP *ProverParam
	VP *VerifierParam
}

// New returns a Scheme bound to pp/vp.
func New(pp *ProverParam, vp *VerifierParam) *Scheme {
	return &Scheme{PP: pp, VP: vp}
}

var _ pcs.Scheme = (*Scheme)(nil)

// Commit returns sum_b poly.Coeffs()[b] * srs.G1[b], the tensor-basis
// MSM commitment to p in its coefficient form.
func (s *Scheme) Commit(p *poly.MultilinearPolynomial) (bn254.G1Affine, error) {
	if p.NumVars != s.PP.Nu {
		return bn254.G1Affine{}, clerr.InvalidPcsParam("polynomial num_vars does not match prover param")
	}
	return field.MSM(s.PP.G1, p.Coeffs())
}

// Open proves p(point) == p's evaluation there, by peeling one quotient
// polynomial per variable via the same even/odd split sum-check folding
// uses: f - f(point) = sum_v (X_v - point[v]) * q_v, where
// q_v is committed in coefficient form against the SRS prefix sized to
// its own variable count.
func (s *Scheme) Open(p *poly.MultilinearPolynomial, point []field.F) (field.F, []bn254.G1Affine, error) {
	if len(point) != p.NumVars || p.NumVars != s.PP.Nu {
		return field.Zero(), nil, clerr.InvalidPcsParam("evaluation point dimension mismatch")
	}
	value, err := p.Evaluate(point)
	if err != nil {
		return field.Zero(), nil, err
	}

	buf := make([]field.F, len(p.E))
	copy(buf, p.E)
	quotients := make([]bn254.G1Affine, p.NumVars)

	for round := 0; round < p.NumVars; round++ {
		v := p.NumVars - 1 - round // variable being eliminated this round
		half := len(buf) / 2
		qEval := make([]field.F, half)
		for j := 0; j < half; j++ {
			qEval[j].Sub(&buf[half+j], &buf[j])
		}
		qc, err := poly.EvalToCoeff(qEval, v)
		if err != nil {
			return field.Zero(), nil, err
		}
		commit, err := field.MSM(s.PP.G1[:half], qc.Coeffs())
		if err != nil {
			return field.Zero(), nil, err
		}
		// Indexed by variable, not by round: Verify pairs quotients[v]
		// with tau_v and point[v].
		quotients[v] = commit

		r := point[v]
		next := make([]field.F, half)
		for j := 0; j < half; j++ {
			var diff, term field.F
			diff.Sub(&buf[half+j], &buf[j])
			term.Mul(&diff, &r)
			next[j].Add(&buf[j], &term)
		}
		buf = next
	}
	return value, quotients, nil
}

// Verify checks the batched pairing equation
//
//	e(commitment - value*G1gen, G2gen) == prod_v e(quotient_v, tau_v*G2gen - point[v]*G2gen)
//
// in a single PairingCheck call.
func (s *Scheme) Verify(commitment bn254.G1Affine, point []field.F, value field.F, proof []bn254.G1Affine) error {
	if len(point) != s.VP.Nu || len(proof) != s.VP.Nu {
		return clerr.InvalidPcsParam("verify dimension mismatch")
	}
	var valueBig big.Int
	value.BigInt(&valueBig)
	var valueG1 bn254.G1Affine
	valueG1.ScalarMultiplication(&s.VP.G1Gen, &valueBig)

	var commitJac, valueJac bn254.G1Jac
	commitJac.FromAffine(&commitment)
	valueJac.FromAffine(&valueG1)
	commitJac.SubAssign(&valueJac)
	var lhs bn254.G1Affine
	lhs.FromJacobian(&commitJac)

	g1s := make([]bn254.G1Affine, s.VP.Nu+1)
	g2s := make([]bn254.G2Affine, s.VP.Nu+1)
	g1s[0] = lhs
	g2s[0] = s.VP.G2Gen

	for v := 0; v < s.VP.Nu; v++ {
		var neg bn254.G1Affine
		neg.Neg(&proof[v])
		g1s[v+1] = neg

		var rBig big.Int
		point[v].BigInt(&rBig)
		var rG2 bn254.G2Affine
		rG2.ScalarMultiplication(&s.VP.G2Gen, &rBig)

		var tauJac, rJac bn254.G2Jac
		tauJac.FromAffine(&s.VP.G2Taus[v])
		rJac.FromAffine(&rG2)
		tauJac.SubAssign(&rJac)
		var diff bn254.G2Affine
		diff.FromJacobian(&tauJac)
		g2s[v+1] = diff
	}

	ok, err := bn254.PairingCheck(g1s, g2s)
	if err != nil {
		return err
	}
	if !ok {
		return clerr.InvalidPcsParam("pcs opening proof failed pairing check")
	}
	return nil
}
