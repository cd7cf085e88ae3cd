// Package field provides the small amount of arithmetic glue the rest of
// this module needs on top of github.com/consensys/gnark-crypto's prime
// field element: a power iterator, barycentric interpolation over integer
// nodes, and an MSM helper. Field and curve arithmetic itself is not
// reimplemented here; it is delegated entirely to gnark-crypto.
package field

import (
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// F is the scalar field this module operates over: the BN254 curve's
// scalar field, the curve gnark/gnark-crypto use by default and the one
// mdehoog/gnark-ptau serves a powers-of-tau transcript for.
type F = fr.Element

// Zero and One are the additive and multiplicative identities.
func Zero() F {
	var z F
	return z
}

func One() F {
	var o F
	return *o.SetOne()
}

// FromUint64 converts a small integer to a field element.
func FromUint64(v uint64) F {
	var f F
	return *f.SetUint64(v)
}

// Powers returns [base^0, base^1, ..., base^(n-1)].
func Powers(base F, n int) []F {
	out := make([]F, n)
	if n == 0 {
		return out
	}
	out[0] = One()
	for i := 1; i < n; i++ {
		out[i].Mul(&out[i-1], &base)
	}
	return out
}

// BarycentricWeights returns the barycentric weights w_i = 1 / prod_{j!=i} (i-j)
// for the integer nodes {0, 1, ..., d}. These are used by the sum-check
// verifier to interpolate the round polynomial at the
// challenge point without needing its coefficient form.
func BarycentricWeights(d int) []F {
	w := make([]F, d+1)
	for i := 0; i <= d; i++ {
		acc := One()
		for j := 0; j <= d; j++ {
			if i == j {
				continue
			}
			diff := FromUint64(uint64(i))
			var jf F
			jf.SetUint64(uint64(j))
			diff.Sub(&diff, &jf)
			acc.Mul(&acc, &diff)
		}
		acc.Inverse(&acc)
		w[i] = acc
	}
	return w
}

// InterpolateAt evaluates, at x, the degree-d polynomial defined by its
// values evals[0..d] at the integer nodes {0,...,d}, using precomputed
// barycentric weights. If x equals one of the nodes i, it returns
// evals[i] directly instead of dividing by zero (x is never one of the
// sum-check's own nodes in practice, since x is a Fiat-Shamir challenge).
func InterpolateAt(evals []F, weights []F, x F) F {
	var num, den F
	for i, e := range evals {
		xi := FromUint64(uint64(i))
		var diff F
		diff.Sub(&x, &xi)
		if diff.IsZero() {
			return e
		}
		var term F
		term.Inverse(&diff)
		term.Mul(&term, &weights[i])
		var t2 F
		t2.Mul(&term, &e)
		num.Add(&num, &t2)
		den.Add(&den, &term)
	}
	den.Inverse(&den)
	num.Mul(&num, &den)
	return num
}

// MSM computes the multi-scalar-multiplication sum_i scalars[i] * points[i],
// wrapping bn254.G1Affine.MultiExp the way every KZG-shaped file in the
// gnark-crypto ecosystem does.
func MSM(points []bn254.G1Affine, scalars []F) (bn254.G1Affine, error) {
	var res bn254.G1Affine
	if len(points) == 0 {
		return res, nil
	}
	_, err := res.MultiExp(points, scalars, ecc.MultiExpConfig{})
	return res, err
}
