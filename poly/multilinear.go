// Package poly implements the multilinear polynomial engine underlying
// every commitment and sum-check message: evaluation-form and
// coefficient-form representations, the inverse Mobius transform between
// them, eq_xy, point evaluation with a deferred-bind fast path for
// Boolean coordinates, and arithmetic (add/sub/scalar-mul). Scalar-mul
// and eq_xy expansion are split across worker goroutines; add and sub
// run on the calling goroutine.
package poly

import (
	"github.com/pseXperiments/clookup/clerr"
	"github.com/pseXperiments/clookup/field"
	"github.com/pseXperiments/clookup/internal/workpool"
)

// parallelThreshold is the vector length above which ScalarMul and EqXY
// split their work across worker goroutines.
const parallelThreshold = 32

// MultilinearPolynomial carries the evaluation vector E over {0,1}^NumVars
// in canonical index order (idx(b) = sum b_i * 2^i), optionally the
// coefficient vector C in the monomial basis, and NumVars. The empty
// value (NumVars == 0, both vectors nil) is the additive identity.
type MultilinearPolynomial struct {
	NumVars int
	E       []field.F // evaluation form, length 2^NumVars when non-empty
	C       []field.F // coefficient form, length 2^NumVars, nil if not computed
}

// Empty returns the additively-neutral zero-variable polynomial.
func Empty() *MultilinearPolynomial {
	return &MultilinearPolynomial{}
}

// IsEmpty reports whether p is the additive identity.
func (p *MultilinearPolynomial) IsEmpty() bool {
	return p.NumVars == 0 && len(p.E) == 0
}

// FromEvaluations builds a polynomial directly from an evaluation vector.
// It does not compute the coefficient form; call EvalToCoeff for that.
func FromEvaluations(e []field.F) (*MultilinearPolynomial, error) {
	n, err := log2PowerOfTwo(len(e))
	if err != nil {
		return nil, err
	}
	cp := make([]field.F, len(e))
	copy(cp, e)
	return &MultilinearPolynomial{NumVars: n, E: cp}, nil
}

// EvalToCoeff returns a polynomial whose evaluation vector equals e and
// whose coefficient vector is the inverse Mobius transform of e.
// Precondition: len(e) == 2^numVars.
func EvalToCoeff(e []field.F, numVars int) (*MultilinearPolynomial, error) {
	if len(e) != 1<<uint(numVars) {
		return nil, clerr.SizeError("evaluation vector length does not match num_vars")
	}
	c := make([]field.F, len(e))
	copy(c, e)
	inverseMobius(c, numVars)
	ev := make([]field.F, len(e))
	copy(ev, e)
	return &MultilinearPolynomial{NumVars: numVars, E: ev, C: c}, nil
}

// CoeffToEval is the inverse of EvalToCoeff: it returns a polynomial
// whose coefficient vector equals c and whose evaluation vector is the
// forward Mobius transform of c. Precondition: len(c) == 2^numVars.
func CoeffToEval(c []field.F, numVars int) (*MultilinearPolynomial, error) {
	if len(c) != 1<<uint(numVars) {
		return nil, clerr.SizeError("coefficient vector length does not match num_vars")
	}
	e := make([]field.F, len(c))
	copy(e, c)
	forwardMobius(e, numVars)
	cp := make([]field.F, len(c))
	copy(cp, c)
	return &MultilinearPolynomial{NumVars: numVars, E: e, C: cp}, nil
}

// Coeffs returns p's coefficient vector, computing it from the evaluation
// form via the inverse Mobius transform if it has not been computed yet.
func (p *MultilinearPolynomial) Coeffs() []field.F {
	if p.C == nil {
		c := make([]field.F, len(p.E))
		copy(c, p.E)
		inverseMobius(c, p.NumVars)
		p.C = c
	}
	return p.C
}

// inverseMobius runs the O(nu * 2^nu) in-place inverse Mobius transform:
// for i from nu-1 down to 0, for each
// contiguous chunk of size 2^(i+1), for each position j in the low half,
// high[j] -= low[j].
func inverseMobius(buf []field.F, numVars int) {
	for i := numVars - 1; i >= 0; i-- {
		chunk := 1 << uint(i+1)
		half := chunk / 2
		for start := 0; start < len(buf); start += chunk {
			low := buf[start : start+half]
			high := buf[start+half : start+chunk]
			for j := 0; j < half; j++ {
				high[j].Sub(&high[j], &low[j])
			}
		}
	}
}

// forwardMobius undoes inverseMobius: same chunking, opposite variable
// order, addition instead of subtraction.
func forwardMobius(buf []field.F, numVars int) {
	for i := 0; i < numVars; i++ {
		chunk := 1 << uint(i+1)
		half := chunk / 2
		for start := 0; start < len(buf); start += chunk {
			low := buf[start : start+half]
			high := buf[start+half : start+chunk]
			for j := 0; j < half; j++ {
				high[j].Add(&high[j], &low[j])
			}
		}
	}
}

// EqXY returns the multilinear polynomial whose evaluation at x in
// {0,1}^k equals prod_i (x_i*y_i + (1-x_i)*(1-y_i)), built iteratively
// from y's last element to first by doubling.
func EqXY(y []field.F) *MultilinearPolynomial {
	k := len(y)
	eval := []field.F{field.One()}
	for i := k - 1; i >= 0; i-- {
		yi := y[i]
		next := make([]field.F, len(eval)*2)
		if len(eval) > parallelThreshold {
			workpool.Range(len(eval), func(lo, hi int) {
				for j := lo; j < hi; j++ {
					var odd field.F
					odd.Mul(&eval[j], &yi)
					next[2*j+1] = odd
					var even field.F
					even.Sub(&eval[j], &odd)
					next[2*j] = even
				}
			})
		} else {
			for j := range eval {
				var odd field.F
				odd.Mul(&eval[j], &yi)
				next[2*j+1] = odd
				var even field.F
				even.Sub(&eval[j], &odd)
				next[2*j] = even
			}
		}
		eval = next
	}
	return &MultilinearPolynomial{NumVars: k, E: eval}
}

// Evaluate returns p(x) for x in F^NumVars. Coordinates exactly equal to
// zero or one are handled by index selection without multiplication (the
// deferred-bind optimization); generic values trigger a merge_into pass
// that halves the buffer per bound variable.
func (p *MultilinearPolynomial) Evaluate(x []field.F) (field.F, error) {
	if len(x) != p.NumVars {
		return field.Zero(), clerr.SizeError("evaluation point dimension mismatch")
	}
	buf := make([]field.F, len(p.E))
	copy(buf, p.E)
	nv := p.NumVars
	// Fold from the most significant variable down, matching the
	// fold_into_half convention used throughout sum-check.
	for i := nv - 1; i >= 0; i-- {
		xi := x[i]
		half := 1 << uint(i)
		switch {
		case xi.IsZero():
			buf = buf[:half]
		case isOne(xi):
			buf = buf[half:]
		default:
			next := make([]field.F, half)
			mergeInto(next, buf[:half], buf[half:2*half], xi)
			buf = next
		}
	}
	return buf[0], nil
}

func mergeInto(dst, low, high []field.F, xi field.F) {
	for i := range dst {
		var diff field.F
		diff.Sub(&high[i], &low[i])
		diff.Mul(&diff, &xi)
		dst[i].Add(&low[i], &diff)
	}
}

func isOne(f field.F) bool {
	one := field.One()
	return f.Equal(&one)
}

// ScalarMul returns c*p, element-wise over both vectors (if present).
func (p *MultilinearPolynomial) ScalarMul(c field.F) *MultilinearPolynomial {
	switch {
	case c.IsZero():
		return Empty()
	case isOne(c):
		return p.clone()
	}
	out := &MultilinearPolynomial{NumVars: p.NumVars}
	out.E = scaleVec(p.E, c)
	if p.C != nil {
		out.C = scaleVec(p.C, c)
	}
	return out
}

func scaleVec(v []field.F, c field.F) []field.F {
	out := make([]field.F, len(v))
	apply := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i].Mul(&v[i], &c)
		}
	}
	if len(v) > parallelThreshold {
		workpool.Range(len(v), apply)
	} else {
		apply(0, len(v))
	}
	return out
}

// Add returns p+q. The empty polynomial is the additive identity;
// otherwise p and q must share NumVars.
func (p *MultilinearPolynomial) Add(q *MultilinearPolynomial) (*MultilinearPolynomial, error) {
	return combine(p, q, func(a, b field.F) field.F {
		var r field.F
		r.Add(&a, &b)
		return r
	})
}

// Sub returns p-q, with the same identity rule as Add.
func (p *MultilinearPolynomial) Sub(q *MultilinearPolynomial) (*MultilinearPolynomial, error) {
	return combine(p, q, func(a, b field.F) field.F {
		var r field.F
		r.Sub(&a, &b)
		return r
	})
}

func combine(p, q *MultilinearPolynomial, op func(a, b field.F) field.F) (*MultilinearPolynomial, error) {
	if p.IsEmpty() {
		return q.clone(), nil
	}
	if q.IsEmpty() {
		return p.clone(), nil
	}
	if p.NumVars != q.NumVars {
		return nil, clerr.SizeError("polynomials have different num_vars")
	}
	out := &MultilinearPolynomial{NumVars: p.NumVars, E: make([]field.F, len(p.E))}
	for i := range out.E {
		out.E[i] = op(p.E[i], q.E[i])
	}
	if p.C != nil && q.C != nil {
		out.C = make([]field.F, len(p.C))
		for i := range out.C {
			out.C[i] = op(p.C[i], q.C[i])
		}
	}
	return out, nil
}

func (p *MultilinearPolynomial) clone() *MultilinearPolynomial {
	if p.IsEmpty() {
		return Empty()
	}
	out := &MultilinearPolynomial{NumVars: p.NumVars, E: append([]field.F(nil), p.E...)}
	if p.C != nil {
		out.C = append([]field.F(nil), p.C...)
	}
	return out
}

func log2PowerOfTwo(n int) (int, error) {
	if n <= 0 || (n&(n-1)) != 0 {
		return 0, clerr.SizeError("length is not a power of two")
	}
	v := 0
	for (1 << uint(v)) < n {
		v++
	}
	return v, nil
}
