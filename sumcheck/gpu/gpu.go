// Package gpu is the GPU-offloaded sum-check backend. A real deployment
// launches combine/sum/fold_into_half kernels on device buffers,
// synchronizing with the host only at round boundaries (for transcript
// I/O) and once at the end (to retrieve the final residual evaluations).
//
// The CUDA driver itself is an external collaborator -- this package
// does not ship a cgo CUDA binding. GPUDriver is the contract a real
// driver would satisfy; SoftwareGPUDriver is a reference implementation
// that runs the identical arithmetic on the host, so that this backend
// still proves out the protocol shape (device buffers, per-round
// synchronization, one final synchronize) and produces byte-identical
// transcripts to the serial and parallel backends, without requiring a
// CUDA toolchain.
//
// The GPU combine function is not delivered as a callable, since a host
// closure cannot cross a device boundary: it is reconstructed on-device
// from a small structured Descriptor (the table's coefficient-form
// polynomial, plus the powers of gamma used to weight the Boolean
// constraints).
package gpu

import (
	"github.com/pseXperiments/clookup/clerr"
	"github.com/pseXperiments/clookup/core"
	"github.com/pseXperiments/clookup/field"
	"github.com/pseXperiments/clookup/poly"
	"github.com/pseXperiments/clookup/sumcheck"
	"github.com/pseXperiments/clookup/transcript"
)

// Descriptor is the structured combine-function description the GPU
// backend reconstructs on-device, mirroring the lookup prover's
// h(v0,...,vn,v_eq) = [v0 - T(v1..vn) + sum gamma^j * vj*(vj-1)] * v_eq.
type Descriptor struct {
	// Table is the coefficient-form table polynomial T.
	Table *poly.MultilinearPolynomial
	// GammaPowers holds gamma^1..gamma^n at indices 1..n (index 0 unused).
	GammaPowers []field.F
}

// GPUDriver is the contract a CUDA driver wrapper satisfies: allocate
// device buffers for the constituent polynomials, evaluate one round's
// polynomial via on-device combine+sum kernels, fold the device buffers
// by one variable, and retrieve the final residual evaluations.
type GPUDriver interface {
	// AllocatePolynomials uploads the per-round evaluation tables (one
	// per constituent polynomial) to device buffers.
	AllocatePolynomials(tables []*core.EvalTable) error
	// RoundPoly evaluates degree+1 points of the current round's
	// polynomial using desc to reconstruct the combine function.
	RoundPoly(desc Descriptor, degree int) ([]field.F, error)
	// FoldIntoHalf runs the device fold kernel, binding the current
	// top variable to alpha.
	FoldIntoHalf(alpha field.F) error
	// FinalEvaluations binds the last variable to alphaLast, synchronizes,
	// and retrieves the k residual evaluations.
	FinalEvaluations(alphaLast field.F) ([]field.F, error)
	// Release frees device buffers. Safe to call more than once.
	Release()
}

// Backend is the GPU-offloaded sum-check prover.
type Backend struct {
	Driver     GPUDriver
	Descriptor Descriptor
}

// New returns a GPU backend bound to driver and desc.
func New(driver GPUDriver, desc Descriptor) *Backend {
	return &Backend{Driver: driver, Descriptor: desc}
}

var _ sumcheck.Prover = (*Backend)(nil)

// Prove implements sumcheck.Prover. The device/host synchronization
// points are: once to allocate, once per round for transcript I/O, and
// once at the end for the final evaluations; device buffers are released
// on every exit path.
func (b *Backend) Prove(ts transcript.Transcript, vp *core.VirtualPolynomial, numVars, degree int) ([]field.F, []field.F, error) {
	if vp.NumVars != numVars {
		return nil, nil, clerr.SizeError("virtual polynomial num_vars does not match requested rounds")
	}
	if err := b.Driver.AllocatePolynomials(vp.Tables); err != nil {
		return nil, nil, clerr.CudaLibraryError(err.Error())
	}
	defer b.Driver.Release()

	// numVars == 0 (the single-element witness boundary) has no rounds to
	// launch: every device buffer already holds its resolved value in
	// the single pair core.NewEvalTable built for it, so the final
	// synchronize can run immediately. Any alphaLast works, since the
	// pair's even and odd halves are equal by construction.
	if numVars == 0 {
		evaluations, err := b.Driver.FinalEvaluations(field.Zero())
		if err != nil {
			return nil, nil, clerr.CudaLibraryError(err.Error())
		}
		if err := ts.WriteFieldElements(evaluations...); err != nil {
			return nil, nil, err
		}
		return []field.F{}, evaluations, nil
	}

	challenges := make([]field.F, numVars)
	for t := 0; t < numVars; t++ {
		roundPoly, err := b.Driver.RoundPoly(b.Descriptor, degree)
		if err != nil {
			return nil, nil, clerr.CudaLibraryError(err.Error())
		}
		if err := ts.WriteFieldElements(roundPoly...); err != nil {
			return nil, nil, err
		}
		alpha := ts.SqueezeChallenge()
		challenges[t] = alpha

		if t == numVars-1 {
			evaluations, err := b.Driver.FinalEvaluations(alpha)
			if err != nil {
				return nil, nil, clerr.CudaLibraryError(err.Error())
			}
			if err := ts.WriteFieldElements(evaluations...); err != nil {
				return nil, nil, err
			}
			reverseInPlace(challenges)
			return challenges, evaluations, nil
		}
		if err := b.Driver.FoldIntoHalf(alpha); err != nil {
			return nil, nil, clerr.CudaLibraryError(err.Error())
		}
	}
	return nil, nil, clerr.InvalidSumcheck("gpu prover loop exited without reaching the final round")
}

// ProverParam implements sumcheck.Prover's pp-generation capability.
// The gpu backend's device-buffer allocation is an implementation detail
// of Prove, not a parameter, so it reports the same shape every backend
// does.
func (b *Backend) ProverParam(numVars, degree int) sumcheck.Params {
	return sumcheck.ProverParam(numVars, degree)
}

func reverseInPlace(s []field.F) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// combine reconstructs the lookup combine function h from desc, the way
// a real kernel would reconstruct it from the structured descriptor
// instead of from a callable.
func combine(desc Descriptor, vals []field.F) (field.F, error) {
	n := len(vals) - 2 // sigma columns
	v0 := vals[0]
	vEq := vals[len(vals)-1]
	sigmas := vals[1 : len(vals)-1]

	tVal, err := desc.Table.Evaluate(sigmas)
	if err != nil {
		return field.Zero(), err
	}
	term := field.Zero()
	term.Sub(&v0, &tVal)
	for j := 1; j <= n; j++ {
		sj := sigmas[j-1]
		var boolTerm, one, sMinusOne field.F
		one = field.One()
		sMinusOne.Sub(&sj, &one)
		boolTerm.Mul(&sj, &sMinusOne)
		boolTerm.Mul(&boolTerm, &desc.GammaPowers[j])
		term.Add(&term, &boolTerm)
	}
	var out field.F
	out.Mul(&term, &vEq)
	return out, nil
}
