package gpu

import (
	"github.com/pseXperiments/clookup/clerr"
	"github.com/pseXperiments/clookup/core"
	"github.com/pseXperiments/clookup/field"
)

// SoftwareGPUDriver is a GPUDriver that runs the same arithmetic a device
// kernel would, on the host. It exists because no CUDA binding is
// available to this module; it lets the gpu backend be exercised and
// compared byte-for-byte against the serial and parallel backends.
type SoftwareGPUDriver struct {
	tables []*core.EvalTable
}

// NewSoftwareGPUDriver returns a driver that simulates device buffers
// with plain host slices.
func NewSoftwareGPUDriver() *SoftwareGPUDriver {
	return &SoftwareGPUDriver{}
}

var _ GPUDriver = (*SoftwareGPUDriver)(nil)

// AllocatePolynomials copies tables into the simulated device buffer.
func (d *SoftwareGPUDriver) AllocatePolynomials(tables []*core.EvalTable) error {
	if len(tables) == 0 {
		return clerr.SizeError("gpu driver requires at least one polynomial")
	}
	d.tables = make([]*core.EvalTable, len(tables))
	for i, t := range tables {
		d.tables[i] = &core.EvalTable{NumVars: t.NumVars, Pairs: append([]core.EvalPair(nil), t.Pairs...)}
	}
	return nil
}

// RoundPoly reconstructs desc's combine function and sums it over the
// current index range, once per kappa in [0, degree].
func (d *SoftwareGPUDriver) RoundPoly(desc Descriptor, degree int) ([]field.F, error) {
	if len(d.tables) == 0 {
		return nil, clerr.SizeError("gpu driver has no allocated polynomials")
	}
	n := len(d.tables[0].Pairs)
	roundPoly := make([]field.F, degree+1)
	vals := make([]field.F, len(d.tables))
	for kappa := 0; kappa <= degree; kappa++ {
		kappaF := field.FromUint64(uint64(kappa))
		var total field.F
		for i := 0; i < n; i++ {
			for j, t := range d.tables {
				p := t.Pairs[i]
				var diff, term field.F
				diff.Sub(&p.Odd, &p.Even)
				term.Mul(&diff, &kappaF)
				vals[j].Add(&p.Even, &term)
			}
			g, err := combine(desc, vals)
			if err != nil {
				return nil, err
			}
			total.Add(&total, &g)
		}
		roundPoly[kappa] = total
	}
	return roundPoly, nil
}

// FoldIntoHalf binds the top variable of every device buffer to alpha.
func (d *SoftwareGPUDriver) FoldIntoHalf(alpha field.F) error {
	for _, t := range d.tables {
		if err := t.FoldIntoHalf(alpha); err != nil {
			return err
		}
	}
	return nil
}

// FinalEvaluations binds the last variable and returns each buffer's
// residual evaluation.
func (d *SoftwareGPUDriver) FinalEvaluations(alphaLast field.F) ([]field.F, error) {
	out := make([]field.F, len(d.tables))
	for i, t := range d.tables {
		r, err := t.Residual(alphaLast)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// Release drops the simulated device buffers.
func (d *SoftwareGPUDriver) Release() {
	d.tables = nil
}
