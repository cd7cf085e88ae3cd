// Package lookup implements the lookup-argument prover and verifier:
// proving that a private witness multiset is contained in a public
// table, via bit-indexed sigma-columns and a sum-check over a combine
// function binding witness, sigma, and table together.
package lookup

import (
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pseXperiments/clookup/clerr"
	"github.com/pseXperiments/clookup/core"
	"github.com/pseXperiments/clookup/field"
	"github.com/pseXperiments/clookup/pcs"
	"github.com/pseXperiments/clookup/poly"
	"github.com/pseXperiments/clookup/sumcheck"
	"github.com/pseXperiments/clookup/sumcheck/gpu"
	"github.com/pseXperiments/clookup/sumcheck/parallel"
	"github.com/pseXperiments/clookup/sumcheck/serial"
	"github.com/pseXperiments/clookup/table"
	"github.com/pseXperiments/clookup/transcript"
)

// BackendKind selects which of the three sum-check backends the lookup
// prover drives.
type BackendKind int

const (
	// BackendSerial is the reference, straightforward-loop backend.
	BackendSerial BackendKind = iota
	// BackendParallel is the data-parallel backend.
	BackendParallel
	// BackendGPU is the GPU-offloaded backend. If Config.GPUDriver is
	// nil, a gpu.SoftwareGPUDriver is used so the protocol shape still
	// runs without a CUDA toolchain present.
	BackendGPU
)

// Config bundles the sum-check backend choice and an optional logger, in
// place of one function per backend/logging combination.
// The zero Logger is zerolog's silent default.
type Config struct {
	Backend   BackendKind
	GPUDriver gpu.GPUDriver
	Logger    zerolog.Logger
}

// buildBackend constructs the sum-check prover for cfg.Backend, binding
// it to the lookup combine function h. The GPU backend does not take h
// as a callable: it reconstructs the identical function on-device from
// desc.
func (cfg Config) buildBackend(h sumcheck.CombineFunc, desc gpu.Descriptor) sumcheck.Prover {
	switch cfg.Backend {
	case BackendParallel:
		return parallel.New(h)
	case BackendGPU:
		driver := cfg.GPUDriver
		if driver == nil {
			driver = gpu.NewSoftwareGPUDriver()
		}
		return gpu.New(driver, desc)
	default:
		return serial.New(h)
	}
}

// Degree returns the sum-check degree bound for a table of dimension n:
// d = 1 + max(2, n). The +1 is the eq factor; the max(2, n) covers both
// the degree-2 Boolean terms and the degree-n table evaluation.
func Degree(tableDim int) int {
	d := tableDim
	if d < 2 {
		d = 2
	}
	return 1 + d
}

// combineFunc builds the lookup combine function
//
//	h(v0, v1,...,vn, v_eq) = [v0 - T(v1,...,vn) + sum_{j=1..n} gamma^j * vj*(vj-1)] * v_eq
//
// tablePoly is the table's coefficient-form polynomial; gammaPowers
// holds gamma^1..gamma^n at indices 1..n.
func combineFunc(tablePoly *poly.MultilinearPolynomial, gammaPowers []field.F) sumcheck.CombineFunc {
	return func(vals []field.F) field.F {
		n := len(vals) - 2
		v0 := vals[0]
		vEq := vals[len(vals)-1]
		sigmas := vals[1 : len(vals)-1]

		tVal, err := tablePoly.Evaluate(sigmas)
		if err != nil {
			panic(err)
		}
		var term field.F
		term.Sub(&v0, &tVal)
		one := field.One()
		for j := 1; j <= n; j++ {
			sj := sigmas[j-1]
			var sMinusOne, boolTerm field.F
			sMinusOne.Sub(&sj, &one)
			boolTerm.Mul(&sj, &sMinusOne)
			boolTerm.Mul(&boolTerm, &gammaPowers[j])
			term.Add(&term, &boolTerm)
		}
		var out field.F
		out.Mul(&term, &vEq)
		return out
	}
}

// Proof is the sequence of transcript bytes produced by Prove. Proof
// does not carry any structure beyond the raw bytes: the verifier's
// transcript read order is the only schema.
type Proof struct {
	Bytes []byte
}

// Prove produces a proof that every element of w appears in tbl. tbl is
// the public table of dimension n; w is the private witness vector of
// length 2^m. The sigma columns
// are derived from tbl.FindIndices(w), which guarantees Booleanness by
// construction; callers who already hold externally computed sigma
// columns (e.g. a proof-repair or fault-injection harness) should use
// ProveWithColumns instead.
func Prove(cfg Config, scheme pcs.Scheme, tbl *table.Table, w []field.F) (*Proof, error) {
	n := tbl.Dim
	indices, err := tbl.FindIndices(w)
	if err != nil {
		return nil, err
	}
	sigmaCols := table.SigmaColumns(indices, n)
	return proveWithSigmaColumns(cfg, scheme, tbl, w, sigmaCols)
}

// ProveWithColumns is Prove, but the caller supplies the sigma columns
// directly instead of having them derived from tbl.FindIndices(w).
// Columns are checked against {0,1} before any commitment work, rather
// than deferring Booleanness entirely to the sum-check's gamma-weighted
// constraint: this is the one path where a caller can hand the prover a
// sigma column FindIndices didn't itself produce, so a non-Boolean
// column is rejected immediately with clerr.SizeError instead of
// silently producing a proof that only the verifier's sum-check would
// catch.
func ProveWithColumns(cfg Config, scheme pcs.Scheme, tbl *table.Table, w []field.F, sigmaCols [][]field.F) (*Proof, error) {
	if len(sigmaCols) != tbl.Dim {
		return nil, clerr.SizeError("sigma column count does not match table dimension")
	}
	for i, col := range sigmaCols {
		if len(col) != len(w) {
			return nil, clerr.SizeError("sigma column length does not match witness length")
		}
		for _, v := range col {
			if !isBoolean(v) {
				return nil, clerr.SizeError("sigma column contains a non-boolean entry at column " + strconv.Itoa(i))
			}
		}
	}
	return proveWithSigmaColumns(cfg, scheme, tbl, w, sigmaCols)
}

func isBoolean(v field.F) bool {
	zero, one := field.Zero(), field.One()
	return v.Equal(&zero) || v.Equal(&one)
}

// proveWithSigmaColumns is the shared body of Prove and ProveWithColumns:
// everything from committing the sigma columns onward.
func proveWithSigmaColumns(cfg Config, scheme pcs.Scheme, tbl *table.Table, w []field.F, sigmaCols [][]field.F) (*Proof, error) {
	m, err := log2PowerOfTwo(len(w))
	if err != nil {
		return nil, err
	}
	n := tbl.Dim
	degree := Degree(n)
	cfg.Logger.Debug().Int("table_dim", n).Int("witness_num_vars", m).Int("degree", degree).Msg("lookup prove started")

	wPoly, err := poly.FromEvaluations(w)
	if err != nil {
		return nil, err
	}

	sigmaPolys := make([]*poly.MultilinearPolynomial, n)
	for i, col := range sigmaCols {
		sp, err := poly.FromEvaluations(col)
		if err != nil {
			return nil, err
		}
		sigmaPolys[i] = sp
	}

	ts := transcript.NewProverTranscript()
	allPolys := append([]*poly.MultilinearPolynomial{wPoly}, sigmaPolys...)
	commitments, err := scheme.BatchCommitAndWrite(ts, allPolys)
	if err != nil {
		return nil, err
	}

	gamma := ts.SqueezeChallenge()
	y := ts.SqueezeChallenges(m)
	eqPoly := poly.EqXY(y)
	gammaPowers := field.Powers(gamma, n+1)

	tablePoly, err := tbl.Polynomial()
	if err != nil {
		return nil, err
	}
	h := combineFunc(tablePoly, gammaPowers)

	vpPolys := append(append([]*poly.MultilinearPolynomial{wPoly}, sigmaPolys...), eqPoly)
	vp, err := core.NewVirtualPolynomial(vpPolys)
	if err != nil {
		return nil, err
	}

	backend := cfg.buildBackend(h, gpu.Descriptor{Table: tablePoly, GammaPowers: gammaPowers})
	pp := backend.ProverParam(m, degree)
	cfg.Logger.Debug().Int("pp_num_vars", pp.NumVars).Int("pp_degree", pp.Degree).Msg("lookup sum-check parameters resolved")
	r, evaluations, err := backend.Prove(ts, vp, pp.NumVars, pp.Degree)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Debug().Int("num_rounds", m).Msg("lookup sum-check complete")

	witnessEval := evaluations[0]
	sigmaEvals := evaluations[1 : n+1]

	claims := make([]pcs.EvalClaim, n+1)
	claims[0] = pcs.EvalClaim{PolyIndex: 0, Point: r, Value: witnessEval}
	for i := 0; i < n; i++ {
		claims[i+1] = pcs.EvalClaim{PolyIndex: i + 1, Point: r, Value: sigmaEvals[i]}
	}
	if err := scheme.BatchOpen(ts, allPolys, commitments, claims); err != nil {
		return nil, err
	}

	return &Proof{Bytes: ts.IntoProof()}, nil
}

// Verify checks a proof produced by Prove, mirroring its transcript
// order: commitments, challenges, sum-check, then the PCS batch step.
func Verify(scheme pcs.Scheme, tableDim, witnessNumVars int, tablePoly *poly.MultilinearPolynomial, proof *Proof) error {
	n := tableDim
	m := witnessNumVars
	degree := Degree(n)
	if tablePoly.NumVars != n {
		return clerr.SizeError("table polynomial num_vars does not match table dimension")
	}

	ts := transcript.NewVerifierTranscript(proof.Bytes)
	commitments, err := ts.ReadCommitments(n + 1)
	if err != nil {
		return err
	}

	gamma := ts.SqueezeChallenge()
	y := ts.SqueezeChallenges(m)
	gammaPowers := field.Powers(gamma, n+1)

	vpParam := sumcheck.VerifierParam(m, degree, n+2)
	expected, evals, r, err := sumcheck.Verify(ts, field.Zero(), vpParam.NumVars, vpParam.Degree, vpParam.NumPolys)
	if err != nil {
		return err
	}

	// verify_point_consistency: the sum-check above folds exactly m
	// variables (one per round), so the challenge vector it returns must
	// have length m -- r is reused below both as eqVal's evaluation
	// point and as the PCS opening point for every claim, both of which
	// assume dimension m. A length mismatch here would mean the
	// sum-check and the lookup protocol disagree about the witness's
	// dimension.
	if len(r) != m {
		return clerr.InvalidSumcheck("sum-check returned challenge vector length does not match witness dimension")
	}

	// evals is [w, sigma_0..sigma_{n-1}, eq]. The eq evaluation the prover
	// wrote is not bound by any commitment, so it must match the value
	// recomputed here from y and r before h is trusted with it.
	eqVal, err := poly.EqXY(y).Evaluate(r)
	if err != nil {
		return err
	}
	if !evals[n+1].Equal(&eqVal) {
		return clerr.InvalidSumcheck("eq-polynomial evaluation does not match the independently recomputed value")
	}
	h := combineFunc(tablePoly, gammaPowers)
	if got := h(evals); !got.Equal(&expected) {
		return clerr.InvalidSumcheck("lookup combine function does not reproduce the sum-check's final expected value")
	}

	witnessEval := evals[0]
	sigmaEvals := evals[1 : n+1]
	claims := make([]pcs.EvalClaim, n+1)
	claims[0] = pcs.EvalClaim{PolyIndex: 0, Point: r, Value: witnessEval}
	for i := 0; i < n; i++ {
		claims[i+1] = pcs.EvalClaim{PolyIndex: i + 1, Point: r, Value: sigmaEvals[i]}
	}
	return scheme.BatchVerify(ts, commitments, claims)
}

func log2PowerOfTwo(n int) (int, error) {
	if n <= 0 || (n&(n-1)) != 0 {
		return 0, clerr.SizeError("witness length is not a power of two")
	}
	v := 0
	for (1 << uint(v)) < n {
		v++
	}
	return v, nil
}
