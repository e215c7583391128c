package lpc

// Linear Prediction Analysis
//
// Analyze turns a window of samples into the coefficients of an all-pole
// predictor of order p:
//
//   1. Autocorrelation r[i] = sum_k x[k]*x[k+i] for lags 0..p.
//   2. Levinson-Durbin recursion over r, producing at each order k the
//      reflection coefficient rc[k], the updated predictor a[0..k] and the
//      residual energy pe.
//
// Numeric failures are reported through Result.Status instead of errors:
// a silent window (r[0] == 0) yields ZeroEnergy, and a residual energy
// that drops to zero or below yields NonPositiveResidual together with the
// coefficients computed so far.

// Result holds the outcome of one analysis call. R, RC and A all have
// length order+1. A[0] is always 1 on success and RC[0] is unused.
type Result struct {
	R      []float64 `json:"r"`
	RC     []float64 `json:"rc"`
	A      []float64 `json:"a"`
	Status Status    `json:"status"`
	Energy float64   `json:"energy"`
}

// Usable reports whether the coefficients can be trusted.
func (r Result) Usable() bool {
	return r.Status == OK
}

// Order returns the prediction order the result was computed for.
func (r Result) Order() int {
	return len(r.A) - 1
}

func newResult(order int) Result {
	return Result{
		R:  make([]float64, order+1),
		RC: make([]float64, order+1),
		A:  make([]float64, order+1),
	}
}

// Analyze computes autocorrelation, reflection and prediction coefficients
// for samples using explicit index loops. The caller must supply at least
// order+1 samples.
func Analyze(samples []float64, order int) Result {
	res := newResult(order)
	n := len(samples)
	r := res.R

	for i := 0; i <= order; i++ {
		sum := 0.0
		for k := 0; k < n-i; k++ {
			sum += samples[k] * samples[k+i]
		}
		r[i] = sum
	}

	levinson(&res)
	return res
}

// FromAutocorrelation runs the recursion on precomputed autocorrelation
// coefficients r[0..p].
func FromAutocorrelation(r []float64) Result {
	res := newResult(len(r) - 1)
	copy(res.R, r)
	levinson(&res)
	return res
}

func levinson(res *Result) {
	r, rc, a := res.R, res.RC, res.A
	order := len(r) - 1

	if r[0] == 0 {
		res.Status = ZeroEnergy
		return
	}

	pe := r[0]
	a[0] = 1
	for k := 1; k <= order; k++ {
		sum := 0.0
		for i := 1; i <= k; i++ {
			sum -= a[k-i] * r[i]
		}
		akk := sum / pe
		rc[k] = akk

		a[k] = akk
		symmetricUpdate(a, k, akk)

		pe *= 1 - akk*akk
		if pe <= 0 {
			res.Status = NonPositiveResidual
			res.Energy = pe
			return
		}
	}

	res.Status = OK
	res.Energy = pe
}

// symmetricUpdate applies a[i] += akk*a[k-i] and a[k-i] += akk*a[i] for
// i in 1..k/2, both from the values held before the step.
func symmetricUpdate(a []float64, k int, akk float64) {
	for i := 1; i <= k>>1; i++ {
		ai := a[i]
		aj := a[k-i]
		a[i] = ai + akk*aj
		a[k-i] = aj + akk*ai
	}
}
