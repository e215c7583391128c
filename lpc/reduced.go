package lpc

import "gonum.org/v1/gonum/floats"

// AnalyzeReduced is Analyze written in terms of dot-product reductions.
// Every reduction accumulates left to right, so the result is identical to
// Analyze bit for bit.
func AnalyzeReduced(samples []float64, order int) Result {
	res := newResult(order)
	n := len(samples)
	r := res.R

	for i := range r {
		if i > n {
			break
		}
		r[i] = dot(samples[:n-i], samples[i:n])
	}

	levinsonReduced(&res)
	return res
}

func levinsonReduced(res *Result) {
	r, rc, a := res.R, res.RC, res.A
	order := len(r) - 1

	if r[0] == 0 {
		res.Status = ZeroEnergy
		return
	}

	// reversed prefix of a, rebuilt at each order
	rev := make([]float64, order)

	pe := r[0]
	a[0] = 1
	for k := 1; k <= order; k++ {
		copy(rev[:k], a[:k])
		floats.Reverse(rev[:k])
		akk := -dot(rev[:k], r[1:k+1]) / pe
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

// dot is a strictly sequential inner product. floats.Dot dispatches to
// unrolled assembly that reorders the partial sums.
func dot(x, y []float64) float64 {
	sum := 0.0
	for i, v := range x {
		sum += v * y[i]
	}
	return sum
}
