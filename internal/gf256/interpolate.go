package gf256

// Interpolate evaluates, at x, the unique polynomial of degree < len(points)/2
// (the number of samples) that passes through the given (x,y) samples, using Lagrange interpolation
// over GF(2^8).
//
// points is interleaved as [x1,y1, x2,y2, ...]; len(points) must be even and
// non-zero. Behavior is undefined (and is a caller error, per spec) if any
// two sample x-coordinates collide — this function does not check for that,
// matching the reference construction where the caller (Shamir) is
// responsible for supplying distinct x's.
func Interpolate(x byte, points []byte) byte {
	n := len(points) / 2
	var result byte

	for j := 0; j < n; j++ {
		xj, yj := points[2*j], points[2*j+1]

		weight := byte(1)
		for k := 0; k < n; k++ {
			if k == j {
				continue
			}
			xk := points[2*k]

			numerator := Sub(x, xk)
			denominator := Sub(xj, xk)
			weight = Mul(weight, Div(numerator, denominator))
		}

		result = Add(result, Mul(yj, weight))
	}

	return result
}

// InterpolateBytes evaluates, at x, the interpolation of t independent
// polynomials (one per output byte) that share the same t x-coordinates.
// xs holds the t distinct x-coordinates; ys holds t rows of L bytes each
// (ys[i] is the y-vector for xs[i]). The returned slice has length L.
//
// This is the form Shamir.Split/Combine actually need: one set of shared
// x-coordinates, L parallel y-values (one polynomial per secret byte).
func InterpolateBytes(x byte, xs []byte, ys [][]byte) []byte {
	t := len(xs)
	if t == 0 {
		return nil
	}
	l := len(ys[0])

	weights := make([]byte, t)
	for j := 0; j < t; j++ {
		weight := byte(1)
		for k := 0; k < t; k++ {
			if k == j {
				continue
			}
			numerator := Sub(x, xs[k])
			denominator := Sub(xs[j], xs[k])
			weight = Mul(weight, Div(numerator, denominator))
		}
		weights[j] = weight
	}

	out := make([]byte, l)
	for i := 0; i < l; i++ {
		var v byte
		for j := 0; j < t; j++ {
			v = Add(v, Mul(ys[j][i], weights[j]))
		}
		out[i] = v
	}
	return out
}
