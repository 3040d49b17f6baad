// Package threshold computes the minimum anchor length above which a
// match is statistically unlikely to occur by chance, following the
// shustring (shortest unique substring) distribution of Haubold,
// Pfaffelhuber & Wiehe (2009).
package threshold

import (
	"math"
	"math/big"
)

// DefaultPValue is the significance level used when the caller does
// not request an explicit minimum anchor length.
const DefaultPValue = 0.05

// maxExactX bounds the search for the minimum anchor length. The CDF
// is monotone increasing in x and saturates to 1 well before this in
// any realistic reference, so runaway loops are a programming error,
// not a scenario that needs graceful handling.
const maxExactX = 4096

// MinAnchorLength returns the smallest x such that the shustring CDF
// P(X <= x | g, l) >= 1-p, starting the search at x=1. g is the
// half-GC-content of the reference (GC/2), l is the reference length,
// and p is the significance level (smaller p demands longer anchors).
//
// If minLength is positive it is returned unchanged: an explicit
// user-supplied threshold always overrides the computed one.
func MinAnchorLength(minLength int, p, g float64, refLen int) int32 {
	if minLength > 0 {
		return int32(minLength)
	}
	target := 1 - p
	for x := 1; x <= maxExactX; x++ {
		if shuprop(x, g, refLen) >= target {
			return int32(x)
		}
	}
	return maxExactX
}

// shuprop evaluates the shustring CDF P(X <= x | g, l):
//
//	Σ_{k=0..x} 2^x · g^k · (½−g)^(x−k) · (1 − g^k·(½−g)^(x−k))^l · C(x,k)
//
// clamped to 1. g is the half-GC-content match probability; the
// outer significance level p only enters through the caller's target
// 1-p, never the CDF itself (Haubold et al. 2009).
func shuprop(x int, g float64, l int) float64 {
	halfMinusG := 0.5 - g
	pow2x := math.Pow(2, float64(x))
	var sum float64
	for k := 0; k <= x; k++ {
		t := math.Pow(g, float64(k)) * math.Pow(halfMinusG, float64(x-k))
		inner := 1 - t
		var powered float64
		if inner <= 0 {
			powered = 0
		} else {
			logPowered := float64(l) * math.Log(inner)
			if logPowered < -745 { // math.Exp underflows below this
				powered = 0
			} else {
				powered = math.Exp(logPowered)
			}
		}
		sum += binomialFloat(x, k) * pow2x * t * powered
		if sum >= 1 {
			return 1
		}
	}
	if sum > 1 {
		return 1
	}
	return sum
}

// binomialFloat computes C(n, k) as an exact big.Int and converts to
// float64. x stays small (the CDF converges in practice within a few
// dozen iterations) so exact integer arithmetic never overflows the
// conversion and avoids the accumulated rounding error of an
// iterative floating-point product.
func binomialFloat(n, k int) float64 {
	c := binomial(n, k)
	f, _ := new(big.Float).SetInt(c).Float64()
	return f
}

func binomial(n, k int) *big.Int {
	if k < 0 || k > n {
		return big.NewInt(0)
	}
	if k > n-k {
		k = n - k
	}
	result := big.NewInt(1)
	for i := 0; i < k; i++ {
		result.Mul(result, big.NewInt(int64(n-i)))
		result.Div(result, big.NewInt(int64(i+1)))
	}
	return result
}
