// Package analysis screens recorded chamber pressure traces for combustion
// oscillations. A healthy motor burns with a smooth pressure curve; chuffing
// and L* instability show up as a strong narrow-band component riding on it.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/felipebogaertsm/rocket-solver/internal/srm"
)

// FFT computes the discrete Fourier transform of a power-of-two length
// series with the radix-2 Cooley-Tukey recursion.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}
	if n%2 != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum returns the one-sided magnitude spectrum of the series after
// removing its mean, zero-padded to the next power of two. Index i maps to
// frequency i/(n*dt) where n is the padded length.
func PowerSpectrum(data []float64) []float64 {
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	if len(data) > 0 {
		mean /= float64(len(data))
	}

	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	fft := FFT(padded)
	ps := make([]float64, len(fft)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}
	return ps
}

// Oscillation summarizes the dominant pressure oscillation over a burn.
type Oscillation struct {
	Frequency    float64 // [Hz]
	MeanPressure float64 // [Pa]
	Amplitude    float64 // peak deviation from the mean [Pa]
	Ratio        float64 // Amplitude / MeanPressure
}

// Rough instability screen. Published motor test guidance treats sustained
// oscillations above a few percent of mean chamber pressure as actionable.
const unstableRatio = 0.05

func (o Oscillation) Unstable() bool {
	return o.Ratio > unstableRatio
}

// AnalyzePressure extracts the dominant oscillation from a pressure trace
// sampled at fixed dt. The trace is detrended linearly first, so the slow
// progressive or regressive pressure ramp of a normal burn does not read as
// oscillation. Callers should pass the burn portion of the trace.
func AnalyzePressure(pressure []float64, dt float64) (Oscillation, error) {
	if len(pressure) < 4 {
		return Oscillation{}, srm.Configf("analysis.pressure", "need at least 4 samples, got %d", len(pressure))
	}
	if dt <= 0 {
		return Oscillation{}, srm.Configf("analysis.dt", "must be positive, got %g", dt)
	}

	mean := 0.0
	for _, p := range pressure {
		mean += p
	}
	mean /= float64(len(pressure))

	residual, amp := detrend(pressure)

	ps := PowerSpectrum(residual)
	n := 1
	for n < len(pressure) {
		n *= 2
	}

	maxIdx := 0
	maxPow := 0.0
	for i := 1; i < len(ps); i++ { // skip DC
		if ps[i] > maxPow {
			maxPow = ps[i]
			maxIdx = i
		}
	}

	osc := Oscillation{
		Frequency:    float64(maxIdx) / (float64(n) * dt),
		MeanPressure: mean,
		Amplitude:    amp,
	}
	if mean > 0 {
		osc.Ratio = amp / mean
	}
	return osc, nil
}

// detrend removes the least-squares line from the series and returns the
// residual together with its peak magnitude.
func detrend(data []float64) ([]float64, float64) {
	n := float64(len(data))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range data {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	slope := 0.0
	if denom != 0 {
		slope = (n*sumXY - sumX*sumY) / denom
	}
	intercept := (sumY - slope*sumX) / n

	residual := make([]float64, len(data))
	peak := 0.0
	for i, y := range data {
		r := y - (intercept + slope*float64(i))
		residual[i] = r
		if d := math.Abs(r); d > peak {
			peak = d
		}
	}
	return residual, peak
}

// BurnWindow returns the index range [lo, hi) of the trace where pressure
// exceeds the given floor, typically ambient with a small margin. Analysis
// over the full series would dilute the burn with the long coast tail.
func BurnWindow(pressure []float64, floor float64) (lo, hi int) {
	lo, hi = 0, 0
	for i, p := range pressure {
		if p > floor {
			if hi == 0 {
				lo = i
			}
			hi = i + 1
		}
	}
	if hi == 0 {
		return 0, 0
	}
	return lo, hi
}
