package retained

import "math"

// BaseDPI is the DPI at which a scale factor of 1.0 applies.
const BaseDPI = 96

func normalizeDPI(dpi int) int {
	if dpi <= 0 {
		return BaseDPI
	}
	return dpi
}

// ScaleInt converts a pixel value from one DPI to another by straight ratio,
// truncating toward zero. A DPI of 0 is treated as 96.
func ScaleInt(value, from, to int) int {
	from, to = normalizeDPI(from), normalizeDPI(to)
	return value * to / from
}

// ScaleIntRound is ScaleInt with rounding to the nearest integer.
func ScaleIntRound(value, from, to int) int {
	from, to = normalizeDPI(from), normalizeDPI(to)
	return int(math.Round(float64(value) * float64(to) / float64(from)))
}

// ScaleFloat converts a value from one DPI to another by straight ratio.
func ScaleFloat(value float64, from, to int) float64 {
	from, to = normalizeDPI(from), normalizeDPI(to)
	return value * float64(to) / float64(from)
}

// ScaleFactor returns the scale of dpi relative to BaseDPI.
func ScaleFactor(dpi int) float64 {
	return float64(normalizeDPI(dpi)) / BaseDPI
}
