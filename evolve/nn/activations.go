package nn

import "math"

// Sigmoid is the logistic function 1 / (1 + e^-x). Both layers use it.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// sigmoidCell adapts Sigmoid to the matrix cell mapper signature.
func sigmoidCell(v float64, _, _ int) float64 {
	return Sigmoid(v)
}
