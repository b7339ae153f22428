// Package service provides number sources for reference identifier derivation.
package service

// NumberSource draws candidate numbers for non-sequential identifier kinds.
type NumberSource interface {
	// Draw returns a number in the inclusive range [minimum, maximum].
	Draw(minimum, maximum int) (int, error)
}
