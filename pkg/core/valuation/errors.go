package valuation

import "errors"

var (
	// ErrInvalidAssumptions is returned when WACC does not exceed terminal
	// growth, or an assumption rate lies outside [0, 1]. Terminal-value math
	// is undefined in that region and must never produce a finite number.
	ErrInvalidAssumptions = errors.New("invalid assumptions")

	// ErrEmptySeries is returned when the attributed revenue series has zero
	// periods.
	ErrEmptySeries = errors.New("empty revenue series")

	// ErrParameterOutOfRange is returned when a method-specific rate (royalty,
	// margin, contribution, score) lies outside [0, 1]. Values are never
	// silently clamped; that would mask caller errors.
	ErrParameterOutOfRange = errors.New("parameter out of range")
)
