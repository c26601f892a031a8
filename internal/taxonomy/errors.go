package taxonomy

import "errors"

var (
	// ErrDecode is returned when a taxonomy or answer script cannot be parsed.
	ErrDecode = errors.New("cannot decode file")

	// ErrEmptyTaxonomy is returned when a taxonomy file has no dimensions.
	ErrEmptyTaxonomy = errors.New("taxonomy has no dimensions")
)
