package paginate

import "errors"

// ErrInvalidDimensions is returned when the image or the page has a zero or
// negative width or height.
var ErrInvalidDimensions = errors.New("invalid dimensions: width and height must be positive")
