package calibration

import "errors"

// ErrSingular is returned when the affine fit or hand-eye system is
// singular. The caller must leave its prior matrix triple unchanged.
var ErrSingular = errors.New("calibration: singular system")

// ErrInsufficientSamples is returned when fewer than 4 paired samples
// are supplied.
var ErrInsufficientSamples = errors.New("calibration: need at least 4 paired samples")
