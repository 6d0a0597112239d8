package camera

import "errors"

var (
	// ErrInvalidProjection reports projection parameters outside
	// 0 < near < far, 0 < fov < 180 and aspect > 0.
	ErrInvalidProjection = errors.New("invalid projection parameters")

	// ErrDegenerateView reports a look-at with target equal to eye.
	ErrDegenerateView = errors.New("camera target coincides with camera position")

	// ErrParallelUp reports an up vector parallel to the viewing direction.
	ErrParallelUp = errors.New("up vector is parallel to the viewing direction")

	// ErrNonFinite reports a NaN or infinite pose component or input delta.
	ErrNonFinite = errors.New("non-finite camera value")
)
