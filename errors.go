package birch

import "errors"

// Error kinds returned by the batch. Call sites wrap these with context, so
// match them with errors.Is.
//
// Allocation failure while growing the item store or slice table is not an
// error value: the Go runtime aborts the program, as it does for any other
// out-of-memory condition.
var (
	// ErrInvalidState reports a Begin/Draw/End sequencing violation.
	ErrInvalidState = errors.New("birch: invalid state")

	// ErrInvalidArgument reports a missing texture or a malformed rectangle.
	ErrInvalidArgument = errors.New("birch: invalid argument")

	// ErrUnsupportedTexture reports a texture the backend cannot bind, such as
	// one created for another device or in a format it cannot sample.
	ErrUnsupportedTexture = errors.New("birch: unsupported texture")
)
