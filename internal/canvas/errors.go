package canvas

import "errors"

var (
	// ErrNoImage is returned when LoadImage is given nothing to load.
	ErrNoImage = errors.New("no image")
	// ErrEngine wraps failures of the vision engine during loading.
	ErrEngine = errors.New("vision engine failed")
	// ErrCanceled is returned when the load context ends before the new
	// image is installed.
	ErrCanceled = errors.New("load canceled")
)
