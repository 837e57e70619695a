package pipeline

import "errors"

// Pipeline errors.
var (
	ErrNoValidInput = errors.New("no valid audio buffers to stitch")
	ErrStitchFailed = errors.New("audio stitch failed")
)
