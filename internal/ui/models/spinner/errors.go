package spinner

import "errors"

// ErrInterrupted is reported when the user presses ctrl+c while waiting
var ErrInterrupted = errors.New("interrupted")
