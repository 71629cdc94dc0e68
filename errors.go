package skinbrief

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSkin is returned when an operation needs a loaded skin and the
	// session is still empty.
	ErrNoSkin = errors.New("skinbrief: no skin loaded")
	// ErrSuperseded is returned when an upload completes after a newer one
	// has already been started.
	ErrSuperseded = errors.New("skinbrief: upload superseded by a newer one")
)

// DecodeError reports input that is not a readable image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("skinbrief: decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SizeMismatch is a non-fatal warning carrying the dimensions of an image
// that is not 64x64 or 64x32.
type SizeMismatch struct {
	Width, Height int
}

func (e *SizeMismatch) Error() string {
	return fmt.Sprintf("skinbrief: incorrect size (%dx%d), expected 64x64 or 64x32", e.Width, e.Height)
}

// AssetLoadError reports an overlay asset that could not be retrieved.
type AssetLoadError struct {
	Location string
	Err      error
}

func (e *AssetLoadError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("skinbrief: load overlay: %v", e.Err)
	}
	return fmt.Sprintf("skinbrief: load overlay %s: %v", e.Location, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }

// InvalidColorInput reports a malformed manual color code.
type InvalidColorInput struct {
	Input string
}

func (e *InvalidColorInput) Error() string {
	return fmt.Sprintf("skinbrief: invalid color %q", e.Input)
}
