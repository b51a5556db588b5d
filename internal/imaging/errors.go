package imaging

import "fmt"

// ImageReadError reports that the input could not be read or decoded as an image.
// It is terminal for the sheet being processed; nothing retries it.
type ImageReadError struct {
	// Source is the file path, or a caller-supplied label for in-memory input.
	Source string
	Err    error
}

func (e *ImageReadError) Error() string {
	return fmt.Sprintf("failed to read image %s: %v", e.Source, e.Err)
}

func (e *ImageReadError) Unwrap() error { return e.Err }
