package spatialmap

import "fmt"

// FrameNotFoundError is returned when an operation references a frame id
// that was never allocated, or a keyframe id absent from a color map.
type FrameNotFoundError struct {
	ID int64
}

// NewFrameNotFoundError returns a FrameNotFoundError for the given id.
func NewFrameNotFoundError(id int64) error {
	return &FrameNotFoundError{ID: id}
}

func (e *FrameNotFoundError) Error() string {
	return fmt.Sprintf("frame %d not found", e.ID)
}
