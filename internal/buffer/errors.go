package buffer

import (
	"errors"
	"fmt"

	"github.com/smash-editor/smash/internal/types"
)

// ErrNoFilePath is returned by Save when the buffer has no path attached.
var ErrNoFilePath = errors.New("no file path specified for saving")

// OutOfBoundsError reports a position outside the buffer's content.
type OutOfBoundsError struct {
	Pos types.Position
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("position %d:%d out of bounds", e.Pos.Line, e.Pos.Col)
}

// IsOutOfBounds reports whether err is an OutOfBoundsError.
func IsOutOfBounds(err error) bool {
	var oob *OutOfBoundsError
	return errors.As(err, &oob)
}
