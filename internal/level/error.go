package level

import (
	"errors"
	"fmt"
)

type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}

var (
	ErrGenerationFailed = errors.New("level generation failed")
	ErrMalformedAttempt = errors.New("no room left for player or exit")
	ErrUnsolvable       = errors.New("level is not solvable")
)

// GenerationError is returned when the attempt budget runs out or the
// context is done before a solvable level was found.
type GenerationError struct {
	Params   Params
	Attempts int
	Last     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf(
		"could not generate %s level after %d attempts: %v",
		e.Params, e.Attempts, e.Last,
	)
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

func (e *GenerationError) Unwrap() error {
	return e.Last
}
