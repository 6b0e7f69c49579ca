package stego

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned for a bit configuration that sums to zero
	// or has a channel outside 0-8.
	ErrInvalidConfig = errors.New("invalid bit configuration")

	// ErrEmptyImage is returned when there are no pixels to operate on.
	ErrEmptyImage = errors.New("image has no pixels")

	// ErrCharacterOverflow matches any *CharacterOverflowError via errors.Is.
	ErrCharacterOverflow = errors.New("character overflow")

	// ErrMessageContainsTerminator is returned when the payload already
	// contains the terminator marker.
	ErrMessageContainsTerminator = errors.New("message contains the terminator")

	// ErrNonASCII is returned when the payload has a byte outside 0-127.
	ErrNonASCII = errors.New("message is not ascii")

	// ErrInvalidOrder is returned when an Order is longer than the grid or
	// names a pixel outside it.
	ErrInvalidOrder = errors.New("pixel order does not fit the grid")

	// ErrCapacityExceeded is returned by Embed when the bitstream needs more
	// slots than the walk provides. Hide rules this out with CheckCapacity.
	ErrCapacityExceeded = errors.New("bitstream exceeds embedding capacity")

	// ErrNotFound is returned when one extraction attempt does not produce a
	// terminator-closed ASCII message.
	ErrNotFound = errors.New("no message found")

	// ErrNoMessageFound is returned when every brute force candidate failed.
	ErrNoMessageFound = errors.New("no embedded message found")
)

// CharacterOverflowError reports a message that is N characters longer than
// the image can hold.
type CharacterOverflowError struct {
	N int
}

func (e *CharacterOverflowError) Error() string {
	return fmt.Sprintf("character overflow: %d", e.N)
}

// Is lets errors.Is(err, ErrCharacterOverflow) match regardless of N.
func (e *CharacterOverflowError) Is(target error) bool {
	return target == ErrCharacterOverflow
}
