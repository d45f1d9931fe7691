package scene

import (
	"errors"
	"fmt"
)

var (
	// ErrNilObject indicates a nil object passed to a collection.
	ErrNilObject = errors.New("scene: nil object")

	// ErrDuplicateID indicates an id already used by another member.
	ErrDuplicateID = errors.New("scene: duplicate object id")
)

// DuplicateIDError names the id that collided.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("scene: object id %q already in collection", e.ID)
}

func (e *DuplicateIDError) Unwrap() error {
	return ErrDuplicateID
}
