package inspector

import (
	"fmt"
)

type AlreadyExistsError struct {
	name string
}

func NewAlreadyExistsError(name string) AlreadyExistsError {
	return AlreadyExistsError{name: name}
}

func (aee AlreadyExistsError) Error() string {
	return fmt.Sprintf("an explorable named \"%s\" already exists", aee.name)
}

type NotFoundError struct {
	name string
}

func NewNotFoundError(name string) NotFoundError {
	return NotFoundError{name: name}
}

func (nfe NotFoundError) Error() string {
	return fmt.Sprintf("no explorable named \"%s\"", nfe.name)
}
